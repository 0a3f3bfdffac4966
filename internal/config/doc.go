// Package config provides configuration management for the lspinstall CLI.
//
// # Configuration File
//
// The configuration file is config.yaml in the current directory or in
// ~/.config/lspinstall. Every key can also be set through an environment
// variable prefixed with LSPINSTALL_, e.g. LSPINSTALL_LSP_DIR.
//
//	version: 1
//	lsp_dir: ~/.emacs.d/elpa/lsp-mode-20240101.1200   # discovered when unset
//	client_files:
//	  - clients/lsp-*.el
//	  - lsp-*.el
//	client_groups: [lsp-haskell]                        # located on load_path
//	load_path: [~/.emacs.d/elpa/lsp-haskell-20231201.1000]
//	fallback_file: lsp-clients.el
//	doc_file: README.org
//	skip_executable_check: [jdtls]
//	install_specs:
//	  gopls:
//	    function: {name: go-install, args: [golang.org/x/tools/gopls]}
//	  ts-ls: '(npm "typescript" "typescript-language-server")'
//	specs_file: ~/.config/lspinstall/specs.toml          # YAML or TOML
//	variables:
//	  lsp-clients-python-command: [pylsp]
//	npm_client: pnpm
//
// Viper lower-cases map keys. Lookups of server ids and variable names try
// the exact name first and then its lower-case form, so keys written in
// install_specs and variables match whatever their case; specs_file keeps
// their case.
//
// # Validation
//
// [Validate] returns every problem found, each marked with
// errors.ErrInvalidConfig:
//
//	if errs := config.Validate(cfg); len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	}
package config
