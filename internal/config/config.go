// Package config provides configuration management for lspinstall using Viper.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/lspinstall/internal/elisp"
	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/install"
	"github.com/thoreinstein/lspinstall/internal/library"
	"github.com/thoreinstein/lspinstall/internal/paths"
	"github.com/thoreinstein/lspinstall/internal/resolve"
)

// EnvPrefix prefixes the environment variables overriding config keys,
// e.g. LSPINSTALL_LSP_DIR.
const EnvPrefix = "LSPINSTALL"

// Default file names below the lsp-mode directory.
const (
	DefaultDocFile      = "README.org"
	DefaultFallbackFile = "lsp-clients.el"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// LSPDir is the lsp-mode checkout. Discovered when empty.
	LSPDir string `mapstructure:"lsp_dir" yaml:"lsp_dir,omitempty"`

	// ClientFiles are doublestar globs, relative to LSPDir, of the modules
	// registering clients.
	ClientFiles []string `mapstructure:"client_files" yaml:"client_files"`

	// ClientGroups are extra modules located by name on LoadPath.
	ClientGroups []string `mapstructure:"client_groups" yaml:"client_groups,omitempty"`
	LoadPath     []string `mapstructure:"load_path" yaml:"load_path,omitempty"`

	// FallbackFile is searched for server ids missing from the index.
	// Relative paths are below LSPDir.
	FallbackFile string `mapstructure:"fallback_file" yaml:"fallback_file"`

	// DocFile holds the "Supported languages" table. Relative paths are
	// below LSPDir.
	DocFile string `mapstructure:"doc_file" yaml:"doc_file"`

	// SkipExecutableCheck lists server ids whose executable is never
	// resolved.
	SkipExecutableCheck []string `mapstructure:"skip_executable_check" yaml:"skip_executable_check,omitempty"`

	// InstallSpecs map server ids to static install specs. They take
	// precedence over SpecsFile.
	InstallSpecs map[string]any `mapstructure:"install_specs" yaml:"install_specs,omitempty"`
	SpecsFile    string         `mapstructure:"specs_file" yaml:"specs_file,omitempty"`

	// Variables override the values of Lisp variables during resolution.
	Variables map[string]any `mapstructure:"variables" yaml:"variables,omitempty"`

	NpmClient string `mapstructure:"npm_client" yaml:"npm_client"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("lsp_dir", "")
	viper.SetDefault("client_files", library.DefaultPatterns)
	viper.SetDefault("fallback_file", DefaultFallbackFile)
	viper.SetDefault("doc_file", DefaultDocFile)
	viper.SetDefault("npm_client", "npm")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// the defaults when no file exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file uses the defaults.
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:      1,
		ClientFiles:  append([]string(nil), library.DefaultPatterns...),
		FallbackFile: DefaultFallbackFile,
		DocFile:      DefaultDocFile,
		NpmClient:    "npm",
	}
}

// ResolveLSPDir returns LSPDir, discovering the lsp-mode checkout when it
// is not set.
func (c *Config) ResolveLSPDir() (string, error) {
	if c.LSPDir != "" {
		return expandHome(c.LSPDir), nil
	}
	dir, err := paths.DiscoverLSPDir()
	if err != nil {
		return "", errors.NewConfigError(err)
	}
	return dir, nil
}

// DocPath returns the documentation file below lspDir.
func (c *Config) DocPath(lspDir string) string {
	return below(lspDir, c.DocFile)
}

// FallbackPath returns the fallback module below lspDir, or "" when none is
// configured.
func (c *Config) FallbackPath(lspDir string) string {
	if c.FallbackFile == "" {
		return ""
	}
	return below(lspDir, c.FallbackFile)
}

// Specs returns the static install specs of SpecsFile merged with
// InstallSpecs.
func (c *Config) Specs() (install.Specs, error) {
	specs := install.Specs{}
	if c.SpecsFile != "" {
		fromFile, err := install.LoadSpecsFile(expandHome(c.SpecsFile))
		if err != nil {
			return nil, err
		}
		specs = fromFile
	}
	return specs.Merge(install.Specs(c.InstallSpecs)), nil
}

// Overrides converts Variables to Lisp values.
func (c *Config) Overrides() (map[string]elisp.Node, error) {
	overrides, err := resolve.ValuesOf(c.Variables)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "variables"), errors.ErrInvalidConfig)
	}
	return overrides, nil
}

// Registry returns the group registry of ClientGroups, or nil when there
// are none.
func (c *Config) Registry() library.GroupRegistry {
	if len(c.ClientGroups) == 0 {
		return nil
	}
	loadPath := make([]string, len(c.LoadPath))
	for i, p := range c.LoadPath {
		loadPath[i] = expandHome(p)
	}
	return library.NewLoadPathRegistry(c.ClientGroups, loadPath)
}

func below(dir, file string) string {
	file = expandHome(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

func expandHome(p string) string {
	if len(p) >= 2 && p[:2] == "~/" {
		if home := paths.Home(); home != "" {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
