package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/lspinstall/internal/client"
	"github.com/thoreinstein/lspinstall/internal/docs"
	"github.com/thoreinstein/lspinstall/internal/engine"
	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/install"
	"github.com/thoreinstein/lspinstall/internal/library"
	"github.com/thoreinstein/lspinstall/internal/logging"
	"github.com/thoreinstein/lspinstall/internal/resolve"
)

// lookPath is replaced in tests.
var lookPath func(file string) (string, error)

// buildEngine wires an engine from the loaded configuration. installer and
// confirmer may be nil for commands that never install.
func buildEngine(cmd *cobra.Command, installer install.Installer, confirmer engine.Confirmer) (*engine.Engine, error) {
	logger := logging.FromContext(cmd.Context())

	lspDir, err := cfg.ResolveLSPDir()
	if err != nil {
		return nil, err
	}
	specs, err := cfg.Specs()
	if err != nil {
		return nil, errors.NewUserError(err, "Check install_specs and specs_file in your config")
	}
	overrides, err := cfg.Overrides()
	if err != nil {
		return nil, errors.NewConfigError(err)
	}

	index := library.NewIndex(library.Options{
		BaseDir:  lspDir,
		Patterns: cfg.ClientFiles,
		Registry: cfg.Registry(),
		Status:   statusWriter(cmd),
		Logger:   logger,
	})

	return engine.New(engine.Options{
		Index:     index,
		Extractor: client.NewExtractorWithLogger(index, cfg.FallbackPath(lspDir), logger),
		Resolver:  resolve.NewResolverWithLogger(overrides, logger),
		Locator:   docs.NewLocatorWithLogger(cfg.DocPath(lspDir), logger),
		Specs:     specs,
		SkipList:  cfg.SkipExecutableCheck,
		Installer: installer,
		Confirmer: confirmer,
		LookPath:  lookPath,
		Status:    cmd.OutOrStdout(),
		Logger:    logger,
	}), nil
}
