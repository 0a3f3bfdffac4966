package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/install"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidNpmClient indicates an unsupported npm_client value.
	ErrInvalidNpmClient = errors.New("invalid npm client")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNoClientFiles indicates neither client_files nor client_groups is set.
	ErrNoClientFiles = errors.New("client_files or client_groups must be set")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors. Every returned
// error is marked with errors.ErrInvalidConfig.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.Mark(errors.New("config is nil"), errors.ErrInvalidConfig)}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.NpmClient != "" && !slices.Contains(install.NpmClients, cfg.NpmClient) {
		errs = append(errs, &FieldError{
			Field: "npm_client",
			Value: cfg.NpmClient,
			Err:   ErrInvalidNpmClient,
		})
	}

	if len(cfg.ClientFiles) == 0 && len(cfg.ClientGroups) == 0 {
		errs = append(errs, ErrNoClientFiles)
	}

	pathFields := []struct {
		name  string
		value string
	}{
		{"lsp_dir", cfg.LSPDir},
		{"fallback_file", cfg.FallbackFile},
		{"doc_file", cfg.DocFile},
		{"specs_file", cfg.SpecsFile},
	}
	for _, f := range pathFields {
		if err := validatePath(f.value); err != nil {
			errs = append(errs, &FieldError{Field: f.name, Value: f.value, Err: err})
		}
	}
	for _, p := range cfg.LoadPath {
		if err := validatePath(p); err != nil || p == "" {
			errs = append(errs, &FieldError{Field: "load_path", Value: p, Err: ErrInvalidPath})
		}
	}

	for id := range cfg.InstallSpecs {
		if _, _, err := install.Specs(cfg.InstallSpecs).Lookup(id); err != nil {
			errs = append(errs, &FieldError{Field: "install_specs", Value: id, Err: err})
		}
	}

	if _, err := cfg.Overrides(); err != nil {
		errs = append(errs, err)
	}

	for i, err := range errs {
		errs[i] = errors.Mark(err, errors.ErrInvalidConfig)
	}
	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError represents an error for a specific configuration field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
