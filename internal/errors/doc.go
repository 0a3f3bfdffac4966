// Package errors provides error handling conventions for the lspinstall CLI.
//
// The package re-exports the constructors of github.com/cockroachdb/errors
// so that every error carries a stack trace, and defines the error kinds
// used by the resolution engine.
//
// # Error Kinds
//
// Kinds are attached with [Mark] and tested with [Is]:
//
//	err = errors.Mark(errors.Wrapf(cause, "evaluating %s", name), errors.ErrResolution)
//	if errors.Is(err, errors.ErrResolution) {
//	    // fall back to the configuration group link
//	}
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. The root command unwraps it to choose the process exit code:
//
//	err := errors.NewUserError(errors.ErrNoInformation, "Did you mean: pyls")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
