package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lspinstall/internal/docs"
	"github.com/thoreinstein/lspinstall/internal/doctor"
	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/library"
	"github.com/thoreinstein/lspinstall/internal/logging"
)

var (
	doctorJSON bool
	doctorAll  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show passed checks too")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "all")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Check that servers can be resolved on this machine: the lsp-mode
checkout, the client index, the "Supported languages" table, the static
install specs and the npm client.

Exit codes:
  0 - No errors (warnings are reported)
  1 - Errors present`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	logger := logging.FromContext(cmd.Context())

	lspDir, dirErr := cfg.ResolveLSPDir()
	runner := doctor.NewRunner(doctor.NewLSPDirCheck(lspDir, dirErr))
	if dirErr == nil {
		runner.AddCheck(doctor.NewClientIndexCheck(library.NewIndex(library.Options{
			BaseDir:  lspDir,
			Patterns: cfg.ClientFiles,
			Registry: cfg.Registry(),
			Logger:   logger,
		})))
		runner.AddCheck(doctor.NewDocTableCheck(docs.NewLocatorWithLogger(cfg.DocPath(lspDir), logger)))
	}

	specs, err := cfg.Specs()
	if err != nil {
		return errors.NewUserError(err, "Check specs_file in your config")
	}
	runner.AddCheck(doctor.NewSpecsCheck(specs))
	runner.AddCheck(doctor.NewNpmClientCheck(cfg.NpmClient, lookPath))

	report := runner.Run()

	w := cmd.OutOrStdout()
	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	} else {
		outputDoctorText(w, report)
	}

	if report.HasErrors() {
		return errors.NewUserError(errDoctorErrors, "Fix the errors reported above")
	}
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report) {
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !doctorAll && !problem {
			continue
		}

		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}

// errDoctorErrors is returned when any check failed.
var errDoctorErrors = errors.New("doctor found errors")
