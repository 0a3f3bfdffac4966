package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/lspinstall/internal/errors"
)

var (
	showJSON bool
	showYAML bool
)

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showYAML, "yaml", false, "Output as YAML")
	showCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <server-id>",
	Short: "Show how a server would be installed",
	Long: `Show every step of the resolution for a server id without installing
anything: the static spec or the client registration, the resolved
executable, the documentation row and the action install would take.

Examples:
  lspinstall show pyls
  lspinstall show rust-analyzer --json
  lspinstall show gopls --yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cmd, nil, nil)
	if err != nil {
		return err
	}

	report, err := eng.Inspect(args[0])
	if err != nil {
		return installError(args[0], err)
	}

	w := cmd.OutOrStdout()
	switch {
	case showJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(report), "encoding report")
	case showYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding report")
		}
		return errors.Wrap(enc.Close(), "encoding report")
	}

	fmt.Fprint(w, formatReport(report))
	return nil
}
