package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lspinstall/internal/cli/prompt"
	"github.com/thoreinstein/lspinstall/internal/engine"
	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/install"
	"github.com/thoreinstein/lspinstall/internal/logging"
)

var (
	installYes    bool
	installDryRun bool
)

// newSelector and newConfirmer are replaced in tests.
var (
	newSelector  = prompt.NewSelector
	newConfirmer = func(cmd *cobra.Command, assumeYes bool) engine.Confirmer {
		return prompt.NewConfirmerWithIO(cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes)
	}
)

func init() {
	installCmd.Flags().BoolVarP(&installYes, "yes", "y", false,
		"answer yes to every confirmation")
	installCmd.Flags().BoolVarP(&installDryRun, "dry-run", "n", false,
		"print the install commands instead of running them")
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install [server-id...]",
	Short: "Install the executable of one or more clients",
	Long: `Install the executable needed by each lsp-mode client.

Every action is confirmed before it runs. Without arguments the server id is
picked interactively from the indexed clients and the configured install
specs.

Examples:
  lspinstall install pyls
  lspinstall install ts-ls rust-analyzer --yes
  lspinstall install gopls --dry-run`,
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())

	installer := install.NewSystemInstaller(install.SystemOptions{
		NpmClient: cfg.NpmClient,
		DryRun:    installDryRun,
		Stdin:     cmd.InOrStdin(),
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
		Logger:    logger,
	})

	eng, err := buildEngine(cmd, installer, newConfirmer(cmd, installYes))
	if err != nil {
		return err
	}

	ids := args
	if len(ids) == 0 {
		id, err := selectServer(eng)
		if err != nil {
			return err
		}
		ids = []string{id}
	}

	for _, id := range ids {
		out, err := eng.Install(cmd.Context(), id)
		if err != nil {
			return installError(id, err)
		}
		printOutcome(cmd, out)
	}
	return nil
}

func selectServer(eng *engine.Engine) (string, error) {
	ids, err := eng.ServerIDs()
	if err != nil {
		return "", err
	}
	id, err := newSelector().SelectServer(ids, func(id string) string {
		r, err := eng.Inspect(id)
		if err != nil {
			return err.Error()
		}
		return formatReport(r)
	})
	if err != nil {
		if errors.Is(err, prompt.ErrSelectionCancelled) {
			return "", errors.NewUserError(err, "Pass a server id to install it directly")
		}
		if errors.Is(err, prompt.ErrNoServers) {
			return "", errors.NewConfigError(err)
		}
		return "", err
	}
	return id, nil
}

func installError(id string, err error) error {
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	switch {
	case engine.IsNoInformation(err):
		return errors.NewUserError(err, "Add an install spec for "+id+" to install_specs in your config")
	case errors.Is(err, errors.ErrUnsupportedSpec):
		return errors.NewUserError(err, "Use (npm ...), (function ...), (shell ...) or (error ...) in install_specs")
	}
	return errors.NewSystemError(err, "Run with -v for details")
}

func printOutcome(cmd *cobra.Command, out *engine.Outcome) {
	w := cmd.OutOrStdout()
	switch out.Kind {
	case engine.OutcomeInstalled:
		if !quiet && !installDryRun {
			fmt.Fprintf(w, "Installed %s with: %s\n", out.ServerID, out.Instruction)
		}
	case engine.OutcomeBrowsed:
		if !quiet {
			fmt.Fprintf(w, "Opened %s\n", out.URL)
		}
	case engine.OutcomeDeclined:
		fmt.Fprintf(w, "Skipped %s\n", out.ServerID)
	}
}

// formatReport renders a report as aligned key: value lines.
func formatReport(r *engine.Report) string {
	var sb strings.Builder
	line := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "%-16s %s\n", key+":", value)
		}
	}
	line("Server", r.ServerID)
	line("Spec", r.Spec)
	line("File", r.File)
	line("Connection", r.Connection)
	line("Command", r.Command)
	line("Group", r.Group)
	line("Links", strings.Join(r.Links, ", "))
	if r.Skipped {
		line("Executable", "(check skipped)")
	}
	line("Executable", r.Executable)
	line("Resolve error", r.ResolveError)
	line("Installed at", r.InstalledAt)
	line("Install command", r.InstallCommand)
	line("Lookup error", r.LookupError)
	line("Instruction", r.Instruction)
	line("Action", r.Action)
	line("Error", r.Error)
	if r.Suggestion != "" {
		line("Did you mean", r.Suggestion)
	}
	return sb.String()
}
