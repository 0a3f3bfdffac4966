package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lspinstall/internal/errors"
)

var indexJSON bool

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rescan the client modules and list the server ids",
	Long: `Scan the lsp-mode client modules again and list every registered
server id with the module declaring it.

Examples:
  lspinstall index
  lspinstall index --json`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

// indexEntry is the JSON output structure.
type indexEntry struct {
	ServerID string `json:"server_id"`
	File     string `json:"file"`
}

func runIndex(cmd *cobra.Command, _ []string) error {
	eng, err := buildEngine(cmd, nil, nil)
	if err != nil {
		return err
	}

	entries, err := eng.Rescan()
	if err != nil {
		return errors.NewSystemError(err, "Check client_files in your config")
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := cmd.OutOrStdout()
	if indexJSON {
		out := make([]indexEntry, len(ids))
		for i, id := range ids {
			out[i] = indexEntry{ServerID: id, File: entries[id]}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding index")
	}

	width := 0
	for _, id := range ids {
		width = max(width, len(id))
	}
	for _, id := range ids {
		fmt.Fprintf(w, "%-*s  %s\n", width, id, filepath.Base(entries[id]))
	}
	return nil
}
