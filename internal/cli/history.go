package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jroosing/hydradig/internal/history"
)

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var limit int
	var asJSON bool

	c := &cobra.Command{
		Use:   "history",
		Short: "List recent lookups from the history store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup(flags)
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in the configuration")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "no lookups recorded yet")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tDOMAIN\tTYPES\tFOUND")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n",
					e.ID,
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					e.Domain,
					strings.Join(e.RecordTypes, ","),
					e.Found,
				)
			}
			return w.Flush()
		},
	}

	c.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	c.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return c
}
