package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quiltlang/quilt/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded build passes",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest()
		if err != nil {
			return err
		}
		store, err := history.Open(m.Dir)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no build history")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSESSION\tPASS\tUNITS\tHOSTS\tGUESTS\tDIAGS")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%.8s\t%d\t%d\t%d\t%d\t%d\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.SessionID, r.Pass, r.UnitsBuilt, r.HostsMerged, r.GuestsCaptured, r.Diagnostics)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of passes to show")
}
