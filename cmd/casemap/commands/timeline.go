package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewTimelineCommand creates the timeline command
func NewTimelineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "List the dates of the loaded timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ds, err := loadDataset(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			dates := ds.Timeline.All()
			keys := make([]string, len(dates))
			for i, d := range dates {
				keys[i] = string(d)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d dates, %d records\n", len(dates), ds.Len())
			fmt.Fprintf(out, "first: %s\nlast:  %s\n", dates[0], dates[len(dates)-1])
			fmt.Fprintln(out, strings.Join(keys, " "))
			return nil
		},
	}
}
