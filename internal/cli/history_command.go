package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"heightmap-converter/internal/config"
	"heightmap-converter/internal/history"
)

var errNoHistory = errors.New("history is disabled; set history_db in the config file")

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int
	var jobID string
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded conversion jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.HistoryDB) == "" {
				return errNoHistory
			}
			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if id := strings.TrimSpace(jobID); id != "" {
				events, err := store.Events(id)
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(out, events)
				}
				if len(events) == 0 {
					fmt.Fprintf(out, "no events recorded for job %s\n", id)
					return nil
				}
				for _, e := range events {
					fmt.Fprintf(out, "%d  %s  %-18s  #%d %s %s\n", e.Seq, e.Timestamp.Local().Format(time.DateTime), e.Type, e.Index, e.Path, e.Message)
				}
				return nil
			}

			recs, err := store.Recent(limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(out, recs)
			}
			if len(recs) == 0 {
				fmt.Fprintln(out, "no jobs recorded")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "JOB\tCREATED\tMODE\tSTATUS\tINPUTS\tEXPORTED\tFAILED\tFORMATS")
			for _, r := range recs {
				mode := "single"
				if r.Batch {
					mode = "batch"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime), mode, r.Status, r.Inputs, r.Exported, r.Failed, r.Formats)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of jobs to show")
	cmd.Flags().StringVar(&jobID, "job", "", "show the events of one job")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON output")
	return cmd
}
