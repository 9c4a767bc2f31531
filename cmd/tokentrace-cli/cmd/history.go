package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tokentrace/internal/application/commands"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:         "history",
	Short:       "Show recent searches",
	Annotations: map[string]string{"document": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		history, err := openHistory()
		if err != nil {
			return err
		}
		defer history.Close()

		runs, err := commands.NewListHistoryCommand(history, historyLimit).Execute(ctx)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No searches recorded")
			return nil
		}

		for _, r := range runs {
			scope := "all pages"
			if r.PageID != "" {
				scope = "page " + r.PageID
			}
			mode := "instances"
			if !r.InstancesOnly {
				mode = "all nodes"
			}
			status := ""
			if r.Cancelled {
				status = " [cancelled]"
			}
			fmt.Printf("%s  %s  %s, %s, %d matches in %s%s\n",
				r.StartedAt.Local().Format(time.DateTime), shortID(r.ID), scope, mode,
				r.TotalMatches(), r.Duration.Round(time.Millisecond), status)
			for _, v := range r.Variables {
				fmt.Printf("    %s (%s): %d\n", v.VariableName, v.VariableID, v.Matches)
			}
		}
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", commands.DefaultHistoryLimit, "number of searches to show")

	rootCmd.AddCommand(historyCmd)
}
