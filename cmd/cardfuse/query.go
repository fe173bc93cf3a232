package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/searchforge/cardfuse/internal/engine"
)

func newQueryCmd() *cobra.Command {
	var (
		topK     int
		asJSON   bool
		budgetMS int
		mustHave []string
	)

	cmd := &cobra.Command{
		Use:   "query <card name>",
		Short: "Rank cards similar to the query card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := bootstrapEngine()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if budgetMS > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(budgetMS)*time.Millisecond)
				defer cancel()
			}

			res, err := eng.Query(ctx, engine.Request{
				Name:        args[0],
				TopK:        topK,
				MustInclude: mustHave,
			})
			var unresolved *engine.UnresolvedQueryError
			if errors.As(err, &unresolved) {
				// Not a silent empty list: say exactly why there are no rows.
				fmt.Fprintf(os.Stderr, "no signal data: %v\n", unresolved)
				return printResult(res, asJSON)
			}
			if err != nil {
				return err
			}
			return printResult(res, asJSON)
		},
	}

	cmd.Flags().IntVarP(&topK, "top", "k", 0, "number of results (0 = configured default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().IntVar(&budgetMS, "budget-ms", 0, "per-query budget in milliseconds")
	cmd.Flags().StringSliceVar(&mustHave, "must-include", nil, "force candidates into the scoring universe")

	return cmd
}

func printResult(res *engine.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Printf("query %q -> %q (aggregator %s)\n", res.Query, res.Resolved, res.Aggregator)
	if len(res.AbsentSignals) > 0 {
		fmt.Printf("absent signals: %v\n", res.AbsentSignals)
	}
	if len(res.NoOpinion) > 0 {
		fmt.Printf("no opinion for this query: %v\n", res.NoOpinion)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "rank\tcard\tscore\tsignals")
	for _, c := range res.Candidates {
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%d voted, %d no data\n", c.Rank, c.Key, c.Score, len(c.Signals), len(c.NoData))
	}
	return w.Flush()
}
