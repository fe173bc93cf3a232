package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	var showReport bool

	cmd := &cobra.Command{
		Use:   "resolve <raw name>",
		Short: "Show how a raw name resolves and whether any signal covers it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := bootstrapEngine()
			if err != nil {
				return err
			}

			resolver := eng.Resolver()
			key := resolver.Resolve(args[0])
			fmt.Printf("raw:      %q\n", args[0])
			fmt.Printf("resolved: %q\n", key)
			fmt.Printf("covered:  %v\n", resolver.Covered(key))

			if showReport {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(resolver.Report())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showReport, "report", false, "also dump the alias build report (uncovered labels, maybe-band pairs)")
	return cmd
}

func newSignalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signals",
		Short: "List loaded signals and vocabulary sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := bootstrapEngine()
			if err != nil {
				return err
			}

			cat := eng.Catalog()
			for _, name := range cat.Active() {
				src, _ := cat.Get(name)
				fmt.Printf("%-18s active  vocab=%d\n", name, len(src.Vocabulary()))
			}
			for name, loadErr := range cat.Absent() {
				fmt.Printf("%-18s absent  reason=%v\n", name, loadErr)
			}
			return nil
		},
	}
}
