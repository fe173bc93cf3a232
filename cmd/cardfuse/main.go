package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/searchforge/cardfuse/internal/config"
	"github.com/searchforge/cardfuse/internal/engine"
)

var (
	configPath string
	logJSON    bool
)

func main() {
	root := &cobra.Command{
		Use:           "cardfuse",
		Short:         "Rank candidate cards by fused multi-signal similarity",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var handler slog.Handler
			if logJSON {
				handler = slog.NewJSONHandler(os.Stderr, nil)
			} else {
				handler = slog.NewTextHandler(os.Stderr, nil)
			}
			slog.SetDefault(slog.New(handler))
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "cardfuse.yaml", "path to the configuration document")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit JSON logs")

	root.AddCommand(newQueryCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newSignalsCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrapEngine loads configuration and walks the engine through its
// Loaded -> Ready transition.
func bootstrapEngine() (*engine.Engine, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	eng, err := engine.Bootstrap(cfg.Bootstrap(), slog.Default())
	if err != nil {
		return nil, config.Config{}, err
	}
	return eng, cfg, nil
}
