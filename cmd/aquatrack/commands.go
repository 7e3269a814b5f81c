package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/aquatrack/internal/app"
	"github.com/MrSnakeDoc/aquatrack/internal/config"
	"github.com/MrSnakeDoc/aquatrack/internal/logger"
	"github.com/MrSnakeDoc/aquatrack/internal/suggest"
	"github.com/MrSnakeDoc/aquatrack/internal/version"
)

// loadConfig is swapped in tests.
var loadConfig = config.Load

var rootCmd = &cobra.Command{
	Use:           "aquatrack",
	Short:         "Aquarium maintenance tracker",
	Long:          "Tracks aquariums and tells you when to clean them and change their water.\nWithout a subcommand it runs the HTTP server.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// --- serve ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the reminder scanner",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// --- suggest ---

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print a maintenance schedule suggestion as JSON",
	Long: `Print a maintenance schedule suggestion as JSON.

Examples:
  aquatrack suggest --capacity 60 --fish-count 6-10
  aquatrack suggest --capacity 200 --fish-count 20+ --plants --provider gemini`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		capacity, _ := cmd.Flags().GetFloat64("capacity")
		fishCount, _ := cmd.Flags().GetString("fish-count")
		noFilter, _ := cmd.Flags().GetBool("no-filter")
		plants, _ := cmd.Flags().GetBool("plants")
		species, _ := cmd.Flags().GetString("species")
		providerName, _ := cmd.Flags().GetString("provider")

		if capacity <= 0 {
			return fmt.Errorf("--capacity must be greater than 0")
		}

		registry, err := app.Suggesters(loadConfig())
		if err != nil {
			return err
		}
		p, err := registry.Get(providerName)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		s, err := p.Suggest(ctx, suggest.Input{
			Capacity:    capacity,
			FishSpecies: species,
			FishCount:   fishCount,
			HasFilter:   !noFilter,
			HasPlants:   plants,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Provider string `json:"provider"`
			suggest.Suggestion
		}{Provider: p.Name(), Suggestion: s})
	},
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	suggestCmd.Flags().Float64("capacity", 0, "tank volume in liters")
	suggestCmd.Flags().String("fish-count", "1-5", "fish count bucket (1-5, 6-10, 11-20, 20+) or N, N-M, N+")
	suggestCmd.Flags().Bool("no-filter", false, "the tank has no filter")
	suggestCmd.Flags().Bool("plants", false, "the tank is planted")
	suggestCmd.Flags().String("species", "", "comma-separated fish species")
	suggestCmd.Flags().String("provider", "", "suggestion provider (local, gemini); defaults to AQUA_SUGGESTION_PROVIDER")

	rootCmd.AddCommand(serveCmd, suggestCmd, versionCmd)
}
