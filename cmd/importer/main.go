// Package main is the one-shot bulk importer that loads a JSON file of
// pre-processed cigars into the cigars table as ownerless catalog rows.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/HumiTrack/internal/db"
	"github.com/atinyakov/HumiTrack/internal/importer"
	"github.com/atinyakov/HumiTrack/internal/logger"
	"github.com/atinyakov/HumiTrack/internal/ratelimit"
	"github.com/atinyakov/HumiTrack/internal/repository"
)

var (
	databaseDSN string
	ratePerSec  float64
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "importer [file]",
	Short: "Bulk import pre-processed cigars into the remote store",
	Long: `Read a JSON array of {brand, name, origin, strength, wrapper, price_range, image_url}
records and insert each one into the cigars table with the catalog defaults.

The importer connects to the database directly and bypasses the HTTP auth layer.
Failed rows are logged and counted; the run continues with the next record.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          func(cmd *cobra.Command, args []string) error {
		path := "processed_cigars.json"
		if len(args) == 1 {
			path = args[0]
		}
		if databaseDSN == "" {
			databaseDSN = os.Getenv("DATABASE_DSN")
		}
		if databaseDSN == "" {
			return fmt.Errorf("database DSN is required (--dsn or DATABASE_DSN)")
		}
		return run(cmd.Context(), path)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&databaseDSN, "dsn", "d", "", "database connection string")
	rootCmd.Flags().Float64Var(&ratePerSec, "rate", 10, "inserts per second")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level")
}

func run(ctx context.Context, path string) error {
	log := logger.New()
	if err := log.Init(logLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Log.Sync() }()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	records, err := importer.Decode(f)
	if err != nil {
		return err
	}

	postgresDB, err := db.InitPostgres(databaseDSN)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer postgresDB.Close()

	limiter := ratelimit.New(ratePerSec, 1, 0)
	defer limiter.Stop()

	log.Log.Info("starting import", zap.String("file", path), zap.Int("records", len(records)))
	im := importer.New(repository.NewPostgresCigarRepository(postgresDB), limiter, log.Log)
	summary, err := im.Run(ctx, records)

	fmt.Println("Import summary:")
	fmt.Printf("  succeeded: %d\n", summary.Succeeded)
	fmt.Printf("  failed:    %d\n", summary.Failed)
	fmt.Printf("  total:     %d\n", summary.Total)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
