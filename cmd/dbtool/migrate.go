package main

import (
	"delivery-analytics-service/internal/adapters/repositories"
	"fmt"

	"github.com/spf13/cobra"
)

var seedPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Initialize the schema for the configured driver",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load officers, zones and events from a JSON seed file",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedPath, "file", "data/seeds/analytics.json", "path of the JSON seed file")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if err := repositories.InitSchema(cmd.Context(), pool, cfg.Database.Driver); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	cmd.Printf("Schema ready (%s).\n", cfg.Database.Driver)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := repositories.InitSchema(cmd.Context(), pool, cfg.Database.Driver); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	n, err := repositories.SeedFromJSON(cmd.Context(), pool, cfg.Database.Driver, seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	cmd.Printf("Seeding complete: %d new events.\n", n)
	return nil
}
