package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fleet-dashboard/internal/config"
	"fleet-dashboard/internal/db"
	"fleet-dashboard/internal/logger"
	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/report"
)

var (
	configPath string
	dbPath     string
	cfg        *config.Config
	database   *db.Database
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fleetdash",
		Short: "Fleet Dashboard - fleet overview and paged report console",
		Long: `A CLI and API server for the fleet dashboard: vehicle overview, routes,
events and a catalog of deterministic fleet reports that can be paged,
filtered and exported to CSV or XLSX.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default fleetdash.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")

	// Add commands
	rootCmd.AddCommand(serverCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(vehiclesCmd())
	rootCmd.AddCommand(overviewCmd())
	rootCmd.AddCommand(reportsCmd())
	rootCmd.AddCommand(prefsCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and sets up logging
func loadConfig() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return logger.Init(cfg.Log)
}

// initDB initializes database connection
func initDB() error {
	var err error
	database, err = db.New(cfg.Database.Path)
	return err
}

// loadDataset opens the database, seeding the demo dataset on first use
func loadDataset() (models.Dataset, error) {
	if err := initDB(); err != nil {
		return models.Dataset{}, fmt.Errorf("database error: %w", err)
	}

	seeded, err := database.SeedIfEmpty(models.DemoDataset())
	if err != nil {
		return models.Dataset{}, fmt.Errorf("seed error: %w", err)
	}
	if seeded {
		logger.Info().Str("db", cfg.Database.Path).Msg("seeded demo dataset")
	}
	return database.LoadDataset()
}

func newCatalog(ds models.Dataset) *report.Catalog {
	return report.NewCatalog(ds.Vehicles, report.Options{SimulateLatency: cfg.Reports.SimulateLatency})
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// statsCmd shows database statistics
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			stats, err := database.GetStats()
			if err != nil {
				return fmt.Errorf("error getting stats: %w", err)
			}

			fmt.Println(titleStyle.Render("Fleet Dashboard Statistics"))
			fmt.Printf("  Vehicles:  %v\n", stats["total_vehicles"])
			fmt.Printf("  Fleets:    %v\n", stats["total_fleets"])
			fmt.Printf("  Routes:    %v\n", stats["total_routes"])
			fmt.Printf("  Events:    %v\n", stats["total_events"])
			fmt.Printf("  Database:  %s\n", cfg.Database.Path)

			return nil
		},
	}
}

// configCmd manages the configuration file
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
