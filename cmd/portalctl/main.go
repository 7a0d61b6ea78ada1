package main

import (
	"fmt"
	"log"
	"os"

	"apartment-portal/internal/config"
	"apartment-portal/internal/database"
	"apartment-portal/internal/notify"
	"apartment-portal/internal/scheduler"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "portalctl",
		Short: "Apartment portal admin tool",
	}

	rootCmd.PersistentFlags().StringP("config", "c", "config/portal.yaml", "path to config file")

	rootCmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		remindCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadStore(cmd *cobra.Command) (*database.Store, *config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	var store *database.Store
	switch cfg.Database.Type {
	case "postgres":
		pg := cfg.Database.Postgres
		store, err = database.NewPostgresStore(
			pg.Host, fmt.Sprintf("%d", pg.Port), pg.User, pg.Password, pg.Database, pg.SSLMode)
	default:
		store, err = database.NewSQLiteStore(cfg.Database.SQLite.Path)
	}
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := loadStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.InitSchema(); err != nil {
				return err
			}
			log.Println("Schema migrated")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate the schema and insert demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := loadStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.InitSchema(); err != nil {
				return err
			}
			if err := store.Seed(); err != nil {
				return err
			}
			log.Println("Demo data seeded")
			return nil
		},
	}
}

func remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the rent reminder once",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := loadStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			reminder := scheduler.NewRentReminder(store, notify.NewLogNotifier(), cfg)
			return reminder.RunNow()
		},
	}
}
