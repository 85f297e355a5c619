package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"foodcart-service/internal/adapters/cache"
	"foodcart-service/internal/adapters/geocoder"
	"foodcart-service/internal/adapters/repositories"
	"foodcart-service/internal/config"
	"foodcart-service/internal/platform/db"
	"foodcart-service/internal/services"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dbtool",
		Short:        "Maintenance commands for the foodcart database and geocoder",
		SilenceUsage: true,
	}

	root.AddCommand(newInitCmd(), newSeedCmd(), newGeocodeCmd(), newDistanceCmd())
	return root
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create tables and indexes if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, sqlDB, err := openDB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			log.Println("Initializing database schema...")
			if err := repositories.InitSchema(cmd.Context(), sqlDB, cfg.DBDriver); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			log.Println("Schema ready.")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Initialize the schema and load the catalog seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, sqlDB, err := openDB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if seedPath == "" {
				seedPath = cfg.SeedPath
			}

			if err := repositories.InitSchema(cmd.Context(), sqlDB, cfg.DBDriver); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}

			log.Printf("Seeding database path=%s", seedPath)
			if err := repositories.SeedFromJSON(cmd.Context(), sqlDB, seedPath); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			log.Println("Seeding complete.")
			return nil
		},
	}

	cmd.Flags().StringVar(&seedPath, "file", "", "seed JSON file (defaults to SEED_PATH)")
	return cmd
}

func newGeocodeCmd() *cobra.Command {
	var useCache bool

	cmd := &cobra.Command{
		Use:   "geocode <address>",
		Short: "Resolve an address to coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, g, err := openGeocoder()
			if err != nil {
				return err
			}

			if !useCache {
				coords, found, err := g.Geocode(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printCoordinates(cmd, args[0], coords.String(), found)
			}

			// With --cache the lookup goes through the address cache and
			// stores new results, as the server does.
			sqlDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := repositories.InitSchema(cmd.Context(), sqlDB, cfg.DBDriver); err != nil {
				return err
			}

			locations := cache.NewSQLLocationCache(sqlDB)
			known, err := locations.List(cmd.Context())
			if err != nil {
				return err
			}

			resolver, err := services.NewResolver(g, locations)
			if err != nil {
				return err
			}

			coords, found, err := resolver.Resolve(cmd.Context(), args[0], known)
			if err != nil {
				return err
			}
			return printCoordinates(cmd, args[0], coords.String(), found)
		},
	}

	cmd.Flags().BoolVar(&useCache, "cache", false, "read and populate the SQL address cache")
	return cmd
}

func newDistanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distance <from> <to>",
		Short: "Geodesic distance in kilometres between two addresses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, err := openGeocoder()
			if err != nil {
				return err
			}

			calc, err := services.NewDistanceCalculator(g)
			if err != nil {
				return err
			}

			km, found, err := calc.CalculateDistance(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !found {
				return errors.New("distance: one of the addresses was not found")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%.3f km\n", km)
			return nil
		},
	}
}

func openDB() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, sqlDB, nil
}

func openGeocoder() (*config.Config, *geocoder.YandexGeocoder, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.RequireGeocoder(); err != nil {
		return nil, nil, err
	}

	g, err := geocoder.NewYandexGeocoder(geocoder.Options{
		APIKey:  cfg.Geocoder.APIKey,
		BaseURL: cfg.Geocoder.BaseURL,
		Timeout: cfg.Geocoder.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, g, nil
}

func printCoordinates(cmd *cobra.Command, address, coords string, found bool) error {
	if !found {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: not found\n", address)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", address, coords)
	return nil
}
