package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/assistidads/assist-lead-hub-sub000/internal/repository/postgres"
	"github.com/assistidads/assist-lead-hub-sub000/internal/service"
	"github.com/assistidads/assist-lead-hub-sub000/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	// Initialize database connection
	db, err := sqlx.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey{}, postgres.Wrap(db, 1))
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey{}).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey{}).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}
	logger.Setup("debug", os.Getenv("LOG_LEVEL"))

	app := &cli.App{
		Name:  "seed",
		Usage: "Prepare the lead hub database",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:  "master",
				Usage: "Seed master data (statuses, sources, ad codes, services, etc.)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing one <kind>.csv per reference kind; built-in defaults are used for missing files",
						Value:   "./data/seeds/master_data",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runMasterSeed,
			},
			{
				Name:   "backfill-kinds",
				Usage:  "Store the derived kind of every lead status",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runBackfillKinds,
			},
			{
				Name:  "all",
				Usage: "Run migrate, master and backfill-kinds in order",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing master seed data",
						Value:   "./data/seeds/master_data",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					if err := runMigrate(c); err != nil {
						return fmt.Errorf("error running migrate: %w", err)
					}
					if err := runMasterSeed(c); err != nil {
						return fmt.Errorf("error running master seed: %w", err)
					}
					if err := runBackfillKinds(c); err != nil {
						return fmt.Errorf("error running backfill: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	if err := db.Migrate(c.Context); err != nil {
		return err
	}
	logger.Log.Info().Msg("Schema is up to date")
	return nil
}

func runBackfillKinds(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	refs := service.NewReferenceService(postgres.NewReferenceRepository(db.DB))
	n, err := refs.BackfillStatusKinds(c.Context)
	if err != nil {
		return fmt.Errorf("failed to backfill status kinds: %w", err)
	}
	logger.Log.Info().Int("statuses", n).Msg("Status kinds backfilled")
	return nil
}
