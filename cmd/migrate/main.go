package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/exampleco/orders-api/internal/app/api"
	"github.com/exampleco/orders-api/internal/platform/database"
	"github.com/exampleco/orders-api/internal/platform/migrations"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the orders API schema and service catalogue",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "create or update the services, orders and order_items tables",
				Action: up,
			},
			{
				Name:  "seed",
				Usage: "insert services from a YAML file, skipping names that already exist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "path to the services seed file",
						EnvVars:  []string{"SERVICES_SEED_FILE"},
						Required: true,
					},
				},
				Action: seed,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func up(c *cli.Context) error {
	db, closeDB, err := open(c.Context)
	if err != nil {
		return err
	}
	defer closeDB()
	if err := migrations.Run(db.WithContext(c.Context)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintln(c.App.Writer, "schema up to date")
	return nil
}

func seed(c *cli.Context) error {
	seeds, err := migrations.LoadServiceSeedsFile(c.String("file"))
	if err != nil {
		return err
	}
	db, closeDB, err := open(c.Context)
	if err != nil {
		return err
	}
	defer closeDB()
	inserted, err := migrations.SeedServices(c.Context, db, seeds)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "inserted %d of %d services\n", inserted, len(seeds))
	return nil
}

func open(ctx context.Context) (*gorm.DB, func(), error) {
	cfg, err := api.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.DatabaseConfigured() {
		return nil, nil, errors.New("set DB_DSN or DB_USER to select a database")
	}
	opts, err := cfg.DatabaseOptions()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = sqlDB.Close() }, nil
}
