package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	"github.com/huyhqq/Student-Club-Management-System/internal/config"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository/postgres/migrations"
)

func main() {
	cliApp := &cli.App{
		Name:  "migrate",
		Usage: "club lifecycle database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config/config.dev.yaml",
				Usage:   "Path to configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Commands: newDBCommands(),
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openMigrator connects with lib/pq, the driver the services use, and wraps it for bun.
func openMigrator(c *cli.Context) (*migrate.Migrator, func(), error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	sqldb, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := bun.NewDB(sqldb, pgdialect.New())

	return migrate.NewMigrator(db, migrations.Migrations), func() { _ = db.Close() }, nil
}

func withMigrator(fn func(c *cli.Context, migrator *migrate.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		migrator, closeDB, err := openMigrator(c)
		if err != nil {
			return err
		}
		defer closeDB()
		return fn(c, migrator)
	}
}

func newDBCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "init",
			Usage: "create migration tables",
			Action: withMigrator(func(c *cli.Context, migrator *migrate.Migrator) error {
				return migrator.Init(c.Context)
			}),
		},
		{
			Name:  "up",
			Usage: "migrate database",
			Action: withMigrator(func(c *cli.Context, migrator *migrate.Migrator) error {
				if err := migrator.Lock(c.Context); err != nil {
					return err
				}
				defer migrator.Unlock(c.Context) //nolint:errcheck

				group, err := migrator.Migrate(c.Context)
				if err != nil {
					return err
				}
				if group.IsZero() {
					fmt.Println("No new migrations to run (database is up to date)")
					return nil
				}
				fmt.Printf("Migrated to %s\n", group)
				return nil
			}),
		},
		{
			Name:  "rollback",
			Usage: "rollback the last migration group",
			Action: withMigrator(func(c *cli.Context, migrator *migrate.Migrator) error {
				if err := migrator.Lock(c.Context); err != nil {
					return err
				}
				defer migrator.Unlock(c.Context) //nolint:errcheck

				group, err := migrator.Rollback(c.Context)
				if err != nil {
					return err
				}
				if group.IsZero() {
					fmt.Println("No groups to roll back")
					return nil
				}
				fmt.Printf("Rolled back %s\n", group)
				return nil
			}),
		},
		{
			Name:  "create_go",
			Usage: "create Go migration",
			Action: withMigrator(func(c *cli.Context, migrator *migrate.Migrator) error {
				name := strings.Join(c.Args().Slice(), "_")
				mf, err := migrator.CreateGoMigration(c.Context, name)
				if err != nil {
					return err
				}
				fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
				return nil
			}),
		},
		{
			Name:  "status",
			Usage: "print migrations status",
			Action: withMigrator(func(c *cli.Context, migrator *migrate.Migrator) error {
				ms, err := migrator.MigrationsWithStatus(c.Context)
				if err != nil {
					return err
				}
				fmt.Printf("Migrations: %s\n", ms)
				fmt.Printf("Applied: %s\n", ms.Applied())
				fmt.Printf("Unapplied: %s\n", ms.Unapplied())
				return nil
			}),
		},
	}
}
