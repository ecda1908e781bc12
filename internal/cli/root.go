// Package cli implements the record-shop database commands.
package cli

import (
	"fmt"
	"os"

	"github.com/nimasrn/record-shop/internal/config"
	"github.com/nimasrn/record-shop/internal/repository"
	"github.com/nimasrn/record-shop/internal/seed"
	"github.com/nimasrn/record-shop/internal/server"
	"github.com/nimasrn/record-shop/migrations"
	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/nimasrn/record-shop/pkg/pg"
	"github.com/spf13/cobra"
)

func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the command tree. Each subcommand loads the config
// itself, so --env applies to all of them.
func NewRootCmd() *cobra.Command {
	var envPath string

	cmd := &cobra.Command{
		Use:          "record-shop-cli",
		Short:        "Manage the record shop database",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.Load(envPath)
		},
	}
	cmd.PersistentFlags().StringVar(&envPath, "env", "", "dotenv file to load before reading the environment")

	cmd.AddCommand(migrateCmd(), dropCmd(), seedCmd(), statusCmd())
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Aliases: []string{"create"},
		Short:   "Create the tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get()
			if cfg.DBDriver == config.DriverPostgres {
				if err := pg.Migrate(cfg.WriteDB(), migrations.FS); err != nil {
					return err
				}
			} else if err := withDB(cfg, func(db *pg.DB) error {
				return repository.AutoMigrate(cmd.Context(), db)
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tables created")
			return nil
		},
	}
}

func dropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Drop every table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get()
			if cfg.DBDriver == config.DriverPostgres {
				if err := pg.Reset(cfg.WriteDB(), migrations.FS); err != nil {
					return err
				}
			} else if err := withDB(cfg, func(db *pg.DB) error {
				return repository.DropAll(cmd.Context(), db)
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tables dropped")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "seed",
		Short: "Load sample customers, suppliers, records, orders and inventory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := loadSeed(file)
			if err != nil {
				return err
			}

			return withDB(config.Get(), func(db *pg.DB) error {
				// seeding does not publish to the change feed
				svc := server.NewServices(db, nil)
				seeder := seed.NewSeeder(db, svc.Customers, svc.Suppliers, svc.Records, svc.Orders, svc.Inventory)

				sum, err := seeder.Apply(cmd.Context(), data)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Customers seeded: %d\n", sum.Customers)
				fmt.Fprintf(out, "Suppliers seeded: %d\n", sum.Suppliers)
				fmt.Fprintf(out, "Records seeded: %d\n", sum.Records)
				fmt.Fprintf(out, "Orders seeded: %d\n", sum.Orders)
				fmt.Fprintf(out, "Inventory seeded: %d\n", sum.Inventory)
				return nil
			})
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (defaults to the built-in sample data)")
	return c
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the schema state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get()
			out := cmd.OutOrStdout()
			if cfg.DBDriver == config.DriverPostgres {
				v, err := pg.MigrationVersion(cfg.WriteDB(), migrations.FS)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Migration version: %d\n", v)
				return nil
			}
			return withDB(cfg, func(db *pg.DB) error {
				m := db.Write(cmd.Context()).Migrator()
				for _, e := range repository.Entities() {
					state := "missing"
					if m.HasTable(e) {
						state = "present"
					}
					fmt.Fprintf(out, "%s: %s\n", tableName(e), state)
				}
				return nil
			})
		},
	}
}

func tableName(e any) string {
	if t, ok := e.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return fmt.Sprintf("%T", e)
}

func loadSeed(file string) (*seed.Data, error) {
	if file == "" {
		return seed.Default()
	}
	return seed.LoadFile(file)
}

func withDB(cfg *config.Config, fn func(db *pg.DB) error) error {
	db, err := cfg.OpenDB()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()
	return fn(db)
}
