package pg

import (
	"database/sql"
	"io/fs"

	_ "github.com/lib/pq"
	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending migration found in fsys.
func Migrate(cfg Config, fsys fs.FS) error {
	return withGoose(cfg, fsys, func(db *sql.DB) error {
		return goose.Up(db, ".")
	})
}

// Reset rolls back every applied migration, dropping the schema.
func Reset(cfg Config, fsys fs.FS) error {
	return withGoose(cfg, fsys, func(db *sql.DB) error {
		return goose.Reset(db, ".")
	})
}

func MigrationVersion(cfg Config, fsys fs.FS) (int64, error) {
	var version int64
	err := withGoose(cfg, fsys, func(db *sql.DB) error {
		v, err := goose.GetDBVersion(db)
		version = v
		return err
	})
	return version, err
}

func withGoose(cfg Config, fsys fs.FS, fn func(db *sql.DB) error) error {
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(DialectPostgres); err != nil {
		return errors.Wrap(err, "goose dialect")
	}

	db, err := newSqlConnection(cfg)
	if err != nil {
		return errors.Wrap(err, "open migration connection")
	}
	defer db.Close()

	if err := fn(db); err != nil {
		logger.Error("migration failed", "error", err)
		return errors.Wrap(err, "migrate")
	}
	return nil
}
