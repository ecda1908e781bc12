package pg

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type txContextKey string

const txKey txContextKey = "trx"

// DB holds separate read and write handles. Repositories always go through
// Read/Write so that a transaction started with WithinTransaction is picked
// up from the context.
type DB struct {
	read    *gorm.DB
	write   *gorm.DB
	dialect string
}

func gormConfig(withDebug bool) *gorm.Config {
	c := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if withDebug {
		c.Logger = logger.Default.LogMode(logger.Info)
	}
	return c
}

func Create(config Config, withDebug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.DSN()), gormConfig(withDebug))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func CreateReadWrite(readConfig Config, writeConfig Config, withDebug bool) (*DB, error) {
	read, err := Create(readConfig, withDebug)
	if err != nil {
		return nil, err
	}
	write, err := Create(writeConfig, withDebug)
	if err != nil {
		return nil, err
	}
	return &DB{read: read, write: write, dialect: DialectPostgres}, nil
}

// CreateSqlite opens a single sqlite database used for both reads and writes.
// sqlite allows one writer at a time, so the pool is pinned to a single
// connection; this also keeps ":memory:" databases alive across calls.
func CreateSqlite(path string, withDebug bool) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(withDebug))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return New(db, db, DialectSqlite), nil
}

func New(read, write *gorm.DB, dialect string) *DB {
	return &DB{read: read, write: write, dialect: dialect}
}

func (r *DB) Dialect() string {
	return r.dialect
}

func (r *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

func (r *DB) Write(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok {
		return tx
	}

	return r.write.WithContext(ctx)
}

func (r *DB) Read(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok {
		return tx
	}

	return r.read.WithContext(ctx)
}

// ForUpdate locks the selected rows for the rest of the transaction.
// sqlite has no row locks; its single writer already serializes transactions.
func (r *DB) ForUpdate(ctx context.Context) *gorm.DB {
	q := r.Write(ctx)
	if r.dialect == DialectSqlite {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

// ForShare takes a shared row lock: concurrent readers proceed, but a
// transaction deleting or updating the row waits for this one to finish.
func (r *DB) ForShare(ctx context.Context) *gorm.DB {
	q := r.Write(ctx)
	if r.dialect == DialectSqlite {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "SHARE"})
}

func (r *DB) Ping(ctx context.Context) error {
	sqlDB, err := r.write.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *DB) Close() error {
	handles := []*gorm.DB{r.write}
	if r.read != r.write {
		handles = append(handles, r.read)
	}

	var firstErr error
	for _, g := range handles {
		sqlDB, err := g.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
