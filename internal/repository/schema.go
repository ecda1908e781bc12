package repository

import (
	"context"

	"github.com/nimasrn/record-shop/pkg/pg"
	"github.com/pkg/errors"
)

// Entities lists every table the store owns, in creation order.
func Entities() []any {
	return []any{
		&CustomerEntity{},
		&SupplierEntity{},
		&RecordEntity{},
		&OrderEntity{},
		&InventoryEntity{},
	}
}

// AutoMigrate creates the schema from the entity definitions. Postgres
// deployments use the versioned migrations instead; this serves sqlite.
func AutoMigrate(ctx context.Context, db *pg.DB) error {
	return errors.Wrap(db.Write(ctx).AutoMigrate(Entities()...), "auto migrate")
}

// DropAll drops every table, children first.
func DropAll(ctx context.Context, db *pg.DB) error {
	entities := Entities()
	m := db.Write(ctx).Migrator()
	for i := len(entities) - 1; i >= 0; i-- {
		if err := m.DropTable(entities[i]); err != nil {
			return errors.Wrapf(err, "drop %T", entities[i])
		}
	}
	return nil
}
