package repository

import (
	"errors"
	"fmt"

	"github.com/nimasrn/record-shop/pkg/pg"
)

var (
	ErrNotFound   = errors.New("row not found")
	ErrDuplicate  = errors.New("unique constraint violated")
	ErrForeignKey = errors.New("foreign key constraint violated")
	ErrNotNull    = errors.New("not null constraint violated")
)

// translate maps driver errors onto the store errors above. The original
// error is kept in the chain for logging.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case pg.IsNotFound(err):
		return ErrNotFound
	case pg.IsUniqueViolation(err):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case pg.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	case pg.IsNotNullViolation(err):
		if col := pg.ConstraintColumn(err); col != "" {
			return fmt.Errorf("%w: %s: %w", ErrNotNull, col, err)
		}
		return fmt.Errorf("%w: %w", ErrNotNull, err)
	}
	return err
}
