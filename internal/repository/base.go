package repository

import (
	"strings"

	"github.com/nimasrn/record-shop/internal/model"
	"gorm.io/gorm"
)

// firstByID loads a single row into dest, returning ErrNotFound when absent.
func firstByID(q *gorm.DB, dest any, id int64) error {
	return translate(q.Where("id = ?", id).First(dest).Error)
}

func existsByID(q *gorm.DB, model any, id int64) (bool, error) {
	var n int64
	if err := q.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func deleteByID(q *gorm.DB, model any, id int64) error {
	res := q.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func updateByID(q *gorm.DB, model any, id int64, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	res := q.Model(model).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// clearable maps an explicit null onto SQL NULL. Any string, empty
// included, is stored as given, the same as on create.
func clearable(o model.Optional[string]) *string {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}
