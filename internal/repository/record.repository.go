package repository

import (
	"context"

	"github.com/nimasrn/record-shop/internal/model"
	"github.com/nimasrn/record-shop/pkg/pg"
)

type RecordRepository struct {
	*pg.DB
}

func NewRecordRepository(db *pg.DB) *RecordRepository {
	return &RecordRepository{
		db,
	}
}

func (r *RecordRepository) Create(ctx context.Context, rec *model.Record) (*model.Record, error) {
	entity := toRecordEntity(rec)
	entity.ID = 0

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translate(err)
	}

	return toRecordModel(entity), nil
}

func (r *RecordRepository) Get(ctx context.Context, id int64) (*model.Record, error) {
	var entity RecordEntity
	if err := firstByID(r.Read(ctx), &entity, id); err != nil {
		return nil, err
	}
	return toRecordModel(&entity), nil
}

func (r *RecordRepository) GetForUpdate(ctx context.Context, id int64) (*model.Record, error) {
	var entity RecordEntity
	if err := firstByID(r.ForUpdate(ctx), &entity, id); err != nil {
		return nil, err
	}
	return toRecordModel(&entity), nil
}

func (r *RecordRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(r.Read(ctx), &RecordEntity{}, id)
}

// ExistsForShare reports whether the record exists and, inside a transaction,
// keeps it from being deleted until that transaction ends. Row locks cannot
// be combined with COUNT, so the id itself is selected.
func (r *RecordRepository) ExistsForShare(ctx context.Context, id int64) (bool, error) {
	var ids []int64
	err := r.ForShare(ctx).Model(&RecordEntity{}).Where("id = ?", id).Limit(1).Pluck("id", &ids).Error
	if err != nil {
		return false, translate(err)
	}
	return len(ids) > 0, nil
}

// List returns records ordered by id. Artist and genre filters are
// case-insensitive substring matches; rows with no genre never match a genre filter.
func (r *RecordRepository) List(ctx context.Context, f model.RecordFilter) ([]*model.Record, error) {
	q := r.Read(ctx).Model(&RecordEntity{})

	if f.Artist != "" {
		q = q.Where(`LOWER(artist) LIKE ? ESCAPE '\'`, containsPattern(f.Artist))
	}
	if f.Genre != "" {
		q = q.Where(`LOWER(genre) LIKE ? ESCAPE '\'`, containsPattern(f.Genre))
	}

	var entities []*RecordEntity
	if err := q.Order("id ASC").Find(&entities).Error; err != nil {
		return nil, translate(err)
	}
	return toRecordModels(entities), nil
}

func (r *RecordRepository) Update(ctx context.Context, id int64, p model.RecordPatch) (*model.Record, error) {
	if err := updateByID(r.Write(ctx), &RecordEntity{}, id, recordColumns(p)); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *RecordRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.Write(ctx), &RecordEntity{}, id)
}
