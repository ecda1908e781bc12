package services

import (
	"context"
	"time"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/internal/model"
)

const entityRecord = changefeed.EntityRecord

type RecordService struct {
	records RecordRepository
	policy  *Policy
	feed    changefeed.Publisher
}

func NewRecordService(records RecordRepository, policy *Policy, feed changefeed.Publisher) *RecordService {
	return &RecordService{
		records: records,
		policy:  policy,
		feed:    feed,
	}
}

func (s *RecordService) List(ctx context.Context) ([]*model.Record, error) {
	return s.list(ctx, model.RecordFilter{})
}

// ListByArtist matches artist names containing artist, ignoring case.
func (s *RecordService) ListByArtist(ctx context.Context, artist string) ([]*model.Record, error) {
	if blank(artist) {
		return nil, newError(ErrValidation, "artist is required")
	}
	return s.list(ctx, model.RecordFilter{Artist: artist})
}

// ListByGenre matches genres containing genre, ignoring case.
func (s *RecordService) ListByGenre(ctx context.Context, genre string) ([]*model.Record, error) {
	if blank(genre) {
		return nil, newError(ErrValidation, "genre is required")
	}
	return s.list(ctx, model.RecordFilter{Genre: genre})
}

func (s *RecordService) list(ctx context.Context, f model.RecordFilter) ([]*model.Record, error) {
	records, err := s.records.List(ctx, f)
	if err != nil {
		return nil, mapStoreError("Record", 0, err)
	}
	return records, nil
}

func (s *RecordService) Get(ctx context.Context, id int64) (*model.Record, error) {
	r, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError("Record", id, err)
	}
	return r, nil
}

func (s *RecordService) Create(ctx context.Context, req model.RecordCreateRequest) (created *model.Record, err error) {
	start := time.Now()
	defer func() { observe(entityRecord, "create", start, err) }()

	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	created, err = s.records.Create(ctx, &model.Record{
		Title:  req.Title,
		Artist: req.Artist,
		Price:  *req.Price,
		Genre:  req.Genre,
	})
	if err != nil {
		return nil, mapStoreError("Record", 0, err)
	}

	ch := &changes{}
	ch.add(entityRecord, changefeed.ActionCreated, created.ID, created)
	publish(ctx, s.feed, ch)
	return created, nil
}

func (s *RecordService) Update(ctx context.Context, id int64, patch model.RecordPatch) (updated *model.Record, err error) {
	start := time.Now()
	defer func() { observe(entityRecord, "update", start, err) }()

	if err := patch.Validate(); err != nil {
		return nil, validationError(err)
	}

	updated, err = s.records.Update(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError("Record", id, err)
	}

	if !patch.Empty() {
		ch := &changes{}
		ch.add(entityRecord, changefeed.ActionUpdated, updated.ID, updated)
		publish(ctx, s.feed, ch)
	}
	return updated, nil
}

// Delete fails with ErrConflict while inventory rows reference the record.
func (s *RecordService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observe(entityRecord, "delete", start, err) }()

	ch := &changes{}
	err = s.records.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.records.GetForUpdate(ctx, id)
		if err != nil {
			return mapStoreError("Record", id, err)
		}
		if err := s.policy.BeforeDeleteRecord(ctx, r); err != nil {
			return err
		}
		if err := s.records.Delete(ctx, id); err != nil {
			return mapStoreError("Record", id, err)
		}
		ch.add(entityRecord, changefeed.ActionDeleted, r.ID, r)
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.feed, ch)
	return nil
}
