package repository

import (
	"github.com/nimasrn/record-shop/internal/model"
	"github.com/shopspring/decimal"
)

type RecordEntity struct {
	ID     int64           `db:"id"     gorm:"primaryKey;autoIncrement;column:id"`
	Title  string          `db:"title"  gorm:"column:title;size:255;not null"`
	Artist string          `db:"artist" gorm:"column:artist;size:255;not null"`
	Price  decimal.Decimal `db:"price"  gorm:"column:price;type:decimal(10,2);not null"`
	Genre  *string         `db:"genre"  gorm:"column:genre;size:255"`
}

func (RecordEntity) TableName() string {
	return "records"
}

func toRecordEntity(m *model.Record) *RecordEntity {
	if m == nil {
		return nil
	}
	return &RecordEntity{
		ID:     m.ID,
		Title:  m.Title,
		Artist: m.Artist,
		Price:  m.Price.Round(model.PriceScale),
		Genre:  m.Genre,
	}
}

func toRecordModel(e *RecordEntity) *model.Record {
	if e == nil {
		return nil
	}
	return &model.Record{
		ID:     e.ID,
		Title:  e.Title,
		Artist: e.Artist,
		Price:  model.PriceFromDecimal(e.Price),
		Genre:  e.Genre,
	}
}

func toRecordModels(entities []*RecordEntity) []*model.Record {
	models := make([]*model.Record, len(entities))
	for i, e := range entities {
		models[i] = toRecordModel(e)
	}
	return models
}

func recordColumns(p model.RecordPatch) map[string]any {
	cols := make(map[string]any)
	if p.Title.Set {
		cols["title"] = p.Title.Value
	}
	if p.Artist.Set {
		cols["artist"] = p.Artist.Value
	}
	if p.Price.Set {
		cols["price"] = p.Price.Value.Round(model.PriceScale)
	}
	if p.Genre.Set {
		cols["genre"] = clearable(p.Genre)
	}
	return cols
}
