package handlers

import (
	"context"
	"fmt"

	"github.com/nimasrn/record-shop/internal/model"
	xhttp "github.com/nimasrn/record-shop/pkg/http"
)

type RecordService interface {
	List(ctx context.Context) ([]*model.Record, error)
	ListByArtist(ctx context.Context, artist string) ([]*model.Record, error)
	ListByGenre(ctx context.Context, genre string) ([]*model.Record, error)
	Get(ctx context.Context, id int64) (*model.Record, error)
	Create(ctx context.Context, req model.RecordCreateRequest) (*model.Record, error)
	Update(ctx context.Context, id int64, patch model.RecordPatch) (*model.Record, error)
	Delete(ctx context.Context, id int64) error
}

type RecordHandler struct {
	svc RecordService
}

func RegisterRecordRoutes(e xhttp.Routes, h *RecordHandler) {
	e.GET("/records", h.ListRecords)
	e.POST("/records", h.CreateRecord)
	e.GET("/records/artist/{artist}", h.ListRecordsByArtist)
	e.GET("/records/genre/{genre}", h.ListRecordsByGenre)
	e.GET("/records/{id}", h.GetRecord)
	e.PUT("/records/{id}", h.UpdateRecord)
	e.PATCH("/records/{id}", h.UpdateRecord)
	e.DELETE("/records/{id}", h.DeleteRecord)
}

func NewRecordHandler(recordService RecordService) *RecordHandler {
	return &RecordHandler{
		svc: recordService,
	}
}

func (h *RecordHandler) ListRecords(ctx *xhttp.RequestCtx) {
	h.writeList(ctx)(h.svc.List(ctx))
}

func (h *RecordHandler) ListRecordsByArtist(ctx *xhttp.RequestCtx) {
	h.writeList(ctx)(h.svc.ListByArtist(ctx, pathString(ctx, "artist")))
}

func (h *RecordHandler) ListRecordsByGenre(ctx *xhttp.RequestCtx) {
	h.writeList(ctx)(h.svc.ListByGenre(ctx, pathString(ctx, "genre")))
}

// writeList returns a sink for a (records, error) pair.
func (h *RecordHandler) writeList(ctx *xhttp.RequestCtx) func([]*model.Record, error) {
	return func(items []*model.Record, err error) {
		if err != nil {
			writeError(ctx, err)
			return
		}
		if items == nil {
			items = []*model.Record{}
		}
		xhttp.WriteJSON(ctx, xhttp.StatusOK, items)
	}
}

func (h *RecordHandler) GetRecord(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	r, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, r)
}

func (h *RecordHandler) CreateRecord(ctx *xhttp.RequestCtx) {
	var req model.RecordCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBadJSON(ctx, err)
		return
	}
	r, err := h.svc.Create(ctx, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusCreated, r)
}

func (h *RecordHandler) UpdateRecord(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var patch model.RecordPatch
	if err := readJSON(ctx, &patch); err != nil {
		writeBadJSON(ctx, err)
		return
	}
	r, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, r)
}

func (h *RecordHandler) DeleteRecord(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteMessage(ctx, xhttp.StatusOK, fmt.Sprintf("Record with id '%d' deleted successfully.", id))
}
