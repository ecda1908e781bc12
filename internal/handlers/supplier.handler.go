package handlers

import (
	"context"
	"fmt"

	"github.com/nimasrn/record-shop/internal/model"
	xhttp "github.com/nimasrn/record-shop/pkg/http"
)

type SupplierService interface {
	List(ctx context.Context) ([]*model.Supplier, error)
	Get(ctx context.Context, id int64) (*model.Supplier, error)
	Create(ctx context.Context, req model.SupplierCreateRequest) (*model.Supplier, error)
	Update(ctx context.Context, id int64, patch model.SupplierPatch) (*model.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

type SupplierHandler struct {
	svc SupplierService
}

func RegisterSupplierRoutes(e xhttp.Routes, h *SupplierHandler) {
	e.GET("/suppliers", h.ListSuppliers)
	e.POST("/suppliers", h.CreateSupplier)
	e.GET("/suppliers/{id}", h.GetSupplier)
	e.PUT("/suppliers/{id}", h.UpdateSupplier)
	e.PATCH("/suppliers/{id}", h.UpdateSupplier)
	e.DELETE("/suppliers/{id}", h.DeleteSupplier)
}

func NewSupplierHandler(supplierService SupplierService) *SupplierHandler {
	return &SupplierHandler{
		svc: supplierService,
	}
}

func (h *SupplierHandler) ListSuppliers(ctx *xhttp.RequestCtx) {
	items, err := h.svc.List(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, items)
}

func (h *SupplierHandler) GetSupplier(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	s, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, s)
}

func (h *SupplierHandler) CreateSupplier(ctx *xhttp.RequestCtx) {
	var req model.SupplierCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBadJSON(ctx, err)
		return
	}
	s, err := h.svc.Create(ctx, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusCreated, s)
}

func (h *SupplierHandler) UpdateSupplier(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var patch model.SupplierPatch
	if err := readJSON(ctx, &patch); err != nil {
		writeBadJSON(ctx, err)
		return
	}
	s, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, s)
}

func (h *SupplierHandler) DeleteSupplier(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteMessage(ctx, xhttp.StatusOK, fmt.Sprintf("Supplier '%d' and associated inventory items deleted successfully", id))
}
