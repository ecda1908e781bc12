package handlers

import (
	"context"
	"fmt"

	"github.com/nimasrn/record-shop/internal/model"
	xhttp "github.com/nimasrn/record-shop/pkg/http"
)

type InventoryService interface {
	List(ctx context.Context) ([]*model.Inventory, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]*model.Inventory, error)
	Get(ctx context.Context, id int64) (*model.Inventory, error)
	Create(ctx context.Context, req model.InventoryCreateRequest) (*model.Inventory, error)
	Update(ctx context.Context, id int64, patch model.InventoryPatch) (*model.Inventory, error)
	Delete(ctx context.Context, id int64) error
}

type InventoryHandler struct {
	svc InventoryService
}

// RegisterInventoryRoutes has no PUT; inventory only takes PATCH.
func RegisterInventoryRoutes(e xhttp.Routes, h *InventoryHandler) {
	e.GET("/inventory", h.ListInventory)
	e.POST("/inventory", h.CreateInventory)
	e.GET("/inventory/filter_by_supplier_id", h.ListInventoryBySupplier)
	e.GET("/inventory/{id}", h.GetInventory)
	e.PATCH("/inventory/{id}", h.UpdateInventory)
	e.DELETE("/inventory/{id}", h.DeleteInventory)
}

func NewInventoryHandler(inventoryService InventoryService) *InventoryHandler {
	return &InventoryHandler{
		svc: inventoryService,
	}
}

func (h *InventoryHandler) ListInventory(ctx *xhttp.RequestCtx) {
	items, err := h.svc.List(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, items)
}

func (h *InventoryHandler) ListInventoryBySupplier(ctx *xhttp.RequestCtx) {
	supplierID, ok := queryID(ctx, "supplier_id")
	if !ok {
		xhttp.WriteMessage(ctx, xhttp.StatusBadRequest, "Supplier ID is required.")
		return
	}
	items, err := h.svc.ListBySupplier(ctx, supplierID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, items)
}

func (h *InventoryHandler) GetInventory(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	inv, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, inv)
}

func (h *InventoryHandler) CreateInventory(ctx *xhttp.RequestCtx) {
	var req model.InventoryCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBadJSON(ctx, err)
		return
	}
	inv, err := h.svc.Create(ctx, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusCreated, inv)
}

func (h *InventoryHandler) UpdateInventory(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var patch model.InventoryPatch
	if err := readJSON(ctx, &patch); err != nil {
		writeBadJSON(ctx, err)
		return
	}
	inv, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, inv)
}

func (h *InventoryHandler) DeleteInventory(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteMessage(ctx, xhttp.StatusOK, fmt.Sprintf("Inventory item '%d' deleted successfully", id))
}
