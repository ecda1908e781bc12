package handlers

import (
	"context"
	"fmt"

	"github.com/nimasrn/record-shop/internal/model"
	xhttp "github.com/nimasrn/record-shop/pkg/http"
)

type OrderService interface {
	List(ctx context.Context) ([]*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*model.Order, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	Create(ctx context.Context, req model.OrderCreateRequest) (*model.Order, error)
	Update(ctx context.Context, id int64, patch model.OrderPatch) (*model.Order, error)
	Delete(ctx context.Context, id int64) error
}

type OrderHandler struct {
	svc OrderService
}

func RegisterOrderRoutes(e xhttp.Routes, h *OrderHandler) {
	e.GET("/orders", h.ListOrders)
	e.POST("/orders", h.CreateOrder)
	e.GET("/orders/filter_by_customer_id", h.ListOrdersByCustomer)
	e.GET("/orders/{id}", h.GetOrder)
	e.PUT("/orders/{id}", h.UpdateOrder)
	e.PATCH("/orders/{id}", h.UpdateOrder)
	e.DELETE("/orders/{id}", h.DeleteOrder)
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{
		svc: orderService,
	}
}

func (h *OrderHandler) ListOrders(ctx *xhttp.RequestCtx) {
	items, err := h.svc.List(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, items)
}

func (h *OrderHandler) ListOrdersByCustomer(ctx *xhttp.RequestCtx) {
	customerID, ok := queryID(ctx, "customer_id")
	if !ok {
		xhttp.WriteMessage(ctx, xhttp.StatusBadRequest, "Customer ID is required.")
		return
	}
	items, err := h.svc.ListByCustomer(ctx, customerID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, items)
}

func (h *OrderHandler) GetOrder(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	o, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, o)
}

func (h *OrderHandler) CreateOrder(ctx *xhttp.RequestCtx) {
	var req model.OrderCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBadJSON(ctx, err)
		return
	}
	o, err := h.svc.Create(ctx, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusCreated, o)
}

// UpdateOrder ignores customer_id in the body.
func (h *OrderHandler) UpdateOrder(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var patch model.OrderPatch
	if err := readJSON(ctx, &patch); err != nil {
		writeBadJSON(ctx, err)
		return
	}
	o, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, o)
}

func (h *OrderHandler) DeleteOrder(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteMessage(ctx, xhttp.StatusOK, fmt.Sprintf("Order '%d' deleted successfully", id))
}
