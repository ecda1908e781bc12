package handlers

import (
	"context"
	"fmt"

	"github.com/nimasrn/record-shop/internal/model"
	xhttp "github.com/nimasrn/record-shop/pkg/http"
)

type CustomerService interface {
	List(ctx context.Context) ([]*model.Customer, error)
	Get(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, req model.CustomerCreateRequest) (*model.Customer, error)
	Update(ctx context.Context, id int64, patch model.CustomerPatch) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type CustomerHandler struct {
	svc CustomerService
}

func RegisterCustomerRoutes(e xhttp.Routes, h *CustomerHandler) {
	e.GET("/customers", h.ListCustomers)
	e.POST("/customers", h.CreateCustomer)
	e.GET("/customers/{id}", h.GetCustomer)
	e.PUT("/customers/{id}", h.UpdateCustomer)
	e.PATCH("/customers/{id}", h.UpdateCustomer)
	e.DELETE("/customers/{id}", h.DeleteCustomer)
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{
		svc: customerService,
	}
}

func (h *CustomerHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	items, err := h.svc.List(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, items)
}

func (h *CustomerHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	c, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, c)
}

func (h *CustomerHandler) CreateCustomer(ctx *xhttp.RequestCtx) {
	var req model.CustomerCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeBadJSON(ctx, err)
		return
	}
	c, err := h.svc.Create(ctx, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusCreated, c)
}

// UpdateCustomer serves both PUT and PATCH; only the keys present in the body change.
func (h *CustomerHandler) UpdateCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var patch model.CustomerPatch
	if err := readJSON(ctx, &patch); err != nil {
		writeBadJSON(ctx, err)
		return
	}
	c, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, c)
}

func (h *CustomerHandler) DeleteCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeError(ctx, err)
		return
	}
	xhttp.WriteMessage(ctx, xhttp.StatusOK, fmt.Sprintf("Customer '%d' and their associated orders were deleted successfully.", id))
}
