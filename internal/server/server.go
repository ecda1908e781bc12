// Package server assembles the record-shop HTTP engine from its stores,
// services and handlers.
package server

import (
	"time"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/internal/handlers"
	"github.com/nimasrn/record-shop/internal/idempotency"
	"github.com/nimasrn/record-shop/internal/repository"
	"github.com/nimasrn/record-shop/internal/services"
	xhttp "github.com/nimasrn/record-shop/pkg/http"
	"github.com/nimasrn/record-shop/pkg/pg"
	"github.com/nimasrn/record-shop/pkg/prom"
)

type Options struct {
	// HTTP tunes the fasthttp server; zero fields keep the defaults.
	HTTP xhttp.ServerOption
	// BasePath prefixes every route; empty mounts them at the root.
	BasePath       string
	RequestTimeout time.Duration
	// CompressLevel enables brotli/gzip responses when positive.
	CompressLevel int
	// Idempotency guards keyed POST requests when set.
	Idempotency *idempotency.Store
	// Health lists the dependencies reported by GET /health.
	Health map[string]handlers.Pinger
}

type Services struct {
	Customers *services.CustomerService
	Suppliers *services.SupplierService
	Records   *services.RecordService
	Orders    *services.OrderService
	Inventory *services.InventoryService
}

// NewServices builds every repository and service on top of db. Events of
// committed writes go to feed.
func NewServices(db *pg.DB, feed changefeed.Publisher) Services {
	if feed == nil {
		feed = changefeed.NoopPublisher{}
	}

	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	policy := services.NewPolicy(orderRepo, inventoryRepo)

	return Services{
		Customers: services.NewCustomerService(customerRepo, policy, feed),
		Suppliers: services.NewSupplierService(supplierRepo, policy, feed),
		Records:   services.NewRecordService(recordRepo, policy, feed),
		Orders:    services.NewOrderService(orderRepo, customerRepo, recordRepo, policy, feed),
		Inventory: services.NewInventoryService(inventoryRepo, supplierRepo, recordRepo, policy, feed),
	}
}

// New returns an engine with the middleware chain and every route
// registered. The caller starts it with ListenAndServe or Serve.
func New(opts Options, svc Services) *xhttp.Engine {
	s := xhttp.NewServer(opts.HTTP)
	s.Router = xhttp.CreateDefaultRouter()

	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(prom.HTTPMiddleware)
	if opts.CompressLevel > 0 {
		s.Use(xhttp.CompressMiddleware(opts.CompressLevel))
	}
	if opts.RequestTimeout > 0 {
		s.Use(xhttp.TimeoutMiddleware(opts.RequestTimeout))
	}
	if opts.Idempotency != nil {
		s.Use(opts.Idempotency.Middleware)
	}

	g := xhttp.Mount(s.Router, opts.BasePath)
	handlers.RegisterCustomerRoutes(g, handlers.NewCustomerHandler(svc.Customers))
	handlers.RegisterSupplierRoutes(g, handlers.NewSupplierHandler(svc.Suppliers))
	handlers.RegisterRecordRoutes(g, handlers.NewRecordHandler(svc.Records))
	handlers.RegisterOrderRoutes(g, handlers.NewOrderHandler(svc.Orders))
	handlers.RegisterInventoryRoutes(g, handlers.NewInventoryHandler(svc.Inventory))
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(opts.Health))

	return s
}
