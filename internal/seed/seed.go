// Package seed loads sample shop data from YAML and writes it through the
// services, so every row passes the same validation as an API request.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"

	"github.com/nimasrn/record-shop/internal/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultData []byte

type Customer struct {
	Name        string  `yaml:"name"`
	Email       string  `yaml:"email"`
	PhoneNumber *string `yaml:"phone_number"`
	Address     *string `yaml:"address"`
}

type Supplier struct {
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	PhoneNumber string `yaml:"phone_number"`
}

type Record struct {
	Title  string  `yaml:"title"`
	Artist string  `yaml:"artist"`
	Genre  *string `yaml:"genre"`
	Price  string  `yaml:"price"`
}

// Order names its customer and record instead of using ids.
type Order struct {
	Customer  string  `yaml:"customer"`
	Record    string  `yaml:"record"`
	OrderDate *string `yaml:"order_date"`
}

// Inventory names its supplier and record instead of using ids.
type Inventory struct {
	Supplier      string `yaml:"supplier"`
	Record        string `yaml:"record"`
	StockQuantity int    `yaml:"stock_quantity"`
	Price         string `yaml:"price"`
}

type Data struct {
	Customers []Customer  `yaml:"customers"`
	Suppliers []Supplier  `yaml:"suppliers"`
	Records   []Record    `yaml:"records"`
	Orders    []Order     `yaml:"orders"`
	Inventory []Inventory `yaml:"inventory"`
}

type Summary struct {
	Customers int
	Suppliers int
	Records   int
	Orders    int
	Inventory int
}

// Default returns the built-in sample data.
func Default() (*Data, error) {
	return Parse(defaultData)
}

func LoadFile(path string) (*Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read seed file %s", path)
	}
	return Parse(b)
}

// Parse rejects unknown keys so a typo does not silently drop a column.
func Parse(b []byte) (*Data, error) {
	d := &Data{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(d); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse seed data")
	}
	return d, nil
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CustomerCreator interface {
	Create(ctx context.Context, req model.CustomerCreateRequest) (*model.Customer, error)
}

type SupplierCreator interface {
	Create(ctx context.Context, req model.SupplierCreateRequest) (*model.Supplier, error)
}

type RecordCreator interface {
	Create(ctx context.Context, req model.RecordCreateRequest) (*model.Record, error)
}

type OrderCreator interface {
	Create(ctx context.Context, req model.OrderCreateRequest) (*model.Order, error)
}

type InventoryCreator interface {
	Create(ctx context.Context, req model.InventoryCreateRequest) (*model.Inventory, error)
}

type Seeder struct {
	tx        Transactor
	customers CustomerCreator
	suppliers SupplierCreator
	records   RecordCreator
	orders    OrderCreator
	inventory InventoryCreator
}

func NewSeeder(tx Transactor, customers CustomerCreator, suppliers SupplierCreator, records RecordCreator, orders OrderCreator, inventory InventoryCreator) *Seeder {
	return &Seeder{
		tx:        tx,
		customers: customers,
		suppliers: suppliers,
		records:   records,
		orders:    orders,
		inventory: inventory,
	}
}

// Apply writes d in one transaction: either every row is stored or none is.
func (s *Seeder) Apply(ctx context.Context, d *Data) (Summary, error) {
	var sum Summary
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sum = Summary{}

		customers := make(map[string]int64, len(d.Customers))
		for _, c := range d.Customers {
			created, err := s.customers.Create(ctx, model.CustomerCreateRequest{
				Name:        c.Name,
				Email:       c.Email,
				PhoneNumber: c.PhoneNumber,
				Address:     c.Address,
			})
			if err != nil {
				return errors.Wrapf(err, "customer %q", c.Name)
			}
			customers[c.Name] = created.ID
			sum.Customers++
		}

		suppliers := make(map[string]int64, len(d.Suppliers))
		for _, sp := range d.Suppliers {
			created, err := s.suppliers.Create(ctx, model.SupplierCreateRequest{
				Name:        sp.Name,
				Email:       sp.Email,
				PhoneNumber: sp.PhoneNumber,
			})
			if err != nil {
				return errors.Wrapf(err, "supplier %q", sp.Name)
			}
			suppliers[sp.Name] = created.ID
			sum.Suppliers++
		}

		records := make(map[string]int64, len(d.Records))
		for _, r := range d.Records {
			price, err := model.NewPrice(r.Price)
			if err != nil {
				return errors.Wrapf(err, "record %q", r.Title)
			}
			created, err := s.records.Create(ctx, model.RecordCreateRequest{
				Title:  r.Title,
				Artist: r.Artist,
				Genre:  r.Genre,
				Price:  &price,
			})
			if err != nil {
				return errors.Wrapf(err, "record %q", r.Title)
			}
			records[r.Title] = created.ID
			sum.Records++
		}

		for i, o := range d.Orders {
			customerID, ok := customers[o.Customer]
			if !ok {
				return errors.Errorf("order %d: unknown customer %q", i, o.Customer)
			}
			recordID, ok := records[o.Record]
			if !ok {
				return errors.Errorf("order %d: unknown record %q", i, o.Record)
			}
			if _, err := s.orders.Create(ctx, model.OrderCreateRequest{
				CustomerID: customerID,
				RecordID:   recordID,
				OrderDate:  o.OrderDate,
			}); err != nil {
				return errors.Wrapf(err, "order %d", i)
			}
			sum.Orders++
		}

		for i, inv := range d.Inventory {
			supplierID, ok := suppliers[inv.Supplier]
			if !ok {
				return errors.Errorf("inventory %d: unknown supplier %q", i, inv.Supplier)
			}
			recordID, ok := records[inv.Record]
			if !ok {
				return errors.Errorf("inventory %d: unknown record %q", i, inv.Record)
			}
			price, err := model.NewPrice(inv.Price)
			if err != nil {
				return errors.Wrapf(err, "inventory %d", i)
			}
			qty := inv.StockQuantity
			if _, err := s.inventory.Create(ctx, model.InventoryCreateRequest{
				SupplierID:    supplierID,
				RecordID:      recordID,
				StockQuantity: &qty,
				Price:         &price,
			}); err != nil {
				return errors.Wrapf(err, "inventory %d", i)
			}
			sum.Inventory++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}
