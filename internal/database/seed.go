package database

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SeedServices are the services demo data is written through, so seeded
// rows get the same tax, numbering and audit treatment as API traffic.
type SeedServices struct {
	Locations      service.LocationService
	Products       service.ProductService
	Inventory      service.InventoryService
	Suppliers      service.SupplierService
	SupplierOrders service.SupplierOrderService
	Sales          service.SalesService
	Invoices       service.InvoiceService
	Payments       service.PaymentService
}

type seedProduct struct {
	name, sku, barcode, category, hsn string
	price, rate                       string
	reorder                           int
	stock                             [2]int // warehouse, store
	dailySales                        int
}

var demoProducts = []seedProduct{
	{"Basmati Rice 5kg", "RICE-5KG", "8901234500011", "Grocery", "1006", "540.00", "5", 40, [2]int{220, 35}, 4},
	{"Sunflower Oil 1L", "OIL-SUN-1L", "8901234500028", "Grocery", "1512", "165.00", "5", 60, [2]int{300, 25}, 6},
	{"Steel Water Bottle", "BTL-STEEL", "8901234500035", "Home", "7323", "349.00", "18", 20, [2]int{80, 12}, 2},
	{"LED Bulb 9W", "LED-9W", "8901234500042", "Electrical", "8539", "99.00", "12", 50, [2]int{15, 4}, 5},
	{"Notebook A5", "NB-A5", "8901234500059", "Stationery", "4820", "45.00", "12", 100, [2]int{500, 150}, 10},
	{"USB-C Cable 1m", "CBL-USBC", "8901234500066", "Electronics", "8544", "299.00", "18", 25, [2]int{0, 8}, 1},
}

// SeedDemoData fills an empty store with two locations, a product catalogue,
// stock, suppliers, purchase orders, a month of sales and a few invoices.
// It does nothing when any location or product already exists, so restarts
// against a persistent database are safe.
func SeedDemoData(ctx context.Context, s SeedServices, userID string, now time.Time, logger *zap.Logger) error {
	locs, err := s.Locations.ListLocations(ctx)
	if err != nil {
		return fmt.Errorf("check locations: %w", err)
	}
	_, productCount, err := s.Products.ListProducts(ctx, service.ProductFilter{Limit: 1})
	if err != nil {
		return fmt.Errorf("check products: %w", err)
	}
	if len(locs) > 0 || productCount > 0 {
		logger.Info("demo data skipped, store not empty",
			zap.Int("locations", len(locs)),
			zap.Int64("products", productCount))
		return nil
	}

	warehouse, err := s.Locations.CreateLocation(ctx, service.CreateLocationRequest{
		Name: "Central Warehouse", Address: "Plot 14, MIDC Bhosari, Pune", Type: model.LocationTypeWarehouse, StateCode: "27",
	})
	if err != nil {
		return fmt.Errorf("seed warehouse: %w", err)
	}
	store, err := s.Locations.CreateLocation(ctx, service.CreateLocationRequest{
		Name: "Indiranagar Store", Address: "100 Feet Road, Bengaluru", Type: model.LocationTypeStore, StateCode: "29",
	})
	if err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	locations := [2]*model.Location{warehouse, store}

	products := make([]*model.Product, 0, len(demoProducts))
	for _, p := range demoProducts {
		barcode := p.barcode
		product, err := s.Products.CreateProduct(ctx, userID, service.CreateProductRequest{
			Name:         p.name,
			SKU:          p.sku,
			Barcode:      &barcode,
			Category:     p.category,
			UnitPrice:    decimal.RequireFromString(p.price),
			ReorderPoint: p.reorder,
			HSNCode:      p.hsn,
			GSTRate:      decimal.NewNullDecimal(decimal.RequireFromString(p.rate)),
		})
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.sku, err)
		}
		products = append(products, product)

		for i, loc := range locations {
			_, err := s.Inventory.CreateInventory(ctx, userID, service.CreateInventoryRequest{
				ProductID:  product.ID.String(),
				LocationID: loc.ID.String(),
				Quantity:   p.stock[i],
			})
			if err != nil {
				return fmt.Errorf("seed inventory %s: %w", p.sku, err)
			}
		}

		// 30 days of store sales with a weekly bump
		for day := 30; day >= 1; day-- {
			qty := p.dailySales
			if day%7 == 0 {
				qty += p.dailySales / 2
			}
			date := now.AddDate(0, 0, -day)
			_, err := s.Sales.RecordSale(ctx, service.RecordSaleRequest{
				ProductID:  product.ID.String(),
				LocationID: store.ID.String(),
				Quantity:   qty,
				UnitPrice:  product.UnitPrice,
				Date:       &date,
			})
			if err != nil {
				return fmt.Errorf("seed sales %s: %w", p.sku, err)
			}
		}
	}

	local, err := s.Suppliers.CreateSupplier(ctx, service.CreateSupplierRequest{
		Name: "Deccan Agro Traders", ContactName: "Meera Kulkarni", Email: "orders@deccanagro.example",
		Phone: "+91 20 5550 1100", GSTNumber: "27AABCD1234E1Z5", PANNumber: "AABCD1234E", StateCode: "27",
	})
	if err != nil {
		return fmt.Errorf("seed supplier: %w", err)
	}
	remote, err := s.Suppliers.CreateSupplier(ctx, service.CreateSupplierRequest{
		Name: "Southline Electricals", ContactName: "Arjun Rao", Email: "sales@southline.example",
		Phone: "+91 80 5550 2200", GSTNumber: "29AAECS5678F1Z2", PANNumber: "AAECS5678F", StateCode: "29",
	})
	if err != nil {
		return fmt.Errorf("seed supplier: %w", err)
	}

	catalogue := []struct {
		supplier *model.Supplier
		product  *model.Product
		leadTime int
	}{
		{local, products[0], 3}, {local, products[1], 2}, {local, products[4], 5},
		{remote, products[3], 7}, {remote, products[5], 10}, {remote, products[2], 7},
	}
	for _, c := range catalogue {
		leadTime := c.leadTime
		cost := c.product.UnitPrice.Mul(decimal.RequireFromString("0.8")).Round(2)
		if _, err := s.Suppliers.AddSupplierProduct(ctx, c.supplier.ID.String(), service.AddSupplierProductRequest{
			ProductID: c.product.ID.String(),
			LeadTime:  &leadTime,
			UnitCost:  decimal.NewNullDecimal(cost),
		}); err != nil {
			return fmt.Errorf("seed supplier product: %w", err)
		}
	}

	orderDate := now.AddDate(0, 0, -5)
	due := now.AddDate(0, 0, 10)
	orders := []service.CreateSupplierOrderRequest{
		{
			Order: service.SupplierOrderInput{
				SupplierID: local.ID.String(), LocationID: warehouse.ID.String(),
				OrderDate: &orderDate, PaymentDueDate: &due, Notes: "Monthly grocery restock",
			},
			Items: []service.OrderItemInput{
				{ProductID: products[0].ID.String(), Quantity: 50, UnitPrice: decimal.RequireFromString("430.00"), HSNCode: "1006"},
				{ProductID: products[1].ID.String(), Quantity: 100, UnitPrice: decimal.RequireFromString("130.00"), HSNCode: "1512"},
			},
		},
		{
			Order: service.SupplierOrderInput{
				SupplierID: remote.ID.String(), LocationID: warehouse.ID.String(),
				OrderDate: &now, PaymentDueDate: &due,
			},
			Items: []service.OrderItemInput{
				{ProductID: products[3].ID.String(), Quantity: 200, UnitPrice: decimal.RequireFromString("72.00"), HSNCode: "8539"},
			},
		},
	}
	for _, o := range orders {
		if _, err := s.SupplierOrders.CreateOrder(ctx, userID, o); err != nil {
			return fmt.Errorf("seed supplier order: %w", err)
		}
	}

	invoiceDue := now.AddDate(0, 0, 15)
	invoices := []service.CreateInvoiceRequest{
		{
			CustomerName: "Koramangala Mart", CustomerAddress: "5th Block, Bengaluru",
			CustomerGSTIN: "29AAFCK4321L1Z9", LocationID: store.ID.String(), DueDate: &invoiceDue,
			Items: []service.InvoiceItemInput{
				{ProductID: products[0].ID.String(), Quantity: 4},
				{ProductID: products[4].ID.String(), Quantity: 20},
			},
		},
		{
			CustomerName: "Nashik Retail Co", CustomerAddress: "College Road, Nashik",
			CustomerGSTIN: "27AAGCN8765M1Z3", LocationID: store.ID.String(), DueDate: &invoiceDue,
			Items: []service.InvoiceItemInput{
				{ProductID: products[2].ID.String(), Quantity: 6},
			},
		},
	}
	for i, req := range invoices {
		invoice, err := s.Invoices.CreateInvoice(ctx, userID, req)
		if err != nil {
			return fmt.Errorf("seed invoice: %w", err)
		}
		if i == 0 {
			// part-pay the first invoice so the ledger has a partial entry
			_, err := s.Payments.RecordPayment(ctx, userID, service.RecordPaymentRequest{
				EntityType:    model.EntityTypeInvoice,
				EntityID:      invoice.ID.String(),
				Amount:        invoice.TotalAmount.Div(decimal.NewFromInt(2)).Round(2),
				PaymentMethod: "upi",
				Reference:     "UPI-DEMO-0001",
			})
			if err != nil {
				return fmt.Errorf("seed payment: %w", err)
			}
		}
	}

	logger.Info("demo data seeded",
		zap.Int("products", len(products)),
		zap.Int("orders", len(orders)),
		zap.Int("invoices", len(invoices)))
	return nil
}
