package repository

import "gorm.io/gorm"

// Repositories bundles every repository behind one storage backend.
type Repositories struct {
	Tx               TransactionManager
	Users            UserRepository
	Audit            AuditRepository
	Locations        LocationRepository
	Products         ProductRepository
	Inventory        InventoryRepository
	Suppliers        SupplierRepository
	SupplierOrders   SupplierOrderRepository
	Sales            SaleRepository
	Predictions      PredictionRepository
	Invoices         InvoiceRepository
	Payments         PaymentRepository
	PriceRevaluation PriceRevaluationRepository
}

// NewGormRepositories wires the Postgres-backed repositories.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tx:               NewTransactionManager(db),
		Users:            NewUserRepository(db),
		Audit:            NewAuditRepository(db),
		Locations:        NewLocationRepository(db),
		Products:         NewProductRepository(db),
		Inventory:        NewInventoryRepository(db),
		Suppliers:        NewSupplierRepository(db),
		SupplierOrders:   NewSupplierOrderRepository(db),
		Sales:            NewSaleRepository(db),
		Predictions:      NewPredictionRepository(db),
		Invoices:         NewInvoiceRepository(db),
		Payments:         NewPaymentRepository(db),
		PriceRevaluation: NewPriceRevaluationRepository(db),
	}
}
