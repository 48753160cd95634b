// Package memory is a map-backed implementation of the repository
// interfaces, used for demos and tests when no database is configured.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
)

type txKey struct{}

type data struct {
	users            map[uuid.UUID]model.User
	locations        map[uuid.UUID]model.Location
	products         map[uuid.UUID]model.Product
	inventory        map[uuid.UUID]model.Inventory
	suppliers        map[uuid.UUID]model.Supplier
	supplierProducts []model.SupplierProduct
	orders           map[uuid.UUID]model.SupplierOrder
	sales            []model.Sale
	predictions      []model.Prediction
	invoices         map[uuid.UUID]model.Invoice
	payments         []model.Payment
	revaluations     []model.PriceRevaluation
	auditLogs        []model.AuditLog
}

func (d *data) clone() data {
	return data{
		users:            maps.Clone(d.users),
		locations:        maps.Clone(d.locations),
		products:         maps.Clone(d.products),
		inventory:        maps.Clone(d.inventory),
		suppliers:        maps.Clone(d.suppliers),
		supplierProducts: slices.Clone(d.supplierProducts),
		orders:           maps.Clone(d.orders),
		sales:            slices.Clone(d.sales),
		predictions:      slices.Clone(d.predictions),
		invoices:         maps.Clone(d.invoices),
		payments:         slices.Clone(d.payments),
		revaluations:     slices.Clone(d.revaluations),
		auditLogs:        slices.Clone(d.auditLogs),
	}
}

// Store holds all entities in memory.
//
// Writes are serialized by txMu: a transaction holds it for its whole
// duration, a write outside a transaction holds it for the single call.
// A failed transaction restores the snapshot taken when it started.
// Readers never block on txMu, so they may observe uncommitted writes.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	d    data
}

// New returns an empty store.
func New() *Store {
	return &Store{d: data{
		users:     make(map[uuid.UUID]model.User),
		locations: make(map[uuid.UUID]model.Location),
		products:  make(map[uuid.UUID]model.Product),
		inventory: make(map[uuid.UUID]model.Inventory),
		suppliers: make(map[uuid.UUID]model.Supplier),
		orders:    make(map[uuid.UUID]model.SupplierOrder),
		invoices:  make(map[uuid.UUID]model.Invoice),
	}}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Tx:               s,
		Users:            &userRepo{s},
		Audit:            &auditRepo{s},
		Locations:        &locationRepo{s},
		Products:         &productRepo{s},
		Inventory:        &inventoryRepo{s},
		Suppliers:        &supplierRepo{s},
		SupplierOrders:   &orderRepo{s},
		Sales:            &saleRepo{s},
		Predictions:      &predictionRepo{s},
		Invoices:         &invoiceRepo{s},
		Payments:         &paymentRepo{s},
		PriceRevaluation: &revaluationRepo{s},
	}
}

// RunInTx implements repository.TransactionManager. Nested calls join the
// outer transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.d.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func (s *Store) write(ctx context.Context, fn func(d *data) error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.d)
}

func (s *Store) read(fn func(d *data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.d)
}

func now() time.Time {
	return time.Now().UTC()
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func paginate[T any](rows []T, page, limit int) []T {
	if limit <= 0 {
		return rows
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+limit, len(rows))
	return rows[start:end]
}
