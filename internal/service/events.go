package service

import "go.uber.org/zap"

// Websocket event names
const (
	EventInventoryUpdated = "inventory.updated"
	EventProductChanged   = "product.changed"
	EventPriceRevalued    = "price.revalued"
	EventPaymentRecorded  = "payment.recorded"
	EventOrderUpdated     = "supplier_order.updated"
	EventInvoiceCreated   = "invoice.created"
)

// Broadcaster pushes events to connected websocket clients.
type Broadcaster interface {
	BroadcastEvent(event string, data any)
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastEvent(string, any) {}

func broadcasterOrNop(b Broadcaster) Broadcaster {
	if b == nil {
		return nopBroadcaster{}
	}
	return b
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
