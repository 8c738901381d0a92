package comms

import (
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/supplyline/internal/catalog"
	"github.com/matthieukhl/supplyline/internal/trade"
)

// Payload is the closed set of message contents. Every variant lives in
// this file; receivers type-switch over it exhaustively instead of
// inspecting runtime types ad hoc.
type Payload interface {
	isPayload()
}

// NewDay signals the start of a simulated day.
type NewDay struct {
	Day int
}

// Terminate ends a participant's task permanently.
type Terminate struct{}

// DayComplete tells the ticker and the suppliers the manufacturer has
// finished its daily pipeline.
type DayComplete struct {
	Day int
}

// QuoteRequest asks a supplier for its full price list and lead time.
type QuoteRequest struct {
	Buyer string
}

// QuoteReply carries a supplier's price list and lead time for the day.
type QuoteReply struct {
	Supplier     string
	Prices       map[catalog.Component]decimal.Decimal
	LeadTimeDays int
}

// OrderRequest asks the manufacturer to take on a customer order.
type OrderRequest struct {
	Order trade.CustomerOrder
}

// OrderDecision references the order an accept/reject reply is about; the
// decision itself rides on the performative (Confirm or Disconfirm).
type OrderDecision struct {
	OrderID string
}

// OrderConfirmation is the customer re-confirming a previously accepted
// order so component procurement can start.
type OrderConfirmation struct {
	OrderID string
}

// StockQuery asks a supplier whether it can fulfil a component set at the
// given per-component quantity.
type StockQuery struct {
	Components []catalog.Component
	Quantity   int
}

// StockDecision is the supplier's reply to a StockQuery; the answer rides
// on the performative.
type StockDecision struct{}

// PurchaseRequest is the firm order for components placed with a supplier.
type PurchaseRequest struct {
	Components []catalog.Component
	Quantity   int
	OrderID    string
}

// Payment transfers money, referencing the order it settles.
type Payment struct {
	Amount  decimal.Decimal
	OrderID string
}

// Shipment announces goods in transit: components from a supplier, or
// finished phones to a customer.
type Shipment struct {
	OrderID    string
	Components []catalog.Component
	Quantity   int
}

func (NewDay) isPayload()            {}
func (Terminate) isPayload()         {}
func (DayComplete) isPayload()       {}
func (QuoteRequest) isPayload()      {}
func (QuoteReply) isPayload()        {}
func (OrderRequest) isPayload()      {}
func (OrderDecision) isPayload()     {}
func (OrderConfirmation) isPayload() {}
func (StockQuery) isPayload()        {}
func (StockDecision) isPayload()     {}
func (PurchaseRequest) isPayload()   {}
func (Payment) isPayload()           {}
func (Shipment) isPayload()          {}
