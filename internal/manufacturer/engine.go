package manufacturer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/supplyline/internal/comms"
)

// Config tunes the manufacturer engine.
type Config struct {
	// Name the engine registers under on the network.
	Name string
	// HoldingRate is the daily storage cost per warehoused unit.
	HoldingRate decimal.Decimal
	// ReceiveTimeout bounds every in-phase receive. When it expires the
	// phase surfaces a stall instead of blocking the day silently.
	ReceiveTimeout time.Duration
}

// Snapshot is an immutable copy of engine state, published at phase
// boundaries for outside observers (the status API). The engine never
// hands out references to its live registries.
type Snapshot struct {
	Day          int             `json:"day"`
	Phase        string          `json:"phase"`
	Suppliers    []string        `json:"suppliers"`
	Customers    []string        `json:"customers"`
	Warehouse    map[string]int  `json:"warehouse"`
	ActiveOrders []OrderSummary  `json:"active_orders"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	History      []DayTotals     `json:"history"`
}

// OrderSummary is the read-only view of one tracked order.
type OrderSummary struct {
	OrderID  string          `json:"order_id"`
	Customer string          `json:"customer"`
	Supplier string          `json:"supplier"`
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Offered  decimal.Decimal `json:"offered"`
	State    string          `json:"state"`
}

// phase is one stage of the daily pipeline. The controller steps a phase
// until Done holds, then moves to the next; no two phases run at once.
type phase interface {
	Name() string
	Step(ctx context.Context) error
	Done() bool
}

// Engine is the manufacturer-side orchestration core: a single goroutine
// that owns the supplier registry, the order list, the warehouse, and the
// ledger, and drives the daily phase pipeline over the message network.
// All registry mutation happens inside Run, so none of it is locked.
type Engine struct {
	cfg    Config
	net    *comms.Network
	box    *comms.Mailbox
	logger *slog.Logger

	day       int
	ticker    string
	customers []string
	suppliers map[string]*SupplierProfile
	orders    []*OrderRecord
	warehouse Warehouse
	ledger    *Ledger

	publish func(Snapshot)
}

// New joins the network as a manufacturer and returns the engine. A
// registration failure is fatal: the engine does not proceed without a
// directory entry.
func New(net *comms.Network, cfg Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReceiveTimeout <= 0 {
		cfg.ReceiveTimeout = 5 * time.Second
	}

	box, err := net.Join(cfg.Name, comms.RoleManufacturer)
	if err != nil {
		return nil, fmt.Errorf("manufacturer registration failed: %w", err)
	}

	return &Engine{
		cfg:       cfg,
		net:       net,
		box:       box,
		logger:    logger.With("participant", cfg.Name),
		day:       1,
		suppliers: make(map[string]*SupplierProfile),
		warehouse: make(Warehouse),
		ledger:    NewLedger(),
	}, nil
}

// OnSnapshot registers a sink for state snapshots. Must be set before Run.
func (e *Engine) OnSnapshot(fn func(Snapshot)) {
	e.publish = fn
}

// Ledger returns the engine's ledger. Only safe to read once Run has
// returned.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// Run waits for day signals and executes one full pipeline per day until
// the ticker terminates it or the context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	defer e.net.Leave(e.cfg.Name)

	for {
		msg, err := e.box.Receive(ctx, comms.MatchConversation(comms.ConvDayCycle))
		if err != nil {
			return fmt.Errorf("awaiting day signal: %w", err)
		}
		if e.ticker == "" {
			e.ticker = msg.Sender
		}

		switch msg.Payload.(type) {
		case comms.NewDay:
			if err := e.runDay(ctx); err != nil {
				return fmt.Errorf("day %d: %w", e.day, err)
			}
		case comms.Terminate:
			e.logger.Info("terminating", "final_profit", e.ledger.TotalProfit)
			return nil
		default:
			e.logger.Warn("unexpected day-cycle payload", "from", msg.Sender)
		}
	}
}

// runDay drives the ordered phase sequence to completion. A phase must
// report Done before the next phase starts; stalls are logged and the
// step retried so a slow counterparty is observable rather than silent.
func (e *Engine) runDay(ctx context.Context) error {
	e.logger.Info("day started", "day", e.day)

	phases := []phase{
		newDiscoverCustomers(e),
		newDiscoverSuppliers(e),
		newCollectQuotes(e),
		newEvaluateOrders(e),
		newProcureComponents(e),
		newReceiveSupplies(e),
		newShipOrders(e),
		newDailyAccounting(e),
		newEndOfDay(e),
	}

	for _, p := range phases {
		for !p.Done() {
			if err := p.Step(ctx); err != nil {
				if errors.Is(err, comms.ErrReceiveTimeout) {
					e.logger.Warn("phase stalled", "phase", p.Name(), "day", e.day)
					continue
				}
				return fmt.Errorf("phase %s: %w", p.Name(), err)
			}
		}
		e.snapshot(p.Name())
	}
	return nil
}

// send is the engine's one-stop outbound path.
func (e *Engine) send(receiver string, perf comms.Performative, conv string, payload comms.Payload) error {
	return e.net.Send(comms.Message{
		Performative: perf,
		Conversation: conv,
		Sender:       e.cfg.Name,
		Receiver:     receiver,
		Payload:      payload,
	})
}

// receive is a bounded in-phase receive.
func (e *Engine) receive(ctx context.Context, filter comms.Filter) (comms.Message, error) {
	return e.box.ReceiveWithin(ctx, e.cfg.ReceiveTimeout, filter)
}

// quickestSupplier picks the quoted supplier with the lowest lead time.
// Suppliers are scanned in ascending name order, so ties go to the
// lexicographically smallest name.
func (e *Engine) quickestSupplier() (*SupplierProfile, bool) {
	names := make([]string, 0, len(e.suppliers))
	for name := range e.suppliers {
		names = append(names, name)
	}
	sort.Strings(names)

	var best *SupplierProfile
	for _, name := range names {
		sp := e.suppliers[name]
		if !sp.Quoted() {
			continue
		}
		if best == nil || sp.LeadTimeDays < best.LeadTimeDays {
			best = sp
		}
	}
	return best, best != nil
}

// findOrder locates an active order by id and state.
func (e *Engine) findOrder(orderID string, state OrderState) (*OrderRecord, bool) {
	for _, rec := range e.orders {
		if rec.Order.ID == orderID && rec.State == state {
			return rec, true
		}
	}
	return nil, false
}

// countState counts active orders in one state.
func (e *Engine) countState(state OrderState) int {
	n := 0
	for _, rec := range e.orders {
		if rec.State == state {
			n++
		}
	}
	return n
}

// dropOrder removes a record from active tracking.
func (e *Engine) dropOrder(rec *OrderRecord) {
	for i, r := range e.orders {
		if r == rec {
			e.orders = append(e.orders[:i], e.orders[i+1:]...)
			return
		}
	}
}

// snapshot publishes an immutable copy of the current state.
func (e *Engine) snapshot(phaseName string) {
	if e.publish == nil {
		return
	}

	suppliers := make([]string, 0, len(e.suppliers))
	for name := range e.suppliers {
		suppliers = append(suppliers, name)
	}
	sort.Strings(suppliers)

	stock := make(map[string]int, len(e.warehouse))
	for c, qty := range e.warehouse {
		stock[c.String()] = qty
	}

	orders := make([]OrderSummary, 0, len(e.orders))
	for _, rec := range e.orders {
		orders = append(orders, OrderSummary{
			OrderID:  rec.Order.ID,
			Customer: rec.Customer,
			Supplier: rec.Supplier,
			Product:  rec.Order.Product.Name,
			Quantity: rec.Order.Quantity,
			Offered:  rec.Order.OfferedPrice,
			State:    rec.State.String(),
		})
	}

	history := make([]DayTotals, len(e.ledger.History))
	copy(history, e.ledger.History)

	e.publish(Snapshot{
		Day:          e.day,
		Phase:        phaseName,
		Suppliers:    suppliers,
		Customers:    append([]string(nil), e.customers...),
		Warehouse:    stock,
		ActiveOrders: orders,
		TotalProfit:  e.ledger.TotalProfit,
		History:      history,
	})
}
