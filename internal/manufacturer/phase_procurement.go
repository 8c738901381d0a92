package manufacturer

import (
	"context"
	"errors"
	"fmt"

	"github.com/matthieukhl/supplyline/internal/comms"
)

// procureState names the stages of the per-order procurement protocol.
type procureState int

const (
	procureAwaitConfirmation procureState = iota
	procureQueryStock
	procureAwaitStockReply
	procurePay
)

// procureComponents negotiates and pays for components, one confirmed
// order at a time: wait for the customer's re-confirmation, query the
// assigned supplier's stock, place the firm purchase, send payment. An
// order whose customer never re-confirms today is dropped when the
// confirmation receive deadline expires; an order whose supplier
// disconfirms stock is cancelled.
type procureComponents struct {
	e       *Engine
	state   procureState
	current *OrderRecord
}

func newProcureComponents(e *Engine) *procureComponents {
	return &procureComponents{e: e}
}

func (p *procureComponents) Name() string { return "procure-components" }

func (p *procureComponents) Done() bool {
	return p.state == procureAwaitConfirmation &&
		p.current == nil &&
		p.e.countState(StateApproved) == 0
}

func (p *procureComponents) Step(ctx context.Context) error {
	switch p.state {
	case procureAwaitConfirmation:
		return p.awaitConfirmation(ctx)
	case procureQueryStock:
		return p.queryStock()
	case procureAwaitStockReply:
		return p.awaitStockReply(ctx)
	case procurePay:
		return p.pay()
	}
	return nil
}

func (p *procureComponents) awaitConfirmation(ctx context.Context) error {
	msg, err := p.e.receive(ctx, comms.And(
		comms.MatchConversation(comms.ConvOrderConfirmation),
		comms.MatchPerformative(comms.Request),
	))
	if errors.Is(err, comms.ErrReceiveTimeout) {
		// The customers had their chance today; whatever is still
		// APPROVED was not re-confirmed and leaves active tracking.
		for _, rec := range p.e.approvedOrders() {
			p.e.logger.Info("order dropped, customer did not confirm",
				"order", rec.Order.ID, "customer", rec.Customer)
			rec.State = StateDropped
			p.e.dropOrder(rec)
			p.e.notifyRejection(rec)
		}
		return nil
	}
	if err != nil {
		return err
	}

	conf, ok := msg.Payload.(comms.OrderConfirmation)
	if !ok {
		p.e.logger.Warn("discarding malformed order confirmation", "from", msg.Sender)
		return nil
	}
	rec, ok := p.e.findOrder(conf.OrderID, StateApproved)
	if !ok {
		p.e.logger.Warn("discarding confirmation for unknown order",
			"order", conf.OrderID, "from", msg.Sender)
		return nil
	}
	if rec.Customer != msg.Sender {
		p.e.logger.Warn("discarding confirmation from wrong customer",
			"order", conf.OrderID, "from", msg.Sender)
		return nil
	}

	rec.State = StateConfirmed
	p.current = rec
	p.state = procureQueryStock
	return nil
}

func (p *procureComponents) queryStock() error {
	err := p.e.send(p.current.Supplier, comms.QueryIf, comms.ConvStockQuery,
		comms.StockQuery{
			Components: p.current.Order.Product.Components,
			Quantity:   p.current.Order.Quantity,
		})
	if err != nil {
		return fmt.Errorf("stock query to %s: %w", p.current.Supplier, err)
	}
	p.state = procureAwaitStockReply
	return nil
}

func (p *procureComponents) awaitStockReply(ctx context.Context) error {
	msg, err := p.e.receive(ctx, comms.And(
		comms.MatchConversation(comms.ConvStockResponse),
		comms.MatchPerformative(comms.Confirm, comms.Disconfirm),
	))
	if err != nil {
		return err
	}
	if msg.Sender != p.current.Supplier {
		p.e.logger.Warn("discarding stock reply from unexpected supplier",
			"from", msg.Sender, "expected", p.current.Supplier)
		return nil
	}

	if msg.Performative == comms.Disconfirm {
		p.e.logger.Info("order cancelled, supplier out of stock",
			"order", p.current.Order.ID, "supplier", p.current.Supplier)
		p.current.State = StateCancelled
		p.e.dropOrder(p.current)
		p.e.notifyRejection(p.current)
		p.current = nil
		p.state = procureAwaitConfirmation
		return nil
	}

	err = p.e.send(p.current.Supplier, comms.Request, comms.ConvPurchase,
		comms.PurchaseRequest{
			Components: p.current.Order.Product.Components,
			Quantity:   p.current.Order.Quantity,
			OrderID:    p.current.Order.ID,
		})
	if err != nil {
		return fmt.Errorf("purchase request to %s: %w", p.current.Supplier, err)
	}
	p.current.State = StateComponentsOrdered
	p.state = procurePay
	return nil
}

func (p *procureComponents) pay() error {
	err := p.e.send(p.current.Supplier, comms.Inform, comms.ConvSupplierPayment,
		comms.Payment{
			Amount:  p.current.ProcurementCost,
			OrderID: p.current.Order.ID,
		})
	if err != nil {
		return fmt.Errorf("payment to %s: %w", p.current.Supplier, err)
	}
	p.e.ledger.AddProcurement(p.current.ProcurementCost)

	p.e.logger.Info("components ordered and paid",
		"order", p.current.Order.ID, "supplier", p.current.Supplier,
		"cost", p.current.ProcurementCost, "due", p.current.ComponentsDue)

	p.current = nil
	p.state = procureAwaitConfirmation
	return nil
}

// notifyRejection tells the customer an order it may still be tracking
// will never be fulfilled. Sent when procurement drops or cancels an
// order, so the customer can forget it.
func (e *Engine) notifyRejection(rec *OrderRecord) {
	err := e.send(rec.Customer, comms.Disconfirm, comms.ConvOrderResponse,
		comms.OrderDecision{OrderID: rec.Order.ID})
	if err != nil {
		e.logger.Warn("rejection notice failed",
			"order", rec.Order.ID, "customer", rec.Customer, "error", err)
	}
}

// approvedOrders returns the orders still awaiting customer confirmation.
func (e *Engine) approvedOrders() []*OrderRecord {
	var out []*OrderRecord
	for _, rec := range e.orders {
		if rec.State == StateApproved {
			out = append(out, rec)
		}
	}
	return out
}
