package manufacturer

import (
	"context"
	"fmt"

	"github.com/matthieukhl/supplyline/internal/comms"
)

// shipState names the two stages of assembly and payment collection.
type shipState int

const (
	shipAssemble shipState = iota
	shipCollectPayments
)

// shipOrders assembles and ships every READY order the warehouse can
// cover, then collects payment for everything shipped. Orders the
// warehouse cannot cover stay READY for a future day; that is deferred
// fulfilment, not an error.
type shipOrders struct {
	e     *Engine
	state shipState
}

func newShipOrders(e *Engine) *shipOrders {
	return &shipOrders{e: e}
}

func (p *shipOrders) Name() string { return "ship-orders" }

func (p *shipOrders) Done() bool {
	return p.state == shipCollectPayments && p.e.countState(StateShipped) == 0
}

func (p *shipOrders) Step(ctx context.Context) error {
	switch p.state {
	case shipAssemble:
		return p.assemble()
	case shipCollectPayments:
		return p.collectPayment(ctx)
	}
	return nil
}

func (p *shipOrders) assemble() error {
	for _, rec := range p.e.orders {
		if rec.State != StateReady {
			continue
		}
		components := rec.Order.Product.Components
		qty := rec.Order.Quantity

		if !p.e.warehouse.Holds(components, qty) {
			p.e.logger.Info("order held, insufficient stock", "order", rec.Order.ID)
			continue
		}
		if err := p.e.warehouse.Remove(components, qty); err != nil {
			return fmt.Errorf("assembling order %s: %w", rec.Order.ID, err)
		}

		err := p.e.send(rec.Customer, comms.Inform, comms.ConvOrderShipment,
			comms.Shipment{
				OrderID:    rec.Order.ID,
				Components: components,
				Quantity:   qty,
			})
		if err != nil {
			return fmt.Errorf("shipment notice to %s: %w", rec.Customer, err)
		}
		rec.State = StateShipped
		p.e.logger.Info("order shipped", "order", rec.Order.ID, "customer", rec.Customer)
	}
	p.state = shipCollectPayments
	return nil
}

func (p *shipOrders) collectPayment(ctx context.Context) error {
	msg, err := p.e.receive(ctx, comms.And(
		comms.MatchConversation(comms.ConvOrderPayment),
		comms.MatchPerformative(comms.Inform),
	))
	if err != nil {
		return err
	}

	payment, ok := msg.Payload.(comms.Payment)
	if !ok {
		p.e.logger.Warn("discarding malformed payment notice", "from", msg.Sender)
		return nil
	}
	rec, ok := p.e.findOrder(payment.OrderID, StateShipped)
	if !ok {
		p.e.logger.Warn("discarding payment for unknown order",
			"order", payment.OrderID, "from", msg.Sender)
		return nil
	}

	rec.State = StateCompleted
	p.e.ledger.AddRevenue(payment.Amount)
	p.e.logger.Info("payment received", "order", rec.Order.ID, "amount", payment.Amount)
	return nil
}
