package manufacturer

import (
	"context"

	"github.com/matthieukhl/supplyline/internal/comms"
)

// receiveSupplies waits for one delivery notice per order whose promised
// component delivery day is today. Received quantities go into the
// warehouse and the order becomes READY for assembly.
type receiveSupplies struct {
	e        *Engine
	due      map[string]bool
	received int
}

func newReceiveSupplies(e *Engine) *receiveSupplies {
	due := make(map[string]bool)
	for _, rec := range e.orders {
		if rec.State == StateComponentsOrdered && rec.ComponentsDue == e.day {
			due[rec.Order.ID] = true
		}
	}
	return &receiveSupplies{e: e, due: due}
}

func (p *receiveSupplies) Name() string { return "receive-supplies" }

func (p *receiveSupplies) Done() bool {
	return p.received == len(p.due)
}

func (p *receiveSupplies) Step(ctx context.Context) error {
	msg, err := p.e.receive(ctx, comms.And(
		comms.MatchConversation(comms.ConvComponentDelivery),
		comms.MatchPerformative(comms.Inform),
	))
	if err != nil {
		return err
	}

	shipment, ok := msg.Payload.(comms.Shipment)
	if !ok {
		p.e.logger.Warn("discarding malformed delivery notice", "from", msg.Sender)
		return nil
	}
	if !p.due[shipment.OrderID] {
		p.e.logger.Warn("discarding delivery for order not due today",
			"order", shipment.OrderID, "from", msg.Sender)
		return nil
	}
	rec, ok := p.e.findOrder(shipment.OrderID, StateComponentsOrdered)
	if !ok {
		p.e.logger.Warn("discarding delivery for unknown order",
			"order", shipment.OrderID, "from", msg.Sender)
		return nil
	}

	for _, c := range shipment.Components {
		p.e.warehouse.Add(c, shipment.Quantity)
	}
	rec.State = StateReady
	p.due[shipment.OrderID] = false
	p.received++

	p.e.logger.Info("components received", "order", rec.Order.ID,
		"supplier", msg.Sender, "quantity", shipment.Quantity)
	return nil
}
