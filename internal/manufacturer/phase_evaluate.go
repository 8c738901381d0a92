package manufacturer

import (
	"context"
	"fmt"

	"github.com/matthieukhl/supplyline/internal/comms"
)

// evaluateOrders answers one order request per discovered customer. The
// quickest quoted supplier is chosen as the fulfilment source; an order
// is approved only when the offered price beats its procurement cost.
type evaluateOrders struct {
	e       *Engine
	replies int
}

func newEvaluateOrders(e *Engine) *evaluateOrders {
	return &evaluateOrders{e: e}
}

func (p *evaluateOrders) Name() string { return "evaluate-orders" }

func (p *evaluateOrders) Done() bool {
	return p.replies == len(p.e.customers)
}

func (p *evaluateOrders) Step(ctx context.Context) error {
	msg, err := p.e.receive(ctx, comms.And(
		comms.MatchConversation(comms.ConvOrderRequest),
		comms.MatchPerformative(comms.QueryIf),
	))
	if err != nil {
		return err
	}

	req, ok := msg.Payload.(comms.OrderRequest)
	if !ok {
		p.e.logger.Warn("discarding malformed order request", "from", msg.Sender)
		return nil
	}

	accepted := p.e.evaluate(req, msg.Sender)

	perf := comms.Disconfirm
	if accepted {
		perf = comms.Confirm
	}
	err = p.e.send(msg.Sender, perf, comms.ConvOrderResponse,
		comms.OrderDecision{OrderID: req.Order.ID})
	if err != nil {
		return fmt.Errorf("order response to %s: %w", msg.Sender, err)
	}
	p.replies++
	return nil
}

// evaluate prices an order at the quickest supplier and records it as
// APPROVED when profitable. Unprofitable or unpriceable orders are
// rejected and not retained.
func (e *Engine) evaluate(req comms.OrderRequest, customer string) bool {
	rec := &OrderRecord{
		Order:    req.Order,
		Customer: customer,
		State:    StateProposed,
	}

	sp, ok := e.quickestSupplier()
	if !ok {
		e.logger.Warn("rejecting order, no quoted supplier", "order", req.Order.ID)
		rec.State = StateRejected
		return false
	}

	cost, ok := sp.CostOf(req.Order.Product.Components, req.Order.Quantity)
	if !ok {
		e.logger.Warn("rejecting order, supplier cannot price product",
			"order", req.Order.ID, "supplier", sp.Name)
		rec.State = StateRejected
		return false
	}

	profit := req.Order.OfferedPrice.Sub(cost)
	if !profit.IsPositive() {
		e.logger.Info("order rejected", "order", req.Order.ID,
			"offered", req.Order.OfferedPrice, "cost", cost)
		rec.State = StateRejected
		return false
	}

	rec.State = StateApproved
	rec.Supplier = sp.Name
	rec.ProcurementCost = cost
	rec.DayAccepted = e.day
	rec.ComponentsDue = e.day + sp.LeadTimeDays
	e.orders = append(e.orders, rec)

	e.logger.Info("order approved", "order", req.Order.ID,
		"supplier", sp.Name, "cost", cost, "profit", profit,
		"components_due", rec.ComponentsDue)
	return true
}
