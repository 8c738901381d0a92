// Package customer implements a scripted customer: it places one order
// request per day, re-confirms accepted orders, and pays on shipment.
package customer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/supplyline/internal/catalog"
	"github.com/matthieukhl/supplyline/internal/comms"
	"github.com/matthieukhl/supplyline/internal/trade"
)

// Config describes one customer's ordering habits.
type Config struct {
	Name        string
	MaxQuantity int
	// MinUnitOffer and MaxUnitOffer bound the random per-unit price the
	// customer offers for a phone.
	MinUnitOffer float64
	MaxUnitOffer float64
	DeadlineDays int
	// PenaltyRate is the per-day charge the customer levies for late
	// delivery.
	PenaltyRate decimal.Decimal
}

// Customer is one customer participant.
type Customer struct {
	cfg    Config
	net    *comms.Network
	box    *comms.Mailbox
	logger *slog.Logger
	rng    *rand.Rand

	day  int
	open map[string]trade.CustomerOrder
}

// New joins the network under the customer role.
func New(net *comms.Network, cfg Config, seed int64, logger *slog.Logger) (*Customer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	box, err := net.Join(cfg.Name, comms.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("customer registration failed: %w", err)
	}
	return &Customer{
		cfg:    cfg,
		net:    net,
		box:    box,
		logger: logger.With("participant", cfg.Name),
		rng:    rand.New(rand.NewSource(seed)),
		open:   make(map[string]trade.CustomerOrder),
	}, nil
}

// Run processes messages until terminated.
func (c *Customer) Run(ctx context.Context) error {
	defer c.net.Leave(c.cfg.Name)

	for {
		msg, err := c.box.Receive(ctx, comms.Any)
		if err != nil {
			return err
		}

		switch payload := msg.Payload.(type) {
		case comms.NewDay:
			c.day = payload.Day
			c.placeOrder()
		case comms.Terminate:
			return nil
		case comms.OrderDecision:
			c.handleDecision(msg.Sender, msg.Performative, payload)
		case comms.Shipment:
			c.payFor(msg.Sender, payload)
		default:
			c.logger.Warn("discarding unexpected message",
				"from", msg.Sender, "conversation", msg.Conversation)
		}
	}
}

// placeOrder sends today's single order request to the manufacturer.
func (c *Customer) placeOrder() {
	manufacturers := c.net.Search(comms.RoleManufacturer)
	if len(manufacturers) == 0 {
		c.logger.Warn("no manufacturer found, skipping day", "day", c.day)
		return
	}

	products := catalog.Products()
	product := products[c.rng.Intn(len(products))]
	quantity := 1 + c.rng.Intn(c.cfg.MaxQuantity)

	spread := c.cfg.MaxUnitOffer - c.cfg.MinUnitOffer
	unitOffer := c.cfg.MinUnitOffer + spread*c.rng.Float64()
	offer := decimal.NewFromFloat(unitOffer).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2)

	order := trade.CustomerOrder{
		ID:           uuid.NewString(),
		Product:      product,
		Quantity:     quantity,
		OfferedPrice: offer,
		DeadlineDays: c.cfg.DeadlineDays,
		DailyPenalty: c.cfg.PenaltyRate,
	}
	c.open[order.ID] = order

	err := c.send(manufacturers[0], comms.QueryIf, comms.ConvOrderRequest,
		comms.OrderRequest{Order: order})
	if err != nil {
		c.logger.Warn("order request failed", "error", err)
		delete(c.open, order.ID)
		return
	}
	c.logger.Info("order placed", "order", order.ID,
		"product", product.Name, "quantity", quantity, "offer", offer)
}

// handleDecision reacts to the manufacturer's accept/reject reply.
func (c *Customer) handleDecision(sender string, perf comms.Performative, decision comms.OrderDecision) {
	if _, ok := c.open[decision.OrderID]; !ok {
		c.logger.Warn("decision for unknown order", "order", decision.OrderID)
		return
	}

	if perf != comms.Confirm {
		c.logger.Info("order rejected by manufacturer", "order", decision.OrderID)
		delete(c.open, decision.OrderID)
		return
	}

	err := c.send(sender, comms.Request, comms.ConvOrderConfirmation,
		comms.OrderConfirmation{OrderID: decision.OrderID})
	if err != nil {
		c.logger.Warn("order confirmation failed", "order", decision.OrderID, "error", err)
	}
}

// payFor settles a delivered order at the offered price.
func (c *Customer) payFor(sender string, shipment comms.Shipment) {
	order, ok := c.open[shipment.OrderID]
	if !ok {
		c.logger.Warn("shipment for unknown order", "order", shipment.OrderID)
		return
	}

	err := c.send(sender, comms.Inform, comms.ConvOrderPayment, comms.Payment{
		Amount:  order.OfferedPrice,
		OrderID: order.ID,
	})
	if err != nil {
		c.logger.Warn("payment failed", "order", order.ID, "error", err)
		return
	}
	delete(c.open, order.ID)
	c.logger.Info("order received and paid", "order", order.ID, "amount", order.OfferedPrice)
}

func (c *Customer) send(receiver string, perf comms.Performative, conv string, payload comms.Payload) error {
	return c.net.Send(comms.Message{
		Performative: perf,
		Conversation: conv,
		Sender:       c.cfg.Name,
		Receiver:     receiver,
		Payload:      payload,
	})
}
