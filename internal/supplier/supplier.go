// Package supplier implements a scripted component supplier: it quotes a
// daily price list, confirms stock queries up to a per-order capacity,
// and ships purchased components on their promised day.
package supplier

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/supplyline/internal/catalog"
	"github.com/matthieukhl/supplyline/internal/comms"
)

// Config describes one supplier's strategy.
type Config struct {
	Name         string
	LeadTimeDays int
	// Capacity is the largest per-order quantity the supplier confirms.
	// Zero means unlimited.
	Capacity int
	// BasePrices per component; the daily quote jitters around these.
	BasePrices map[catalog.Component]decimal.Decimal
	// PriceJitter is the +/- fraction applied to base prices each day.
	PriceJitter float64
}

type pendingShipment struct {
	buyer      string
	orderID    string
	components []catalog.Component
	quantity   int
	dueDay     int
}

// Supplier is one supplier participant. Run owns all of its state.
type Supplier struct {
	cfg    Config
	net    *comms.Network
	box    *comms.Mailbox
	logger *slog.Logger
	rng    *rand.Rand

	day      int
	prices   map[catalog.Component]decimal.Decimal
	pending  []pendingShipment
	earnings decimal.Decimal
}

// New joins the network under the supplier role.
func New(net *comms.Network, cfg Config, seed int64, logger *slog.Logger) (*Supplier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	box, err := net.Join(cfg.Name, comms.RoleSupplier)
	if err != nil {
		return nil, fmt.Errorf("supplier registration failed: %w", err)
	}
	s := &Supplier{
		cfg:      cfg,
		net:      net,
		box:      box,
		logger:   logger.With("participant", cfg.Name),
		rng:      rand.New(rand.NewSource(seed)),
		earnings: decimal.Zero,
	}
	s.reprice()
	return s, nil
}

// Run processes messages until terminated.
func (s *Supplier) Run(ctx context.Context) error {
	defer s.net.Leave(s.cfg.Name)

	for {
		msg, err := s.box.Receive(ctx, comms.Any)
		if err != nil {
			return err
		}

		switch payload := msg.Payload.(type) {
		case comms.NewDay:
			s.day = payload.Day
			s.reprice()
			s.dispatchDue()
		case comms.Terminate:
			s.logger.Info("terminating", "earnings", s.earnings)
			return nil
		case comms.DayComplete:
			// The manufacturer's end-of-day notice; nothing to do.
		case comms.QuoteRequest:
			s.sendQuote(msg.Sender)
		case comms.StockQuery:
			s.answerStockQuery(msg.Sender, payload)
		case comms.PurchaseRequest:
			s.pending = append(s.pending, pendingShipment{
				buyer:      msg.Sender,
				orderID:    payload.OrderID,
				components: payload.Components,
				quantity:   payload.Quantity,
				dueDay:     s.day + s.cfg.LeadTimeDays,
			})
		case comms.Payment:
			s.earnings = s.earnings.Add(payload.Amount)
		default:
			s.logger.Warn("discarding unexpected message",
				"from", msg.Sender, "conversation", msg.Conversation)
		}
	}
}

// reprice rolls the day's price list from the base prices. Components
// are visited in catalog order, not map order, so a seed always assigns
// the same jitter draw to the same component.
func (s *Supplier) reprice() {
	s.prices = make(map[catalog.Component]decimal.Decimal, len(s.cfg.BasePrices))
	for _, c := range catalog.AllComponents() {
		base, ok := s.cfg.BasePrices[c]
		if !ok {
			continue
		}
		factor := 1 + s.cfg.PriceJitter*(2*s.rng.Float64()-1)
		s.prices[c] = base.Mul(decimal.NewFromFloat(factor)).Round(2)
	}
}

// dispatchDue ships every pending purchase promised for today or
// earlier. A shipment whose buyer is unreachable stays pending and is
// retried on the next day signal.
func (s *Supplier) dispatchDue() {
	var remaining []pendingShipment
	for _, p := range s.pending {
		if p.dueDay > s.day {
			remaining = append(remaining, p)
			continue
		}
		err := s.send(p.buyer, comms.Inform, comms.ConvComponentDelivery, comms.Shipment{
			OrderID:    p.orderID,
			Components: p.components,
			Quantity:   p.quantity,
		})
		if err != nil {
			s.logger.Warn("delivery failed, kept pending", "order", p.orderID, "error", err)
			remaining = append(remaining, p)
			continue
		}
		s.logger.Info("components shipped", "order", p.orderID, "buyer", p.buyer)
	}
	s.pending = remaining
}

func (s *Supplier) sendQuote(buyer string) {
	prices := make(map[catalog.Component]decimal.Decimal, len(s.prices))
	for c, p := range s.prices {
		prices[c] = p
	}
	err := s.send(buyer, comms.Inform, comms.ConvSupplierDetails, comms.QuoteReply{
		Supplier:     s.cfg.Name,
		Prices:       prices,
		LeadTimeDays: s.cfg.LeadTimeDays,
	})
	if err != nil {
		s.logger.Warn("quote reply failed", "buyer", buyer, "error", err)
	}
}

func (s *Supplier) answerStockQuery(buyer string, query comms.StockQuery) {
	perf := comms.Confirm
	if s.cfg.Capacity > 0 && query.Quantity > s.cfg.Capacity {
		perf = comms.Disconfirm
	}
	if err := s.send(buyer, perf, comms.ConvStockResponse, comms.StockDecision{}); err != nil {
		s.logger.Warn("stock reply failed", "buyer", buyer, "error", err)
	}
}

func (s *Supplier) send(receiver string, perf comms.Performative, conv string, payload comms.Payload) error {
	return s.net.Send(comms.Message{
		Performative: perf,
		Conversation: conv,
		Sender:       s.cfg.Name,
		Receiver:     receiver,
		Payload:      payload,
	})
}
