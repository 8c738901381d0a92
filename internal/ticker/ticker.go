// Package ticker drives the simulated clock: it broadcasts the start of
// each day, waits for the manufacturer to finish its pipeline, and
// terminates every participant when the run is over.
package ticker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/matthieukhl/supplyline/internal/comms"
)

// Ticker is the day broadcaster.
type Ticker struct {
	name   string
	days   int
	net    *comms.Network
	box    *comms.Mailbox
	logger *slog.Logger
}

// New joins the network under the ticker role.
func New(net *comms.Network, name string, days int, logger *slog.Logger) (*Ticker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	box, err := net.Join(name, comms.RoleTicker)
	if err != nil {
		return nil, fmt.Errorf("ticker registration failed: %w", err)
	}
	return &Ticker{
		name:   name,
		days:   days,
		net:    net,
		box:    box,
		logger: logger.With("participant", name),
	}, nil
}

// Run advances the clock one day at a time. Suppliers and customers hear
// about a new day before the manufacturer so their mailboxes are primed
// when its pipeline starts.
func (t *Ticker) Run(ctx context.Context) error {
	defer t.net.Leave(t.name)

	for day := 1; day <= t.days; day++ {
		t.broadcast(comms.NewDay{Day: day})

		_, err := t.box.Receive(ctx, comms.And(
			comms.MatchConversation(comms.ConvDayCycle),
			comms.MatchPerformative(comms.Inform),
		))
		if err != nil {
			return fmt.Errorf("awaiting day %d completion: %w", day, err)
		}
	}

	t.logger.Info("simulation complete", "days", t.days)
	t.broadcast(comms.Terminate{})
	return nil
}

// broadcast sends a day-cycle signal to every participant, manufacturers
// last.
func (t *Ticker) broadcast(payload comms.Payload) {
	for _, role := range []comms.Role{comms.RoleSupplier, comms.RoleCustomer, comms.RoleManufacturer} {
		for _, name := range t.net.Search(role) {
			err := t.net.Send(comms.Message{
				Performative: comms.Inform,
				Conversation: comms.ConvDayCycle,
				Sender:       t.name,
				Receiver:     name,
				Payload:      payload,
			})
			if err != nil {
				t.logger.Warn("broadcast failed", "to", name, "error", err)
			}
		}
	}
}
