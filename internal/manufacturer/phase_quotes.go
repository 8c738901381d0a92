package manufacturer

import (
	"context"
	"fmt"

	"github.com/matthieukhl/supplyline/internal/comms"
)

// quotesState names the stages of the pricing-collection protocol.
type quotesState int

const (
	quotesSending quotesState = iota
	quotesCollecting
)

// collectQuotes requests each supplier's price list and lead time, then
// collects exactly one valid reply per supplier. Replies from unknown
// senders or with the wrong payload shape are logged and do not count.
type collectQuotes struct {
	e     *Engine
	state quotesState
	seen  map[string]bool
}

func newCollectQuotes(e *Engine) *collectQuotes {
	return &collectQuotes{e: e, seen: make(map[string]bool)}
}

func (p *collectQuotes) Name() string { return "collect-quotes" }

func (p *collectQuotes) Done() bool {
	return p.state == quotesCollecting && len(p.seen) == len(p.e.suppliers)
}

func (p *collectQuotes) Step(ctx context.Context) error {
	switch p.state {
	case quotesSending:
		for _, sp := range p.e.suppliers {
			err := p.e.send(sp.Name, comms.Request, comms.ConvSupplierDetails,
				comms.QuoteRequest{Buyer: p.e.cfg.Name})
			if err != nil {
				return fmt.Errorf("quote request to %s: %w", sp.Name, err)
			}
		}
		p.state = quotesCollecting
		return nil

	case quotesCollecting:
		msg, err := p.e.receive(ctx, comms.And(
			comms.MatchConversation(comms.ConvSupplierDetails),
			comms.MatchPerformative(comms.Inform),
		))
		if err != nil {
			return err
		}

		quote, ok := msg.Payload.(comms.QuoteReply)
		if !ok {
			p.e.logger.Warn("discarding malformed quote reply", "from", msg.Sender)
			return nil
		}
		sp, ok := p.e.suppliers[msg.Sender]
		if !ok {
			p.e.logger.Warn("discarding quote from unknown supplier", "from", msg.Sender)
			return nil
		}
		if p.seen[msg.Sender] {
			p.e.logger.Warn("discarding duplicate quote", "from", msg.Sender)
			return nil
		}

		sp.SetQuote(quote.Prices, quote.LeadTimeDays)
		p.seen[msg.Sender] = true
		return nil
	}
	return nil
}
