package manufacturer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/supplyline/internal/comms"
)

// dailyAccounting is a single pass with no external messages: storage
// cost, late penalties, the day's profit folded into the running total,
// and a purge of completed orders.
type dailyAccounting struct {
	e    *Engine
	done bool
}

func newDailyAccounting(e *Engine) *dailyAccounting {
	return &dailyAccounting{e: e}
}

func (p *dailyAccounting) Name() string { return "daily-accounting" }
func (p *dailyAccounting) Done() bool   { return p.done }

func (p *dailyAccounting) Step(ctx context.Context) error {
	e := p.e

	for _, qty := range e.warehouse {
		cost := e.cfg.HoldingRate.Mul(decimal.NewFromInt(int64(qty)))
		e.ledger.StorageCost = e.ledger.StorageCost.Add(cost)
	}

	// Every tracked order past its deadline is charged the full elapsed
	// overdue amount, recomputed each day it is examined. This matches
	// the original system's books exactly.
	for _, rec := range e.orders {
		if e.day < rec.DeadlineDay() {
			continue
		}
		overdue := e.day - rec.DeadlineDay()
		penalty := rec.Order.DailyPenalty.Mul(decimal.NewFromInt(int64(overdue)))
		e.ledger.LatePenalty = e.ledger.LatePenalty.Add(penalty)
	}

	totals := e.ledger.Settle(e.day)

	var active []*OrderRecord
	for _, rec := range e.orders {
		if rec.State != StateCompleted {
			active = append(active, rec)
		}
	}
	e.orders = active

	e.logger.Info("day settled",
		"day", totals.Day,
		"revenue", totals.Revenue,
		"storage", totals.StorageCost,
		"penalty", totals.LatePenalty,
		"procurement", totals.Procurement,
		"profit", totals.Profit,
		"total_profit", e.ledger.TotalProfit)

	p.done = true
	return nil
}

// endOfDay notifies the ticker and every current supplier that the day's
// pipeline is finished, resets the daily accumulators, and advances the
// day counter.
type endOfDay struct {
	e    *Engine
	done bool
}

func newEndOfDay(e *Engine) *endOfDay {
	return &endOfDay{e: e}
}

func (p *endOfDay) Name() string { return "end-of-day" }
func (p *endOfDay) Done() bool   { return p.done }

func (p *endOfDay) Step(ctx context.Context) error {
	e := p.e

	notice := comms.DayComplete{Day: e.day}
	if e.ticker != "" {
		if err := e.send(e.ticker, comms.Inform, comms.ConvDayCycle, notice); err != nil {
			return fmt.Errorf("day-complete to ticker: %w", err)
		}
	}
	for name := range e.suppliers {
		if err := e.send(name, comms.Inform, comms.ConvDayCycle, notice); err != nil {
			e.logger.Warn("day-complete notice failed", "supplier", name, "error", err)
		}
	}

	e.ledger.Reset()
	e.day++
	p.done = true
	return nil
}
