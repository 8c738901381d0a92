// Package sim assembles a complete simulation: network, manufacturer
// engine, scripted suppliers and customers, and the day ticker.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/supplyline/internal/comms"
	"github.com/matthieukhl/supplyline/internal/config"
	"github.com/matthieukhl/supplyline/internal/customer"
	"github.com/matthieukhl/supplyline/internal/manufacturer"
	"github.com/matthieukhl/supplyline/internal/supplier"
	"github.com/matthieukhl/supplyline/internal/ticker"
)

// ManufacturerName is the single manufacturer's participant name.
const ManufacturerName = "acme-phones"

// Report summarizes a finished simulation run.
type Report struct {
	Days        int
	TotalProfit decimal.Decimal
	History     []manufacturer.DayTotals
}

// Run executes a full simulation and blocks until every participant has
// terminated. onSnapshot, if non-nil, receives engine state snapshots at
// phase boundaries.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, onSnapshot func(manufacturer.Snapshot)) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	net := comms.NewNetwork(logger)

	engine, err := manufacturer.New(net, manufacturer.Config{
		Name:           ManufacturerName,
		HoldingRate:    decimal.NewFromFloat(cfg.Simulation.HoldingRate),
		ReceiveTimeout: cfg.Simulation.ReceiveTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	if onSnapshot != nil {
		engine.OnSnapshot(onSnapshot)
	}

	type runner interface {
		Run(ctx context.Context) error
	}
	participants := []runner{engine}

	for i, sc := range cfg.Suppliers {
		sup, err := supplier.New(net, supplier.Config{
			Name:         sc.Name,
			LeadTimeDays: sc.LeadTimeDays,
			Capacity:     sc.Capacity,
			BasePrices:   supplier.BasePrices(sc.PriceLevel),
			PriceJitter:  sc.PriceJitter,
		}, cfg.Simulation.Seed+int64(i)+1, logger)
		if err != nil {
			return nil, err
		}
		participants = append(participants, sup)
	}

	for i, cc := range cfg.Customers {
		cust, err := customer.New(net, customer.Config{
			Name:         cc.Name,
			MaxQuantity:  cc.MaxQuantity,
			MinUnitOffer: cc.MinUnitOffer,
			MaxUnitOffer: cc.MaxUnitOffer,
			DeadlineDays: cc.DeadlineDays,
			PenaltyRate:  decimal.NewFromFloat(cc.PenaltyRate),
		}, cfg.Simulation.Seed+int64(100+i), logger)
		if err != nil {
			return nil, err
		}
		participants = append(participants, cust)
	}

	// The ticker joins last so its first broadcast finds everybody.
	clock, err := ticker.New(net, "ticker", cfg.Simulation.Days, logger)
	if err != nil {
		return nil, err
	}
	participants = append(participants, clock)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, p := range participants {
		wg.Add(1)
		go func(p runner) {
			defer wg.Done()
			if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
			}
		}(p)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("simulation failed: %w", firstErr)
	}

	ledger := engine.Ledger()
	return &Report{
		Days:        cfg.Simulation.Days,
		TotalProfit: ledger.TotalProfit,
		History:     ledger.History,
	}, nil
}
