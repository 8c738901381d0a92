package sim

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/supplyline/internal/config"
	"github.com/matthieukhl/supplyline/internal/manufacturer"
)

func testConfig(days int) *config.Config {
	return &config.Config{
		Simulation: config.SimulationConfig{
			Days:           days,
			Seed:           1,
			ReceiveTimeout: 2 * time.Second,
			HoldingRate:    5,
		},
		Suppliers: []config.SupplierConfig{
			{Name: "supplier-east", LeadTimeDays: 1, PriceLevel: 1.15, PriceJitter: 0.05},
			{Name: "supplier-west", LeadTimeDays: 3, PriceLevel: 0.9, PriceJitter: 0.05},
		},
		Customers: []config.CustomerConfig{
			{Name: "customer-1", MaxQuantity: 5, MinUnitOffer: 150, MaxUnitOffer: 450, DeadlineDays: 4, PenaltyRate: 10},
			{Name: "customer-2", MaxQuantity: 5, MinUnitOffer: 150, MaxUnitOffer: 450, DeadlineDays: 4, PenaltyRate: 10},
		},
	}
}

func TestRunCompletesEveryDay(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	report, err := Run(context.Background(), testConfig(5), logger, nil)
	require.NoError(t, err)
	require.Equal(t, 5, report.Days)
	require.Len(t, report.History, 5)

	// Days are settled in order, once each.
	for i, day := range report.History {
		require.Equal(t, i+1, day.Day)
	}

	// The running total equals the replayed sum of daily profits.
	sum := decimal.Zero
	for _, day := range report.History {
		sum = sum.Add(day.Profit)
	}
	require.True(t, sum.Equal(report.TotalProfit),
		"daily profits sum to %s, total is %s", sum, report.TotalProfit)
}

func TestRunIsDeterministicForASeed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := Run(context.Background(), testConfig(3), logger, nil)
	require.NoError(t, err)
	second, err := Run(context.Background(), testConfig(3), logger, nil)
	require.NoError(t, err)

	require.True(t, first.TotalProfit.Equal(second.TotalProfit),
		"same seed produced %s then %s", first.TotalProfit, second.TotalProfit)
}

func TestRunPublishesSnapshots(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var (
		count   int
		lastDay int
	)
	onSnapshot := func(s manufacturer.Snapshot) {
		count++
		lastDay = s.Day
	}

	_, err := Run(context.Background(), testConfig(2), logger, onSnapshot)
	require.NoError(t, err)
	require.Greater(t, count, 0)
	require.GreaterOrEqual(t, lastDay, 2)
}
