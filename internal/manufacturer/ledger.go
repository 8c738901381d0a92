package manufacturer

import "github.com/shopspring/decimal"

// DayTotals is the settled accounting record for one day.
type DayTotals struct {
	Day         int             `json:"day"`
	Revenue     decimal.Decimal `json:"revenue"`
	StorageCost decimal.Decimal `json:"storage_cost"`
	LatePenalty decimal.Decimal `json:"late_penalty"`
	Procurement decimal.Decimal `json:"procurement"`
	Profit      decimal.Decimal `json:"profit"`
}

// Ledger holds the daily accumulators and the running total profit.
// Daily figures reset at end of day; TotalProfit accumulates for the
// process lifetime and can go negative.
type Ledger struct {
	Revenue     decimal.Decimal
	StorageCost decimal.Decimal
	LatePenalty decimal.Decimal
	Procurement decimal.Decimal
	TotalProfit decimal.Decimal
	History     []DayTotals
}

// NewLedger returns a zeroed ledger.
func NewLedger() *Ledger {
	return &Ledger{
		Revenue:     decimal.Zero,
		StorageCost: decimal.Zero,
		LatePenalty: decimal.Zero,
		Procurement: decimal.Zero,
		TotalProfit: decimal.Zero,
	}
}

// AddRevenue records a customer payment received today.
func (l *Ledger) AddRevenue(amount decimal.Decimal) {
	l.Revenue = l.Revenue.Add(amount)
}

// AddProcurement records a component payment made today.
func (l *Ledger) AddProcurement(amount decimal.Decimal) {
	l.Procurement = l.Procurement.Add(amount)
}

// Settle closes the books for a day: today's profit is folded into the
// running total and the day is appended to the history. The daily
// accumulators keep their values until Reset so end-of-day reporting can
// still read them.
func (l *Ledger) Settle(day int) DayTotals {
	profit := l.Revenue.
		Sub(l.StorageCost).
		Sub(l.LatePenalty).
		Sub(l.Procurement)

	totals := DayTotals{
		Day:         day,
		Revenue:     l.Revenue,
		StorageCost: l.StorageCost,
		LatePenalty: l.LatePenalty,
		Procurement: l.Procurement,
		Profit:      profit,
	}
	l.TotalProfit = l.TotalProfit.Add(profit)
	l.History = append(l.History, totals)
	return totals
}

// Reset zeroes the daily accumulators for the next day.
func (l *Ledger) Reset() {
	l.Revenue = decimal.Zero
	l.StorageCost = decimal.Zero
	l.LatePenalty = decimal.Zero
	l.Procurement = decimal.Zero
}

// ReplayTotal recomputes the running total profit from the history. It
// must always equal TotalProfit.
func (l *Ledger) ReplayTotal() decimal.Decimal {
	total := decimal.Zero
	for _, d := range l.History {
		total = total.Add(d.Profit)
	}
	return total
}
