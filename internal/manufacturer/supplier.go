package manufacturer

import (
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/supplyline/internal/catalog"
)

// SupplierProfile is what the manufacturer knows about one supplier on
// one day. Profiles are discarded and rebuilt every day because suppliers
// may change prices between days.
type SupplierProfile struct {
	Name         string
	Prices       map[catalog.Component]decimal.Decimal
	LeadTimeDays int
	quoted       bool
}

// Quoted reports whether a pricing reply has been received today.
func (p *SupplierProfile) Quoted() bool {
	return p.quoted
}

// SetQuote overwrites the profile with a day's price list and lead time.
func (p *SupplierProfile) SetQuote(prices map[catalog.Component]decimal.Decimal, leadDays int) {
	p.Prices = prices
	p.LeadTimeDays = leadDays
	p.quoted = true
}

// CostOf prices a bill of components at this supplier, multiplied by the
// order quantity. The second return is false if any component is missing
// from the price list.
func (p *SupplierProfile) CostOf(components []catalog.Component, quantity int) (decimal.Decimal, bool) {
	total := decimal.Zero
	for _, c := range components {
		price, ok := p.Prices[c]
		if !ok {
			return decimal.Zero, false
		}
		total = total.Add(price)
	}
	return total.Mul(decimal.NewFromInt(int64(quantity))), true
}
