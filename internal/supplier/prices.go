package supplier

import (
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/supplyline/internal/catalog"
)

// referencePrices are the market reference unit prices components trade
// around; each supplier scales them by its configured price level.
var referencePrices = map[catalog.Component]float64{
	catalog.Screen5in:      80,
	catalog.Screen7in:      120,
	catalog.Battery2000mAh: 30,
	catalog.Battery3000mAh: 45,
	catalog.RAM4GB:         40,
	catalog.RAM8GB:         70,
	catalog.Storage64GB:    25,
	catalog.Storage256GB:   60,
}

// BasePrices builds a full price list at the given level relative to the
// market reference (1.0 = reference, 0.9 = ten percent under).
func BasePrices(level float64) map[catalog.Component]decimal.Decimal {
	prices := make(map[catalog.Component]decimal.Decimal, len(referencePrices))
	for c, p := range referencePrices {
		prices[c] = decimal.NewFromFloat(p * level).Round(2)
	}
	return prices
}
