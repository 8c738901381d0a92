// Package trade holds the order concepts shared between trading
// participants, the equivalent of the wire-level ontology.
package trade

import (
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/supplyline/internal/catalog"
)

// CustomerOrder is an immutable order request as placed by a customer:
// a product, a quantity, a total offered price, and the lateness terms.
type CustomerOrder struct {
	ID           string
	Product      catalog.Product
	Quantity     int
	OfferedPrice decimal.Decimal
	DeadlineDays int             // days from the day the order is placed
	DailyPenalty decimal.Decimal // charged per day past the deadline
}
