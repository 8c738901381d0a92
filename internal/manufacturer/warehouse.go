package manufacturer

import (
	"fmt"

	"github.com/matthieukhl/supplyline/internal/catalog"
)

// Warehouse maps components to non-negative on-hand quantities. It
// persists across days; only supply receipt adds to it and only assembly
// removes from it.
type Warehouse map[catalog.Component]int

// Add receives qty units of a component.
func (w Warehouse) Add(c catalog.Component, qty int) {
	w[c] += qty
}

// Holds reports whether at least qty units of every listed component are
// on hand.
func (w Warehouse) Holds(components []catalog.Component, qty int) bool {
	for _, c := range components {
		if w[c] < qty {
			return false
		}
	}
	return true
}

// Remove deducts qty units of every listed component. Sufficient stock is
// a precondition: quantities never go below zero, so the caller must have
// checked Holds first.
func (w Warehouse) Remove(components []catalog.Component, qty int) error {
	if !w.Holds(components, qty) {
		return fmt.Errorf("warehouse: insufficient stock to remove %d units", qty)
	}
	for _, c := range components {
		w[c] -= qty
	}
	return nil
}

// Units is the total number of units stored, across all components.
func (w Warehouse) Units() int {
	total := 0
	for _, qty := range w {
		total += qty
	}
	return total
}

// Copy returns an independent snapshot of the stock levels.
func (w Warehouse) Copy() Warehouse {
	out := make(Warehouse, len(w))
	for c, qty := range w {
		out[c] = qty
	}
	return out
}
