package manufacturer

import (
	"github.com/shopspring/decimal"

	"github.com/matthieukhl/supplyline/internal/trade"
)

// OrderState is the lifecycle state of a tracked customer order.
type OrderState int

const (
	StateProposed OrderState = iota
	StateApproved
	StateRejected
	StateConfirmed
	StateDropped
	StateComponentsOrdered
	StateCancelled
	StateReady
	StateShipped
	StateCompleted
)

func (s OrderState) String() string {
	switch s {
	case StateProposed:
		return "PROPOSED"
	case StateApproved:
		return "APPROVED"
	case StateRejected:
		return "REJECTED"
	case StateConfirmed:
		return "CONFIRMED"
	case StateDropped:
		return "DROPPED"
	case StateComponentsOrdered:
		return "COMPONENTS_ORDERED"
	case StateCancelled:
		return "CANCELLED"
	case StateReady:
		return "READY"
	case StateShipped:
		return "SHIPPED"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transitions are possible.
func (s OrderState) Terminal() bool {
	switch s {
	case StateRejected, StateDropped, StateCancelled, StateCompleted:
		return true
	}
	return false
}

// OrderRecord tracks one accepted customer order through its lifecycle.
type OrderRecord struct {
	Order           trade.CustomerOrder
	Customer        string
	Supplier        string
	ProcurementCost decimal.Decimal
	DayAccepted     int
	ComponentsDue   int // day the assigned supplier promised delivery
	State           OrderState
}

// DeadlineDay is the day the finished order is due at the customer.
func (r *OrderRecord) DeadlineDay() int {
	return r.DayAccepted + r.Order.DeadlineDays
}
