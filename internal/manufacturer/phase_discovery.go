package manufacturer

import (
	"context"

	"github.com/matthieukhl/supplyline/internal/comms"
)

// discoverCustomers refreshes the day's customer roster from the
// directory. Completes after a single discovery round.
type discoverCustomers struct {
	e    *Engine
	done bool
}

func newDiscoverCustomers(e *Engine) *discoverCustomers {
	return &discoverCustomers{e: e}
}

func (p *discoverCustomers) Name() string { return "discover-customers" }
func (p *discoverCustomers) Done() bool   { return p.done }

func (p *discoverCustomers) Step(ctx context.Context) error {
	p.e.customers = p.e.net.Search(comms.RoleCustomer)
	if len(p.e.customers) == 0 {
		p.e.logger.Warn("no customers found")
	}
	p.done = true
	return nil
}

// discoverSuppliers resets the supplier registry and refreshes it from
// the directory. Suppliers may change prices day to day, so yesterday's
// profiles are discarded wholesale.
type discoverSuppliers struct {
	e    *Engine
	done bool
}

func newDiscoverSuppliers(e *Engine) *discoverSuppliers {
	return &discoverSuppliers{e: e}
}

func (p *discoverSuppliers) Name() string { return "discover-suppliers" }
func (p *discoverSuppliers) Done() bool   { return p.done }

func (p *discoverSuppliers) Step(ctx context.Context) error {
	p.e.suppliers = make(map[string]*SupplierProfile)
	for _, name := range p.e.net.Search(comms.RoleSupplier) {
		p.e.suppliers[name] = &SupplierProfile{Name: name}
	}
	if len(p.e.suppliers) == 0 {
		p.e.logger.Warn("no suppliers found")
	}
	p.done = true
	return nil
}
