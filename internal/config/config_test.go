package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 10, cfg.Simulation.Days)
	require.Equal(t, int64(1), cfg.Simulation.Seed)
	require.Equal(t, 3*time.Second, cfg.Simulation.ReceiveTimeout)
	require.False(t, cfg.Server.Enabled)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Len(t, cfg.Suppliers, 2)
	require.Len(t, cfg.Customers, 3)
	require.Equal(t, "supplier-east", cfg.Suppliers[0].Name)
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
simulation:
  days: 3
  seed: 42
suppliers:
  - name: parts-co
    lead_time_days: 2
    price_level: 1.0
customers:
  - name: big-buyer
    max_quantity: 8
    min_unit_offer: 200
    max_unit_offer: 500
    deadline_days: 6
    penalty_rate: 15
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 3, cfg.Simulation.Days)
	require.Equal(t, int64(42), cfg.Simulation.Seed)
	// Untouched sections keep their defaults.
	require.Equal(t, 3*time.Second, cfg.Simulation.ReceiveTimeout)

	require.Len(t, cfg.Suppliers, 1)
	require.Equal(t, "parts-co", cfg.Suppliers[0].Name)
	require.Len(t, cfg.Customers, 1)
	require.Equal(t, 8, cfg.Customers[0].MaxQuantity)
}

func validConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{Days: 5, ReceiveTimeout: time.Second, HoldingRate: 5},
		Suppliers: []SupplierConfig{
			{Name: "parts-co", LeadTimeDays: 1, PriceLevel: 1.0},
		},
		Customers: []CustomerConfig{
			{Name: "big-buyer", MaxQuantity: 5, MinUnitOffer: 100, MaxUnitOffer: 400, DeadlineDays: 4, PenaltyRate: 10},
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero days", func(c *Config) { c.Simulation.Days = 0 }},
		{"zero receive timeout", func(c *Config) { c.Simulation.ReceiveTimeout = 0 }},
		{"negative holding rate", func(c *Config) { c.Simulation.HoldingRate = -1 }},
		{"no suppliers", func(c *Config) { c.Suppliers = nil }},
		{"no customers", func(c *Config) { c.Customers = nil }},
		{"empty supplier name", func(c *Config) { c.Suppliers[0].Name = "" }},
		{"zero lead time", func(c *Config) { c.Suppliers[0].LeadTimeDays = 0 }},
		{"zero max quantity", func(c *Config) { c.Customers[0].MaxQuantity = 0 }},
		{"offer range inverted", func(c *Config) { c.Customers[0].MaxUnitOffer = 50 }},
		{"duplicate names", func(c *Config) { c.Customers[0].Name = c.Suppliers[0].Name }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
