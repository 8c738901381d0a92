package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Server     ServerConfig     `mapstructure:"server"`
	Suppliers  []SupplierConfig `mapstructure:"suppliers"`
	Customers  []CustomerConfig `mapstructure:"customers"`
}

type SimulationConfig struct {
	Days int   `mapstructure:"days"`
	Seed int64 `mapstructure:"seed"`
	// ReceiveTimeout bounds every in-phase receive in the manufacturer
	// pipeline; an expiry surfaces as a "phase stalled" signal.
	ReceiveTimeout time.Duration `mapstructure:"receive_timeout"`
	// HoldingRate is the daily storage cost per warehoused unit.
	HoldingRate float64 `mapstructure:"holding_rate"`
}

type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type SupplierConfig struct {
	Name         string  `mapstructure:"name"`
	LeadTimeDays int     `mapstructure:"lead_time_days"`
	Capacity     int     `mapstructure:"capacity"`
	PriceLevel   float64 `mapstructure:"price_level"`
	PriceJitter  float64 `mapstructure:"price_jitter"`
}

type CustomerConfig struct {
	Name         string  `mapstructure:"name"`
	MaxQuantity  int     `mapstructure:"max_quantity"`
	MinUnitOffer float64 `mapstructure:"min_unit_offer"`
	MaxUnitOffer float64 `mapstructure:"max_unit_offer"`
	DeadlineDays int     `mapstructure:"deadline_days"`
	PenaltyRate  float64 `mapstructure:"penalty_rate"`
}

// LoadConfig loads configuration from config.yaml and environment
// variables. A missing config file is fine; the defaults describe a
// small two-supplier, three-customer market.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.supplyline/")
	v.AddConfigPath("/etc/supplyline/")

	// Enable environment variable override with SUPPLYLINE_ prefix
	v.SetEnvPrefix("SUPPLYLINE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.days", 10)
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.receive_timeout", "3s")
	v.SetDefault("simulation.holding_rate", 5.0)

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("suppliers", []map[string]any{
		{"name": "supplier-east", "lead_time_days": 1, "capacity": 0, "price_level": 1.15, "price_jitter": 0.05},
		{"name": "supplier-west", "lead_time_days": 3, "capacity": 0, "price_level": 0.9, "price_jitter": 0.05},
	})
	v.SetDefault("customers", []map[string]any{
		{"name": "customer-1", "max_quantity": 5, "min_unit_offer": 150, "max_unit_offer": 450, "deadline_days": 4, "penalty_rate": 10},
		{"name": "customer-2", "max_quantity": 5, "min_unit_offer": 150, "max_unit_offer": 450, "deadline_days": 4, "penalty_rate": 10},
		{"name": "customer-3", "max_quantity": 5, "min_unit_offer": 150, "max_unit_offer": 450, "deadline_days": 4, "penalty_rate": 10},
	})
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Simulation.Days < 1 {
		return fmt.Errorf("simulation.days must be at least 1, got %d", c.Simulation.Days)
	}
	if c.Simulation.ReceiveTimeout <= 0 {
		return errors.New("simulation.receive_timeout must be positive")
	}
	if c.Simulation.HoldingRate < 0 {
		return errors.New("simulation.holding_rate must not be negative")
	}
	if len(c.Suppliers) == 0 {
		return errors.New("at least one supplier is required")
	}
	if len(c.Customers) == 0 {
		return errors.New("at least one customer is required")
	}

	seen := make(map[string]bool)
	for _, s := range c.Suppliers {
		if s.Name == "" {
			return errors.New("supplier name must not be empty")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate participant name %q", s.Name)
		}
		seen[s.Name] = true
		if s.LeadTimeDays < 1 {
			return fmt.Errorf("supplier %q: lead_time_days must be at least 1", s.Name)
		}
	}
	for _, cu := range c.Customers {
		if cu.Name == "" {
			return errors.New("customer name must not be empty")
		}
		if seen[cu.Name] {
			return fmt.Errorf("duplicate participant name %q", cu.Name)
		}
		seen[cu.Name] = true
		if cu.MaxQuantity < 1 {
			return fmt.Errorf("customer %q: max_quantity must be at least 1", cu.Name)
		}
		if cu.MaxUnitOffer < cu.MinUnitOffer {
			return fmt.Errorf("customer %q: max_unit_offer below min_unit_offer", cu.Name)
		}
	}
	return nil
}
