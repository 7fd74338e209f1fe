// Package config loads the controller's process-wide settings from the
// environment (with an optional .env file) and, for local runs of
// cmd/server, an optional YAML seed file providing an initial battery
// roster, demand schedule and price profile.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration, sourced from environment
// variables (struct tags give the env var name and default).
type Config struct {
	ResolutionSeconds     int     `env:"RESOLUTION_SECONDS" envDefault:"900"`
	SlotCount             int     `env:"SLOT_COUNT" envDefault:"96"`
	ChargerCount          int     `env:"CHARGER_COUNT" envDefault:"2"`
	MaxPowerWattDefault   float64 `env:"MAX_POWER_WATT_DEFAULT" envDefault:"5000"`
	SimulationTimeFactor  float64 `env:"SIMULATION_TIME_FACTOR" envDefault:"60"`
	HTTPListenAddr        string  `env:"HTTP_LISTEN_ADDR" envDefault:":8080"`
	LogLevel              string  `env:"LOG_LEVEL" envDefault:"info"`
	SeedFile              string  `env:"SEED_FILE" envDefault:""`
}

// Load reads Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from environment: %w", err)
	}
	if cfg.ResolutionSeconds <= 0 {
		return nil, fmt.Errorf("RESOLUTION_SECONDS must be > 0")
	}
	if cfg.SlotCount <= 0 {
		return nil, fmt.Errorf("SLOT_COUNT must be > 0")
	}
	if cfg.ChargerCount <= 0 {
		return nil, fmt.Errorf("CHARGER_COUNT must be > 0")
	}
	return cfg, nil
}

// Seed is the optional YAML shape for provisioning a simulation at startup,
// mirroring the teacher's battery-file overlay pattern.
type Seed struct {
	Batteries []SeedBattery `yaml:"batteries"`
	// DemandEventSeconds lists seconds-since-midnight at which one more
	// battery is expected to be demanded, mirroring the default
	// hourly-demand list from the reference implementation.
	DemandEventSeconds []int     `yaml:"demand_event_seconds"`
	PriceEURPerMWh     []float64 `yaml:"price_eur_per_mwh"`
}

type SeedBattery struct {
	SOC          float64 `yaml:"soc"`
	CapacityKWh  float64 `yaml:"capacity_kwh"`
	MaxPowerWatt float64 `yaml:"max_power_watt"`
}

// LoadSeed reads a Seed from path. A missing SeedFile is not an error at the
// Config level; callers only invoke LoadSeed when cfg.SeedFile != "".
func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var s Seed
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &s, nil
}

// DefaultDemandEvents mirrors the reference implementation's default
// schedule: one battery demanded on the hour, every hour.
func DefaultDemandEvents() []int {
	events := make([]int, 24)
	for i := range events {
		events[i] = i * 3600
	}
	return events
}
