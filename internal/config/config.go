// Package config loads simulation settings from an optional HCL file.
package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/setsim/internal/table"
)

// Render modes
const (
	RenderNone   = "none"   // No output at all
	RenderReport = "report" // Final histogram only
	RenderPlain  = "plain"  // Every table event, no colour
	RenderColor  = "color"  // Every table event, coloured cards
	RenderTUI    = "tui"    // Full-screen Bubble Tea display
)

// Config represents the complete simulation configuration
type Config struct {
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Table      *TableSettings      `hcl:"table,block"`
	Render     *RenderSettings     `hcl:"render,block"`
	Log        *LogSettings        `hcl:"log,block"`
}

// SimulationSettings controls how trials run
type SimulationSettings struct {
	Seed    int64 `hcl:"seed,optional"`
	Workers int   `hcl:"workers,optional"`
}

// TableSettings mirrors table.Rules
type TableSettings struct {
	DealSize int `hcl:"deal_size,optional"`
	Expand   int `hcl:"expand,optional"`
	MaxSize  int `hcl:"max_size,optional"`
}

// RenderSettings selects the output backend
type RenderSettings struct {
	Mode     string `hcl:"mode,optional"`
	ShowDeck *bool  `hcl:"show_deck,optional"`
}

// LogSettings controls logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
}

// Default returns the default configuration
func Default() *Config {
	rules := table.DefaultRules()
	showDeck := true
	return &Config{
		Simulation: &SimulationSettings{
			Workers: 1,
		},
		Table: &TableSettings{
			DealSize: rules.DealSize,
			Expand:   rules.Expand,
			MaxSize:  rules.MaxSize,
		},
		Render: &RenderSettings{
			Mode:     RenderColor,
			ShowDeck: &showDeck,
		},
		Log: &LogSettings{
			Level: "warn",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults for anything unset.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Simulation == nil {
		c.Simulation = def.Simulation
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = def.Simulation.Workers
	}

	if c.Table == nil {
		c.Table = def.Table
	}
	if c.Table.DealSize == 0 {
		c.Table.DealSize = def.Table.DealSize
	}
	if c.Table.Expand == 0 {
		c.Table.Expand = def.Table.Expand
	}
	if c.Table.MaxSize == 0 {
		c.Table.MaxSize = def.Table.MaxSize
	}

	if c.Render == nil {
		c.Render = def.Render
	}
	if c.Render.Mode == "" {
		c.Render.Mode = def.Render.Mode
	}
	if c.Render.ShowDeck == nil {
		c.Render.ShowDeck = def.Render.ShowDeck
	}

	if c.Log == nil {
		c.Log = def.Log
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Rules returns the table rules described by the configuration
func (c *Config) Rules() table.Rules {
	return table.Rules{
		DealSize: c.Table.DealSize,
		Expand:   c.Table.Expand,
		MaxSize:  c.Table.MaxSize,
	}
}

// ShowDeck reports whether the undealt deck strip is drawn
func (c *Config) ShowDeck() bool {
	return c.Render.ShowDeck == nil || *c.Render.ShowDeck
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() (log.Level, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Simulation.Workers)
	}
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	switch c.Render.Mode {
	case RenderNone, RenderReport, RenderPlain, RenderColor, RenderTUI:
	default:
		return fmt.Errorf("unknown render mode %q", c.Render.Mode)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}
