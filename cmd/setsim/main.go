package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/setsim/internal/config"
	"github.com/lox/setsim/internal/render"
	"github.com/lox/setsim/internal/signals"
	"github.com/lox/setsim/internal/simulation"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Iterations int              `arg:"" help:"Number of decks to play out"`
	Seed       *int64           `short:"s" help:"Random seed for reproducible results"`
	Workers    *int             `short:"w" help:"Trials to run concurrently (table events are only shown with one worker)"`
	Render     *string          `short:"r" help:"Output: none, report, plain, color or tui"`
	NoDeck     bool             `help:"Hide the undealt deck under the table"`
	Config     string           `short:"c" default:"setsim.hcl" help:"HCL configuration file (ignored if missing)"`
	Verbose    bool             `short:"v" help:"Verbose logging"`
	Version    kong.VersionFlag `help:"Show version"`
}

// Validate is called by kong after parsing
func (c *CLI) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", c.Iterations)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("setsim"),
		kong.Description("Play out shuffled Set decks and report how many cards are left when no set remains"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.WarnLevel,
		ReportTimestamp: true,
	})

	err := run(context.Background(), &cli, os.Stdout, logger)
	if errors.Is(err, context.Canceled) {
		ctx.Exit(130)
	}
	ctx.FatalIfErrorf(err)
}

func run(parent context.Context, cli *CLI, stdout io.Writer, logger *log.Logger) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	applyFlags(cfg, cli)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)

	ctx, stop := signals.WithCancelOnSignal(parent, logger)
	defer stop()

	if cfg.Simulation.Workers > 1 && tracing(cfg.Render.Mode) {
		logger.Warn("Table events are not rendered with more than one worker", "workers", cfg.Simulation.Workers)
	}

	renderer := newRenderer(cfg, cli.Iterations, stdout, stop)
	runner := simulation.NewRunner(simulation.Options{
		Rules:   cfg.Rules(),
		Seed:    cfg.Simulation.Seed,
		Workers: cfg.Simulation.Workers,
	}, renderer, logger.WithPrefix("simulation"), quartz.NewReal())

	_, runErr := runner.Run(ctx, cli.Iterations)
	if err := renderer.Close(); err != nil {
		logger.Error("Failed to close renderer", "error", err)
	}
	return runErr
}

// applyFlags overrides configuration values with flags that were set
func applyFlags(cfg *config.Config, cli *CLI) {
	if cli.Seed != nil {
		cfg.Simulation.Seed = *cli.Seed
	}
	if cli.Workers != nil {
		cfg.Simulation.Workers = *cli.Workers
	}
	if cli.Render != nil {
		cfg.Render.Mode = *cli.Render
	}
	if cli.NoDeck {
		showDeck := false
		cfg.Render.ShowDeck = &showDeck
	}
}

func tracing(mode string) bool {
	return mode == config.RenderPlain || mode == config.RenderColor || mode == config.RenderTUI
}

func newRenderer(cfg *config.Config, iterations int, stdout io.Writer, onQuit func()) render.Renderer {
	switch cfg.Render.Mode {
	case config.RenderNone:
		return render.Nop{}
	case config.RenderTUI:
		return render.NewTUI(render.TUIOptions{
			Output:   stdout,
			Total:    iterations,
			Trace:    true,
			ShowDeck: cfg.ShowDeck(),
			OnQuit:   onQuit,
		})
	}
	return render.NewTerminal(stdout, render.TerminalOptions{
		Color:    cfg.Render.Mode == config.RenderColor,
		Trace:    tracing(cfg.Render.Mode),
		ShowDeck: cfg.ShowDeck(),
	})
}
