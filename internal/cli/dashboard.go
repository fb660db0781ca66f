package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/word-sys/puls/internal/app"
	"github.com/word-sys/puls/internal/config"
	"github.com/word-sys/puls/internal/errors"
	"github.com/word-sys/puls/internal/logger"
	"github.com/word-sys/puls/internal/monitor"
	"github.com/word-sys/puls/internal/ui"
)

// dashboardCommand wires the collector, sampler, and TUI together and runs
// until the user quits.
func dashboardCommand(cfg config.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrTerm,
			"stdout is not a terminal",
			"puls draws a live dashboard; run it directly in a terminal")
	}
	ui.ApplyColorProfile()

	if cfg.Verbose {
		os.Setenv("PULS_DEBUG", "1")
	}
	log := logger.NewEnvLogger("[puls]")

	collector := monitor.NewCollector(cfg, log)
	state := app.NewState(cfg.HistoryLength, cfg.ShowSystem)
	sampler := app.NewSampler(cfg, log, collector, state)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sampler.Run(ctx)

	sysInfo := collector.SystemInfo(ctx)
	model := app.NewModel(cfg, log, state, sysInfo)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerm,
			"dashboard terminated unexpectedly",
			"check terminal compatibility; TERM must support alternate screen")
	}
	return nil
}
