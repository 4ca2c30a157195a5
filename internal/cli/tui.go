package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gitsuggest/internal/eventbus"
	"gitsuggest/internal/logger"
	"gitsuggest/internal/ui"
	"gitsuggest/internal/ui/services/suggest"
)

// EnvE2ETest makes the widget print a readiness marker for terminal tests
const EnvE2ETest = "GITSUGGEST_E2E_TEST"

func runTUI(ctx context.Context, a *app) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	m := newMetrics(a.cfg)
	defer m.Subscribe(bus)()
	defer subscribeLogging(bus, a.log)()

	if addr := a.cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := m.Serve(ctx, addr); err != nil {
				a.log.Error(ctx, "metrics server stopped", logger.String("addr", addr), logger.Error(err))
			}
		}()
	}

	service := suggest.NewService(newOrchestrator(a.cfg, m), bus, suggest.Settings{
		MinLength:  a.cfg.Search.MinLength,
		ClearDelay: a.cfg.Search.ClearDelay,
	})
	model := ui.NewModel(service)
	model.SetTestMode(os.Getenv(EnvE2ETest) == "1")
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	model.SetProgram(p)

	a.log.Info(ctx, "starting",
		logger.String("person_endpoint", a.cfg.API.PersonEndpoint),
		logger.String("repository_endpoint", a.cfg.API.RepositoryEndpoint))

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
