package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrsteele09/dailymood/router"
	"github.com/pkg/errors"
)

// Run starts the program and blocks until the user quits. Navigation made
// outside the program is forwarded to it as RouteChangedMsg.
func Run(ctx context.Context, deps Deps, options ...tea.ProgramOption) error {
	options = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, options...)
	p := tea.NewProgram(New(ctx, deps), options...)

	deps.Router.Subscribe(func(route router.Route) {
		// Send blocks until Update returns and Navigate is also called from Update.
		go p.Send(RouteChangedMsg{Route: route})
	})

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "[tui.Run]")
	}
	return nil
}
