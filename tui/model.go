package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrsteele09/dailymood/dailymodel"
	"github.com/jrsteele09/dailymood/objectives"
	"github.com/jrsteele09/dailymood/router"
	"github.com/jrsteele09/dailymood/session"
	"github.com/jrsteele09/dailymood/wizard"
)

// ReportAPI is what the form and report views need from the backend.
type ReportAPI interface {
	wizard.ReportService
	GetTodayReport(ctx context.Context) (*dailymodel.Report, error)
}

type Deps struct {
	Session     *session.Store
	Router      *router.Router
	Reports     ReportAPI
	Goals       objectives.API
	FormOptions []wizard.Option
}

// Model is the root of the program. It renders whichever view the router
// says is current and runs every backend call as a command.
type Model struct {
	ctx  context.Context
	deps Deps

	route router.Route
	width int

	auth authForm

	form       *wizard.Controller
	goals      *objectives.Manager
	generation int
	cursor     int
	fieldErr   string
	submitting bool
	answer     textinput.Model
	title      textinput.Model

	report       *dailymodel.Report
	reportLoaded bool
	reportErr    error
}

func New(ctx context.Context, deps Deps) *Model {
	return &Model{ctx: ctx, deps: deps}
}

// Route is the view currently shown.
func (m *Model) Route() router.Route {
	return m.route
}

func (m *Model) Form() *wizard.Controller {
	return m.form
}

func (m *Model) Init() tea.Cmd {
	return m.enter(m.deps.Router.Current())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if cmd, handled := m.navKey(msg); handled {
			return m, cmd
		}
		switch m.route {
		case router.RouteLogin, router.RouteRegister:
			return m, m.updateAuth(msg)
		case router.RouteForm:
			return m, m.updateForm(msg)
		}
		return m, nil

	case RouteChangedMsg:
		return m, m.sync()

	case authDoneMsg:
		m.auth.pending = false
		if msg.err != nil {
			return m, nil
		}
		return m, m.navigate(router.RouteForm)

	case submitDoneMsg:
		m.submitting = false
		m.onSubmitDone(msg.err)
		return m, m.sync()

	case reportLoadedMsg:
		if m.route == router.RouteReport {
			m.report, m.reportErr, m.reportLoaded = msg.report, msg.err, true
		}
		return m, nil

	case objectivesMsg:
		if msg.generation == m.generation && m.goals != nil {
			m.clampCursor(len(m.goals.Objectives()))
			m.title.SetValue(m.goals.Pending())
		}
		return m, nil
	}
	return m, nil
}

// navKey handles the navigation bar shortcuts.
func (m *Model) navKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	authenticated := m.deps.Session.IsAuthenticated()
	switch msg.Type {
	case tea.KeyF1:
		if authenticated {
			return m.navigate(router.RouteForm), true
		}
		return m.navigate(router.RouteLogin), true
	case tea.KeyF2:
		if authenticated {
			return m.navigate(router.RouteReport), true
		}
		return m.navigate(router.RouteRegister), true
	case tea.KeyF3:
		if authenticated {
			m.deps.Session.Logout()
			return m.navigate(router.RouteLogin), true
		}
	}
	return nil, false
}

func (m *Model) navigate(route router.Route) tea.Cmd {
	return m.enterIfChanged(m.deps.Router.Navigate(string(route)))
}

// sync catches up with navigation done outside Update.
func (m *Model) sync() tea.Cmd {
	return m.enterIfChanged(m.deps.Router.Current())
}

func (m *Model) enterIfChanged(route router.Route) tea.Cmd {
	if route == m.route {
		return nil
	}
	return m.enter(route)
}

// enter mounts the view for route.
func (m *Model) enter(route router.Route) tea.Cmd {
	if m.goals != nil && route != router.RouteForm {
		m.goals.Unmount()
		m.goals = nil
	}
	m.route = route

	switch route {
	case router.RouteLogin, router.RouteRegister:
		m.auth = newAuthForm(route == router.RouteRegister)
	case router.RouteForm:
		return m.mountForm()
	case router.RouteReport:
		m.report, m.reportErr, m.reportLoaded = nil, nil, false
		return m.loadReport()
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.navbar())
	b.WriteString("\n\n")

	if m.deps.Session.Snapshot().Loading {
		b.WriteString(labelStyle.Render("Chargement..."))
		return screenStyle.Render(b.String())
	}

	switch m.route {
	case router.RouteLogin, router.RouteRegister:
		b.WriteString(m.viewAuth())
	case router.RouteForm:
		b.WriteString(m.viewForm())
	case router.RouteReport:
		b.WriteString(m.viewReport())
	}
	return screenStyle.Render(b.String())
}

func (m *Model) navbar() string {
	type link struct {
		key, label string
		route      router.Route
	}
	links := []link{{"F1", "Connexion", router.RouteLogin}, {"F2", "Inscription", router.RouteRegister}}
	if m.deps.Session.IsAuthenticated() {
		links = []link{
			{"F1", "Formulaire", router.RouteForm},
			{"F2", "Rapport", router.RouteReport},
			{"F3", "Déconnexion", ""},
		}
	}

	parts := []string{brandStyle.Render("Daily Mood")}
	for _, l := range links {
		text := l.key + " " + l.label
		if l.route == m.route {
			parts = append(parts, navActive.Render(text))
		} else {
			parts = append(parts, navStyle.Render(text))
		}
	}
	return strings.Join(parts, "  ")
}
