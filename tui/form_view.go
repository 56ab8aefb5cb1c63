package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrsteele09/dailymood/dailymodel"
	apperrors "github.com/jrsteele09/dailymood/internal/errors"
	"github.com/jrsteele09/dailymood/objectives"
	"github.com/jrsteele09/dailymood/wizard"
)

const noAdvisorLabel = "Aucun conseiller"

type stepScreen struct {
	update func(m *Model, msg tea.KeyMsg) tea.Cmd
	view   func(m *Model, step wizard.Step) string
}

// screens resolves how each kind of step is edited and drawn.
var screens = map[wizard.Kind]stepScreen{
	wizard.KindObjectives: {update: (*Model).updateObjectives, view: (*Model).viewObjectives},
	wizard.KindQuestion:   {update: (*Model).updateQuestion, view: (*Model).viewQuestion},
	wizard.KindMood:       {update: (*Model).updateMood, view: (*Model).viewMood},
	wizard.KindAdvisor:    {update: (*Model).updateAdvisor, view: (*Model).viewAdvisor},
}

func (m *Model) mountForm() tea.Cmd {
	m.form = wizard.New(m.deps.Reports, m.deps.Router, m.deps.FormOptions...)
	m.goals = objectives.New(m.deps.Goals, m.form.SetObjectives)
	m.generation++
	m.cursor = 0
	m.fieldErr = ""
	m.submitting = false
	m.answer = newInput("", answerCharLimit)
	m.title = newInput("ex. Courir 5 km", titleCharLimit)
	m.syncStepInput()

	goals, gen, ctx := m.goals, m.generation, m.ctx
	return func() tea.Msg {
		goals.Load(ctx)
		return objectivesMsg{generation: gen}
	}
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	if m.form == nil || m.submitting || m.form.Submitting() {
		return nil
	}
	if msg.Type == tea.KeyEsc {
		m.form.Retreat()
		m.fieldErr = ""
		m.cursor = 0
		m.syncStepInput()
		return nil
	}
	screen, ok := screens[m.form.Current().Kind]
	if !ok {
		return nil
	}
	return screen.update(m, msg)
}

// next advances, or submits on the last step. Only one submission runs at a
// time; keys are ignored until its submitDoneMsg arrives.
func (m *Model) next() tea.Cmd {
	if m.form.IsTerminal() {
		if m.submitting {
			return nil
		}
		m.submitting = true
		form, ctx := m.form, m.ctx
		return func() tea.Msg {
			return submitDoneMsg{err: form.Submit(ctx)}
		}
	}
	if err := m.form.Advance(); err != nil {
		m.fieldErr = validationMessage(err)
		return nil
	}
	m.fieldErr = ""
	m.cursor = 0
	m.syncStepInput()
	return nil
}

// syncStepInput loads the current step's text into its input and focuses it.
func (m *Model) syncStepInput() {
	step := m.form.Current()
	switch step.Kind {
	case wizard.KindQuestion:
		m.answer.SetValue(m.form.Value(step.Field))
		m.answer.CursorEnd()
		focusOnly(0, &m.answer, &m.title)
	case wizard.KindObjectives:
		if m.goals != nil {
			m.title.SetValue(m.goals.Pending())
		}
		focusOnly(1, &m.answer, &m.title)
	default:
		focusOnly(-1, &m.answer, &m.title)
	}
}

func (m *Model) onSubmitDone(err error) {
	m.fieldErr = ""
	if err != nil {
		m.fieldErr = validationMessage(err)
	}
}

func validationMessage(err error) string {
	var vErr *apperrors.ValidationError
	if apperrors.As(err, &vErr) {
		return vErr.Message
	}
	return ""
}

func (m *Model) goalsCmd(fn func(*objectives.Manager)) tea.Cmd {
	goals, gen := m.goals, m.generation
	return func() tea.Msg {
		fn(goals)
		return objectivesMsg{generation: gen}
	}
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) moveCursor(msg tea.KeyMsg, n int) bool {
	switch msg.Type {
	case tea.KeyUp:
		m.cursor--
	case tea.KeyDown:
		m.cursor++
	default:
		return false
	}
	m.clampCursor(n)
	return true
}

func (m *Model) updateObjectives(msg tea.KeyMsg) tea.Cmd {
	if m.goals == nil {
		return nil
	}
	items := m.goals.Objectives()
	m.clampCursor(len(items))
	if m.moveCursor(msg, len(items)) {
		return nil
	}
	ctx := m.ctx

	switch msg.Type {
	case tea.KeyEnter:
		if strings.TrimSpace(m.goals.Pending()) == "" {
			return m.next()
		}
		return m.goalsCmd(func(g *objectives.Manager) { g.AddPending(ctx) })
	case tea.KeyCtrlT:
		if len(items) == 0 {
			return nil
		}
		id := items[m.cursor].ID
		return m.goalsCmd(func(g *objectives.Manager) { g.ToggleComplete(ctx, id) })
	case tea.KeyCtrlD:
		if len(items) == 0 {
			return nil
		}
		id := items[m.cursor].ID
		return m.goalsCmd(func(g *objectives.Manager) { g.Remove(ctx, id) })
	}

	cmd, changed := edit(&m.title, msg)
	if changed {
		m.goals.SetPending(m.title.Value())
	}
	return cmd
}

func (m *Model) updateQuestion(msg tea.KeyMsg) tea.Cmd {
	step := m.form.Current()
	if msg.Type == tea.KeyEnter {
		return m.next()
	}
	cmd, changed := edit(&m.answer, msg)
	if changed {
		_ = m.form.SetAnswer(step.Field, m.answer.Value())
	}
	return cmd
}

func (m *Model) updateMood(msg tea.KeyMsg) tea.Cmd {
	if m.moveCursor(msg, len(dailymodel.Moods)) {
		return nil
	}
	if msg.Type == tea.KeyEnter {
		m.form.SetMood(dailymodel.Moods[m.cursor])
		return m.next()
	}
	return nil
}

// The advisor list starts with "no advisor", so cursor n is advisor n-1.
func (m *Model) updateAdvisor(msg tea.KeyMsg) tea.Cmd {
	if m.moveCursor(msg, len(dailymodel.Advisors)+1) {
		return nil
	}
	if msg.Type != tea.KeyEnter {
		return nil
	}
	if m.cursor == 0 {
		m.form.ClearAdvisor()
	} else if err := m.form.SelectAdvisor(dailymodel.Advisors[m.cursor-1].ID); err != nil {
		m.fieldErr = err.Error()
		return nil
	}
	return m.next()
}

func (m *Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	step := m.form.Current()
	steps := m.form.Steps()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Formulaire du jour (%d/%d)", m.form.Index()+1, len(steps))))
	b.WriteString("\n")
	if screen, ok := screens[step.Kind]; ok {
		b.WriteString(screen.view(m, step))
	}
	if m.fieldErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.fieldErr))
	}
	if msg := m.form.SubmitError(); msg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(msg))
	}
	if m.submitting || m.form.Submitting() {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Envoi..."))
	}
	return b.String()
}

func (m *Model) viewObjectives(wizard.Step) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Mes objectifs"))
	b.WriteString("\n")
	if m.goals == nil {
		return b.String()
	}
	items := m.goals.Objectives()
	if len(items) == 0 {
		b.WriteString(labelStyle.Render("  Aucun objectif pour le moment"))
		b.WriteString("\n")
	}
	for i, o := range items {
		box, title := "[ ]", o.Title
		if o.Completed() {
			box, title = "[x]", doneStyle.Render(o.Title)
		}
		line := fmt.Sprintf("%s %s", box, title)
		if i == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(field("Nouvel objectif", m.title.View(), true))
	b.WriteString(helpStyle.Render("entrée: ajouter / continuer • ctrl+t: terminé • ctrl+d: supprimer • esc: retour"))
	return b.String()
}

func (m *Model) viewQuestion(step wizard.Step) string {
	q, _ := step.Question()
	var b strings.Builder
	b.WriteString(labelStyle.Render(q.Text))
	b.WriteString("\n")
	b.WriteString(focusStyle.Render("> ") + m.answer.View() + "\n")
	b.WriteString(helpStyle.Render("entrée: suivant • esc: retour"))
	return b.String()
}

func picker(options []string, cursor int) string {
	var b strings.Builder
	for i, o := range options {
		if i == cursor {
			b.WriteString(selectedStyle.Render("> " + o))
		} else {
			b.WriteString("  " + o)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewMood(wizard.Step) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Comment vous sentez-vous ?"))
	b.WriteString("\n")
	b.WriteString(picker(dailymodel.Moods, m.cursor))
	action := "suivant"
	if m.form.IsTerminal() {
		action = "envoyer"
	}
	b.WriteString(helpStyle.Render("↑/↓: choisir • entrée: " + action + " • esc: retour"))
	return b.String()
}

func (m *Model) viewAdvisor(wizard.Step) string {
	options := []string{noAdvisorLabel}
	for _, a := range dailymodel.Advisors {
		options = append(options, a.Name)
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render("Souhaitez-vous l'avis d'un conseiller ?"))
	b.WriteString("\n")
	b.WriteString(picker(options, m.cursor))
	b.WriteString(helpStyle.Render("↑/↓: choisir • entrée: envoyer • esc: retour"))
	return b.String()
}
