package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const reportDateLayout = "2006-01-02"

var (
	frenchWeekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}
	frenchMonths   = [...]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"}
)

func (m *Model) loadReport() tea.Cmd {
	ctx, reports := m.ctx, m.deps.Reports
	return func() tea.Msg {
		report, err := reports.GetTodayReport(ctx)
		return reportLoadedMsg{report: report, err: err}
	}
}

// frenchDate renders 2024-03-05 as "mardi 5 mars 2024".
func frenchDate(date string) string {
	t, err := time.Parse(reportDateLayout, date)
	if err != nil {
		return date
	}
	return strings.Join([]string{
		frenchWeekdays[t.Weekday()],
		t.Format("2"),
		frenchMonths[t.Month()-1],
		t.Format("2006"),
	}, " ")
}

func (m *Model) viewReport() string {
	var b strings.Builder
	switch {
	case !m.reportLoaded:
		b.WriteString(labelStyle.Render("Chargement..."))
	case m.reportErr != nil:
		b.WriteString(errorStyle.Render("Erreur lors du chargement du rapport"))
	case m.report == nil:
		b.WriteString(titleStyle.Render("Aucun rapport pour aujourd'hui"))
		b.WriteString("\n")
		b.WriteString("Complétez le formulaire quotidien pour voir votre rapport.")
	default:
		b.WriteString(titleStyle.Render("Rapport du " + frenchDate(m.report.Date)))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Résumé"))
		b.WriteString("\n")
		b.WriteString(m.report.Summary)
		b.WriteString("\n")
		if paragraphs := m.report.EvaluationParagraphs(); len(paragraphs) > 0 {
			b.WriteString("\n")
			b.WriteString(labelStyle.Render("Analyse IA"))
			b.WriteString("\n")
			b.WriteString(strings.Join(paragraphs, "\n\n"))
			b.WriteString("\n")
		}
	}
	return b.String()
}
