package wizard_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/dailymood/dailymodel"
	apperrors "github.com/jrsteele09/dailymood/internal/errors"
	"github.com/jrsteele09/dailymood/router"
	"github.com/jrsteele09/dailymood/wizard"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeReports struct {
	submitted []dailymodel.DailyAnswers
	advice    []int
	submitErr error
	adviceErr error
}

func (f *fakeReports) SubmitReport(_ context.Context, answers dailymodel.DailyAnswers) (*dailymodel.Report, error) {
	f.submitted = append(f.submitted, answers)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &dailymodel.Report{Summary: "ok"}, nil
}

func (f *fakeReports) RequestAdvice(_ context.Context, advisor int) (*dailymodel.AdviceResponse, error) {
	f.advice = append(f.advice, advisor)
	if f.adviceErr != nil {
		return nil, f.adviceErr
	}
	return &dailymodel.AdviceResponse{Evaluation: "ok"}, nil
}

type fakeNavigator struct {
	paths []string
}

func (f *fakeNavigator) Navigate(path string) router.Route {
	f.paths = append(f.paths, path)
	return router.Route(path)
}

func fillAndWalk(t *testing.T, c *wizard.Controller) {
	t.Helper()
	require.NoError(t, c.Advance()) // objectives
	require.NoError(t, c.SetAnswer(dailymodel.FieldQ1, "Worked"))
	require.NoError(t, c.Advance())
	require.NoError(t, c.SetAnswer(dailymodel.FieldQ2, "Shipped feature"))
	require.NoError(t, c.Advance())
	require.NoError(t, c.SetAnswer(dailymodel.FieldQ3, "Tired"))
	require.NoError(t, c.Advance())
	c.SetMood("😴 Fatigué")
}

func TestSteps(t *testing.T) {
	steps := wizard.Steps(true)
	require.Len(t, steps, 6)
	require.Equal(t, wizard.KindObjectives, steps[0].Kind)
	require.Equal(t, wizard.Step{Kind: wizard.KindQuestion, Field: dailymodel.FieldQ1}, steps[1])
	require.Equal(t, wizard.KindMood, steps[4].Kind)
	require.Equal(t, wizard.KindAdvisor, steps[5].Kind)

	q, ok := steps[2].Question()
	require.True(t, ok)
	require.Equal(t, "Qu'avez-vous accompli aujourd'hui ?", q.Text)

	require.Len(t, wizard.Steps(false), 5)
}

func TestAdvanceRequiresCurrentField(t *testing.T) {
	c := wizard.New(&fakeReports{}, &fakeNavigator{})

	require.NoError(t, c.Advance(), "objectives step has no required field")
	require.Equal(t, 1, c.Index())

	err := c.Advance()
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "q1", vErr.Field)
	require.Equal(t, wizard.MessageRequired, vErr.Message)
	require.Equal(t, 1, c.Index())

	require.NoError(t, c.SetAnswer(dailymodel.FieldQ1, "Worked"))
	require.NoError(t, c.Advance())
	require.Equal(t, 2, c.Index())

	require.NoError(t, c.SetAnswer(dailymodel.FieldQ1, ""))
	require.NoError(t, c.SetAnswer(dailymodel.FieldQ2, "Shipped"))
	require.NoError(t, c.Advance(), "only the current step is checked")
}

func TestAdvanceMoodMessage(t *testing.T) {
	c := wizard.New(&fakeReports{}, &fakeNavigator{})
	fillAndWalk(t, c)
	c.SetMood("")

	err := c.Advance()
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "mood", vErr.Field)
	require.Equal(t, wizard.MessageMoodRequired, vErr.Message)
}

func TestAdvanceAtTerminalStep(t *testing.T) {
	c := wizard.New(&fakeReports{}, &fakeNavigator{}, wizard.WithAdvisorStep(false))
	fillAndWalk(t, c)
	require.True(t, c.IsTerminal())
	require.True(t, errors.Is(c.Advance(), apperrors.ErrTerminalStep))
}

func TestRetreat(t *testing.T) {
	c := wizard.New(&fakeReports{}, &fakeNavigator{})
	c.Retreat()
	require.Zero(t, c.Index())

	fillAndWalk(t, c)
	require.Equal(t, 4, c.Index())
	c.Retreat()
	require.Equal(t, 3, c.Index())
	require.Equal(t, "Tired", c.Value(dailymodel.FieldQ3))
}

func TestSetAnswerUnknownField(t *testing.T) {
	c := wizard.New(&fakeReports{}, &fakeNavigator{})
	require.Error(t, c.SetAnswer("q9", "x"))
}

func TestSubmitOnlyAtTerminalStep(t *testing.T) {
	reports := &fakeReports{}
	c := wizard.New(reports, &fakeNavigator{})
	require.True(t, errors.Is(c.Submit(context.Background()), apperrors.ErrNotTerminal))
	require.Empty(t, reports.submitted)
}

func TestSubmitReport(t *testing.T) {
	reports := &fakeReports{}
	nav := &fakeNavigator{}
	c := wizard.New(reports, nav)
	fillAndWalk(t, c)
	require.NoError(t, c.Advance())

	require.NoError(t, c.Submit(context.Background()))
	require.Len(t, reports.submitted, 1)
	require.Equal(t, dailymodel.DailyAnswers{
		Q1:   "Worked",
		Q2:   "Shipped feature",
		Q3:   "Tired",
		Mood: "😴 Fatigué",
	}, reports.submitted[0])
	require.Empty(t, reports.advice)
	require.Equal(t, []string{string(router.RouteReport)}, nav.paths)
	require.Empty(t, c.SubmitError())
}

func TestSubmitCarriesObjectives(t *testing.T) {
	reports := &fakeReports{}
	c := wizard.New(reports, &fakeNavigator{}, wizard.WithAdvisorStep(false))
	done := true
	c.SetObjectives([]dailymodel.Objective{{ID: "1", Title: "Run 5km", IsCompleted: &done}})
	fillAndWalk(t, c)

	require.NoError(t, c.Submit(context.Background()))
	require.Len(t, reports.submitted[0].Objectives, 1)
	require.Equal(t, "Run 5km", reports.submitted[0].Objectives[0].Title)
}

func TestSubmitFailureStaysOnForm(t *testing.T) {
	reports := &fakeReports{submitErr: errors.New("500")}
	nav := &fakeNavigator{}
	c := wizard.New(reports, nav, wizard.WithAdvisorStep(false))
	fillAndWalk(t, c)

	require.Error(t, c.Submit(context.Background()))
	require.Equal(t, wizard.MessageSubmitFailed, c.SubmitError())
	require.Empty(t, nav.paths)
	require.False(t, c.Submitting())
}

func TestSubmitValidatesAllAnswers(t *testing.T) {
	reports := &fakeReports{}
	c := wizard.New(reports, &fakeNavigator{}, wizard.WithAdvisorStep(false))
	fillAndWalk(t, c)
	require.NoError(t, c.SetAnswer(dailymodel.FieldQ2, ""))

	err := c.Submit(context.Background())
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "q2", vErr.Field)
	require.Empty(t, reports.submitted)
}

func TestSubmitWithAdvisor(t *testing.T) {
	for _, tc := range []struct {
		name      string
		adviceErr error
	}{
		{name: "advice succeeds"},
		{name: "advice fails", adviceErr: errors.New("503")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			reports := &fakeReports{adviceErr: tc.adviceErr}
			nav := &fakeNavigator{}
			c := wizard.New(reports, nav)
			fillAndWalk(t, c)
			require.NoError(t, c.Advance())
			require.NoError(t, c.SelectAdvisor(3))

			require.NoError(t, c.Submit(context.Background()))
			require.Equal(t, []int{3}, reports.advice)
			require.Empty(t, reports.submitted)
			require.Equal(t, []string{string(router.RouteReport)}, nav.paths)
		})
	}
}

func TestAdvisorSelection(t *testing.T) {
	c := wizard.New(&fakeReports{}, &fakeNavigator{})
	require.True(t, errors.Is(c.SelectAdvisor(10), apperrors.ErrUnknownAdvisor))
	require.Nil(t, c.Answers().Perso)

	require.NoError(t, c.SelectAdvisor(0))
	require.Equal(t, 0, *c.Answers().Perso)
	c.ClearAdvisor()
	require.Nil(t, c.Answers().Perso)
}
