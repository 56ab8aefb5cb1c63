package wizard

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/dailymood/dailymodel"
	"github.com/jrsteele09/dailymood/internal/config"
	apperrors "github.com/jrsteele09/dailymood/internal/errors"
	"github.com/jrsteele09/dailymood/internal/utils"
	"github.com/jrsteele09/dailymood/router"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	MessageRequired     = "Ce champ est requis"
	MessageMoodRequired = "Veuillez sélectionner une humeur"
	MessageSubmitFailed = "Une erreur est survenue lors de l'envoi du formulaire."
)

// ReportService is the part of the backend the form submits to.
type ReportService interface {
	SubmitReport(ctx context.Context, answers dailymodel.DailyAnswers) (*dailymodel.Report, error)
	RequestAdvice(ctx context.Context, advisor int) (*dailymodel.AdviceResponse, error)
}

type Navigator interface {
	Navigate(path string) router.Route
}

// Controller walks the daily form one step at a time. Only the current
// step's field is checked when moving forward; the whole answer set is
// checked on submit.
type Controller struct {
	reports  ReportService
	nav      Navigator
	validate *validator.Validate

	lock        sync.Mutex
	steps       []Step
	index       int
	answers     dailymodel.DailyAnswers
	submitting  bool
	submitError string
}

type Option func(*Controller)

// WithAdvisorStep includes or drops the final advisor step.
func WithAdvisorStep(enabled bool) Option {
	return func(c *Controller) {
		c.steps = Steps(enabled)
	}
}

func New(reports ReportService, nav Navigator, options ...Option) *Controller {
	c := &Controller{
		reports:  reports,
		nav:      nav,
		validate: newValidator(),
		steps:    Steps(true),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// NewFromConfig builds a controller using the form section of the
// configuration.
func NewFromConfig(cfg config.FormConfig, reports ReportService, nav Navigator) *Controller {
	return New(reports, nav, WithAdvisorStep(cfg.GetAdvisorStep()))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (c *Controller) Steps() []Step {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]Step(nil), c.steps...)
}

func (c *Controller) Index() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.index
}

func (c *Controller) Current() Step {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.steps[c.index]
}

// IsTerminal reports whether the current step is the last one.
func (c *Controller) IsTerminal() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.index == len(c.steps)-1
}

func (c *Controller) Answers() dailymodel.DailyAnswers {
	c.lock.Lock()
	defer c.lock.Unlock()
	answers := c.answers
	answers.Objectives = append([]dailymodel.Objective(nil), c.answers.Objectives...)
	answers.Perso = utils.Clone(c.answers.Perso)
	return answers
}

func (c *Controller) SubmitError() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.submitError
}

func (c *Controller) Submitting() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.submitting
}

// Advance moves to the next step when the current step's field is filled.
func (c *Controller) Advance() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.index == len(c.steps)-1 {
		return apperrors.ErrTerminalStep
	}
	step := c.steps[c.index]
	if step.Field != "" {
		if err := c.validate.Var(c.valueLocked(step.Field), "required"); err != nil {
			return &apperrors.ValidationError{Field: string(step.Field), Message: messageFor(step.Field)}
		}
	}
	c.index++
	return nil
}

// Retreat moves back one step without validating. No-op on the first step.
func (c *Controller) Retreat() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.index > 0 {
		c.index--
	}
}

func (c *Controller) valueLocked(field dailymodel.Field) string {
	switch field {
	case dailymodel.FieldQ1:
		return c.answers.Q1
	case dailymodel.FieldQ2:
		return c.answers.Q2
	case dailymodel.FieldQ3:
		return c.answers.Q3
	case dailymodel.FieldMood:
		return c.answers.Mood
	}
	return ""
}

// Value returns the current answer for field.
func (c *Controller) Value(field dailymodel.Field) string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.valueLocked(field)
}

func messageFor(field dailymodel.Field) string {
	if field == dailymodel.FieldMood {
		return MessageMoodRequired
	}
	return MessageRequired
}

func (c *Controller) SetAnswer(field dailymodel.Field, value string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	switch field {
	case dailymodel.FieldQ1:
		c.answers.Q1 = value
	case dailymodel.FieldQ2:
		c.answers.Q2 = value
	case dailymodel.FieldQ3:
		c.answers.Q3 = value
	case dailymodel.FieldMood:
		c.answers.Mood = value
	default:
		return errors.Errorf("[Controller.SetAnswer] unknown field %q", field)
	}
	return nil
}

func (c *Controller) SetMood(mood string) {
	_ = c.SetAnswer(dailymodel.FieldMood, mood)
}

func (c *Controller) SelectAdvisor(id int) error {
	if _, ok := dailymodel.AdvisorByID(id); !ok {
		return apperrors.Wrapf(apperrors.ErrUnknownAdvisor, "[Controller.SelectAdvisor] advisor %d", id)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.answers.Perso = utils.Ptr(id)
	return nil
}

func (c *Controller) ClearAdvisor() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.answers.Perso = nil
}

// SetObjectives is the change hook handed to the objectives manager.
func (c *Controller) SetObjectives(objectives []dailymodel.Objective) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.answers.Objectives = append([]dailymodel.Objective(nil), objectives...)
}

// Submit finishes the form. With an advisor selected it asks for advice and
// always moves on to the report, logging a failed request. Otherwise it
// submits the report and only moves on once the backend accepted it.
func (c *Controller) Submit(ctx context.Context) error {
	c.lock.Lock()
	if c.index != len(c.steps)-1 {
		c.lock.Unlock()
		return apperrors.ErrNotTerminal
	}
	c.submitting = true
	c.lock.Unlock()
	defer func() {
		c.lock.Lock()
		c.submitting = false
		c.lock.Unlock()
	}()

	answers := c.Answers()
	if err := c.validateAnswers(answers); err != nil {
		return err
	}

	if answers.Perso != nil {
		if _, err := c.reports.RequestAdvice(ctx, *answers.Perso); err != nil {
			log.Err(err).Int("advisor", *answers.Perso).Msg("requesting advice")
		}
		c.nav.Navigate(string(router.RouteReport))
		return nil
	}

	if _, err := c.reports.SubmitReport(ctx, answers); err != nil {
		c.lock.Lock()
		c.submitError = MessageSubmitFailed
		c.lock.Unlock()
		log.Err(err).Msg("submitting report")
		return errors.Wrap(err, "[Controller.Submit]")
	}

	c.lock.Lock()
	c.submitError = ""
	c.lock.Unlock()
	c.nav.Navigate(string(router.RouteReport))
	return nil
}

func (c *Controller) validateAnswers(answers dailymodel.DailyAnswers) error {
	err := c.validate.Struct(answers)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := dailymodel.Field(fieldErrs[0].Field())
		return &apperrors.ValidationError{Field: string(field), Message: messageFor(field)}
	}
	return errors.Wrap(err, "[Controller.Submit] validate")
}
