package wizard

import "github.com/jrsteele09/dailymood/dailymodel"

// Kind tells the view which screen renders a step.
type Kind int

const (
	KindObjectives Kind = iota
	KindQuestion
	KindMood
	KindAdvisor
)

func (k Kind) String() string {
	switch k {
	case KindObjectives:
		return "objectives"
	case KindQuestion:
		return "question"
	case KindMood:
		return "mood"
	case KindAdvisor:
		return "advisor"
	}
	return "unknown"
}

// Step is one screen of the daily form. Field is set for question and mood
// steps, the only ones gated by validation.
type Step struct {
	Kind  Kind
	Field dailymodel.Field
}

// Question returns the prompt of a question step.
func (s Step) Question() (dailymodel.Question, bool) {
	if s.Kind != KindQuestion {
		return dailymodel.Question{}, false
	}
	return dailymodel.QuestionFor(s.Field)
}

// Steps returns the form in display order. The advisor step is last when
// included.
func Steps(withAdvisor bool) []Step {
	steps := []Step{{Kind: KindObjectives}}
	for _, q := range dailymodel.Questions {
		steps = append(steps, Step{Kind: KindQuestion, Field: q.Field})
	}
	steps = append(steps, Step{Kind: KindMood, Field: dailymodel.FieldMood})
	if withAdvisor {
		steps = append(steps, Step{Kind: KindAdvisor})
	}
	return steps
}
