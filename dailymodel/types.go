package dailymodel

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jrsteele09/dailymood/internal/utils"
	"github.com/pkg/errors"
)

// User is the identity returned by the backend once a token is accepted.
// Immutable on the client.
type User struct {
	// ID is the backend primary key.
	// Example: 1
	ID int `json:"id"`

	// Username is the login name.
	// Example: "alice"
	Username string `json:"username"`
}

// UnmarshalJSON accepts both the object form and the bare username string
// that /token and /register return on older backends.
func (u *User) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var username string
		if err := json.Unmarshal(data, &username); err != nil {
			return errors.Wrap(err, "[User.UnmarshalJSON] username")
		}
		*u = User{Username: username}
		return nil
	}
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return errors.Wrap(err, "[User.UnmarshalJSON] object")
	}
	*u = User(p)
	return nil
}

// Objective is a short-term goal owned by the user. IDs are assigned by the
// backend.
type Objective struct {
	// ID is the server-assigned identifier, always carried as a string.
	// Example: "12"
	ID string `json:"id,omitempty"`

	// Title is the text of the goal.
	// Example: "Run 5km"
	Title string `json:"title"`

	// IsCompleted is nil when the server never reported a completion state.
	IsCompleted *bool `json:"isCompleted,omitempty"`
}

// Completed reports the completion flag, treating an absent flag as false.
func (o Objective) Completed() bool {
	return utils.Value(o.IsCompleted)
}

const objectiveStatusCompleted = "completed"

// UnmarshalJSON accepts numeric or string ids and derives IsCompleted from
// a "status" field when the flag itself is missing.
func (o *Objective) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          json.RawMessage `json:"id"`
		Title       string          `json:"title"`
		IsCompleted *bool           `json:"isCompleted"`
		Status      string          `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "[Objective.UnmarshalJSON]")
	}

	id, err := flexibleID(raw.ID)
	if err != nil {
		return err
	}

	completed := raw.IsCompleted
	if completed == nil && raw.Status != "" {
		completed = utils.Ptr(strings.EqualFold(raw.Status, objectiveStatusCompleted))
	}

	*o = Objective{ID: id, Title: raw.Title, IsCompleted: completed}
	return nil
}

func flexibleID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errors.Wrap(err, "[Objective.UnmarshalJSON] id")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", errors.Wrap(err, "[Objective.UnmarshalJSON] id")
	}
	return n.String(), nil
}

// DailyAnswers is the payload of one daily form, built step by step.
type DailyAnswers struct {
	Q1   string `json:"q1" validate:"required"`
	Q2   string `json:"q2" validate:"required"`
	Q3   string `json:"q3" validate:"required"`
	Mood string `json:"mood" validate:"required"`

	// Perso is the selected advisor id. When set, finishing the form asks
	// for advice instead of submitting a report.
	Perso *int `json:"perso,omitempty" validate:"omitempty,min=0"`

	Objectives []Objective `json:"objectives"`
}

// Report is the generated daily report.
type Report struct {
	ID         int           `json:"id,omitempty"`
	Date       string        `json:"date,omitempty"`
	Answers    *DailyAnswers `json:"answers,omitempty"`
	Summary    string        `json:"summary"`
	Evaluation *string       `json:"evaluation,omitempty"`
}

// EvaluationParagraphs splits the evaluation on newlines, dropping blanks.
func (r Report) EvaluationParagraphs() []string {
	if r.Evaluation == nil {
		return nil
	}
	var paragraphs []string
	for _, p := range strings.Split(*r.Evaluation, "\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
