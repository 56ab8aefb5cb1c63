package dailymodel

import "encoding/json"

// Credentials are sent as JSON to /register. /token receives the same
// values form-encoded.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by /register.
type AuthResponse struct {
	Message string `json:"message,omitempty"`

	// Token is the bearer token. Older backends omit it, in which case the
	// client logs in with the same credentials.
	Token string `json:"token,omitempty"`

	User *User `json:"user,omitempty"`
}

// VerifyResponse is returned by /verify-token.
type VerifyResponse struct {
	Message string `json:"message,omitempty"`
	User    *User  `json:"user"`
}

// RefreshResponse is returned by /refresh-token.
type RefreshResponse struct {
	Token string `json:"token"`
}

// SubmitReportRequest is the body of /submit-report.
type SubmitReportRequest struct {
	Answers DailyAnswers `json:"answers"`
}

// ObjectiveRequest wraps an objective for /add-goal and /update-goal.
type ObjectiveRequest struct {
	Objective Objective `json:"objective"`
}

// GoalEnvelope is returned by /add-goal, and by /update-goal on backends
// that wrap the updated goal.
type GoalEnvelope struct {
	Message string     `json:"message,omitempty"`
	Goal    *Objective `json:"goal"`
}

// AdviceRequest is the body of /create-advise.
type AdviceRequest struct {
	Advisor int `json:"advisor"`
}

// AdviceResponse is returned by /create-advise.
type AdviceResponse struct {
	Message    string `json:"message,omitempty"`
	Evaluation string `json:"evaluation"`
}

// ErrorBody covers both the FastAPI {"detail": ...} and {"message": ...}
// error shapes.
type ErrorBody struct {
	// Detail is a string for HTTPException and a list for request
	// validation failures.
	Detail  json.RawMessage `json:"detail,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Text returns whichever message the server supplied.
func (e ErrorBody) Text() string {
	if len(e.Detail) > 0 {
		var s string
		if err := json.Unmarshal(e.Detail, &s); err == nil {
			return s
		}
		return string(e.Detail)
	}
	return e.Message
}
