package session

import "github.com/jrsteele09/dailymood/dailymodel"

type State int

const (
	StateUninitialized State = iota
	StateVerifying
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Snapshot is a copy of the session at one point in time.
type Snapshot struct {
	User            *dailymodel.User
	IsAuthenticated bool
	Loading         bool
	Error           string
	State           State
}
