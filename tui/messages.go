package tui

import (
	"github.com/jrsteele09/dailymood/dailymodel"
	"github.com/jrsteele09/dailymood/router"
)

// RouteChangedMsg is sent when navigation happened outside the program,
// e.g. after the session was demoted.
type RouteChangedMsg struct {
	Route router.Route
}

type authDoneMsg struct {
	err error
}

type submitDoneMsg struct {
	err error
}

type reportLoadedMsg struct {
	report *dailymodel.Report
	err    error
}

// objectivesMsg marks the end of an objectives call; the list is read back
// from the manager that made it.
type objectivesMsg struct {
	generation int
}
