package router

import (
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Route is a resolved view path.
type Route string

const (
	RouteRoot     Route = "/"
	RouteLogin    Route = "/login"
	RouteRegister Route = "/register"
	RouteForm     Route = "/form"
	RouteReport   Route = "/report"
)

var protected = map[Route]bool{
	RouteForm:   true,
	RouteReport: true,
}

var known = map[Route]bool{
	RouteLogin:    true,
	RouteRegister: true,
	RouteForm:     true,
	RouteReport:   true,
}

// AuthChecker reports whether a user is logged in.
type AuthChecker interface {
	IsAuthenticated() bool
}

// Resolve applies the route guard to path. The root and unknown paths land
// on the form, protected views need a session and a logged-in user never
// sees the login view.
func Resolve(path string, authenticated bool) Route {
	route := Route(strings.TrimRight(path, "/"))
	if route == "" || !known[route] {
		route = RouteForm
	}
	if protected[route] && !authenticated {
		return RouteLogin
	}
	if route == RouteLogin && authenticated {
		return RouteForm
	}
	return route
}

// Router tracks the current view and tells listeners when it changes.
type Router struct {
	auth AuthChecker

	lock      sync.RWMutex
	current   Route
	history   []Route
	listeners []func(Route)
}

func New(auth AuthChecker) *Router {
	return &Router{auth: auth}
}

// Navigate resolves path against the session and makes it current.
func (r *Router) Navigate(path string) Route {
	route := Resolve(path, r.auth.IsAuthenticated())

	r.lock.Lock()
	r.current = route
	r.history = append(r.history, route)
	listeners := slices.Clone(r.listeners)
	r.lock.Unlock()

	if string(route) != path {
		log.Debug().Str("requested", path).Str("route", string(route)).Msg("navigation redirected")
	}
	for _, l := range listeners {
		l(route)
	}
	return route
}

// Refresh re-applies the guard to the current route, e.g. after logout.
func (r *Router) Refresh() Route {
	return r.Navigate(string(r.Current()))
}

func (r *Router) Current() Route {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.current == "" {
		return RouteRoot
	}
	return r.current
}

func (r *Router) History() []Route {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return append([]Route(nil), r.history...)
}

func (r *Router) Subscribe(fn func(Route)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.listeners = append(r.listeners, fn)
}
