package main

import (
	"github.com/jrsteele09/dailymood/apiclient"
	"github.com/jrsteele09/dailymood/internal/config"
	"github.com/jrsteele09/dailymood/router"
	"github.com/jrsteele09/dailymood/session"
	"github.com/jrsteele09/dailymood/tokenstore"
	"github.com/jrsteele09/dailymood/tui"
	"github.com/jrsteele09/dailymood/wizard"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// application is what main needs once the graph is built.
type application struct {
	Session *session.Store
	Router  *router.Router
	Deps    tui.Deps
}

func appOptions(cfg config.Config, out *application) fx.Option {
	return fx.Options(
		fx.NopLogger,
		fx.Provide(
			func() config.Config { return cfg },
			newTokenStore,
			newAPIClient,
			newSession,
			newRouter,
			newTUIDeps,
		),
		fx.Invoke(wireAuthFailure),
		fx.Populate(&out.Session, &out.Router, &out.Deps),
	)
}

func newTokenStore(cfg config.Config) tokenstore.Store {
	return tokenstore.NewFileStore(cfg.GetTokenFile())
}

func newAPIClient(cfg config.Config, tokens tokenstore.Store) (*apiclient.Client, error) {
	return apiclient.NewFromConfig(cfg, tokens)
}

func newSession(client *apiclient.Client, tokens tokenstore.Store) *session.Store {
	return session.New(client, tokens)
}

func newRouter(s *session.Store) *router.Router {
	return router.New(s)
}

func newTUIDeps(cfg config.Config, s *session.Store, r *router.Router, client *apiclient.Client) tui.Deps {
	return tui.Deps{
		Session:     s,
		Router:      r,
		Reports:     client,
		Goals:       client,
		FormOptions: []wizard.Option{wizard.WithAdvisorStep(cfg.GetAdvisorStep())},
	}
}

// wireAuthFailure ends the session and shows the login view whenever the
// transport gives up on the stored token.
func wireAuthFailure(client *apiclient.Client, s *session.Store, r *router.Router) {
	client.OnAuthFailure(func(err error) {
		log.Warn().Err(err).Msg("session expired")
		s.Demote()
		r.Navigate(string(router.RouteLogin))
	})
}
