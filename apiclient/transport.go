package apiclient

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/dailymood/internal/errors"
	"github.com/jrsteele09/dailymood/tokenstore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	bearerPrefix        = "Bearer "
	refreshFlightKey    = "refresh"
)

// RefreshFunc exchanges the current token for a new one.
type RefreshFunc func(ctx context.Context) (string, error)

// AuthFailureHandler is told when a refresh failed and the stored token was
// dropped. The application resets its session and shows the login view.
type AuthFailureHandler func(err error)

// decision is what the pipeline does with a response.
type decision int

const (
	passThrough decision = iota
	refreshAndRetry
)

// decide is the retry policy: a 401 on a first attempt of a non-auth route
// is worth one refresh, everything else goes back to the caller unchanged.
func decide(status, attempt int, authRoute bool) decision {
	if status == http.StatusUnauthorized && attempt == 0 && !authRoute {
		return refreshAndRetry
	}
	return passThrough
}

// Transport is the request/response pipeline shared by every backend call.
// The bearer header is derived from the token store for each request; there
// is no shared default header.
type Transport struct {
	base       http.RoundTripper
	tokens     tokenstore.Store
	authRoutes map[string]struct{}

	refresh RefreshFunc
	flights singleflight.Group

	lock          sync.RWMutex
	onAuthFailure AuthFailureHandler
}

var _ http.RoundTripper = (*Transport)(nil)

// NewTransport wraps base. authPaths are the full request paths that must
// never trigger a refresh.
func NewTransport(base http.RoundTripper, tokens tokenstore.Store, refresh RefreshFunc, authPaths ...string) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &Transport{
		base:       base,
		tokens:     tokens,
		refresh:    refresh,
		authRoutes: make(map[string]struct{}, len(authPaths)),
	}
	for _, p := range authPaths {
		t.authRoutes[p] = struct{}{}
	}
	return t
}

// SetAuthFailureHandler installs the hook called after a failed refresh.
func (t *Transport) SetAuthFailureHandler(handler AuthFailureHandler) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.onAuthFailure = handler
}

// RoundTrip sends req with the stored token and recovers a single 401 by
// refreshing the token and replaying the request.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.roundTrip(req, 0)
}

func (t *Transport) roundTrip(req *http.Request, attempt int) (*http.Response, error) {
	out, sentToken, err := t.prepare(req, attempt)
	if err != nil {
		return nil, err
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		log.Err(err).Str("request_id", out.Header.Get(headerRequestID)).Str("path", req.URL.Path).Msg("api request failed")
		return nil, err
	}
	log.Debug().
		Str("request_id", out.Header.Get(headerRequestID)).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Int("attempt", attempt).
		Msg("api request")

	_, authRoute := t.authRoutes[req.URL.Path]
	if decide(resp.StatusCode, attempt, authRoute) == passThrough || !replayable(req) {
		return resp, nil
	}
	discard(resp)

	if err := t.refreshFor(req.Context(), sentToken); err != nil {
		return nil, err
	}
	return t.roundTrip(req, attempt+1)
}

// prepare clones req with a fresh body, the current bearer token and a
// request id. It returns the token that was attached.
func (t *Transport) prepare(req *http.Request, attempt int) (*http.Request, string, error) {
	out := req.Clone(req.Context())
	if attempt > 0 && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, "", errors.Wrap(err, "[Transport.prepare] rewind body")
		}
		out.Body = body
	}

	token, err := t.tokens.Get()
	if err != nil {
		log.Err(err).Msg("reading stored token")
		token = ""
	}
	if token != "" {
		out.Header.Set(headerAuthorization, bearerPrefix+token)
	} else {
		out.Header.Del(headerAuthorization)
	}
	if out.Header.Get(headerRequestID) == "" {
		out.Header.Set(headerRequestID, uuid.NewString())
	}
	return out, token, nil
}

// refreshFor obtains a token newer than sentToken. Concurrent callers share
// one refresh; a caller whose token was already replaced by another refresh
// replays straight away. The refresh itself is detached from ctx: a
// cancelled caller returns ctx.Err() and leaves the session alone.
func (t *Transport) refreshFor(ctx context.Context, sentToken string) error {
	if t.superseded(sentToken) {
		return nil
	}
	if t.dropped(sentToken) {
		return &RefreshError{Err: apperrors.ErrNoToken}
	}

	flight := t.flights.DoChan(refreshFlightKey, func() (any, error) {
		if t.superseded(sentToken) {
			return "", nil
		}
		if t.dropped(sentToken) {
			return "", &RefreshError{Err: apperrors.ErrNoToken}
		}
		token, err := t.refreshToken(context.WithoutCancel(ctx))
		if err != nil {
			return "", t.fail(err)
		}
		return token, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-flight:
		return res.Err
	}
}

func (t *Transport) refreshToken(ctx context.Context) (string, error) {
	if t.refresh == nil {
		return "", errors.New("[Transport.refreshToken] no refresh function")
	}
	token, err := t.refresh(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("[Transport.refreshToken] empty token in refresh response")
	}
	if err := t.tokens.Set(token); err != nil {
		return "", errors.Wrap(err, "[Transport.refreshToken] store token")
	}
	log.Info().Msg("access token refreshed")
	return token, nil
}

func (t *Transport) superseded(sentToken string) bool {
	current, err := t.tokens.Get()
	return err == nil && current != "" && current != sentToken
}

// dropped reports whether the token this request carried was deleted by a
// refresh that already failed.
func (t *Transport) dropped(sentToken string) bool {
	current, err := t.tokens.Get()
	return err == nil && sentToken != "" && current == ""
}

// fail drops the stored token, tells the application and returns the
// refresh failure that replaces the original 401. It runs once per flight.
func (t *Transport) fail(cause error) error {
	if err := t.tokens.Delete(); err != nil {
		log.Err(err).Msg("deleting token after failed refresh")
	}
	log.Warn().Err(cause).Msg("token refresh failed, session ended")

	t.lock.RLock()
	handler := t.onAuthFailure
	t.lock.RUnlock()
	if handler != nil {
		handler(cause)
	}
	return &RefreshError{Err: cause}
}

// replayable reports whether the request body can be sent a second time.
func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
