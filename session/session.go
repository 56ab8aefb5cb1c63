package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/dailymood/dailymodel"
	apperrors "github.com/jrsteele09/dailymood/internal/errors"
	"github.com/jrsteele09/dailymood/tokenstore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	MessageInvalidCredentials = "invalid credentials"
	MessageUsernameTaken      = "username already exists"
	MessageRegisterFailed     = "registration failed"
)

// AuthAPI is the part of the backend the session needs.
type AuthAPI interface {
	Login(ctx context.Context, creds dailymodel.Credentials) (*dailymodel.AuthResponse, error)
	Register(ctx context.Context, creds dailymodel.Credentials) (*dailymodel.AuthResponse, error)
	VerifyToken(ctx context.Context) (*dailymodel.User, error)
}

// Listener is called with the new session after every change.
type Listener func(Snapshot)

// Store owns who is logged in. Network calls run without the lock held so
// the auth-failure hook can demote the session mid-call.
type Store struct {
	api       AuthAPI
	tokens    tokenstore.Store
	nowTime   func() time.Time
	isExpired func(token string) bool

	lock      sync.RWMutex
	user      *dailymodel.User
	errMsg    string
	loading   bool
	state     State
	listeners []Listener
}

type StoreOption func(*Store)

// WithNowTime sets the clock the token exp claim is checked against.
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// WithExpiryCheck replaces the JWT exp probe used before verifying.
func WithExpiryCheck(isExpired func(token string) bool) StoreOption {
	return func(s *Store) {
		s.isExpired = isExpired
	}
}

func New(api AuthAPI, tokens tokenstore.Store, options ...StoreOption) *Store {
	s := &Store{
		api:     api,
		tokens:  tokens,
		nowTime: time.Now,
		loading: true,
		state:   StateUninitialized,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.isExpired == nil {
		s.isExpired = func(token string) bool {
			return tokenstore.IsExpiredAt(token, s.nowTime())
		}
	}
	return s
}

// Subscribe registers fn for every subsequent change.
func (s *Store) Subscribe(fn Listener) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	var user *dailymodel.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Snapshot{
		User:            user,
		IsAuthenticated: s.user != nil,
		Loading:         s.loading,
		Error:           s.errMsg,
		State:           s.state,
	}
}

func (s *Store) IsAuthenticated() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.user != nil
}

// update applies fn under the lock and notifies listeners afterwards.
func (s *Store) update(fn func()) {
	s.lock.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := append([]Listener(nil), s.listeners...)
	s.lock.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) becomeAnonymous(errMsg string) {
	s.update(func() {
		s.user = nil
		s.errMsg = errMsg
		s.loading = false
		s.state = StateAnonymous
	})
}

func (s *Store) becomeAuthenticated(user dailymodel.User) {
	s.update(func() {
		s.user = &user
		s.errMsg = ""
		s.loading = false
		s.state = StateAuthenticated
	})
}

func (s *Store) dropToken() {
	if err := s.tokens.Delete(); err != nil {
		log.Err(err).Msg("deleting stored token")
	}
}

// Verify checks a stored token with the backend. Without a token the
// session becomes anonymous; any failure deletes the token. It always ends
// with Loading false. The returned error is informational.
func (s *Store) Verify(ctx context.Context) error {
	s.update(func() {
		s.loading = true
		s.state = StateVerifying
	})

	token, err := s.tokens.Get()
	if err != nil {
		s.becomeAnonymous("")
		return errors.Wrap(err, "[Store.Verify] read token")
	}
	if token == "" {
		s.becomeAnonymous("")
		return nil
	}

	if s.isExpired(token) {
		s.dropToken()
		s.becomeAnonymous("")
		return &apperrors.AuthError{Op: "verify", Err: apperrors.ErrTokenExpired}
	}

	user, err := s.api.VerifyToken(ctx)
	if err != nil || user == nil {
		s.dropToken()
		s.becomeAnonymous("")
		if err == nil {
			err = apperrors.ErrUnauthorized
		}
		log.Warn().Err(err).Msg("stored token rejected")
		return &apperrors.AuthError{Op: "verify", Err: err}
	}

	s.becomeAuthenticated(*user)
	log.Info().Str("username", user.Username).Msg("session restored")
	return nil
}

// Login exchanges credentials for a token, stores it and returns the user.
// On failure the session error reads "invalid credentials" and the user is
// left as it was.
func (s *Store) Login(ctx context.Context, username, password string) (*dailymodel.User, error) {
	creds := dailymodel.Credentials{Username: username, Password: password}
	resp, err := s.api.Login(ctx, creds)
	if err == nil && (resp == nil || resp.Token == "") {
		err = errors.New("[Store.Login] no token in response")
	}
	if err != nil {
		s.update(func() {
			s.errMsg = MessageInvalidCredentials
			s.loading = false
		})
		log.Err(err).Str("username", username).Msg("login failed")
		return nil, &apperrors.AuthError{Op: "login", Err: fmt.Errorf("%w: %w", apperrors.ErrInvalidCredentials, err)}
	}
	return s.establish(resp.Token, resp.User, username)
}

// Register creates the account, then logs in. Backends that issue a token
// on registration skip the second round trip.
func (s *Store) Register(ctx context.Context, username, password string) (*dailymodel.User, error) {
	creds := dailymodel.Credentials{Username: username, Password: password}
	resp, err := s.api.Register(ctx, creds)
	if err != nil {
		msg, cause := MessageRegisterFailed, err
		if apperrors.Is(err, apperrors.ErrConflict) {
			msg, cause = MessageUsernameTaken, fmt.Errorf("%w: %w", apperrors.ErrUsernameTaken, err)
		}
		s.update(func() {
			s.errMsg = msg
			s.loading = false
		})
		log.Err(err).Str("username", username).Msg("registration failed")
		return nil, &apperrors.AuthError{Op: "register", Err: cause}
	}
	if resp == nil || resp.Token == "" {
		return s.Login(ctx, username, password)
	}
	return s.establish(resp.Token, resp.User, username)
}

func (s *Store) establish(token string, user *dailymodel.User, username string) (*dailymodel.User, error) {
	if err := s.tokens.Set(token); err != nil {
		return nil, errors.Wrap(err, "[Store.establish] persist token")
	}
	u := dailymodel.User{Username: username}
	if user != nil {
		u = *user
	}
	s.becomeAuthenticated(u)
	log.Info().Str("username", u.Username).Msg("logged in")
	return &u, nil
}

// Logout forgets the token and the user. No network call; safe to repeat.
func (s *Store) Logout() {
	s.dropToken()
	s.becomeAnonymous("")
}

// Demote resets the session after the transport gave up on the token.
func (s *Store) Demote() {
	s.becomeAnonymous("")
}
