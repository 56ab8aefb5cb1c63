// Package apifake is an in-memory implementation of the daily mood backend,
// served with echo, for exercising the client end to end.
package apifake

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/dailymood/dailymodel"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = 30 * time.Minute
	dateLayout      = "2006-01-02"
)

type account struct {
	user dailymodel.User
	hash []byte
}

// Backend holds users, goals and reports in memory. Failure switches let
// tests drive the client's error paths.
type Backend struct {
	lock sync.Mutex

	secret   []byte
	tokenTTL time.Duration
	nowFunc  func() time.Time
	legacy   bool

	accounts   map[string]*account
	byID       map[int]*account
	nextUserID int
	goals      map[int][]dailymodel.Objective
	reports    map[int]*dailymodel.Report
	stale      map[string]bool

	rejectAll    bool
	failRefresh  bool
	failAdvice   bool
	failSubmit   bool
	calls        map[string]int
	bearers      map[string][]string
	submitted    []dailymodel.DailyAnswers
	adviceAsked  []int
	nextReportID int

	echo *echo.Echo
}

type Option func(*Backend)

func WithSecret(secret []byte) Option {
	return func(b *Backend) {
		b.secret = secret
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		b.tokenTTL = ttl
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(b *Backend) {
		b.nowFunc = now
	}
}

// WithLegacyAuth mimics the first backend release: /token and /register
// return the user as a bare username, /register issues no token and goal
// updates come back wrapped in {message, goal}.
func WithLegacyAuth() Option {
	return func(b *Backend) {
		b.legacy = true
	}
}

func New(options ...Option) *Backend {
	b := &Backend{
		secret:     []byte("apifake-secret"),
		tokenTTL:   defaultTokenTTL,
		nowFunc:    time.Now,
		accounts:   make(map[string]*account),
		byID:       make(map[int]*account),
		nextUserID: 1,
		goals:      make(map[int][]dailymodel.Objective),
		reports:    make(map[int]*dailymodel.Report),
		stale:      make(map[string]bool),
		calls:      make(map[string]int),
		bearers:    make(map[string][]string),
	}
	for _, opt := range options {
		opt(b)
	}
	b.echo = b.routes()
	return b
}

// Handler is the echo instance serving the API.
func (b *Backend) Handler() http.Handler {
	return b.echo
}

// AddUser registers an account directly.
func (b *Backend) AddUser(username, password string) (dailymodel.User, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.addUserLocked(username, password)
}

func (b *Backend) addUserLocked(username, password string) (dailymodel.User, error) {
	if _, exists := b.accounts[username]; exists {
		return dailymodel.User{}, errors.Errorf("[Backend.AddUser] username %q exists", username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return dailymodel.User{}, errors.Wrap(err, "[Backend.AddUser] hash password")
	}
	acc := &account{user: dailymodel.User{ID: b.nextUserID, Username: username}, hash: hash}
	b.nextUserID++
	b.accounts[username] = acc
	b.byID[acc.user.ID] = acc
	return acc.user, nil
}

// IssueToken signs a fresh token for userID.
func (b *Backend) IssueToken(userID int) (string, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.issueLocked(userID)
}

func (b *Backend) issueLocked(userID int) (string, error) {
	now := b.nowFunc()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(b.tokenTTL)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Backend.IssueToken] sign")
	}
	return signed, nil
}

// Invalidate makes token fail on every protected route. It can still be
// exchanged at /refresh-token.
func (b *Backend) Invalidate(token string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.stale[token] = true
}

// RejectAll answers 401 on every protected route.
func (b *Backend) RejectAll(reject bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.rejectAll = reject
}

func (b *Backend) FailRefresh(fail bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.failRefresh = fail
}

func (b *Backend) FailAdvice(fail bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.failAdvice = fail
}

func (b *Backend) FailSubmit(fail bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.failSubmit = fail
}

// Calls returns how many requests reached the route pattern, e.g.
// "/update-goal/:id".
func (b *Backend) Calls(route string) int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.calls[route]
}

// Bearers returns the bearer tokens seen on route, in arrival order.
func (b *Backend) Bearers(route string) []string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]string(nil), b.bearers[route]...)
}

func (b *Backend) Submitted() []dailymodel.DailyAnswers {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]dailymodel.DailyAnswers(nil), b.submitted...)
}

func (b *Backend) AdviceRequests() []int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]int(nil), b.adviceAsked...)
}

// Goals returns a copy of userID's goals.
func (b *Backend) Goals(userID int) []dailymodel.Objective {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]dailymodel.Objective(nil), b.goals[userID]...)
}

// SetReport stores today's report for userID.
func (b *Backend) SetReport(userID int, report dailymodel.Report) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if report.Date == "" {
		report.Date = b.today()
	}
	b.reports[userID] = &report
}

func (b *Backend) today() string {
	return b.nowFunc().Format(dateLayout)
}

func summarize(answers dailymodel.DailyAnswers) string {
	return fmt.Sprintf("Humeur %s. %s / %s / %s", answers.Mood, answers.Q1, answers.Q2, answers.Q3)
}
