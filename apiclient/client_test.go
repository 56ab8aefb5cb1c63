package apiclient_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/dailymood/apiclient"
	"github.com/jrsteele09/dailymood/apiclient/apifake"
	"github.com/jrsteele09/dailymood/dailymodel"
	apperrors "github.com/jrsteele09/dailymood/internal/errors"
	"github.com/jrsteele09/dailymood/tokenstore/storefake"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "alice"
	testPassword = "secret1"
	goalsPattern = apiclient.RouteGetGoals
)

type testFixture struct {
	backend *apifake.Backend
	tokens  *storefake.FakeTokenStore
	client  *apiclient.Client
	user    dailymodel.User
}

func setupTestFixture(t *testing.T, opts ...apifake.Option) *testFixture {
	t.Helper()

	backend := apifake.New(opts...)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	user, err := backend.AddUser(testUsername, testPassword)
	require.NoError(t, err)

	tokens := storefake.NewFakeTokenStore("")
	client, err := apiclient.New(srv.URL, tokens)
	require.NoError(t, err)

	return &testFixture{backend: backend, tokens: tokens, client: client, user: user}
}

// withStaleToken stores a token the backend rejects but will refresh.
func (f *testFixture) withStaleToken(t *testing.T) string {
	t.Helper()
	token, err := f.backend.IssueToken(f.user.ID)
	require.NoError(t, err)
	f.backend.Invalidate(token)
	require.NoError(t, f.tokens.Set(token))
	return token
}

func (f *testFixture) withValidToken(t *testing.T) string {
	t.Helper()
	token, err := f.backend.IssueToken(f.user.ID)
	require.NoError(t, err)
	require.NoError(t, f.tokens.Set(token))
	return token
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := apiclient.New("/api", storefake.NewFakeTokenStore(""))
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t)

	resp, err := f.client.Login(context.Background(), dailymodel.Credentials{Username: testUsername, Password: testPassword})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	require.Equal(t, f.user, *resp.User)
	require.Empty(t, f.tokens.Token(), "login must not store the token itself")
}

func TestLoginLegacyUserString(t *testing.T) {
	f := setupTestFixture(t, apifake.WithLegacyAuth())

	resp, err := f.client.Login(context.Background(), dailymodel.Credentials{Username: testUsername, Password: testPassword})
	require.NoError(t, err)
	require.Equal(t, dailymodel.User{Username: testUsername}, *resp.User)
}

func TestLoginInvalidCredentialsDoesNotRefresh(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.client.Login(context.Background(), dailymodel.Credentials{Username: testUsername, Password: "wrong"})
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	require.Equal(t, 401, apiclient.StatusCode(err))

	var apiErr *apiclient.APIError
	require.True(t, apperrors.As(err, &apiErr))
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.Zero(t, f.backend.Calls(apiclient.RouteRefreshToken))
}

func TestRegister(t *testing.T) {
	f := setupTestFixture(t)

	resp, err := f.client.Register(context.Background(), dailymodel.Credentials{Username: "bob", Password: "pw"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "bob", resp.User.Username)

	_, err = f.client.Register(context.Background(), dailymodel.Credentials{Username: "bob", Password: "pw"})
	require.True(t, apperrors.Is(err, apperrors.ErrConflict))
	require.Zero(t, f.backend.Calls(apiclient.RouteRefreshToken))
}

func TestRegisterLegacyReturnsNoToken(t *testing.T) {
	f := setupTestFixture(t, apifake.WithLegacyAuth())

	resp, err := f.client.Register(context.Background(), dailymodel.Credentials{Username: "bob", Password: "pw"})
	require.NoError(t, err)
	require.Empty(t, resp.Token)
	require.Equal(t, "bob", resp.User.Username)
}

func TestVerifyToken(t *testing.T) {
	f := setupTestFixture(t)
	token := f.withValidToken(t)

	user, err := f.client.VerifyToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, f.user, *user)
	require.Equal(t, []string{token}, f.backend.Bearers(apiclient.RouteVerifyToken))
}

func TestSingleUnauthorizedRefreshesAndReplaysOnce(t *testing.T) {
	f := setupTestFixture(t)
	stale := f.withStaleToken(t)

	objectives, err := f.client.GetObjectives(context.Background())
	require.NoError(t, err)
	require.Empty(t, objectives)

	fresh := f.tokens.Token()
	require.NotEqual(t, stale, fresh)
	require.Equal(t, 2, f.tokens.Sets(), "seeded token plus one refresh")
	require.Equal(t, 1, f.backend.Calls(apiclient.RouteRefreshToken))
	require.Equal(t, []string{stale, fresh}, f.backend.Bearers(goalsPattern))
}

func TestSecondUnauthorizedIsPropagated(t *testing.T) {
	f := setupTestFixture(t)
	f.withValidToken(t)
	f.backend.RejectAll(true)

	_, err := f.client.GetObjectives(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	require.False(t, apperrors.Is(err, apperrors.ErrRefreshFailed))
	require.Equal(t, 1, f.backend.Calls(apiclient.RouteRefreshToken))
	require.Equal(t, 2, f.backend.Calls(goalsPattern))
	require.Zero(t, f.tokens.Deletes())
}

func TestRefreshFailureDropsTokenAndNotifies(t *testing.T) {
	f := setupTestFixture(t)
	f.withStaleToken(t)
	f.backend.FailRefresh(true)

	var hookErrs []error
	f.client.OnAuthFailure(func(err error) {
		hookErrs = append(hookErrs, err)
	})

	_, err := f.client.GetObjectives(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrRefreshFailed))

	var apiErr *apiclient.APIError
	require.True(t, apperrors.As(err, &apiErr))
	require.Equal(t, apiclient.RouteRefreshToken, apiErr.Path, "the refresh failure replaces the original 401")

	require.Empty(t, f.tokens.Token())
	require.Equal(t, 1, f.tokens.Deletes())
	require.Len(t, hookErrs, 1)
	require.Equal(t, 1, f.backend.Calls(goalsPattern), "no replay after a failed refresh")
}

func TestConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	f := setupTestFixture(t)
	f.withStaleToken(t)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.client.GetObjectives(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 1, f.backend.Calls(apiclient.RouteRefreshToken))
}

func TestReplayResendsBody(t *testing.T) {
	f := setupTestFixture(t)
	f.withStaleToken(t)

	answers := dailymodel.DailyAnswers{Q1: "Worked", Q2: "Shipped feature", Q3: "Tired", Mood: "😴 Fatigué"}
	report, err := f.client.SubmitReport(context.Background(), answers)
	require.NoError(t, err)
	require.NotEmpty(t, report.Summary)

	require.Equal(t, 2, f.backend.Calls(apiclient.RouteSubmitReport))
	submitted := f.backend.Submitted()
	require.Len(t, submitted, 1)
	require.Equal(t, answers.Q1, submitted[0].Q1)
	require.Equal(t, answers.Mood, submitted[0].Mood)
}

func TestGetTodayReport(t *testing.T) {
	f := setupTestFixture(t)
	f.withValidToken(t)

	report, err := f.client.GetTodayReport(context.Background())
	require.NoError(t, err)
	require.Nil(t, report, "404 means no report yet")

	evaluation := "Bien.\n\nContinue."
	f.backend.SetReport(f.user.ID, dailymodel.Report{Summary: "Une bonne journée", Evaluation: &evaluation})

	report, err = f.client.GetTodayReport(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Une bonne journée", report.Summary)
	require.Equal(t, []string{"Bien.", "Continue."}, report.EvaluationParagraphs())
}

func TestRequestAdvice(t *testing.T) {
	f := setupTestFixture(t)
	f.withValidToken(t)

	resp, err := f.client.RequestAdvice(context.Background(), 3)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Evaluation)
	require.Equal(t, []int{3}, f.backend.AdviceRequests())

	_, err = f.client.RequestAdvice(context.Background(), 42)
	require.True(t, apperrors.Is(err, apperrors.ErrUnknownAdvisor))
	require.Equal(t, 1, f.backend.Calls(apiclient.RouteCreateAdvice))

	f.backend.FailAdvice(true)
	_, err = f.client.RequestAdvice(context.Background(), 3)
	require.True(t, apperrors.Is(err, apperrors.ErrServer))
}

func TestObjectivesRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []apifake.Option
	}{
		{name: "bare objective"},
		{name: "wrapped objective", opts: []apifake.Option{apifake.WithLegacyAuth()}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t, tc.opts...)
			f.withValidToken(t)
			ctx := context.Background()

			created, err := f.client.CreateObjective(ctx, "Run 5km")
			require.NoError(t, err)
			require.NotEmpty(t, created.ID)
			require.Equal(t, "Run 5km", created.Title)
			require.False(t, created.Completed())

			done := true
			updated, err := f.client.UpdateObjective(ctx, created.ID, dailymodel.Objective{Title: created.Title, IsCompleted: &done})
			require.NoError(t, err)
			require.Equal(t, created.ID, updated.ID)
			require.True(t, updated.Completed())

			listed, err := f.client.GetObjectives(ctx)
			require.NoError(t, err)
			require.Equal(t, []dailymodel.Objective{*updated}, listed)

			require.NoError(t, f.client.DeleteObjective(ctx, created.ID))
			err = f.client.DeleteObjective(ctx, created.ID)
			require.True(t, apperrors.Is(err, apperrors.ErrNotFound))
			require.Empty(t, f.backend.Goals(f.user.ID))
		})
	}
}
