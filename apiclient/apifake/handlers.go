package apifake

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/dailymood/apiclient"
	"github.com/jrsteele09/dailymood/dailymodel"
	"github.com/jrsteele09/dailymood/internal/utils"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	ctxUserID = "userID"
	paramID   = "id"
)

func (b *Backend) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(b.record)

	e.POST(apiclient.RouteToken, b.login)
	e.POST(apiclient.RouteRegister, b.register)
	e.POST(apiclient.RouteRefreshToken, b.refresh)

	auth := b.authenticate
	e.GET(apiclient.RouteVerifyToken, b.verify, auth)
	e.POST(apiclient.RouteSubmitReport, b.submitReport, auth)
	e.GET(apiclient.RouteGetTodayReport, b.todayReport, auth)
	e.POST(apiclient.RouteCreateAdvice, b.createAdvice, auth)
	e.GET(apiclient.RouteGetGoals, b.listGoals, auth)
	e.POST(apiclient.RouteAddGoal, b.addGoal, auth)
	e.POST(apiclient.RouteUpdateGoal+":"+paramID, b.updateGoal, auth)
	e.PUT(apiclient.RouteUpdateGoal+":"+paramID, b.updateGoal, auth)
	e.DELETE(apiclient.RouteDeleteGoal+":"+paramID, b.deleteGoal, auth)
	return e
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

func bearer(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return token
}

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.lock.Lock()
		b.calls[c.Path()]++
		b.bearers[c.Path()] = append(b.bearers[c.Path()], bearer(c))
		b.lock.Unlock()
		return next(c)
	}
}

// parse returns the user id of a token signed by this backend. Expiry is
// only enforced when checkExpiry is set.
func (b *Backend) parse(token string, checkExpiry bool) (int, bool) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(b.nowFunc),
	}
	if !checkExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return b.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return 0, false
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, false
	}
	b.lock.Lock()
	_, known := b.byID[id]
	b.lock.Unlock()
	return id, known
}

func (b *Backend) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearer(c)
		b.lock.Lock()
		rejected := b.rejectAll || b.stale[token]
		b.lock.Unlock()
		if token == "" || rejected {
			return detail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		userID, ok := b.parse(token, true)
		if !ok {
			return detail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		c.Set(ctxUserID, userID)
		return next(c)
	}
}

func (b *Backend) userFor(user dailymodel.User) any {
	if b.legacy {
		return user.Username
	}
	return user
}

func (b *Backend) login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	b.lock.Lock()
	defer b.lock.Unlock()
	acc, ok := b.accounts[username]
	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return detail(c, http.StatusUnauthorized, "Invalid credentials")
	}
	token, err := b.issueLocked(acc.user.ID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         b.userFor(acc.user),
	})
}

func (b *Backend) register(c echo.Context) error {
	var creds dailymodel.Credentials
	if err := c.Bind(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		return detail(c, http.StatusUnprocessableEntity, "username and password are required")
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	if _, exists := b.accounts[creds.Username]; exists {
		return detail(c, http.StatusConflict, "Username already exists")
	}
	user, err := b.addUserLocked(creds.Username, creds.Password)
	if err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	resp := map[string]any{"message": "User created successfully", "user": b.userFor(user)}
	if !b.legacy {
		token, err := b.issueLocked(user.ID)
		if err != nil {
			return detail(c, http.StatusInternalServerError, err.Error())
		}
		resp["token"] = token
	}
	return c.JSON(http.StatusOK, resp)
}

func (b *Backend) refresh(c echo.Context) error {
	b.lock.Lock()
	fail := b.failRefresh
	b.lock.Unlock()
	if fail {
		return detail(c, http.StatusUnauthorized, "Refresh failed")
	}

	userID, ok := b.parse(bearer(c), false)
	if !ok {
		return detail(c, http.StatusUnauthorized, "Invalid credentials")
	}
	token, err := b.IssueToken(userID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dailymodel.RefreshResponse{Token: token})
}

func (b *Backend) verify(c echo.Context) error {
	userID := c.Get(ctxUserID).(int)
	b.lock.Lock()
	user := b.byID[userID].user
	b.lock.Unlock()
	return c.JSON(http.StatusOK, dailymodel.VerifyResponse{Message: "Token is valid", User: &user})
}

func (b *Backend) submitReport(c echo.Context) error {
	var req dailymodel.SubmitReportRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusUnprocessableEntity, err.Error())
	}
	userID := c.Get(ctxUserID).(int)

	b.lock.Lock()
	defer b.lock.Unlock()
	if b.failSubmit {
		return detail(c, http.StatusInternalServerError, "database unavailable")
	}
	b.submitted = append(b.submitted, req.Answers)
	b.nextReportID++
	answers := req.Answers
	report := &dailymodel.Report{
		ID:      b.nextReportID,
		Date:    b.today(),
		Answers: &answers,
		Summary: summarize(req.Answers),
	}
	b.reports[userID] = report
	return c.JSON(http.StatusOK, report)
}

func (b *Backend) todayReport(c echo.Context) error {
	userID := c.Get(ctxUserID).(int)
	b.lock.Lock()
	defer b.lock.Unlock()
	report, ok := b.reports[userID]
	if !ok || report.Date != b.today() {
		return detail(c, http.StatusNotFound, "No report found for today")
	}
	return c.JSON(http.StatusOK, report)
}

func (b *Backend) createAdvice(c echo.Context) error {
	var req dailymodel.AdviceRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusUnprocessableEntity, err.Error())
	}
	advisor, ok := dailymodel.AdvisorByID(req.Advisor)
	if !ok {
		return detail(c, http.StatusUnprocessableEntity, "unknown advisor")
	}
	userID := c.Get(ctxUserID).(int)

	b.lock.Lock()
	defer b.lock.Unlock()
	b.adviceAsked = append(b.adviceAsked, req.Advisor)
	if b.failAdvice {
		return detail(c, http.StatusInternalServerError, "advisor unavailable")
	}
	evaluation := "Conseil de " + advisor.Name + ".\nContinue ainsi."
	if report, ok := b.reports[userID]; ok {
		report.Evaluation = &evaluation
	}
	return c.JSON(http.StatusOK, dailymodel.AdviceResponse{Message: "Evaluation created successfully", Evaluation: evaluation})
}

func (b *Backend) listGoals(c echo.Context) error {
	userID := c.Get(ctxUserID).(int)
	b.lock.Lock()
	defer b.lock.Unlock()
	goals := append([]dailymodel.Objective{}, b.goals[userID]...)
	return c.JSON(http.StatusOK, goals)
}

func (b *Backend) addGoal(c echo.Context) error {
	var req dailymodel.ObjectiveRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusUnprocessableEntity, err.Error())
	}
	if strings.TrimSpace(req.Objective.Title) == "" {
		return detail(c, http.StatusBadRequest, "Goal title is required")
	}
	userID := c.Get(ctxUserID).(int)

	b.lock.Lock()
	defer b.lock.Unlock()
	goal := dailymodel.Objective{ID: uuid.NewString(), Title: req.Objective.Title, IsCompleted: utils.Ptr(false)}
	b.goals[userID] = append(b.goals[userID], goal)
	return c.JSON(http.StatusOK, dailymodel.GoalEnvelope{Message: "Goal added successfully", Goal: &goal})
}

func (b *Backend) updateGoal(c echo.Context) error {
	var req dailymodel.ObjectiveRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusUnprocessableEntity, err.Error())
	}
	userID := c.Get(ctxUserID).(int)
	id := c.Param(paramID)

	b.lock.Lock()
	defer b.lock.Unlock()
	goals := b.goals[userID]
	for i := range goals {
		if goals[i].ID != id {
			continue
		}
		if req.Objective.Title != "" {
			goals[i].Title = req.Objective.Title
		}
		if req.Objective.IsCompleted != nil {
			goals[i].IsCompleted = utils.Clone(req.Objective.IsCompleted)
		}
		updated := goals[i]
		if b.legacy {
			return c.JSON(http.StatusOK, dailymodel.GoalEnvelope{Message: "Goal updated successfully", Goal: &updated})
		}
		return c.JSON(http.StatusOK, updated)
	}
	return detail(c, http.StatusNotFound, "Goal not found")
}

func (b *Backend) deleteGoal(c echo.Context) error {
	userID := c.Get(ctxUserID).(int)
	id := c.Param(paramID)

	b.lock.Lock()
	defer b.lock.Unlock()
	goals := b.goals[userID]
	for i := range goals {
		if goals[i].ID == id {
			b.goals[userID] = append(goals[:i:i], goals[i+1:]...)
			return c.JSON(http.StatusOK, map[string]string{"message": "Goal deleted successfully"})
		}
	}
	return detail(c, http.StatusNotFound, "Goal not found or not authorized")
}
