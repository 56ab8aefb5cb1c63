package apiclient

// Backend route constants, relative to the configured base URL.
const (
	// Auth
	RouteToken        = "/token"
	RouteRegister     = "/register"
	RouteVerifyToken  = "/verify-token"
	RouteRefreshToken = "/refresh-token"

	// Reports
	RouteSubmitReport   = "/submit-report"
	RouteGetTodayReport = "/get-today-report"
	RouteCreateAdvice   = "/create-advise"

	// Objectives
	RouteGetGoals   = "/get-goals"
	RouteAddGoal    = "/add-goal"
	RouteUpdateGoal = "/update-goal/"
	RouteDeleteGoal = "/delete-goal/"
)

// authRoutes never trigger a refresh-and-retry cycle.
var authRoutes = []string{RouteToken, RouteRegister, RouteRefreshToken}
