package routes

import (
	"net/http"

	"github.com/toucann/taskengine/internal/app"
	"github.com/toucann/taskengine/internal/handler"
	"github.com/toucann/taskengine/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	task := handler.NewTaskHandler(app.TaskService)
	goal := handler.NewGoalHandler(app.TaskService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Mutating endpoints are rate limited per user
	rateLimiter := middleware.RateLimit(middleware.NewRateLimiter(app.Cfg.RateLimitRequests, app.Cfg.RateLimitWindow))

	// Today
	mux.HandleFunc("GET /api/today", middleware.RequireAuth(task.Today))
	mux.HandleFunc("POST /api/today/swap", middleware.RequireAuth(rateLimiter(task.Swap)))
	mux.HandleFunc("POST /api/today/add-another", middleware.RequireAuth(rateLimiter(task.AddAnother)))

	// Objectives
	mux.HandleFunc("POST /api/objectives/{id}/complete", middleware.RequireAuth(rateLimiter(task.Complete)))
	mux.HandleFunc("POST /api/objectives/{id}/snooze", middleware.RequireAuth(rateLimiter(task.Snooze)))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.Goals))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Goal))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.AuthMiddleware(app.AuthService), // before logging so the user id is logged
		middleware.RequestLogging,
	)

	return handler
}
