package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/middleware/ratelimit"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/middleware/security"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/middleware/trace"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/services"
)

// CredentialStore checks an owner's secret.
type CredentialStore interface {
	Verify(ctx context.Context, owner, secret string) (bool, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the API exposes.
type Deps struct {
	Aggregator  *services.PeriodAggregator
	Reports     *services.ReportService
	Budgets     *services.BudgetTracker
	Ledger      *services.LedgerService
	Recurring   *services.RecurringGenerator
	Credentials CredentialStore
	Store       Pinger
}

type Server struct {
	http.Server
	deps   Deps
	logger *applog.Logger
	events *applog.StructuredLogger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	startedAt    time.Time
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. requestsPerMinute bounds each client on /api/.
func NewServer(addr string, deps Deps, requestsPerMinute int, logger *applog.Logger) *Server {
	httpLogger := logger.WithComponent(applog.ComponentHTTP)
	detector := security.NewDetector()

	s := &Server{
		deps:             deps,
		logger:           httpLogger,
		events:           applog.NewStructuredLogger(httpLogger),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: requestsPerMinute}),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP, logger),
		startedAt:        time.Now(),
		now:              time.Now,
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/dashboard", s.handleDashboard)
	api.HandleFunc("GET /api/breakdown", s.handleBreakdown)
	api.HandleFunc("GET /api/compare", s.handleCompare)
	api.HandleFunc("GET /api/habits/weekly", s.handleWeeklyHabits)
	api.HandleFunc("GET /api/reports/yearly", s.handleYearlyReport)

	api.HandleFunc("GET /api/budgets", s.handleBudgetStatus)
	api.HandleFunc("PUT /api/budgets", s.handleSetBudget)
	api.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	api.HandleFunc("GET /api/categories", s.handleListCategories)
	api.HandleFunc("POST /api/categories", s.handleCreateCategory)
	api.HandleFunc("PATCH /api/categories/{id}", s.handleUpdateCategory)

	api.HandleFunc("GET /api/transactions", s.handleListTransactions)
	api.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	api.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	api.HandleFunc("GET /api/fixed-expenses", s.handleListTemplates)
	api.HandleFunc("POST /api/fixed-expenses", s.handleCreateTemplate)
	api.HandleFunc("DELETE /api/fixed-expenses/{id}", s.handleDeleteTemplate)

	limit := s.rateLimiter.Middleware(detector.ExtractClientIP, s.onRateLimit)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.Handle("/api/", limit(s.requireOwner(api)))

	// outermost first: headers, trace, logger, suspicious-request detection
	var handler http.Handler = mux
	handler = detector.Middleware(handler)
	handler = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = applog.Middleware(httpLogger)(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	TooManyRequestsError().Write(w)
}

// Shutdown gracefully shuts down the server and the limiter's cleanup loop.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// writeError maps err to a status and writes it. Server-side failures are
// logged and replaced by a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(),
			"Request failed", err, applog.ComponentHTTP, operation,
			applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, ""))
		InternalServerError().Write(w)
		return
	}
	ErrorResponse(status, err.Error()).Write(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	NewJSONResponse().Status(status).Body(v).Write(w)
}
