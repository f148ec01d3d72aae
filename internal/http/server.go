package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/auth"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Ledger manages incomes and expenses.
type Ledger interface {
	CreateTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID string, kind core.Kind, f core.LedgerFilter) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, userID string, kind core.Kind, id string, p core.TransactionPatch) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, userID string, kind core.Kind, id string) error
}

type Budgets interface {
	CreateBudget(ctx context.Context, userID string, b core.Budget) (core.Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, userID, id string, p core.BudgetPatch) (core.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error
}

type Goals interface {
	CreateGoal(ctx context.Context, userID string, goalAmount core.Money, targetDate time.Time) (core.SavingsGoal, error)
	ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error)
	AddProgress(ctx context.Context, userID, id string, amount core.Money) (core.SavingsGoal, error)
	DeleteGoal(ctx context.Context, userID, id string) error
}

// Finance serves the derived metrics.
type Finance interface {
	ComputeBudgetCompliance(ctx context.Context, userID string) ([]analytics.ComplianceEntry, error)
	ComputeFinancialHealth(ctx context.Context, userID string) (analytics.HealthResult, error)
	GetMonthlyComparison(ctx context.Context, userID string) (services.Comparison, error)
	ListReports(ctx context.Context, userID string) ([]core.FinancialReport, error)
	GenerateInsight(ctx context.Context, userID string) (core.Insight, error)
	ListInsights(ctx context.Context, userID string) ([]core.Insight, error)
	UpdateInsight(ctx context.Context, userID, id string, p core.InsightPatch) (core.Insight, error)
	DeleteInsight(ctx context.Context, userID, id string) error
	SummarizeIncomeVsExpense(ctx context.Context, userID string) (core.Summary, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Ledger  Ledger
	Budgets Budgets
	Goals   Goals
	Finance Finance
	Store   Pinger
}

// Options tunes the middleware chain.
type Options struct {
	AuthUserHeader    string
	CORSAllowedOrigin string
	RateLimitPerMin   int
	SummaryCacheTTL   time.Duration
	SummaryCacheSize  int
}

type Server struct {
	http.Server
	deps   Deps
	logger *log.Logger
	errlog *log.StructuredLogger

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	// per-user income vs expense summaries, dropped on every ledger write
	summaryCache cache.Cache[core.Summary]

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps, opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	httpLogger := logger.WithComponent(log.ComponentHTTP)

	var summaries cache.Cache[core.Summary] = cache.Nop[core.Summary]{}
	if opts.SummaryCacheTTL > 0 {
		size := opts.SummaryCacheSize
		if size <= 0 {
			size = 1000
		}
		summaries = cache.NewLRUCache[core.Summary](size, opts.SummaryCacheTTL)
	}

	s := &Server{
		deps:         deps,
		logger:       httpLogger,
		errlog:       log.NewStructuredLogger(logger),
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMin}),
		summaryCache: summaries,
	}

	detector := security.NewDetector(logger)
	s.tracer = trace.NewMiddleware(logger, detector.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	authHeader := opts.AuthUserHeader
	if authHeader == "" {
		authHeader = auth.DefaultHeader
	}
	cors := security.NewCORS(security.CORSConfig{
		AllowedOrigin:  opts.CORSAllowedOrigin,
		AllowedHeaders: []string{"Content-Type", "Authorization", authHeader, trace.HeaderRequestID},
	})

	api := http.NewServeMux()
	s.registerAPI(api)
	protected := auth.Middleware(authHeader, func(w http.ResponseWriter, r *http.Request) {
		FromError(core.ErrMissingUser).Write(w)
	})(api)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("/api/", protected)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("Route not found").Write(w)
	})

	limited := s.limiter.Middleware(detector.ExtractClientIP, ratelimit.MutatingOnly, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, detector.ExtractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	})(mux)

	var handler http.Handler = limited
	handler = cors.Middleware(handler)
	handler = headers.Middleware(handler)
	handler = detector.Middleware(handler)
	handler = log.RequestIDMiddleware(trace.RequestID)(handler)
	handler = log.Middleware(logger)(handler)
	handler = s.tracer.Middleware(handler)

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

func (s *Server) registerAPI(mux *http.ServeMux) {
	for _, k := range []struct {
		kind core.Kind
		path string
	}{{core.Income, "/api/incomes"}, {core.Expense, "/api/expenses"}} {
		mux.HandleFunc("POST "+k.path, s.handleCreateTransaction(k.kind))
		mux.HandleFunc("GET "+k.path, s.handleListTransactions(k.kind))
		mux.HandleFunc("PUT "+k.path+"/{id}", s.handleUpdateTransaction(k.kind))
		mux.HandleFunc("DELETE "+k.path+"/{id}", s.handleDeleteTransaction(k.kind))
	}

	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("GET /api/budgets/compliance", s.handleBudgetCompliance)
	mux.HandleFunc("PUT /api/budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("POST /api/savings", s.handleCreateGoal)
	mux.HandleFunc("GET /api/savings", s.handleListGoals)
	mux.HandleFunc("PUT /api/savings/update-progress/{goalId}", s.handleAddProgress)
	mux.HandleFunc("DELETE /api/savings/{goalId}", s.handleDeleteGoal)

	mux.HandleFunc("GET /api/financial-health", s.handleFinancialHealth)
	mux.HandleFunc("GET /api/financial-health/comparison", s.handleMonthlyComparison)
	mux.HandleFunc("GET /api/financial-health/reports", s.handleListReports)

	mux.HandleFunc("POST /api/insights", s.handleGenerateInsight)
	mux.HandleFunc("GET /api/insights", s.handleListInsights)
	mux.HandleFunc("PUT /api/insights/{id}", s.handleUpdateInsight)
	mux.HandleFunc("DELETE /api/insights/{id}", s.handleDeleteInsight)

	mux.HandleFunc("GET /api/reports/summary", s.handleSummary)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Metrics exposes the request counters of the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

// fail logs server-side failures and writes the mapped error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if StatusFor(err) == http.StatusInternalServerError {
		s.errlog.LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op,
			log.NewFields().
				WithRequestID(trace.GetRequestID(r.Context())).
				WithUser(auth.UserID(r.Context())).
				WithErrorType(log.ErrorTypeInternal))
	}
	FromError(err).Write(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	OK(w, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Store.Ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			ErrorResponse(http.StatusServiceUnavailable, "store unavailable").Write(w)
			return
		}
	}
	OK(w, map[string]string{"status": "ready"})
}
