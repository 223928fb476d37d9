// Package http is the JSON presentation boundary. Handlers decode, call
// the store and the calculators, and map domain errors to statuses.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"toca/internal/auth"
	"toca/internal/cache"
	"toca/internal/core"
	applog "toca/internal/log"
	"toca/internal/store"
)

type Server struct {
	http.Server
	store       store.Store
	sessions    *auth.Manager
	rateLimiter *rateLimiter

	// Derived financial views are cheap but recomputed on every dashboard
	// poll, so they live here until a financial write purges them.
	seriesCache    *cache.LRUCache[[]core.MonthFinancials]
	dashboardCache *cache.LRUCache[core.DashboardStats]

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, st store.Store, sessions *auth.Manager) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:          st,
		sessions:       sessions,
		rateLimiter:    newRateLimiter(),
		seriesCache:    cache.NewLRUCache[[]core.MonthFinancials](12, 5*time.Minute),
		dashboardCache: cache.NewLRUCache[core.DashboardStats](4, time.Minute),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/login", s.with(s.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", s.with(s.handleLogout))
	mux.HandleFunc("GET /api/auth/me", s.with(s.handleMe))

	mux.HandleFunc("GET /api/students", s.with(s.handleListStudents))
	mux.HandleFunc("POST /api/students", s.with(s.handleAddStudent))
	mux.HandleFunc("GET /api/students/{id}", s.with(s.handleGetStudent))
	mux.HandleFunc("GET /api/students/{id}/payments", s.with(s.handleStudentPayments))
	mux.HandleFunc("GET /api/students/{id}/attendance", s.with(s.handleStudentAttendance))
	mux.HandleFunc("GET /api/students/{id}/attendance-summary", s.with(s.handleAttendanceSummary))

	mux.HandleFunc("GET /api/payments", s.with(s.handleListPayments))
	mux.HandleFunc("POST /api/payments", s.with(s.handleAddPayment))
	mux.HandleFunc("GET /api/expenses", s.with(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.with(s.handleAddExpense))
	mux.HandleFunc("GET /api/revenues", s.with(s.handleListRevenues))
	mux.HandleFunc("POST /api/revenues", s.with(s.handleAddRevenue))

	mux.HandleFunc("GET /api/appointments", s.with(s.handleListAppointments))
	mux.HandleFunc("POST /api/appointments", s.with(s.handleAddAppointment))
	mux.HandleFunc("GET /api/instructors", s.with(s.handleListInstructors))
	mux.HandleFunc("GET /api/attendance", s.with(s.handleListAttendance))
	mux.HandleFunc("POST /api/attendance", s.with(s.handleAddAttendance))

	mux.HandleFunc("GET /api/finance/overview", s.with(s.handleFinanceOverview))
	mux.HandleFunc("GET /api/dashboard", s.with(s.handleDashboard))
	mux.HandleFunc("GET /api/schedule/availability", s.with(s.handleAvailability))
	mux.HandleFunc("GET /api/schedule/agenda", s.with(s.handleAgenda))

	return s
}

// with wraps a handler with rate limiting, security headers and request
// logging. Writes get a stricter rate limit than reads.
func (s *Server) with(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "rate limit exceeded",
				applog.FieldRequestID, requestID,
				applog.FieldClientIP, clientIP,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidateFinancials drops cached derived views after a write that
// changes revenue, expense or receivables numbers.
func (s *Server) invalidateFinancials() {
	s.seriesCache.Purge()
	s.dashboardCache.Purge()
}

// Shutdown stops the rate limiter sweeper and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
