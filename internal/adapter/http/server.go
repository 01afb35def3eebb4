package adapthttp

import (
	"net/http"

	"muscal/internal/app"

	"go.uber.org/zap"
)

// Services are the application services the HTTP adapter drives.
type Services struct {
	Auth    *app.AuthService
	Catalog *app.CatalogService
	Ledger  *app.LedgerService
	Goals   *app.GoalService
	History *app.HistoryService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth    *app.AuthService
	catalog *app.CatalogService
	ledger  *app.LedgerService
	goals   *app.GoalService
	history *app.HistoryService

	sso     *SSO
	log     *zap.Logger
	metrics *metrics
}

// New creates a Server wired to the given application services. sso may
// be nil, in which case the SSO routes answer 404.
func New(svc Services, sso *SSO, log *zap.Logger) *Server {
	return &Server{
		auth:    svc.Auth,
		catalog: svc.Catalog,
		ledger:  svc.Ledger,
		goals:   svc.Goals,
		history: svc.History,
		sso:     sso,
		log:     log.Named("http"),
		metrics: newMetrics(),
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.Handle("GET /metrics", s.metrics.handler())

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.requireAccess(s.handleLogout))
	mux.HandleFunc("GET /api/auth/me", s.requireAccess(s.handleMe))
	mux.HandleFunc("GET /api/auth/token/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/auth/sso/login", s.handleSSOLogin)
	mux.HandleFunc("GET /api/auth/sso/callback", s.handleSSOCallback)

	mux.HandleFunc("GET /api/foods", s.requireAccess(s.handleListFoods))
	mux.HandleFunc("POST /api/foods", s.requireAccess(s.handleAddFood))
	mux.HandleFunc("GET /api/foods/{food_id}", s.requireAccess(s.handleGetFood))
	mux.HandleFunc("DELETE /api/foods/{food_id}", s.requireAccess(s.handleDeleteFood))

	mux.HandleFunc("GET /api/log", s.requireAccess(s.handleViewLog))
	mux.HandleFunc("GET /api/log/{date}", s.requireAccess(s.handleViewLog))
	mux.HandleFunc("POST /api/log", s.requireAccess(s.handleLogFood))
	mux.HandleFunc("DELETE /api/log/entry/{entry_id}", s.requireAccess(s.handleDeleteEntry))

	mux.HandleFunc("GET /api/user/dashboard", s.requireAccess(s.handleDashboard))
	mux.HandleFunc("POST /api/user/goals", s.requireAccess(s.handleSetGoals))
	mux.HandleFunc("GET /api/user/history", s.requireAccess(s.handleHistory))

	return s.loggingMiddleware(s.metrics.instrument(withNoCache(mux)))
}
