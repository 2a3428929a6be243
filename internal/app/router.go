package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/quillbooks/quillbooks/internal/ledger"
	"github.com/quillbooks/quillbooks/internal/rbac"
	"github.com/quillbooks/quillbooks/internal/reports"
	"github.com/quillbooks/quillbooks/internal/txn"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	RBACMiddleware rbac.Middleware
	LedgerHandler  *ledger.Handler
	TxnHandler     *txn.Handler
	ReportsHandler *reports.Handler
}

// NewRouter constructs the chi.Router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.RBACMiddleware.Principal)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	require := params.RBACMiddleware.RequirePermission

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/accounts", func(ar chi.Router) {
			params.LedgerHandler.MountRoutes(ar, require)
			params.TxnHandler.MountLedgerRoute(ar, require)
		})
		api.Route("/transactions", func(tr chi.Router) {
			params.TxnHandler.MountRoutes(tr, require)
		})
		api.Route("/reports", func(rr chi.Router) {
			params.ReportsHandler.MountRoutes(rr, require)
		})
	})

	return r
}
