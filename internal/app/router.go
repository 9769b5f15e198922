package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crewledger/crewledger/internal/invoices"
	"github.com/crewledger/crewledger/internal/observability"
	"github.com/crewledger/crewledger/internal/payroll"
	"github.com/crewledger/crewledger/internal/reconcile"
	"github.com/crewledger/crewledger/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	InvoiceHandler   *invoices.Handler
	PayrollHandler   *payroll.Handler
	ReconcileHandler *reconcile.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with CrewLedger defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.InvoiceHandler != nil {
		r.Route("/invoices", params.InvoiceHandler.MountRoutes)
	}
	if params.PayrollHandler != nil {
		r.Route("/payroll", params.PayrollHandler.MountRoutes)
	}
	if params.ReconcileHandler != nil {
		r.Route("/reconcile", params.ReconcileHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
