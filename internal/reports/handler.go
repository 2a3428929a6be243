package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quillbooks/quillbooks/internal/ledger"
	"github.com/quillbooks/quillbooks/internal/platform/httpx"
	"github.com/quillbooks/quillbooks/internal/rbac"
	"github.com/quillbooks/quillbooks/internal/shared"
)

// Handler exposes reporting and reconciliation endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches report routes behind their permission gates.
// Organization-wide statements and reconciliation need the broader
// view-all grant; per-account views need only report:view.
func (h *Handler) MountRoutes(r chi.Router, require ledger.Guard) {
	r.With(require(rbac.PermReportViewAll)).Post("/reconcile", h.reconcile)
	r.With(require(rbac.PermReportViewAll)).Get("/balance-sheet", h.balanceSheet)
	r.With(require(rbac.PermReportViewAll)).Get("/income-statement", h.incomeStatement)
	r.With(require(rbac.PermReportView)).Get("/activity", h.activity)
	r.With(require(rbac.PermReportView)).Get("/running-balance", h.runningBalance)
}

type reconcileRequest struct {
	AccountIDs []string `json:"account_ids" validate:"required,min=1"`
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	results, err := h.service.ReconcileAccounts(r.Context(), req.AccountIDs)
	if err != nil {
		h.logger.Warn("reconcile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, results)
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "organization_id required")
		return
	}
	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "as_of must be RFC3339")
			return
		}
		asOf = parsed
	}
	report, err := h.service.GenerateBalanceSheet(r.Context(), orgID, asOf)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) incomeStatement(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "organization_id required")
		return
	}
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	report, err := h.service.GenerateIncomeStatement(r.Context(), orgID, from, to)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) activity(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "account_id required")
		return
	}
	granularity := Granularity(r.URL.Query().Get("granularity"))
	if granularity == "" {
		granularity = GranularityDay
	}
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	history, err := h.service.history.ListByAccount(r.Context(), accountID, from, to)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	buckets, err := AggregateByPeriod(history, granularity)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, buckets)
}

func (h *Handler) runningBalance(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "account_id required")
		return
	}
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	history, err := h.service.history.ListByAccount(r.Context(), accountID, from, to)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	// Ledger queries return newest first; the fold runs oldest first.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	httpx.JSON(w, http.StatusOK, CalculateRunningBalance(history))
}

func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	var from, to time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.RespondError(w, shared.ErrValidation)
			return from, to, false
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.RespondError(w, shared.ErrValidation)
			return from, to, false
		}
		to = parsed
	}
	return from, to, true
}
