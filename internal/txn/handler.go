package txn

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/ledger"
	"github.com/quillbooks/quillbooks/internal/platform/httpx"
	"github.com/quillbooks/quillbooks/internal/rbac"
	"github.com/quillbooks/quillbooks/internal/shared"
)

// Handler exposes transaction endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches transaction routes behind their permission gates.
func (h *Handler) MountRoutes(r chi.Router, require ledger.Guard) {
	r.With(require(rbac.PermTxnCreate)).Post("/", h.create)
	r.With(require(rbac.PermTxnView)).Get("/{txnID}", h.get)
	r.With(require(rbac.PermTxnApprove)).Post("/{txnID}/approve", h.approve)
	r.With(require(rbac.PermTxnReject)).Post("/{txnID}/reject", h.reject)
}

// MountLedgerRoute attaches the per-account ledger query.
func (h *Handler) MountLedgerRoute(r chi.Router, require ledger.Guard) {
	r.With(require(rbac.PermAccountView)).Get("/{accountID}/ledger", h.ledger)
}

type createTransactionRequest struct {
	DebitAccountID  string `json:"debit_account_id" validate:"required"`
	CreditAccountID string `json:"credit_account_id" validate:"required"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
	Type            string `json:"type" validate:"required"`
	ReferenceKind   string `json:"reference_kind"`
	ReferenceID     string `json:"reference_id"`
	Description     string `json:"description"`
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := CreateInput{
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
		Type:            Type(req.Type),
		Description:     req.Description,
	}
	if req.ReferenceKind != "" && req.ReferenceID != "" {
		input.Reference = &directory.EntityRef{Kind: directory.EntityKind(req.ReferenceKind), ID: req.ReferenceID}
	}
	t, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Warn("create transaction", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, t)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Get(r.Context(), chi.URLParam(r, "txnID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	t, err := h.service.Approve(r.Context(), chi.URLParam(r, "txnID"), p)
	if err != nil {
		h.logger.Warn("approve transaction", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p := shared.PrincipalFromContext(r.Context())
	t, err := h.service.Reject(r.Context(), chi.URLParam(r, "txnID"), p, req.Reason)
	if err != nil {
		h.logger.Warn("reject transaction", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	txns, err := h.service.Ledger(r.Context(), chi.URLParam(r, "accountID"), from, to)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, txns)
}

func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	var from, to time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, shared.ErrValidation
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, shared.ErrValidation
		}
		to = parsed
	}
	return from, to, nil
}
