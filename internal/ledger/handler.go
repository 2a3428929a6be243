package ledger

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/platform/httpx"
	"github.com/quillbooks/quillbooks/internal/rbac"
)

// Guard builds permission middleware for one route.
type Guard func(rbac.Permission) func(http.Handler) http.Handler

// Handler exposes chart-of-accounts endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches account routes behind their permission gates.
func (h *Handler) MountRoutes(r chi.Router, require Guard) {
	r.With(require(rbac.PermAccountCreate)).Post("/", h.create)
	r.With(require(rbac.PermAccountView)).Get("/{accountID}", h.get)
	r.With(require(rbac.PermAccountView)).Get("/{accountID}/balance", h.balance)
}

type createAccountRequest struct {
	Code           string `json:"code" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Type           string `json:"type" validate:"required"`
	ParentID       string `json:"parent_id"`
	OrganizationID string `json:"organization_id"`
	OwnerKind      string `json:"owner_kind"`
	OwnerID        string `json:"owner_id"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := CreateAccountInput{
		Code:           req.Code,
		Name:           req.Name,
		Type:           AccountType(req.Type),
		ParentID:       req.ParentID,
		OrganizationID: req.OrganizationID,
	}
	if req.OwnerKind != "" && req.OwnerID != "" {
		input.Owner = &directory.EntityRef{Kind: directory.EntityKind(req.OwnerKind), ID: req.OwnerID}
	}
	account, err := h.service.CreateAccount(r.Context(), input)
	if err != nil {
		h.logger.Warn("create account", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, account)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetAccount(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.GetBalance(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"balance": balance})
}
