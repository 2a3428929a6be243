package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/quillbooks/quillbooks/internal/platform/httpx"
	"github.com/quillbooks/quillbooks/internal/shared"
)

// Middleware wires authorization helpers for HTTP handlers.
type Middleware struct {
	Evaluator *Evaluator
	Logger    *slog.Logger
}

// Principal extracts the trusted identity headers into the request context.
// The identity provider sits upstream; headers arrive already verified.
func (m Middleware) Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Principal-Id"))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		p := &shared.Principal{
			ID:         id,
			EmployeeID: strings.TrimSpace(r.Header.Get("X-Employee-Id")),
			Role:       shared.Role(strings.TrimSpace(r.Header.Get("X-Role"))),
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), p)))
	})
}

// RequirePermission ensures the current principal holds the permission.
func (m Middleware) RequirePermission(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := shared.PrincipalFromContext(r.Context())
			if err := m.Evaluator.Authorize(p, perm); err != nil {
				if m.Logger != nil {
					m.Logger.Warn("authorization denied",
						slog.String("path", r.URL.Path),
						slog.String("permission", string(perm)))
				}
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
