package http

import (
	"net/http"

	"github.com/wherehouse/gate/internal/gate/service"
	"github.com/wherehouse/gate/pkg/httpx"
	"github.com/wherehouse/gate/pkg/slogx"
)

// Gate enforces the policy table. Protected routes must present a cookie
// token whose vault entry is still live; every rejection clears the auth
// cookie so the browser does not keep replaying a dead token.
func Gate(vault *service.VaultService, table PolicyTable, cookieName string, secure bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy := table.Select(r)

			switch policy.Kind {
			case PolicyPublic, PolicyLogin:
				next.ServeHTTP(w, r)
				return
			}

			token := httpx.TokenFromCookie(r, cookieName)
			claims, err := vault.Verify(r.Context(), token)
			if err != nil {
				slogx.FromContext(r.Context()).Warn("request rejected",
					"policy", policy.Name,
					"reason", err.Error(),
				)
				rejectUnauthorized(w, policy, cookieName, secure)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithIdentity(r.Context(), claims)))
		})
	}
}

func rejectUnauthorized(w http.ResponseWriter, policy Policy, cookieName string, secure bool) {
	httpx.ClearAuthCookie(w, cookieName, secure)
	if policy.API {
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]any{
			"code":    http.StatusUnauthorized,
			"status":  http.StatusText(http.StatusUnauthorized),
			"message": "login required",
		})
		return
	}
	httpx.WriteViewNotice(w, http.StatusUnauthorized, "Please log in to continue.")
}
