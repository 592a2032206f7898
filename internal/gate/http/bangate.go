package http

import (
	"net/http"

	"github.com/wherehouse/gate/internal/gate/service"
	"github.com/wherehouse/gate/pkg/httpx"
)

// BanGate rejects requests from banned addresses before any other
// admission work runs. The check fails open inside the service layer, so
// a store outage never locks legitimate traffic out.
func BanGate(bans *service.BanService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bans.IsBanned(r.Context(), httpx.ClientIP(r)) {
				httpx.WriteJSON(w, http.StatusForbidden, map[string]any{
					"message": "access denied",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
