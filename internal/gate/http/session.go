package http

import (
	"net/http"

	"github.com/wherehouse/gate/pkg/httpx"
)

// SessionHandler serves the post-login handoff: it echoes the identity the
// gate resolved, proving to the front end that the session is live.
type SessionHandler struct{}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		// The gate admits only authenticated requests to this route.
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]any{
			"code":    http.StatusUnauthorized,
			"status":  http.StatusText(http.StatusUnauthorized),
			"message": "login required",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"userId":   claims.UserID,
		"username": claims.Username,
		"roles":    claims.Roles,
	})
}
