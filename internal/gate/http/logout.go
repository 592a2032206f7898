package http

import (
	"net/http"

	"github.com/wherehouse/gate/internal/gate/service"
	"github.com/wherehouse/gate/pkg/httpx"
)

// LogoutHandler revokes the session's vault entry and clears the cookie.
// The cookie is cleared even when the revocation write fails; the entry's
// TTL bounds how long the orphan stays live.
type LogoutHandler struct {
	VaultService *service.VaultService
	CookieName   string
	Secure       bool
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := httpx.TokenFromCookie(r, h.CookieName)
	_ = h.VaultService.Revoke(r.Context(), token)

	httpx.ClearAuthCookie(w, h.CookieName, h.Secure)
	http.Redirect(w, r, "/", http.StatusFound)
}
