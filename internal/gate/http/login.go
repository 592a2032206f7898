package http

import (
	"errors"
	"net/http"

	"github.com/wherehouse/gate/internal/gate/service"
	"github.com/wherehouse/gate/pkg/httpx"
	"github.com/wherehouse/gate/pkg/jwtx"
	"github.com/wherehouse/gate/pkg/slogx"
)

// LoginHandler exchanges form credentials for a session token. The route is
// view-oriented: failures render an inline notice for the browser, success
// redirects to the handoff page.
type LoginHandler struct {
	LoginService *service.LoginService
	VaultService *service.VaultService
	CookieName   string
	Secure       bool
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.ClearAuthCookie(w, h.CookieName, h.Secure)
		httpx.WriteViewNotice(w, http.StatusBadRequest, "Invalid login request.")
		return
	}

	userid := r.PostFormValue("userid")
	password := r.PostFormValue("password")

	member, err := h.LoginService.Authenticate(ctx, userid, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Error("login check failed", "error", err)
			httpx.ClearAuthCookie(w, h.CookieName, h.Secure)
			httpx.WriteViewNotice(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		httpx.ClearAuthCookie(w, h.CookieName, h.Secure)
		httpx.WriteViewNotice(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	token, err := h.VaultService.Issue(ctx, member)
	if err != nil {
		log.Error("token issue failed", "user_id", member.ID, "error", err)
		httpx.ClearAuthCookie(w, h.CookieName, h.Secure)
		httpx.WriteViewNotice(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	httpx.SetAuthCookie(w, h.CookieName, token, int(jwtx.TokenTTL.Seconds()), h.Secure)
	http.Redirect(w, r, "/loginSuccess", http.StatusFound)
}
