package http

import (
	"net/http"

	"github.com/wherehouse/gate/pkg/httpx"
	"github.com/wherehouse/gate/pkg/jwtx"
)

// ResolveIdentifier names the caller for rate accounting. A decodable
// cookie token yields a user identifier without checking its signature;
// everything else falls back to the client address. Spoofing the token
// only moves the caller into a different bucket, it grants nothing.
func ResolveIdentifier(r *http.Request, cookieName string) string {
	if token := httpx.TokenFromCookie(r, cookieName); token != "" {
		if claims, err := jwtx.ParseUnverified(token); err == nil && claims.UserID != "" {
			return "user:" + claims.UserID
		}
	}
	return "ip:" + httpx.ClientIP(r)
}
