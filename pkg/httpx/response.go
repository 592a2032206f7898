package httpx

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code. Sensitive
// responses should not be cached, so Cache-Control is always set.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteViewNotice writes an inert HTML notice for view-oriented routes,
// where a JSON body would be useless to the browser.
func WriteViewNotice(w http.ResponseWriter, code int, message string) {
	NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprintf(w, `<div class="notice" role="alert">%s</div>`, html.EscapeString(message))
}

// NoCache sets headers preventing any caching of the response.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
