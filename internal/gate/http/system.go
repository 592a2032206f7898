package http

import (
	"net/http"
	"time"

	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/pkg/httpx"
)

// LivezHandler reports that the process is up. Always 200 while serving.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"uptime":  time.Since(startTime).String(),
			"version": version,
		})
	}
}

// ReadyzHandler checks the shared store. Degraded readiness means the gate
// would be rejecting every protected request (fail-closed), so load
// balancers should stop routing here.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		database := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			status = "degraded"
			database = "error: " + err.Error()
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, map[string]any{
			"status":  status,
			"uptime":  time.Since(startTime).String(),
			"version": version,
			"checks":  map[string]string{"database": database},
		})
	}
}
