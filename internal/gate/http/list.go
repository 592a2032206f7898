package http

import (
	"net/http"

	"github.com/wherehouse/gate/internal/gate/service"
	"github.com/wherehouse/gate/pkg/httpx"
	"github.com/wherehouse/gate/pkg/slogx"
)

// ListHandler serves the public board listing. It requires no identity and
// exists mostly to carry read-category traffic through the limiter.
type ListHandler struct {
	BoardService *service.BoardService
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	boards, err := h.BoardService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("board listing failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal error"})
		return
	}

	out := make([]boardResponse, len(boards))
	for i, b := range boards {
		out[i] = toBoardResponse(b)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
