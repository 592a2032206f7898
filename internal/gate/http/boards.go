package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wherehouse/gate/internal/gate/domain"
	"github.com/wherehouse/gate/internal/gate/service"
	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/pkg/httpx"
	"github.com/wherehouse/gate/pkg/slogx"
)

// BoardsHandler implements the recommendation-board mutations. All three
// routes sit behind the protected policy, so an authenticated identity is
// always present in the context.
type BoardsHandler struct {
	BoardService *service.BoardService
}

type boardRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type boardResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorID  string `json:"authorId"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func toBoardResponse(b domain.Board) boardResponse {
	return boardResponse{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		AuthorID:  b.AuthorID,
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
	}
}

func (h *BoardsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{"message": "title is required"})
		return
	}

	board, err := h.BoardService.Create(ctx, UserIDFromContext(ctx), req.Title, req.Content)
	if err != nil {
		slogx.FromContext(ctx).Error("board create failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal error"})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toBoardResponse(board))
}

func (h *BoardsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}

	if err := h.BoardService.Update(ctx, id, UserIDFromContext(ctx), req.Title, req.Content); err != nil {
		writeBoardError(w, ctx, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (h *BoardsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.BoardService.Delete(ctx, id, UserIDFromContext(ctx)); err != nil {
		writeBoardError(w, ctx, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"id": id})
}

func writeBoardError(w http.ResponseWriter, ctx context.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteJSON(w, http.StatusForbidden, map[string]any{"message": "not the author"})
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, map[string]any{"message": "post not found"})
	default:
		slogx.FromContext(ctx).Error("board mutation failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal error"})
	}
}
