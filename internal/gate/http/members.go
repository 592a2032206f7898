package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wherehouse/gate/internal/gate/service"
	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/pkg/httpx"
	"github.com/wherehouse/gate/pkg/jwtx"
	"github.com/wherehouse/gate/pkg/slogx"
)

// MembersHandler covers registration and member edits. A username change
// also re-issues the session token so the username claim stays current;
// the previous token is not revoked and remains valid until it expires.
type MembersHandler struct {
	MemberService *service.MemberService
	VaultService  *service.VaultService
	CookieName    string
	Secure        bool
}

type registerRequest struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type memberUpdateRequest struct {
	Username *string `json:"username,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
}

type memberResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Nickname string   `json:"nickname"`
	Roles    []string `json:"roles"`
}

func (h *MembersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{"message": "username and password are required"})
		return
	}

	member, err := h.MemberService.Register(ctx, req.Username, req.Nickname, req.Password, []string{"member"})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			httpx.WriteJSON(w, http.StatusConflict, map[string]any{"message": "username already taken"})
			return
		}
		slogx.FromContext(ctx).Error("member registration failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal error"})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, memberResponse{
		ID:       member.ID,
		Username: member.Username,
		Nickname: member.Nickname,
		Roles:    member.Roles,
	})
}

func (h *MembersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	id := r.PathValue("id")
	requesterID := UserIDFromContext(ctx)

	var req memberUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}

	if req.Nickname != nil {
		if err := h.MemberService.UpdateNickname(ctx, id, requesterID, *req.Nickname); err != nil {
			writeMemberError(w, r, err)
			return
		}
	}

	if req.Username != nil {
		if err := h.MemberService.UpdateUsername(ctx, id, requesterID, *req.Username); err != nil {
			writeMemberError(w, r, err)
			return
		}

		// The session token carries the username claim, so rewrite it in
		// place. Failure here leaves the member renamed with a stale token,
		// which self-corrects at next login.
		token := httpx.TokenFromCookie(r, h.CookieName)
		newToken, err := h.VaultService.Reissue(ctx, token, jwtx.ClaimUsername, *req.Username)
		if err != nil {
			log.Warn("token reissue after rename failed", "user_id", id, "error", err)
		} else {
			httpx.SetAuthCookie(w, h.CookieName, newToken, int(jwtx.TokenTTL.Seconds()), h.Secure)
		}
	}

	member, err := h.MemberService.GetByID(ctx, id)
	if err != nil {
		writeMemberError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberResponse{
		ID:       member.ID,
		Username: member.Username,
		Nickname: member.Nickname,
		Roles:    member.Roles,
	})
}

func writeMemberError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteJSON(w, http.StatusForbidden, map[string]any{"message": "members may only edit themselves"})
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, map[string]any{"message": "member not found"})
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteJSON(w, http.StatusConflict, map[string]any{"message": "username already taken"})
	default:
		slogx.FromContext(r.Context()).Error("member update failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal error"})
	}
}
