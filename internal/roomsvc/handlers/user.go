package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

type userCreateRequest struct {
	UserName     string `json:"user_name"`
	LeaderCardID int64  `json:"leader_card_id"`
}

type userCreateResponse struct {
	UserToken string `json:"user_token"`
}

func (h *Handler) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.UserName == "" {
		h.writeError(w, http.StatusBadRequest, "user_name is required")
		return
	}

	token, err := h.users.Register(r.Context(), req.UserName, req.LeaderCardID)
	if err != nil {
		log.Errorf("Error [UserService.Register] %s", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.writeJSON(w, http.StatusOK, userCreateResponse{UserToken: token})
}

type safeUser struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	LeaderCardID int64  `json:"leader_card_id"`
}

func (h *Handler) UserMeHandler(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	h.writeJSON(w, http.StatusOK, safeUser{
		ID:           caller.ID,
		Name:         caller.Name,
		LeaderCardID: caller.LeaderCardID,
	})
}

func (h *Handler) UserUpdateHandler(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	var req userCreateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.UserName == "" {
		h.writeError(w, http.StatusBadRequest, "user_name is required")
		return
	}

	if err := h.users.Update(r.Context(), caller.ID, req.UserName, req.LeaderCardID); err != nil {
		log.Errorf("Error [UserService.Update] %s", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	h.writeJSON(w, http.StatusOK, struct{}{})
}
