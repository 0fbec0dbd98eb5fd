package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/mkanda/liveroom-services/internal/roomsvc/service"
)

type Handler struct {
	users *service.UserService
	rooms *service.RoomService
}

func NewHandler(users *service.UserService, rooms *service.RoomService) *Handler {
	return &Handler{users: users, rooms: rooms}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, errorResponse{Error: msg})
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "room service is running at port " + os.Getenv("ROOM_SERVICE_PORT"),
	})
}
