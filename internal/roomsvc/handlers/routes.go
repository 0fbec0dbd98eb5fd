package handlers

import (
	"github.com/go-chi/chi"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	// public routes here
	r.Get("/health", h.HealthHandler)
	r.Post("/user/create", h.UserCreateHandler)

	// Secure routes
	r.Group(func(r chi.Router) {
		r.Use(h.Authenticator)

		r.Get("/user/me", h.UserMeHandler)
		r.Post("/user/update", h.UserUpdateHandler)

		r.Post("/room/create", h.RoomCreateHandler)
		r.Post("/room/list", h.RoomListHandler)
		r.Post("/room/join", h.RoomJoinHandler)
		r.Post("/room/wait", h.RoomWaitHandler)
		r.Post("/room/start", h.RoomStartHandler)
		r.Post("/room/end", h.RoomEndHandler)
		r.Post("/room/result", h.RoomResultHandler)
		r.Post("/room/leave", h.RoomLeaveHandler)
	})
}
