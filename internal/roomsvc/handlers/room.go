package handlers

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/mkanda/liveroom-services/internal/roomsvc/models"
	"github.com/mkanda/liveroom-services/internal/roomsvc/service"
)

type roomCreateRequest struct {
	LiveID           int64                 `json:"live_id"`
	SelectDifficulty models.LiveDifficulty `json:"select_difficulty"`
}

type roomCreateResponse struct {
	RoomID int64 `json:"room_id"`
}

func (h *Handler) RoomCreateHandler(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	var req roomCreateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if !req.SelectDifficulty.Valid() {
		h.writeError(w, http.StatusBadRequest, "invalid select_difficulty")
		return
	}

	roomID, err := h.rooms.Create(r.Context(), caller.ID, req.LiveID, req.SelectDifficulty)
	if err != nil {
		log.Errorf("Error [RoomService.Create] %s", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}

	h.writeJSON(w, http.StatusOK, roomCreateResponse{RoomID: roomID})
}

type roomListRequest struct {
	LiveID int64 `json:"live_id"`
}

type roomListResponse struct {
	RoomInfoList []models.RoomSummary `json:"room_info_list"`
}

func (h *Handler) RoomListHandler(w http.ResponseWriter, r *http.Request) {
	var req roomListRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	summaries, err := h.rooms.List(r.Context(), req.LiveID)
	if err != nil {
		log.Errorf("Error [RoomService.List] %s", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}

	h.writeJSON(w, http.StatusOK, roomListResponse{RoomInfoList: summaries})
}

type roomJoinRequest struct {
	RoomID           int64                 `json:"room_id"`
	SelectDifficulty models.LiveDifficulty `json:"select_difficulty"`
}

type roomJoinResponse struct {
	JoinRoomResult models.JoinRoomResult `json:"join_room_result"`
}

func (h *Handler) RoomJoinHandler(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	var req roomJoinRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if !req.SelectDifficulty.Valid() {
		h.writeError(w, http.StatusBadRequest, "invalid select_difficulty")
		return
	}

	result, err := h.rooms.Join(r.Context(), req.RoomID, caller.ID, req.SelectDifficulty)
	if err != nil {
		log.Errorf("Error [RoomService.Join] %s", err)
		// the typed fallback: the client still gets a result code
		h.writeJSON(w, http.StatusOK, roomJoinResponse{JoinRoomResult: models.JoinRoomOtherError})
		return
	}

	h.writeJSON(w, http.StatusOK, roomJoinResponse{JoinRoomResult: result})
}

type roomWaitRequest struct {
	RoomID int64 `json:"room_id"`
}

type roomWaitResponse struct {
	Status       models.RoomStatus `json:"status"`
	RoomUserList []models.RoomUser `json:"room_user_list"`
}

func (h *Handler) RoomWaitHandler(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	var req roomWaitRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	status, roster, err := h.rooms.Wait(r.Context(), req.RoomID, caller.ID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			h.writeError(w, http.StatusNotFound, "room not found")
			return
		}
		log.Errorf("Error [RoomService.Wait] %s", err)
		h.writeError(w, http.StatusInternalServerError, "failed to read room")
		return
	}

	h.writeJSON(w, http.StatusOK, roomWaitResponse{Status: status, RoomUserList: roster})
}

type roomStartRequest struct {
	RoomID int64 `json:"room_id"`
}

func (h *Handler) RoomStartHandler(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	var req roomStartRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.rooms.Start(r.Context(), req.RoomID, caller.ID); err != nil {
		log.Errorf("Error [RoomService.Start] %s", err)
		h.writeError(w, http.StatusInternalServerError, "failed to start room")
		return
	}

	h.writeJSON(w, http.StatusOK, struct{}{})
}

type roomEndRequest struct {
	RoomID         int64 `json:"room_id"`
	JudgeCountList []int `json:"judge_count_list"`
	Score          int64 `json:"score"`
}

func (h *Handler) RoomEndHandler(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	var req roomEndRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.rooms.End(r.Context(), req.RoomID, caller.ID, req.JudgeCountList, req.Score); err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			h.writeError(w, http.StatusNotFound, "room not found")
			return
		}
		log.Errorf("Error [RoomService.End] %s", err)
		h.writeError(w, http.StatusInternalServerError, "failed to record result")
		return
	}

	h.writeJSON(w, http.StatusOK, struct{}{})
}

type roomResultRequest struct {
	RoomID int64 `json:"room_id"`
}

type roomResultResponse struct {
	ResultUserList []models.ResultUser `json:"result_user_list"`
}

// RoomResultHandler returns the ranked results once every counted
// member has submitted; until then result_user_list is empty and the
// client keeps polling.
func (h *Handler) RoomResultHandler(w http.ResponseWriter, r *http.Request) {
	var req roomResultRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	results, err := h.rooms.Result(r.Context(), req.RoomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			h.writeError(w, http.StatusNotFound, "room not found")
			return
		}
		log.Errorf("Error [RoomService.Result] %s", err)
		h.writeError(w, http.StatusInternalServerError, "failed to read results")
		return
	}

	if results == nil {
		results = []models.ResultUser{}
	}
	h.writeJSON(w, http.StatusOK, roomResultResponse{ResultUserList: results})
}

type roomLeaveRequest struct {
	RoomID int64 `json:"room_id"`
}

func (h *Handler) RoomLeaveHandler(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	var req roomLeaveRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.rooms.Leave(r.Context(), req.RoomID, caller.ID); err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			h.writeError(w, http.StatusNotFound, "room not found")
			return
		}
		log.Errorf("Error [RoomService.Leave] %s", err)
		h.writeError(w, http.StatusInternalServerError, "failed to leave room")
		return
	}

	h.writeJSON(w, http.StatusOK, struct{}{})
}
