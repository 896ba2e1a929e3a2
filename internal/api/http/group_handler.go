package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"huddleup-backend/internal/domain"
	"huddleup-backend/internal/service"

	"github.com/gorilla/mux"
)

type GroupHandler struct {
	groupSvc service.GroupService
}

func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var spec domain.GroupSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groupSvc.CreateGroup(r.Context(), actor, spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

type searchResponse struct {
	Groups []domain.Group `json:"groups"`
	Page   int32          `json:"page"`
	Limit  int32          `json:"limit"`
	Total  int32          `json:"total"`
}

func (h *GroupHandler) SearchPublicGroups(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 10)

	groups, total, err := h.groupSvc.SearchPublicGroups(r.Context(), name, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Groups: groups, Page: page, Limit: limit, Total: total})
}

func (h *GroupHandler) RequestToJoin(w http.ResponseWriter, r *http.Request) {
	actor, groupID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}
	req, err := h.groupSvc.RequestToJoin(r.Context(), actor, groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *GroupHandler) ApproveJoinRequest(w http.ResponseWriter, r *http.Request) {
	actor, requestID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}
	if err := h.groupSvc.ApproveJoinRequest(r.Context(), actor, requestID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "join request approved"})
}

func (h *GroupHandler) RejectJoinRequest(w http.ResponseWriter, r *http.Request) {
	actor, requestID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}
	if err := h.groupSvc.RejectJoinRequest(r.Context(), actor, requestID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "join request rejected"})
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (h *GroupHandler) InviteUser(w http.ResponseWriter, r *http.Request) {
	actor, groupID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}

	var body inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeErrorStatus(w, http.StatusBadRequest, "invitee email is required")
		return
	}

	code, err := h.groupSvc.InviteUserToPrivateGroup(r.Context(), actor, groupID, body.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "invitation sent", "invite_code": code})
}

type joinPrivateRequest struct {
	InviteCode string `json:"invite_code"`
}

func (h *GroupHandler) JoinPrivateGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var body joinPrivateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.InviteCode == "" {
		writeErrorStatus(w, http.StatusBadRequest, "invite code is required")
		return
	}

	group, err := h.groupSvc.JoinPrivateGroup(r.Context(), actor, body.InviteCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, groupID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}
	targetID, err := pathID(r, "userId")
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.groupSvc.RemoveMember(r.Context(), actor, groupID, targetID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "member removed"})
}

func (h *GroupHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.groupSvc.LeaveGroup(r.Context(), actor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "left the group"})
}

func (h *GroupHandler) GetMyGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	group, err := h.groupSvc.GetMyGroup(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	if group == nil {
		writeJSON(w, http.StatusOK, map[string]any{"group": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"group": group})
}

func (h *GroupHandler) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	actor, groupID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}
	members, err := h.groupSvc.ListGroupMembers(r.Context(), actor, groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	if members == nil {
		members = []domain.Membership{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *GroupHandler) ListPendingJoinRequests(w http.ResponseWriter, r *http.Request) {
	actor, groupID, ok := h.actorAndID(w, r, "id")
	if !ok {
		return
	}
	reqs, err := h.groupSvc.ListPendingJoinRequests(r.Context(), actor, groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	if reqs == nil {
		reqs = []domain.JoinRequest{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *GroupHandler) actorAndID(w http.ResponseWriter, r *http.Request, param string) (domain.Actor, int32, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return domain.Actor{}, 0, false
	}
	id, err := pathID(r, param)
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid id")
		return domain.Actor{}, 0, false
	}
	return actor, id, true
}

func pathID(r *http.Request, param string) (int32, error) {
	raw := mux.Vars(r)[param]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

func parseQueryInt(r *http.Request, param string, fallback int32) int32 {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
