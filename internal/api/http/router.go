package http

import (
	"net/http"

	"huddleup-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter wires every group operation onto the mux router. All group
// routes require a valid bearer token; only the health check is open.
func NewRouter(handler *GroupHandler, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/groups").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("", handler.CreateGroup).Methods(http.MethodPost)
	api.HandleFunc("/search", handler.SearchPublicGroups).Methods(http.MethodGet)
	api.HandleFunc("/my-group", handler.GetMyGroup).Methods(http.MethodGet)
	api.HandleFunc("/join-private", handler.JoinPrivateGroup).Methods(http.MethodPost)
	api.HandleFunc("/leave", handler.LeaveGroup).Methods(http.MethodDelete)
	api.HandleFunc("/join-requests/{id:[0-9]+}/approve", handler.ApproveJoinRequest).Methods(http.MethodPut)
	api.HandleFunc("/join-requests/{id:[0-9]+}/reject", handler.RejectJoinRequest).Methods(http.MethodPut)
	api.HandleFunc("/{id:[0-9]+}/join", handler.RequestToJoin).Methods(http.MethodPost)
	api.HandleFunc("/{id:[0-9]+}/invite", handler.InviteUser).Methods(http.MethodPost)
	api.HandleFunc("/{id:[0-9]+}/members", handler.ListGroupMembers).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}/members/{userId:[0-9]+}", handler.RemoveMember).Methods(http.MethodDelete)
	api.HandleFunc("/{id:[0-9]+}/join-requests", handler.ListPendingJoinRequests).Methods(http.MethodGet)

	return r
}
