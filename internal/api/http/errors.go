package http

import (
	"encoding/json"
	"net/http"

	"huddleup-backend/internal/domain"
	"huddleup-backend/internal/logger"
)

type errorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
}

// statusForKind translates the business error taxonomy into HTTP status
// codes, matching the presentation the operations were designed for.
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound, domain.KindNotAMember:
		return http.StatusNotFound
	case domain.KindAlreadyMember, domain.KindDuplicateRequest, domain.KindAlreadyProcessed, domain.KindConflict:
		return http.StatusConflict
	case domain.KindForbidden, domain.KindOwnerCannotLeave, domain.KindSelfRemoval:
		return http.StatusForbidden
	case domain.KindCapacityExceeded, domain.KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		// Do not leak internals to the caller.
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func writeErrorStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}
