package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/koassets/rights-backend/internal/middleware"
	"github.com/koassets/rights-backend/internal/review"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, builder *ErrorBuilder) {
	writeJSON(w, status, builder.Create())
}

// writeEngineError maps review engine sentinels onto the error envelope.
// The unassigned-lookup failure keeps its exact message so callers cannot
// distinguish a missing request from an already-claimed one.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, review.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, PermissionDenied("Insufficient permissions"))
	case errors.Is(err, review.ErrNotUnassigned):
		writeError(w, http.StatusNotFound, NewError(CodeResourceNotFound, review.ErrNotUnassigned.Error()))
	case errors.Is(err, review.ErrNotFound):
		writeError(w, http.StatusNotFound, NotFound("Request"))
	case errors.Is(err, review.ErrInvalidAssignee):
		writeError(w, http.StatusUnprocessableEntity, InvalidAssigneeErr(""))
	case errors.Is(err, review.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid status transition", nil))
	case errors.Is(err, review.ErrInvalidDraft):
		writeError(w, http.StatusBadRequest, ValidationErr("Invalid request draft", nil))
	case errors.Is(err, review.ErrConflict), errors.Is(err, review.ErrVersionConflict):
		writeError(w, http.StatusConflict, ConflictErr("The request changed concurrently, retry"))
	default:
		middleware.GetLoggerFromContext(r.Context()).Error("Unhandled engine error", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Request body is invalid JSON", nil))
		return false
	}
	return true
}
