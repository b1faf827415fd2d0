package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/koassets/rights-backend/internal/auth"
	"github.com/koassets/rights-backend/internal/middleware"
	"github.com/koassets/rights-backend/internal/review"
)

type assignBody struct {
	Assignee string `json:"assignee"`
}

type statusBody struct {
	Status string `json:"status"`
}

type reviewerListResponse struct {
	Data []*review.RosterUser `json:"data"`
}

func (s *Server) ListUnassignedReviews(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	list, err := s.reviews.ListUnassigned(r.Context(), user.Actor())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	if list == nil {
		list = []*review.Request{}
	}
	writeJSON(w, http.StatusOK, requestListResponse{Data: list})
}

// ClaimReview assigns the request to the caller. Losing a claim race
// reads the same as the request not existing.
func (s *Server) ClaimReview(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	requestID := chi.URLParam(r, "id")
	claimed, err := s.reviews.SelfAssign(r.Context(), user.Actor(), requestID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	logger.Info("Review claimed", "request_id", requestID)
	writeJSON(w, http.StatusOK, claimed)
}

func (s *Server) AssignReview(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	var body assignBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Assignee == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("Assignee is required", []ErrorDetail{{Field: "assignee", Message: "must not be empty"}}))
		return
	}

	requestID := chi.URLParam(r, "id")
	assigned, err := s.reviews.Assign(r.Context(), user.Actor(), requestID, body.Assignee)
	if err != nil {
		if errors.Is(err, review.ErrInvalidAssignee) {
			writeError(w, http.StatusUnprocessableEntity, InvalidAssigneeErr(body.Assignee))
			return
		}
		writeEngineError(w, r, err)
		return
	}

	logger.Info("Review assigned", "request_id", requestID, "assignee", assigned.Assignee)
	writeJSON(w, http.StatusOK, assigned)
}

func (s *Server) ChangeReviewStatus(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	var body statusBody
	if !decodeBody(w, r, &body) {
		return
	}

	status, err := review.ParseStatus(body.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr("Unknown status", []ErrorDetail{{Field: "status", Message: err.Error()}}))
		return
	}

	requestID := chi.URLParam(r, "id")
	updated, err := s.reviews.ChangeStatus(r.Context(), user.Actor(), requestID, status)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	logger.Info("Review status changed", "request_id", requestID, "status", updated.Status)
	writeJSON(w, http.StatusOK, updated)
}

// ListReviewers returns the assignable reviewer roster. Restricted to
// callers who can assign to others.
func (s *Server) ListReviewers(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	reviewers, err := s.reviews.ListReviewers(r.Context(), user.Actor())
	if err != nil {
		if errors.Is(err, review.ErrPermissionDenied) {
			writeError(w, http.StatusForbidden, PermissionDenied("Senior rights reviewer permission required."))
			return
		}
		writeEngineError(w, r, err)
		return
	}

	if reviewers == nil {
		reviewers = []*review.RosterUser{}
	}
	writeJSON(w, http.StatusOK, reviewerListResponse{Data: reviewers})
}
