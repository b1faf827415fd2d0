package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/koassets/rights-backend/internal/auth"
	"github.com/koassets/rights-backend/internal/middleware"
	"github.com/koassets/rights-backend/internal/review"
)

type createRequestBody struct {
	AssetIDs []string `json:"assetIds"`
	Markets  []string `json:"markets,omitempty"`
	Channels []string `json:"channels,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

type requestListResponse struct {
	Data []*review.Request `json:"data"`
}

// CreateRequest submits a new rights request. Any authenticated user may
// submit; the reviewer pool is notified.
func (s *Server) CreateRequest(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	var body createRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	if len(body.AssetIDs) == 0 {
		writeError(w, http.StatusBadRequest, ValidationErr("At least one asset is required", []ErrorDetail{{Field: "assetIds", Message: "must not be empty"}}))
		return
	}

	created, err := s.reviews.Submit(r.Context(), user.Email, review.Draft{
		AssetIDs: body.AssetIDs,
		Markets:  body.Markets,
		Channels: body.Channels,
		Notes:    body.Notes,
	})
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	logger.Info("Rights request submitted", "request_id", created.ID, "assets", len(created.AssetIDs))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) GetRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	req, err := s.reviews.Get(r.Context(), user.Actor(), chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// ListMyRequests returns the caller's own requests. role=submitted
// (default) lists what they filed, role=assigned what they review.
func (s *Server) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	var (
		list []*review.Request
		err  error
	)
	switch role := r.URL.Query().Get("role"); role {
	case "", "submitted":
		list, err = s.reviews.ListSubmitted(r.Context(), user.Actor())
	case "assigned":
		list, err = s.reviews.ListAssigned(r.Context(), user.Actor())
	default:
		writeError(w, http.StatusBadRequest, ValidationErr("Unknown role filter", []ErrorDetail{{Field: "role", Message: "must be submitted or assigned"}}))
		return
	}
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	if list == nil {
		list = []*review.Request{}
	}
	writeJSON(w, http.StatusOK, requestListResponse{Data: list})
}

func (s *Server) CancelRequest(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	requestID := chi.URLParam(r, "id")
	canceled, err := s.reviews.Cancel(r.Context(), user.Actor(), requestID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	logger.Info("Rights request canceled", "request_id", requestID, "status", canceled.Status)
	writeJSON(w, http.StatusOK, canceled)
}
