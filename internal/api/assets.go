package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/koassets/rights-backend/internal/assets"
	"github.com/koassets/rights-backend/internal/auth"
	"github.com/koassets/rights-backend/internal/middleware"
)

type renditionURLResponse struct {
	URL string `json:"url"`
}

func (s *Server) SearchAssets(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	if _, ok := auth.GetAuthenticatedUser(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, ValidationErr("Query is required", []ErrorDetail{{Field: "query", Message: "must not be empty"}}))
		return
	}

	limit, offset := parsePagination(r)
	result, err := s.search.Search(r.Context(), query, limit, offset)
	if err != nil {
		if errors.Is(err, assets.ErrSearchUnavailable) {
			logger.Warn("Asset search unavailable", "error", err)
			writeError(w, http.StatusServiceUnavailable, UpstreamErr("Asset search is temporarily unavailable"))
			return
		}
		logger.Error("Asset search failed", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) RenditionURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.GetAuthenticatedUser(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	assetID := chi.URLParam(r, "assetId")
	rendition := chi.URLParam(r, "rendition")

	logger := middleware.GetLoggerFromContext(r.Context())
	url, err := s.renditions.DownloadURL(r.Context(), assetID, rendition)
	if err != nil {
		if errors.Is(err, assets.ErrInvalidRendition) {
			writeError(w, http.StatusBadRequest, ValidationErr("Cannot resolve rendition", nil))
			return
		}
		logger.Error("Rendition presign failed", "asset_id", assetID, "rendition", rendition, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, renditionURLResponse{URL: url})
}

// RequestAssetThumbnail schedules thumbnail generation from the named
// rendition. The render happens on the worker; 202 means accepted.
func (s *Server) RequestAssetThumbnail(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.GetAuthenticatedUser(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	assetID := chi.URLParam(r, "assetId")
	rendition := chi.URLParam(r, "rendition")

	logger := middleware.GetLoggerFromContext(r.Context())
	if err := s.renditions.RequestThumbnail(assetID, rendition); err != nil {
		if errors.Is(err, assets.ErrInvalidRendition) {
			writeError(w, http.StatusBadRequest, ValidationErr("Cannot resolve rendition", nil))
			return
		}
		logger.Error("Thumbnail enqueue failed", "asset_id", assetID, "rendition", rendition, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	logger.Info("Thumbnail render scheduled", "asset_id", assetID, "rendition", rendition)
	writeJSON(w, http.StatusAccepted, messageResponse{Message: "Thumbnail render scheduled"})
}
