package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/koassets/rights-backend/internal/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchAssets(t *testing.T) {
	t.Run("returns normalized page", func(t *testing.T) {
		server, mocks := newTestServer(t)
		result := &assets.SearchResult{
			Assets: []assets.Asset{{ID: "a1", Title: "Polar Bear Print"}},
			Total:  1,
		}
		mocks.search.On("Search", mock.Anything, "polar bear", int64(50), int64(0)).Return(result, nil)

		rec := doRequest(t, server, http.MethodGet, "/assets/search?query=polar+bear", nil, asUser("sam@ko.com"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Polar Bear Print")
	})

	t.Run("missing query rejected", func(t *testing.T) {
		server, _ := newTestServer(t)
		rec := doRequest(t, server, http.MethodGet, "/assets/search", nil, asUser("sam@ko.com"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("index outage maps to 503", func(t *testing.T) {
		server, mocks := newTestServer(t)
		mocks.search.On("Search", mock.Anything, "q", int64(50), int64(0)).Return(nil, assets.ErrSearchUnavailable)

		rec := doRequest(t, server, http.MethodGet, "/assets/search?query=q", nil, asUser("sam@ko.com"))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, CodeUpstreamUnavailable, decodeError(t, rec).Error.Code)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		server, _ := newTestServer(t)
		rec := doRequest(t, server, http.MethodGet, "/assets/search?query=q", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRenditionURL(t *testing.T) {
	t.Run("returns presigned url", func(t *testing.T) {
		server, mocks := newTestServer(t)
		mocks.renditions.On("DownloadURL", mock.Anything, "a1", "thumbnail").Return("https://bucket.example/thumbs/a1.jpg?sig=x", nil)

		rec := doRequest(t, server, http.MethodGet, "/assets/a1/renditions/thumbnail/url", nil, asUser("sam@ko.com"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "sig=x")
	})

	t.Run("bad rendition rejected", func(t *testing.T) {
		server, mocks := newTestServer(t)
		mocks.renditions.On("DownloadURL", mock.Anything, "a1", "weird").Return("", fmt.Errorf("%w: bad rendition %q", assets.ErrInvalidRendition, "weird"))

		rec := doRequest(t, server, http.MethodGet, "/assets/a1/renditions/weird/url", nil, asUser("sam@ko.com"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, CodeValidationError, decodeError(t, rec).Error.Code)
	})

	t.Run("presign failure maps to 500", func(t *testing.T) {
		server, mocks := newTestServer(t)
		mocks.renditions.On("DownloadURL", mock.Anything, "a1", "original").Return("", errors.New("presigning rendition original for asset a1: connection refused"))

		rec := doRequest(t, server, http.MethodGet, "/assets/a1/renditions/original/url", nil, asUser("sam@ko.com"))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, CodeInternalError, decodeError(t, rec).Error.Code)
	})
}

func TestRequestAssetThumbnail(t *testing.T) {
	t.Run("schedules render", func(t *testing.T) {
		server, mocks := newTestServer(t)
		mocks.renditions.On("RequestThumbnail", "a1", "original").Return(nil)

		rec := doRequest(t, server, http.MethodPost, "/assets/a1/renditions/original/thumbnail", nil, asUser("sam@ko.com"))
		require.Equal(t, http.StatusAccepted, rec.Code)
		mocks.renditions.AssertExpectations(t)
	})

	t.Run("bad rendition rejected", func(t *testing.T) {
		server, mocks := newTestServer(t)
		mocks.renditions.On("RequestThumbnail", "a1", "thumbnail").Return(fmt.Errorf("%w: cannot render a thumbnail from itself", assets.ErrInvalidRendition))

		rec := doRequest(t, server, http.MethodPost, "/assets/a1/renditions/thumbnail/thumbnail", nil, asUser("sam@ko.com"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, CodeValidationError, decodeError(t, rec).Error.Code)
	})

	t.Run("enqueue failure maps to 500", func(t *testing.T) {
		server, mocks := newTestServer(t)
		mocks.renditions.On("RequestThumbnail", "a1", "original").Return(errors.New("enqueueing thumbnail task for asset a1: connection refused"))

		rec := doRequest(t, server, http.MethodPost, "/assets/a1/renditions/original/thumbnail", nil, asUser("sam@ko.com"))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		server, _ := newTestServer(t)
		rec := doRequest(t, server, http.MethodPost, "/assets/a1/renditions/original/thumbnail", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
