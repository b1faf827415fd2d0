package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/koassets/rights-backend/internal/auth"
	"github.com/koassets/rights-backend/internal/middleware"
	"github.com/koassets/rights-backend/internal/notifications"
)

type notificationListResponse struct {
	Data []notifications.Notification `json:"data"`
	Meta PaginationMeta               `json:"meta"`
}

type unreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}

func (s *Server) GetNotifications(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	limit, offset := parsePagination(r)

	notifs, err := s.notifications.GetUserNotifications(r.Context(), user.Email, limit, offset)
	if err != nil {
		logger.Error("Failed to get notifications", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}
	if notifs == nil {
		notifs = []notifications.Notification{}
	}

	total, err := s.notifications.GetTotalCount(r.Context(), user.Email)
	if err != nil {
		logger.Error("Failed to get total notification count", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, notificationListResponse{
		Data: notifs,
		Meta: buildPaginationMeta(total, limit, offset),
	})
}

func (s *Server) GetUnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	count, err := s.notifications.GetUnreadCount(r.Context(), user.Email)
	if err != nil {
		middleware.GetLoggerFromContext(r.Context()).Error("Failed to get unread notification count", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, unreadCountResponse{UnreadCount: count})
}

func (s *Server) MarkNotificationAsRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	marked, err := s.notifications.MarkAsRead(r.Context(), user.Email, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, NotFound("Notification"))
		return
	}

	writeJSON(w, http.StatusOK, marked)
}

func (s *Server) MarkAllNotificationsAsRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetAuthenticatedUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, Unauthorized("Authentication required"))
		return
	}

	if err := s.notifications.MarkAllAsRead(r.Context(), user.Email); err != nil {
		middleware.GetLoggerFromContext(r.Context()).Error("Failed to mark all notifications as read", "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Success"})
}
