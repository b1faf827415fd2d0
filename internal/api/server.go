package api

import (
	"github.com/go-chi/chi/v5"
)

type Server struct {
	reviews       ReviewService
	authFlow      AuthFlowService
	mailer        LoginMailer
	notifications NotificationService
	search        AssetSearchService
	renditions    RenditionURLService
	store         Pinger
}

func NewServer(reviews ReviewService, authFlow AuthFlowService, mailer LoginMailer, notifs NotificationService, search AssetSearchService, renditions RenditionURLService, store Pinger) *Server {
	return &Server{
		reviews:       reviews,
		authFlow:      authFlow,
		mailer:        mailer,
		notifications: notifs,
		search:        search,
		renditions:    renditions,
		store:         store,
	}
}

// Routes mounts every handler on the router. Authentication runs in the
// OpenAPI validator middleware, so handlers only read the resolved user
// from the context.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/health/ready", s.ReadinessCheck)

	r.Post("/auth/otp/request", s.RequestOTP)
	r.Post("/auth/otp/verify", s.VerifyOTP)
	r.Post("/auth/refresh", s.RefreshToken)
	r.Post("/auth/logout", s.Logout)

	r.Get("/assets/search", s.SearchAssets)
	r.Get("/assets/{assetId}/renditions/{rendition}/url", s.RenditionURL)
	r.Post("/assets/{assetId}/renditions/{rendition}/thumbnail", s.RequestAssetThumbnail)

	r.Post("/requests", s.CreateRequest)
	r.Get("/requests", s.ListMyRequests)
	r.Get("/requests/{id}", s.GetRequest)
	r.Post("/requests/{id}/cancel", s.CancelRequest)

	r.Get("/reviews/unassigned", s.ListUnassignedReviews)
	r.Post("/reviews/{id}/claim", s.ClaimReview)
	r.Post("/reviews/{id}/assign", s.AssignReview)
	r.Post("/reviews/{id}/status", s.ChangeReviewStatus)
	r.Get("/reviews/reviewers", s.ListReviewers)

	r.Get("/notifications", s.GetNotifications)
	r.Get("/notifications/unread-count", s.GetUnreadNotificationCount)
	r.Post("/notifications/{id}/read", s.MarkNotificationAsRead)
	r.Post("/notifications/read-all", s.MarkAllNotificationsAsRead)
}
