package api

import (
	"context"

	"github.com/koassets/rights-backend/internal/assets"
	"github.com/koassets/rights-backend/internal/notifications"
	"github.com/koassets/rights-backend/internal/review"
)

// ReviewService is the review lifecycle engine surface the handlers use.
type ReviewService interface {
	Submit(ctx context.Context, submitter string, draft review.Draft) (*review.Request, error)
	Get(ctx context.Context, actor review.Actor, requestID string) (*review.Request, error)
	ListSubmitted(ctx context.Context, actor review.Actor) ([]*review.Request, error)
	ListAssigned(ctx context.Context, actor review.Actor) ([]*review.Request, error)
	ListUnassigned(ctx context.Context, actor review.Actor) ([]*review.Request, error)
	SelfAssign(ctx context.Context, actor review.Actor, requestID string) (*review.Request, error)
	Assign(ctx context.Context, actor review.Actor, requestID, assignee string) (*review.Request, error)
	ChangeStatus(ctx context.Context, actor review.Actor, requestID string, status review.Status) (*review.Request, error)
	Cancel(ctx context.Context, actor review.Actor, requestID string) (*review.Request, error)
	ListReviewers(ctx context.Context, actor review.Actor) ([]*review.RosterUser, error)
}

// AuthFlowService is the passwordless login flow.
type AuthFlowService interface {
	RequestOTP(ctx context.Context, email string) (string, error)
	VerifyOTP(ctx context.Context, email, code string) (accessToken, refreshToken string, err error)
	Refresh(ctx context.Context, refreshToken string) (newAccess, newRefresh string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

// LoginMailer delivers OTP login codes.
type LoginMailer interface {
	SendLoginCode(email, code string) error
}

// NotificationService reads and mutates the per-user inbox.
type NotificationService interface {
	GetUserNotifications(ctx context.Context, email string, limit, offset int64) ([]notifications.Notification, error)
	GetTotalCount(ctx context.Context, email string) (int64, error)
	GetUnreadCount(ctx context.Context, email string) (int64, error)
	MarkAsRead(ctx context.Context, email, notificationID string) (notifications.Notification, error)
	MarkAllAsRead(ctx context.Context, email string) error
}

// AssetSearchService queries the third-party index.
type AssetSearchService interface {
	Search(ctx context.Context, query string, limit, offset int64) (*assets.SearchResult, error)
}

// RenditionURLService hands out presigned rendition downloads and
// schedules thumbnail materialization.
type RenditionURLService interface {
	DownloadURL(ctx context.Context, assetID, rendition string) (string, error)
	RequestThumbnail(assetID, rendition string) error
}

// Pinger reports store connectivity for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}
