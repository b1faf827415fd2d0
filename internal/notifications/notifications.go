package notifications

import (
	"context"
	"time"
)

// Event types emitted by the review workflow.
const (
	EventReviewSubmitted     = "review.submitted"
	EventReviewAssigned      = "review.assigned"
	EventReviewStatusChanged = "review.status_changed"
	EventReviewCanceled      = "review.canceled"
)

// Notification is a single in-app inbox entry.
type Notification struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Actor     string    `json:"actor"`
	EventType string    `json:"eventType"`
	RequestID string    `json:"requestId"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// InboxStore is the durable per-user inbox the dispatcher writes to.
type InboxStore interface {
	AppendNotification(ctx context.Context, n Notification) error
	ListNotifications(ctx context.Context, email string, limit, offset int64) ([]Notification, error)
	CountNotifications(ctx context.Context, email string) (int64, error)
	CountUnreadNotifications(ctx context.Context, email string) (int64, error)
	MarkNotificationRead(ctx context.Context, email, notificationID string) (Notification, error)
	MarkAllNotificationsRead(ctx context.Context, email string) error
}
