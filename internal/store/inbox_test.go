package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/koassets/rights-backend/internal/notifications"
	"github.com/koassets/rights-backend/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inboxEntry(recipient string, createdAt time.Time) notifications.Notification {
	return notifications.Notification{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Actor:     "actor@ko.com",
		EventType: notifications.EventReviewAssigned,
		RequestID: uuid.New().String(),
		CreatedAt: createdAt,
	}
}

func TestInbox_AppendListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	older := inboxEntry("user@ko.com", base.Add(-time.Hour))
	newer := inboxEntry("user@ko.com", base)
	require.NoError(t, s.AppendNotification(ctx, older))
	require.NoError(t, s.AppendNotification(ctx, newer))

	list, err := s.ListNotifications(ctx, "user@ko.com", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	total, err := s.CountNotifications(ctx, "user@ko.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	unread, err := s.CountUnreadNotifications(ctx, "user@ko.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)
}

func TestInbox_Pagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendNotification(ctx, inboxEntry("user@ko.com", base.Add(time.Duration(i)*time.Second))))
	}

	page, err := s.ListNotifications(ctx, "user@ko.com", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestInbox_MarkRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n := inboxEntry("user@ko.com", time.Now().UTC())
	require.NoError(t, s.AppendNotification(ctx, n))

	marked, err := s.MarkNotificationRead(ctx, "user@ko.com", n.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsRead)

	unread, err := s.CountUnreadNotifications(ctx, "user@ko.com")
	require.NoError(t, err)
	assert.Zero(t, unread)

	// idempotent
	again, err := s.MarkNotificationRead(ctx, "user@ko.com", n.ID)
	require.NoError(t, err)
	assert.True(t, again.IsRead)

	_, err = s.MarkNotificationRead(ctx, "user@ko.com", "no-such-id")
	assert.ErrorIs(t, err, review.ErrNotFound)
}

func TestInbox_MarkAllRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.AppendNotification(ctx, inboxEntry("user@ko.com", base.Add(time.Duration(i)*time.Second))))
	}

	require.NoError(t, s.MarkAllNotificationsRead(ctx, "user@ko.com"))

	unread, err := s.CountUnreadNotifications(ctx, "user@ko.com")
	require.NoError(t, err)
	assert.Zero(t, unread)

	list, err := s.ListNotifications(ctx, "user@ko.com", 10, 0)
	require.NoError(t, err)
	for _, n := range list {
		assert.True(t, n.IsRead)
	}
}

func TestInbox_IsolatedPerRecipient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendNotification(ctx, inboxEntry("a@ko.com", time.Now().UTC())))

	list, err := s.ListNotifications(ctx, "b@ko.com", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
