package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/koassets/rights-backend/internal/notifications"
	"github.com/koassets/rights-backend/internal/review"
	"github.com/redis/go-redis/v9"
)

// Per-user notification inbox. Entries live in a hash keyed by entry ID,
// a sorted set keeps newest-first ordering, and a set tracks unread IDs.

func (s *RecordStore) AppendNotification(ctx context.Context, n notifications.Notification) error {
	email := review.NormalizeEmail(n.Recipient)
	raw, err := json.Marshal(&n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, inboxHashKey(email), n.ID, raw)
	pipe.ZAdd(ctx, inboxOrderKey(email), redis.Z{
		Score:  float64(n.CreatedAt.UnixNano()),
		Member: n.ID,
	})
	pipe.SAdd(ctx, inboxUnreadKey(email), n.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RecordStore) ListNotifications(ctx context.Context, email string, limit, offset int64) ([]notifications.Notification, error) {
	email = review.NormalizeEmail(email)

	ids, err := s.client.ZRevRange(ctx, inboxOrderKey(email), offset, offset+limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading inbox order: %w", err)
	}
	if len(ids) == 0 {
		return []notifications.Notification{}, nil
	}

	values, err := s.client.HMGet(ctx, inboxHashKey(email), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading inbox entries: %w", err)
	}

	out := make([]notifications.Notification, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var n notifications.Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return nil, fmt.Errorf("decoding inbox entry: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *RecordStore) CountNotifications(ctx context.Context, email string) (int64, error) {
	return s.client.ZCard(ctx, inboxOrderKey(review.NormalizeEmail(email))).Result()
}

func (s *RecordStore) CountUnreadNotifications(ctx context.Context, email string) (int64, error) {
	return s.client.SCard(ctx, inboxUnreadKey(review.NormalizeEmail(email))).Result()
}

func (s *RecordStore) MarkNotificationRead(ctx context.Context, email, notificationID string) (notifications.Notification, error) {
	email = review.NormalizeEmail(email)

	raw, err := s.client.HGet(ctx, inboxHashKey(email), notificationID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notifications.Notification{}, review.ErrNotFound
		}
		return notifications.Notification{}, fmt.Errorf("reading inbox entry: %w", err)
	}

	var n notifications.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return notifications.Notification{}, fmt.Errorf("decoding inbox entry: %w", err)
	}
	if n.IsRead {
		return n, nil
	}
	n.IsRead = true

	encoded, err := json.Marshal(&n)
	if err != nil {
		return notifications.Notification{}, fmt.Errorf("encoding inbox entry: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, inboxHashKey(email), n.ID, encoded)
	pipe.SRem(ctx, inboxUnreadKey(email), n.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return notifications.Notification{}, err
	}
	return n, nil
}

func (s *RecordStore) MarkAllNotificationsRead(ctx context.Context, email string) error {
	email = review.NormalizeEmail(email)

	ids, err := s.client.SMembers(ctx, inboxUnreadKey(email)).Result()
	if err != nil {
		return fmt.Errorf("reading unread set: %w", err)
	}

	for _, id := range ids {
		if _, err := s.MarkNotificationRead(ctx, email, id); err != nil && !errors.Is(err, review.ErrNotFound) {
			return err
		}
	}
	return nil
}
