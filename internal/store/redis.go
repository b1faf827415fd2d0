// Package store implements the durable record store on Redis: rights
// request records with conditional-write versioning, the user roster,
// and per-user notification inboxes.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/koassets/rights-backend/internal/config"
	"github.com/koassets/rights-backend/internal/review"
	"github.com/redis/go-redis/v9"
)

type RecordStore struct {
	client *redis.Client
}

func New(client *redis.Client) *RecordStore {
	return &RecordStore{client: client}
}

func NewFromConfig(cfg *config.RedisConfig) (*RecordStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Activate and test the connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis record store: %w", err)
	}

	return &RecordStore{client: client}, nil
}

func (s *RecordStore) Close() error {
	return s.client.Close()
}

func (s *RecordStore) Client() *redis.Client {
	return s.client
}

// Ping reports store connectivity, used by the readiness probe.
func (s *RecordStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Request records

func (s *RecordStore) GetRequest(ctx context.Context, id string) (*review.Request, error) {
	raw, err := s.client.Get(ctx, requestKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, review.ErrNotFound
		}
		return nil, fmt.Errorf("reading request %s: %w", id, err)
	}

	var req review.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decoding request %s: %w", id, err)
	}
	return &req, nil
}

func (s *RecordStore) CreateRequest(ctx context.Context, req *review.Request) error {
	key := requestKey(req.ID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("request %s already exists: %w", req.ID, review.ErrConflict)
		}

		raw, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			pipe.SAdd(ctx, unassignedKey(), req.ID)
			pipe.SAdd(ctx, submitterKey(req.Submitter), req.ID)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return fmt.Errorf("creating request %s: %w", req.ID, err)
	}
	return nil
}

// UpdateRequest is the conditional write the review engine relies on: it
// only applies when the stored record still carries expectedVersion, and
// bumps the version in the same transaction. A concurrent writer racing
// past us surfaces as ErrVersionConflict.
func (s *RecordStore) UpdateRequest(ctx context.Context, req *review.Request, expectedVersion int64) error {
	key := requestKey(req.ID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return review.ErrNotFound
			}
			return err
		}

		var current review.Request
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("decoding stored request: %w", err)
		}
		if current.Version != expectedVersion {
			return review.ErrVersionConflict
		}

		next := *req
		next.Version = expectedVersion + 1
		encoded, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)

			if current.Unassigned() && !next.Unassigned() {
				pipe.SRem(ctx, unassignedKey(), next.ID)
			}
			if !current.Unassigned() && next.Unassigned() {
				pipe.SAdd(ctx, unassignedKey(), next.ID)
			}
			if current.Assignee != next.Assignee {
				if current.Assignee != "" {
					pipe.SRem(ctx, assigneeKey(current.Assignee), next.ID)
				}
				if next.Assignee != "" {
					pipe.SAdd(ctx, assigneeKey(next.Assignee), next.ID)
				}
			}
			if !current.Status.Terminal() && next.Status.Terminal() {
				pipe.SAdd(ctx, terminalKey(), next.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}

		req.Version = next.Version
		return nil
	}, key)

	// A WATCH abort means someone else wrote the key between our read and
	// our MULTI; to the caller that is the same condition as a stale
	// version.
	if errors.Is(err, redis.TxFailedErr) {
		return review.ErrVersionConflict
	}
	return err
}

func (s *RecordStore) ListUnassigned(ctx context.Context) ([]*review.Request, error) {
	return s.listByIndex(ctx, unassignedKey())
}

func (s *RecordStore) ListBySubmitter(ctx context.Context, email string) ([]*review.Request, error) {
	return s.listByIndex(ctx, submitterKey(review.NormalizeEmail(email)))
}

func (s *RecordStore) ListByAssignee(ctx context.Context, email string) ([]*review.Request, error) {
	return s.listByIndex(ctx, assigneeKey(review.NormalizeEmail(email)))
}

// ListTerminal returns resolved requests retained for reporting.
func (s *RecordStore) ListTerminal(ctx context.Context) ([]*review.Request, error) {
	return s.listByIndex(ctx, terminalKey())
}

func (s *RecordStore) listByIndex(ctx context.Context, indexKey string) ([]*review.Request, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("reading index %s: %w", indexKey, err)
	}
	if len(ids) == 0 {
		return []*review.Request{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = requestKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading requests for index %s: %w", indexKey, err)
	}

	requests := make([]*review.Request, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // index entry for a record that no longer exists
		}
		var req review.Request
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, fmt.Errorf("decoding indexed request: %w", err)
		}
		requests = append(requests, &req)
	}
	return requests, nil
}

// Roster

func (s *RecordStore) GetUser(ctx context.Context, email string) (*review.RosterUser, error) {
	email = review.NormalizeEmail(email)
	raw, err := s.client.Get(ctx, rosterUserKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, review.ErrNotFound
		}
		return nil, fmt.Errorf("reading roster user %s: %w", email, err)
	}

	var user review.RosterUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decoding roster user %s: %w", email, err)
	}
	return &user, nil
}

func (s *RecordStore) PutUser(ctx context.Context, user *review.RosterUser) error {
	normalized := review.RosterUser{
		Email:       review.NormalizeEmail(user.Email),
		Permissions: user.Permissions,
	}
	raw, err := json.Marshal(&normalized)
	if err != nil {
		return fmt.Errorf("encoding roster user: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, rosterUserKey(normalized.Email), raw, 0)
	pipe.SAdd(ctx, rosterEmailsKey(), normalized.Email)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RecordStore) DeleteUser(ctx context.Context, email string) error {
	email = review.NormalizeEmail(email)
	pipe := s.client.Pipeline()
	pipe.Del(ctx, rosterUserKey(email))
	pipe.SRem(ctx, rosterEmailsKey(), email)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RecordStore) ListUsers(ctx context.Context) ([]*review.RosterUser, error) {
	emails, err := s.client.SMembers(ctx, rosterEmailsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("reading roster emails: %w", err)
	}
	if len(emails) == 0 {
		return []*review.RosterUser{}, nil
	}

	keys := make([]string, len(emails))
	for i, email := range emails {
		keys[i] = rosterUserKey(email)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading roster users: %w", err)
	}

	users := make([]*review.RosterUser, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var user review.RosterUser
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, fmt.Errorf("decoding roster user: %w", err)
		}
		users = append(users, &user)
	}
	return users, nil
}
