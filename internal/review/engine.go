package review

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/koassets/rights-backend/internal/logging"
	"github.com/koassets/rights-backend/internal/notifications"
	"github.com/koassets/rights-backend/internal/rights"
)

// Store is the durable record store behind the engine. Implementations
// must make UpdateRequest a conditional write: it only applies when the
// stored version equals expectedVersion, otherwise ErrVersionConflict.
type Store interface {
	GetRequest(ctx context.Context, id string) (*Request, error)
	CreateRequest(ctx context.Context, req *Request) error
	UpdateRequest(ctx context.Context, req *Request, expectedVersion int64) error
	ListUnassigned(ctx context.Context) ([]*Request, error)
	ListBySubmitter(ctx context.Context, email string) ([]*Request, error)
	ListByAssignee(ctx context.Context, email string) ([]*Request, error)

	GetUser(ctx context.Context, email string) (*RosterUser, error)
	ListUsers(ctx context.Context) ([]*RosterUser, error)
}

// Notifier is the notification dispatcher trigger contract. Delivery is
// fire-and-forget; the engine never surfaces notifier failures.
type Notifier interface {
	Notify(ctx context.Context, actor, eventType, requestID string, groups []notifications.NotifierGroup) error
}

// Actor is an authenticated user plus their resolved capability set.
type Actor struct {
	Email string
	Caps  rights.Capabilities
}

// Draft is the caller-supplied part of a new rights request.
type Draft struct {
	AssetIDs []string
	Markets  []string
	Channels []string
	Notes    string
}

// Engine holds the review lifecycle state machine. It is stateless
// between calls; every operation is a single check-then-conditional-write
// against the store.
type Engine struct {
	store    Store
	notifier Notifier
}

func NewEngine(store Store, notifier Notifier) *Engine {
	return &Engine{store: store, notifier: notifier}
}

// Submit creates a new unassigned rights request and notifies the
// reviewer pool. Any authenticated user may submit.
func (e *Engine) Submit(ctx context.Context, submitter string, draft Draft) (*Request, error) {
	if len(draft.AssetIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one asset required", ErrInvalidDraft)
	}

	now := time.Now().UTC()
	req := &Request{
		ID:        uuid.New().String(),
		Submitter: NormalizeEmail(submitter),
		Status:    StatusNotStarted,
		AssetIDs:  draft.AssetIDs,
		Markets:   draft.Markets,
		Channels:  draft.Channels,
		Notes:     draft.Notes,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}

	if err := e.store.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("creating rights request: %w", err)
	}

	// The reviewer pool is resolved from the roster at call time, so the
	// notified set can never drift from who actually holds reviewer
	// capability.
	pool, err := e.reviewerEmails(ctx)
	if err != nil {
		logging.Error("failed to resolve reviewer pool for submit notification", "request_id", req.ID, "error", err)
		return req, nil
	}
	e.notify(ctx, req.Submitter, notifications.EventReviewSubmitted, req.ID, notifications.NotifierGroup{
		Emails:   pool,
		Template: "review_submitted",
		TemplateData: map[string]interface{}{
			"RequestID":  req.ID,
			"Submitter":  req.Submitter,
			"AssetCount": len(req.AssetIDs),
		},
	})

	return req, nil
}

// SelfAssign claims an unassigned request for the actor.
func (e *Engine) SelfAssign(ctx context.Context, actor Actor, requestID string) (*Request, error) {
	if !actor.Caps.CanSelfAssign {
		return nil, ErrPermissionDenied
	}

	req, err := e.getUnassigned(ctx, requestID)
	if err != nil {
		return nil, err
	}

	req.Assignee = NormalizeEmail(actor.Email)
	req.UpdatedAt = time.Now().UTC()

	if err := e.commitAssignment(ctx, req); err != nil {
		return nil, err
	}

	logging.Info("review self-assigned", "request_id", req.ID, "assignee", req.Assignee)
	return req, nil
}

// Assign gives an unassigned request to another reviewer. Requires the
// senior capability; the target must hold reviewer capability.
func (e *Engine) Assign(ctx context.Context, actor Actor, requestID, assignee string) (*Request, error) {
	if !actor.Caps.CanAssignToOthers {
		return nil, ErrPermissionDenied
	}

	assignee = NormalizeEmail(assignee)
	target, err := e.store.GetUser(ctx, assignee)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidAssignee
		}
		return nil, fmt.Errorf("looking up assignee: %w", err)
	}
	if !rights.Resolve(target.Permissions).CanReview {
		return nil, ErrInvalidAssignee
	}

	req, err := e.getUnassigned(ctx, requestID)
	if err != nil {
		return nil, err
	}

	req.Assignee = assignee
	req.UpdatedAt = time.Now().UTC()

	if err := e.commitAssignment(ctx, req); err != nil {
		return nil, err
	}

	e.notify(ctx, NormalizeEmail(actor.Email), notifications.EventReviewAssigned, req.ID, notifications.NotifierGroup{
		Emails:   []string{assignee},
		Template: "review_assigned",
		TemplateData: map[string]interface{}{
			"RequestID": req.ID,
			"Assigner":  NormalizeEmail(actor.Email),
		},
	})

	logging.Info("review assigned", "request_id", req.ID, "assignee", assignee, "assigned_by", actor.Email)
	return req, nil
}

// ChangeStatus moves an assigned request between review statuses. Only
// the current assignee or a senior reviewer may do this; the assignee is
// never changed.
func (e *Engine) ChangeStatus(ctx context.Context, actor Actor, requestID string, status Status) (*Request, error) {
	if !reviewerAssignable[status] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	req, err := e.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Assigned() {
		return nil, ErrConflict
	}

	actorEmail := NormalizeEmail(actor.Email)
	if actorEmail != req.Assignee && !actor.Caps.CanAssignToOthers {
		return nil, ErrPermissionDenied
	}

	prev := req.Status
	req.Status = status
	req.UpdatedAt = time.Now().UTC()

	if err := e.store.UpdateRequest(ctx, req, req.Version); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("updating request status: %w", err)
	}

	e.notify(ctx, actorEmail, notifications.EventReviewStatusChanged, req.ID, notifications.NotifierGroup{
		Emails:   []string{req.Submitter},
		Template: "review_status_changed",
		TemplateData: map[string]interface{}{
			"RequestID": req.ID,
			"Status":    string(status),
		},
	})

	logging.Info("review status changed", "request_id", req.ID, "from", prev, "to", status, "actor", actor.Email)
	return req, nil
}

// Cancel ends a non-terminal request. The submitter cancels as "User
// Canceled"; anyone holding reviewer capability cancels as "RM Canceled".
func (e *Engine) Cancel(ctx context.Context, actor Actor, requestID string) (*Request, error) {
	req, err := e.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return nil, ErrConflict
	}

	actorEmail := NormalizeEmail(actor.Email)
	switch {
	case actorEmail == req.Submitter:
		req.Status = StatusUserCanceled
	case actor.Caps.CanReview:
		req.Status = StatusRMCanceled
	default:
		return nil, ErrPermissionDenied
	}
	req.UpdatedAt = time.Now().UTC()

	if err := e.store.UpdateRequest(ctx, req, req.Version); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("canceling request: %w", err)
	}

	recipients := []string{req.Submitter}
	if req.Assignee != "" {
		recipients = append(recipients, req.Assignee)
	}
	e.notify(ctx, actorEmail, notifications.EventReviewCanceled, req.ID, notifications.NotifierGroup{
		Emails:   recipients,
		Template: "review_canceled",
		TemplateData: map[string]interface{}{
			"RequestID": req.ID,
			"Status":    string(req.Status),
		},
	})

	logging.Info("review canceled", "request_id", req.ID, "status", req.Status, "actor", actor.Email)
	return req, nil
}

// ListReviewers returns every roster user holding reviewer capability.
// Senior permission required; the caller is included when applicable.
func (e *Engine) ListReviewers(ctx context.Context, actor Actor) ([]*RosterUser, error) {
	if !actor.Caps.CanAssignToOthers {
		return nil, ErrPermissionDenied
	}

	users, err := e.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing roster users: %w", err)
	}

	reviewers := make([]*RosterUser, 0, len(users))
	for _, u := range users {
		if rights.Resolve(u.Permissions).CanReview {
			reviewers = append(reviewers, u)
		}
	}
	sort.Slice(reviewers, func(i, j int) bool { return reviewers[i].Email < reviewers[j].Email })
	return reviewers, nil
}

// ListUnassigned returns the unassigned review queue. Reviewer capability
// required.
func (e *Engine) ListUnassigned(ctx context.Context, actor Actor) ([]*Request, error) {
	if !actor.Caps.CanReview {
		return nil, ErrPermissionDenied
	}
	return e.store.ListUnassigned(ctx)
}

// Get returns a single request. Visible to its submitter, its assignee,
// and anyone holding reviewer capability.
func (e *Engine) Get(ctx context.Context, actor Actor, requestID string) (*Request, error) {
	req, err := e.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	actorEmail := NormalizeEmail(actor.Email)
	if actorEmail != req.Submitter && actorEmail != req.Assignee && !actor.Caps.CanReview {
		return nil, ErrNotFound
	}
	return req, nil
}

// ListSubmitted returns the actor's own requests.
func (e *Engine) ListSubmitted(ctx context.Context, actor Actor) ([]*Request, error) {
	return e.store.ListBySubmitter(ctx, NormalizeEmail(actor.Email))
}

// ListAssigned returns requests currently assigned to the actor.
func (e *Engine) ListAssigned(ctx context.Context, actor Actor) ([]*Request, error) {
	if !actor.Caps.CanReview {
		return nil, ErrPermissionDenied
	}
	return e.store.ListByAssignee(ctx, NormalizeEmail(actor.Email))
}

// getUnassigned loads a request for an assignment transition. Absence and
// already-assigned collapse into ErrNotUnassigned on purpose.
func (e *Engine) getUnassigned(ctx context.Context, requestID string) (*Request, error) {
	req, err := e.store.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotUnassigned
		}
		return nil, fmt.Errorf("loading request: %w", err)
	}
	if !req.Unassigned() {
		// Internally distinguishable for logs, conflated for callers.
		logging.Debug("assignment attempt on non-unassigned request", "request_id", requestID, "status", req.Status, "assignee", req.Assignee)
		return nil, ErrNotUnassigned
	}
	return req, nil
}

// commitAssignment performs the conditional write for an assignment. A
// lost race surfaces as ErrNotUnassigned, same as if the request had
// never been in the queue.
func (e *Engine) commitAssignment(ctx context.Context, req *Request) error {
	if err := e.store.UpdateRequest(ctx, req, req.Version); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return ErrNotUnassigned
		}
		return fmt.Errorf("committing assignment: %w", err)
	}
	return nil
}

func (e *Engine) reviewerEmails(ctx context.Context) ([]string, error) {
	users, err := e.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	var emails []string
	for _, u := range users {
		if rights.Resolve(u.Permissions).CanReview {
			emails = append(emails, NormalizeEmail(u.Email))
		}
	}
	return emails, nil
}

func (e *Engine) notify(ctx context.Context, actor, eventType, requestID string, groups ...notifications.NotifierGroup) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(ctx, actor, eventType, requestID, groups); err != nil {
		logging.Error("notification dispatch failed", "event", eventType, "request_id", requestID, "error", err)
	}
}
