package review

import "errors"

var (
	// ErrPermissionDenied means the actor's capability set lacks the flag
	// the attempted transition requires. Nothing was mutated.
	ErrPermissionDenied = errors.New("required permission missing")

	// ErrNotUnassigned covers both "no such request" and "request is not
	// in the unassigned queue". The two cases are deliberately conflated
	// so that losing an assignment race looks identical to probing a
	// nonexistent ID.
	ErrNotUnassigned = errors.New("not found among unassigned reviews")

	// ErrInvalidAssignee means the assignment target does not hold
	// reviewer capability. Caller input error, not a race.
	ErrInvalidAssignee = errors.New("invalid assignee")

	// ErrInvalidStatus means the status label is unknown or not reachable
	// through a reviewer status change.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidDraft means a submitted request is missing required
	// fields.
	ErrInvalidDraft = errors.New("invalid request draft")

	// ErrNotFound is a missing request or roster user.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a concurrent write beat this one; the caller may
	// re-read and retry.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrVersionConflict is returned by the store when a conditional
	// write observes a version other than the one it expected.
	ErrVersionConflict = errors.New("record version conflict")
)
