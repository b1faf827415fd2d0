package review

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle status label of a rights request. The textual
// labels are a stable contract for downstream reporting ("reviewer"
// terminology, never the legacy "manager" wording).
type Status string

const (
	StatusNotStarted     Status = "Not Started"
	StatusInProgress     Status = "In Progress"
	StatusQuotePending   Status = "Quote Pending"
	StatusReleasePending Status = "Release Pending"
	StatusDone           Status = "Done"
	StatusUserCanceled   Status = "User Canceled"
	StatusRMCanceled     Status = "RM Canceled"
)

// Terminal reports whether the status ends the request lifecycle.
// Terminal requests are retained for reporting, never hard-deleted.
func (s Status) Terminal() bool {
	switch s {
	case StatusDone, StatusUserCanceled, StatusRMCanceled:
		return true
	}
	return false
}

// reviewerAssignable lists the statuses a reviewer may move an assigned
// request to. The cancel labels are reachable only through Cancel.
var reviewerAssignable = map[Status]bool{
	StatusNotStarted:     true,
	StatusInProgress:     true,
	StatusQuotePending:   true,
	StatusReleasePending: true,
	StatusDone:           true,
}

// ParseStatus validates a status label sent by a caller.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !reviewerAssignable[st] && !st.Terminal() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Request is a rights-clearance request for one or more assets in
// specific markets and channels.
type Request struct {
	ID        string    `json:"id"`
	Submitter string    `json:"submitter"`
	Status    Status    `json:"status"`
	Assignee  string    `json:"assignee,omitempty"` // empty means unassigned
	AssetIDs  []string  `json:"assetIds"`
	Markets   []string  `json:"markets,omitempty"`
	Channels  []string  `json:"channels,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Version is the optimistic-concurrency token for conditional writes.
	Version int64 `json:"version"`
}

// Unassigned reports whether the request sits in the unassigned review
// queue. Terminal requests never do, whatever their assignee field says.
func (r *Request) Unassigned() bool {
	return r.Assignee == "" && !r.Status.Terminal()
}

// Assigned reports whether the request has an active reviewer.
func (r *Request) Assigned() bool {
	return r.Assignee != "" && !r.Status.Terminal()
}

// RosterUser is a configured portal account: an email identity plus its
// permission tokens. Emails are compared case-insensitively.
type RosterUser struct {
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// NormalizeEmail lowercases an email for use as an identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
