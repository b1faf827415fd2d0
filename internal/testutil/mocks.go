package testutil

import (
	"context"
	"testing"

	"github.com/koassets/rights-backend/internal/assets"
	"github.com/koassets/rights-backend/internal/notifications"
	"github.com/koassets/rights-backend/internal/review"
	"github.com/stretchr/testify/mock"
)

// MockReviewService is a mock implementation of the review engine surface
type MockReviewService struct {
	mock.Mock
}

func NewMockReviewService(t *testing.T) *MockReviewService {
	m := &MockReviewService{}
	m.Test(t)
	return m
}

func requestResult(args mock.Arguments) (*review.Request, error) {
	var req *review.Request
	if v := args.Get(0); v != nil {
		req = v.(*review.Request)
	}
	return req, args.Error(1)
}

func (m *MockReviewService) Submit(ctx context.Context, submitter string, draft review.Draft) (*review.Request, error) {
	return requestResult(m.Called(ctx, submitter, draft))
}

func (m *MockReviewService) Get(ctx context.Context, actor review.Actor, requestID string) (*review.Request, error) {
	return requestResult(m.Called(ctx, actor, requestID))
}

func (m *MockReviewService) ListSubmitted(ctx context.Context, actor review.Actor) ([]*review.Request, error) {
	args := m.Called(ctx, actor)
	var list []*review.Request
	if v := args.Get(0); v != nil {
		list = v.([]*review.Request)
	}
	return list, args.Error(1)
}

func (m *MockReviewService) ListAssigned(ctx context.Context, actor review.Actor) ([]*review.Request, error) {
	args := m.Called(ctx, actor)
	var list []*review.Request
	if v := args.Get(0); v != nil {
		list = v.([]*review.Request)
	}
	return list, args.Error(1)
}

func (m *MockReviewService) ListUnassigned(ctx context.Context, actor review.Actor) ([]*review.Request, error) {
	args := m.Called(ctx, actor)
	var list []*review.Request
	if v := args.Get(0); v != nil {
		list = v.([]*review.Request)
	}
	return list, args.Error(1)
}

func (m *MockReviewService) SelfAssign(ctx context.Context, actor review.Actor, requestID string) (*review.Request, error) {
	return requestResult(m.Called(ctx, actor, requestID))
}

func (m *MockReviewService) Assign(ctx context.Context, actor review.Actor, requestID, assignee string) (*review.Request, error) {
	return requestResult(m.Called(ctx, actor, requestID, assignee))
}

func (m *MockReviewService) ChangeStatus(ctx context.Context, actor review.Actor, requestID string, status review.Status) (*review.Request, error) {
	return requestResult(m.Called(ctx, actor, requestID, status))
}

func (m *MockReviewService) Cancel(ctx context.Context, actor review.Actor, requestID string) (*review.Request, error) {
	return requestResult(m.Called(ctx, actor, requestID))
}

func (m *MockReviewService) ListReviewers(ctx context.Context, actor review.Actor) ([]*review.RosterUser, error) {
	args := m.Called(ctx, actor)
	var list []*review.RosterUser
	if v := args.Get(0); v != nil {
		list = v.([]*review.RosterUser)
	}
	return list, args.Error(1)
}

// MockAuthFlow is a mock implementation of the passwordless login flow
type MockAuthFlow struct {
	mock.Mock
}

func NewMockAuthFlow(t *testing.T) *MockAuthFlow {
	m := &MockAuthFlow{}
	m.Test(t)
	return m
}

func (m *MockAuthFlow) RequestOTP(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthFlow) VerifyOTP(ctx context.Context, email, code string) (string, string, error) {
	args := m.Called(ctx, email, code)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthFlow) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthFlow) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

// MockLoginMailer records login code deliveries
type MockLoginMailer struct {
	mock.Mock
}

func NewMockLoginMailer(t *testing.T) *MockLoginMailer {
	m := &MockLoginMailer{}
	m.Test(t)
	return m
}

func (m *MockLoginMailer) SendLoginCode(email, code string) error {
	return m.Called(email, code).Error(0)
}

// MockNotificationService is a mock implementation of the inbox surface
type MockNotificationService struct {
	mock.Mock
}

func NewMockNotificationService(t *testing.T) *MockNotificationService {
	m := &MockNotificationService{}
	m.Test(t)
	return m
}

func (m *MockNotificationService) GetUserNotifications(ctx context.Context, email string, limit, offset int64) ([]notifications.Notification, error) {
	args := m.Called(ctx, email, limit, offset)
	var list []notifications.Notification
	if v := args.Get(0); v != nil {
		list = v.([]notifications.Notification)
	}
	return list, args.Error(1)
}

func (m *MockNotificationService) GetTotalCount(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) GetUnreadCount(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, email, notificationID string) (notifications.Notification, error) {
	args := m.Called(ctx, email, notificationID)
	return args.Get(0).(notifications.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// MockSearchService is a mock implementation of the asset search surface
type MockSearchService struct {
	mock.Mock
}

func NewMockSearchService(t *testing.T) *MockSearchService {
	m := &MockSearchService{}
	m.Test(t)
	return m
}

func (m *MockSearchService) Search(ctx context.Context, query string, limit, offset int64) (*assets.SearchResult, error) {
	args := m.Called(ctx, query, limit, offset)
	var result *assets.SearchResult
	if v := args.Get(0); v != nil {
		result = v.(*assets.SearchResult)
	}
	return result, args.Error(1)
}

// MockRenditionService is a mock implementation of the rendition surface
type MockRenditionService struct {
	mock.Mock
}

func NewMockRenditionService(t *testing.T) *MockRenditionService {
	m := &MockRenditionService{}
	m.Test(t)
	return m
}

func (m *MockRenditionService) DownloadURL(ctx context.Context, assetID, rendition string) (string, error) {
	args := m.Called(ctx, assetID, rendition)
	return args.String(0), args.Error(1)
}

func (m *MockRenditionService) RequestThumbnail(assetID, rendition string) error {
	args := m.Called(assetID, rendition)
	return args.Error(0)
}

// PingerFunc adapts a function to the readiness probe surface.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}
