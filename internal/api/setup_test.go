package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/koassets/rights-backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

type serverMocks struct {
	reviews    *testutil.MockReviewService
	authFlow   *testutil.MockAuthFlow
	mailer     *testutil.MockLoginMailer
	notifs     *testutil.MockNotificationService
	search     *testutil.MockSearchService
	renditions *testutil.MockRenditionService
	pingErr    error
}

func newTestServer(t *testing.T) (*Server, *serverMocks) {
	t.Helper()
	mocks := &serverMocks{
		reviews:    testutil.NewMockReviewService(t),
		authFlow:   testutil.NewMockAuthFlow(t),
		mailer:     testutil.NewMockLoginMailer(t),
		notifs:     testutil.NewMockNotificationService(t),
		search:     testutil.NewMockSearchService(t),
		renditions: testutil.NewMockRenditionService(t),
	}
	server := NewServer(
		mocks.reviews,
		mocks.authFlow,
		mocks.mailer,
		mocks.notifs,
		mocks.search,
		mocks.renditions,
		testutil.PingerFunc(func(ctx context.Context) error { return mocks.pingErr }),
	)
	return server, mocks
}

// doRequest routes a request through the full mux so URL params resolve.
// ctxFn installs the authenticated user; nil means anonymous.
func doRequest(t *testing.T, server *Server, method, target string, body interface{}, ctxFn func(context.Context) context.Context) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest(method, target, &reqBody)
	if ctxFn != nil {
		req = req.WithContext(ctxFn(req.Context()))
	}

	router := chi.NewRouter()
	server.Routes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) Error {
	t.Helper()
	var envelope Error
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

func asUser(email string, permissions ...string) func(context.Context) context.Context {
	return func(ctx context.Context) context.Context {
		return testutil.ContextWithUser(ctx, email, permissions...)
	}
}
