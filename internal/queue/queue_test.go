package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/koassets/rights-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailSender struct {
	sent []string
	err  error
}

func (f *fakeEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeRenderer struct {
	rendered []string
}

func (f *fakeRenderer) RenderThumbnail(_ context.Context, assetID, rendition string) error {
	f.rendered = append(f.rendered, assetID+"/"+rendition)
	return nil
}

func newTestWorker(t *testing.T) (*Worker, *fakeEmailSender, *fakeRenderer) {
	t.Helper()
	email := &fakeEmailSender{}
	renderer := &fakeRenderer{}
	// the server only connects on Start, handlers are testable offline
	worker := NewWorker(&config.RedisConfig{Addr: "localhost:6379"}, email, renderer)
	return worker, email, renderer
}

func emailTask(t *testing.T, p EmailDeliveryPayload) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(TypeEmailDelivery, payload)
}

func TestHandleEmailDelivery(t *testing.T) {
	worker, email, _ := newTestWorker(t)

	task := emailTask(t, EmailDeliveryPayload{To: "ana@ko.com", Subject: "s", Body: "b"})
	require.NoError(t, worker.HandleEmailDelivery(context.Background(), task))
	assert.Equal(t, []string{"ana@ko.com"}, email.sent)
}

func TestHandleEmailDelivery_SendFailureRetries(t *testing.T) {
	worker, email, _ := newTestWorker(t)
	email.err = errors.New("ses throttled")

	task := emailTask(t, EmailDeliveryPayload{To: "ana@ko.com"})
	err := worker.HandleEmailDelivery(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleEmailDelivery_BadPayloadSkipsRetry(t *testing.T) {
	worker, _, _ := newTestWorker(t)

	task := asynq.NewTask(TypeEmailDelivery, []byte("not json"))
	err := worker.HandleEmailDelivery(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleThumbnailRender(t *testing.T) {
	worker, _, renderer := newTestWorker(t)

	payload, err := json.Marshal(ThumbnailRenderPayload{AssetID: "a1", Rendition: "original"})
	require.NoError(t, err)

	task := asynq.NewTask(TypeThumbnailRender, payload)
	require.NoError(t, worker.HandleThumbnailRender(context.Background(), task))
	assert.Equal(t, []string{"a1/original"}, renderer.rendered)
}
