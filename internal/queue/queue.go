package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/koassets/rights-backend/internal/config"
	"github.com/koassets/rights-backend/internal/logging"
)

type TaskQueue struct {
	client *asynq.Client
}

func NewQueue(cfg *config.RedisConfig) (*TaskQueue, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Activate and test the connection
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis queue: %w", err)
	}

	logging.Info("Connected to Redis task queue")

	return &TaskQueue{client: client}, nil
}

func (q *TaskQueue) Enqueue(taskType string, data interface{}) (*asynq.TaskInfo, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	task := asynq.NewTask(taskType, payload)

	return q.client.Enqueue(task)
}

func (q *TaskQueue) Close() error {
	return q.client.Close()
}

const (
	TypeEmailDelivery   = "email:delivery"
	TypeThumbnailRender = "asset:thumbnail"
)

type EmailDeliveryPayload struct {
	To      string
	Subject string
	Body    string
}

type ThumbnailRenderPayload struct {
	AssetID   string
	Rendition string
}

// EmailSender delivers a rendered notification email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ThumbnailRenderer produces the thumbnail for a stored rendition.
type ThumbnailRenderer interface {
	RenderThumbnail(ctx context.Context, assetID, rendition string) error
}

type Worker struct {
	server     *asynq.Server
	email      EmailSender
	thumbnails ThumbnailRenderer
}

func NewWorker(cfg *config.RedisConfig, email EmailSender, thumbnails ThumbnailRenderer) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logging.Error("process task failed", "type", task.Type(), "payload", string(task.Payload()), "error", err)
			}),
		},
	)

	return &Worker{
		server:     server,
		email:      email,
		thumbnails: thumbnails,
	}
}

func (w *Worker) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, w.HandleEmailDelivery)
	mux.HandleFunc(TypeThumbnailRender, w.HandleThumbnailRender)
	return mux
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	return w.server.Start(w.mux())
}

// Run blocks until the worker is signaled to stop.
func (w *Worker) Run() error {
	return w.server.Run(w.mux())
}

func (w *Worker) Close() {
	if w.server != nil {
		w.server.Shutdown()
	}
}

func (w *Worker) HandleEmailDelivery(ctx context.Context, t *asynq.Task) error {
	var p EmailDeliveryPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	logging.Info("Sending email", "to", p.To, "subject", p.Subject)
	if err := w.email.SendEmail(ctx, p.To, p.Subject, p.Body); err != nil {
		return fmt.Errorf("email.SendEmail failed: %w", err)
	}

	return nil
}

func (w *Worker) HandleThumbnailRender(ctx context.Context, t *asynq.Task) error {
	var p ThumbnailRenderPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	logging.Info("Rendering thumbnail", "asset_id", p.AssetID, "rendition", p.Rendition)
	if err := w.thumbnails.RenderThumbnail(ctx, p.AssetID, p.Rendition); err != nil {
		return fmt.Errorf("thumbnails.RenderThumbnail failed: %w", err)
	}

	return nil
}
