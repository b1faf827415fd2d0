package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/koassets/rights-backend/internal/logging"
	"github.com/koassets/rights-backend/internal/queue"
)

const presignedURLTTL = 15 * time.Minute

// ErrInvalidRendition marks a rendition reference that cannot map to an
// object key, as opposed to storage failures while presigning.
var ErrInvalidRendition = errors.New("invalid rendition reference")

// ObjectPresigner is the slice of the S3 service the rendition layer needs.
type ObjectPresigner interface {
	GeneratePresignedGetURL(ctx context.Context, key string, duration time.Duration) (string, error)
}

// TaskEnqueuer is the slice of the task queue the rendition layer needs.
type TaskEnqueuer interface {
	Enqueue(taskType string, data interface{}) (*asynq.TaskInfo, error)
}

// RenditionService hands out short-lived download URLs for asset
// renditions and schedules thumbnail generation for originals that do
// not have one yet.
type RenditionService struct {
	storage ObjectPresigner
	queue   TaskEnqueuer
}

func NewRenditionService(storage ObjectPresigner, taskQueue TaskEnqueuer) *RenditionService {
	return &RenditionService{
		storage: storage,
		queue:   taskQueue,
	}
}

// DownloadURL returns a presigned GET URL for the named rendition of an
// asset. Rendition keys follow the layout written by the worker:
// originals at assets/<id>/<rendition>, thumbnails at thumbs/<id>.jpg.
func (s *RenditionService) DownloadURL(ctx context.Context, assetID, rendition string) (string, error) {
	key, err := renditionKey(assetID, rendition)
	if err != nil {
		return "", err
	}

	url, err := s.storage.GeneratePresignedGetURL(ctx, key, presignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presigning rendition %s for asset %s: %w", rendition, assetID, err)
	}
	return url, nil
}

// RequestThumbnail enqueues thumbnail generation from an asset rendition.
// Enqueue failures are reported to the caller; the task is retried by
// the queue once accepted.
func (s *RenditionService) RequestThumbnail(assetID, rendition string) error {
	if _, err := renditionKey(assetID, rendition); err != nil {
		return err
	}
	if rendition == "thumbnail" {
		return fmt.Errorf("%w: cannot render a thumbnail from itself", ErrInvalidRendition)
	}
	if rendition == "" {
		rendition = "original"
	}

	_, err := s.queue.Enqueue(queue.TypeThumbnailRender, queue.ThumbnailRenderPayload{
		AssetID:   assetID,
		Rendition: rendition,
	})
	if err != nil {
		return fmt.Errorf("enqueueing thumbnail task for asset %s: %w", assetID, err)
	}

	logging.Debug("thumbnail task enqueued", "assetID", assetID, "rendition", rendition)
	return nil
}

func renditionKey(assetID, rendition string) (string, error) {
	if assetID == "" || strings.ContainsAny(assetID, "/ ") {
		return "", fmt.Errorf("%w: bad asset id %q", ErrInvalidRendition, assetID)
	}
	switch rendition {
	case "", "original":
		return fmt.Sprintf("assets/%s/original", assetID), nil
	case "thumbnail":
		return fmt.Sprintf("thumbs/%s.jpg", assetID), nil
	default:
		if strings.ContainsAny(rendition, "/ ") {
			return "", fmt.Errorf("%w: bad rendition %q", ErrInvalidRendition, rendition)
		}
		return fmt.Sprintf("assets/%s/%s", assetID, rendition), nil
	}
}
