package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/koassets/rights-backend/internal/logging"
)

const (
	MaxFileSize   = 25 * 1024 * 1024 // 25MB
	ThumbnailSize = 300
)

// RenditionStorage is the slice of the S3 service the processor needs.
type RenditionStorage interface {
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, key string, body io.Reader, contentType string) error
}

// Processor renders asset thumbnails from stored originals. It is
// driven by the task worker, never by request handlers.
type Processor struct {
	storage RenditionStorage
}

func NewProcessor(storage RenditionStorage) *Processor {
	return &Processor{storage: storage}
}

// RenderThumbnail fetches the named rendition of an asset, generates a
// 300x300 center-cropped jpeg thumbnail and writes it back under the
// thumbs/ prefix.
func (p *Processor) RenderThumbnail(ctx context.Context, assetID, rendition string) error {
	if rendition == "" {
		rendition = "original"
	}
	sourceKey := fmt.Sprintf("assets/%s/%s", assetID, rendition)

	start := time.Now()
	body, err := p.storage.GetObject(ctx, sourceKey)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", sourceKey, err)
	}
	defer body.Close()

	thumb, err := Thumbnail(io.LimitReader(body, MaxFileSize+1))
	if err != nil {
		return fmt.Errorf("rendering thumbnail for %s: %w", sourceKey, err)
	}

	thumbKey := fmt.Sprintf("thumbs/%s.jpg", assetID)
	if err := p.storage.PutObject(ctx, thumbKey, bytes.NewReader(thumb), "image/jpeg"); err != nil {
		return fmt.Errorf("storing %s: %w", thumbKey, err)
	}

	logging.Debug("thumbnail rendered", "assetID", assetID, "key", thumbKey, "duration", time.Since(start))
	return nil
}

// Thumbnail decodes a jpeg/png original and returns a 300x300
// center-cropped jpeg.
func Thumbnail(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("image exceeds maximum %d bytes", MaxFileSize)
	}

	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return nil, fmt.Errorf("invalid file type %q: only jpeg and png are allowed", contentType)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fill(img, ThumbnailSize, ThumbnailSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
