// Package assets fronts the third-party search index and the rendition
// bucket: it normalizes the index's metadata shape into the portal shape
// and hands out presigned rendition downloads.
package assets

import "time"

// Asset is the portal-facing shape of a marketing asset.
type Asset struct {
	ID           string     `json:"assetId"`
	Title        string     `json:"title"`
	Brand        string     `json:"brand,omitempty"`
	Campaign     string     `json:"campaign,omitempty"`
	Markets      []string   `json:"markets,omitempty"`
	Channels     []string   `json:"channels,omitempty"`
	MimeType     string     `json:"mimeType,omitempty"`
	RightsState  string     `json:"rightsState,omitempty"`
	ThumbnailKey string     `json:"thumbnailKey,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// SearchResult is one page of normalized hits.
type SearchResult struct {
	Assets []Asset `json:"assets"`
	Total  int64   `json:"total"`
}
