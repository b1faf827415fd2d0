package assets

import (
	"strings"
	"time"
)

// searchHit is the raw shape returned by the index. Metadata lives in
// two loosely-typed maps whose keys have drifted across index versions,
// so every field read goes through a fallback chain.
type searchHit struct {
	AssetID    string                 `json:"assetId"`
	Repository map[string]interface{} `json:"repositoryMetadata"`
	Metadata   map[string]interface{} `json:"assetMetadata"`
}

type searchResponse struct {
	Hits  []searchHit `json:"hits"`
	Total int64       `json:"totalHits"`
}

// normalizeHit maps one raw index hit to the portal asset shape.
func normalizeHit(hit searchHit) Asset {
	a := Asset{
		ID:           hit.AssetID,
		Title:        firstString(hit.Metadata, "dc:title", "title", "dam:assetTitle"),
		Brand:        firstString(hit.Metadata, "tccc:brand", "brand"),
		Campaign:     firstString(hit.Metadata, "tccc:campaignName", "campaign"),
		MimeType:     firstString(hit.Repository, "dc:format", "mimeType", "repo:format"),
		RightsState:  firstString(hit.Metadata, "tccc:rightsProfile", "rightsStatus"),
		ThumbnailKey: firstString(hit.Repository, "repo:thumbnailPath", "thumbnailPath"),
		Markets:      stringList(hit.Metadata, "tccc:marketCovered", "markets"),
		Channels:     stringList(hit.Metadata, "tccc:mediaCovered", "channels"),
	}

	// the index stores the asset UUID under repo:assetId when the top
	// level field is absent (older documents)
	if a.ID == "" {
		a.ID = firstString(hit.Repository, "repo:assetId", "assetId")
	}
	if a.Title == "" {
		a.Title = firstString(hit.Repository, "repo:name")
	}

	if raw := firstString(hit.Metadata, "tccc:rightsExpirationDate", "expirationDate"); raw != "" {
		if ts, err := parseIndexTime(raw); err == nil {
			a.ExpiresAt = &ts
		}
	}

	return a
}

// firstString walks the keys in order and returns the first non-empty
// string value.
func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// stringList accepts the three encodings seen in the wild: a JSON array,
// a comma-separated string, and a single bare string.
func stringList(m map[string]interface{}, keys ...string) []string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case []interface{}:
			out := make([]string, 0, len(t))
			for _, item := range t {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if t == "" {
				continue
			}
			parts := strings.Split(t, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if trimmed := strings.TrimSpace(p); trimmed != "" {
					out = append(out, trimmed)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// parseIndexTime accepts the timestamp formats the index emits.
func parseIndexTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Parse(time.RFC3339, raw)
}
