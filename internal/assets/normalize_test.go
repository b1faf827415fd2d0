package assets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHit_ModernDocument(t *testing.T) {
	hit := searchHit{
		AssetID: "uuid-1",
		Repository: map[string]interface{}{
			"dc:format":          "image/jpeg",
			"repo:thumbnailPath": "thumbs/uuid-1.jpg",
		},
		Metadata: map[string]interface{}{
			"dc:title":                  "Summer Campaign Hero",
			"tccc:brand":                "Coca-Cola",
			"tccc:campaignName":         "Summer 2026",
			"tccc:marketCovered":        []interface{}{"US", "CA"},
			"tccc:mediaCovered":         "Digital, Print",
			"tccc:rightsProfile":        "cleared",
			"tccc:rightsExpirationDate": "2027-01-15T00:00:00Z",
		},
	}

	a := normalizeHit(hit)
	assert.Equal(t, "uuid-1", a.ID)
	assert.Equal(t, "Summer Campaign Hero", a.Title)
	assert.Equal(t, "Coca-Cola", a.Brand)
	assert.Equal(t, "Summer 2026", a.Campaign)
	assert.Equal(t, []string{"US", "CA"}, a.Markets)
	assert.Equal(t, []string{"Digital", "Print"}, a.Channels)
	assert.Equal(t, "image/jpeg", a.MimeType)
	assert.Equal(t, "cleared", a.RightsState)
	assert.Equal(t, "thumbs/uuid-1.jpg", a.ThumbnailKey)
	require.NotNil(t, a.ExpiresAt)
	assert.Equal(t, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC), *a.ExpiresAt)
}

func TestNormalizeHit_LegacyDocumentFallbacks(t *testing.T) {
	// older documents carry the id and title under repository keys and
	// use the unprefixed metadata names
	hit := searchHit{
		Repository: map[string]interface{}{
			"repo:assetId": "legacy-9",
			"repo:name":    "bottle-shot.png",
			"mimeType":     "image/png",
		},
		Metadata: map[string]interface{}{
			"brand":          "Sprite",
			"markets":        "DE",
			"expirationDate": "2026-12-01",
		},
	}

	a := normalizeHit(hit)
	assert.Equal(t, "legacy-9", a.ID)
	assert.Equal(t, "bottle-shot.png", a.Title)
	assert.Equal(t, "Sprite", a.Brand)
	assert.Equal(t, []string{"DE"}, a.Markets)
	assert.Equal(t, "image/png", a.MimeType)
	require.NotNil(t, a.ExpiresAt)
	assert.Equal(t, 2026, a.ExpiresAt.Year())
}

func TestNormalizeHit_SparseDocument(t *testing.T) {
	a := normalizeHit(searchHit{AssetID: "bare"})
	assert.Equal(t, "bare", a.ID)
	assert.Empty(t, a.Title)
	assert.Nil(t, a.Markets)
	assert.Nil(t, a.ExpiresAt)
}

func TestStringList_Encodings(t *testing.T) {
	m := map[string]interface{}{
		"array":   []interface{}{"a", "b"},
		"csv":     "x, y ,z",
		"bare":    "solo",
		"empties": []interface{}{"", ""},
		"number":  42,
	}
	assert.Equal(t, []string{"a", "b"}, stringList(m, "array"))
	assert.Equal(t, []string{"x", "y", "z"}, stringList(m, "csv"))
	assert.Equal(t, []string{"solo"}, stringList(m, "bare"))
	assert.Nil(t, stringList(m, "empties"))
	assert.Nil(t, stringList(m, "number"))
	assert.Nil(t, stringList(m, "missing"))
	// fallback chain skips keys that yield nothing
	assert.Equal(t, []string{"solo"}, stringList(m, "empties", "bare"))
}

func TestFirstString_SkipsNonStrings(t *testing.T) {
	m := map[string]interface{}{"n": 7, "s": "value", "e": ""}
	assert.Equal(t, "value", firstString(m, "n", "e", "s"))
	assert.Equal(t, "", firstString(m, "n", "e"))
}

func TestParseIndexTime(t *testing.T) {
	for _, raw := range []string{"2026-03-04T05:06:07Z", "2026-03-04", "2026-03-04T05:06:07"} {
		ts, err := parseIndexTime(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 2026, ts.Year())
	}
	_, err := parseIndexTime("next tuesday")
	assert.Error(t, err)
}
