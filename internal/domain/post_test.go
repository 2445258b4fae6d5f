package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_MediaKeysOnlyWhenSet(t *testing.T) {
	cases := []struct {
		name          string
		post          Post
		wantMedia     bool
		wantThumbnail bool
	}{
		{"text", Post{ID: "p1", Type: PostTypeText}, false, false},
		{"image", Post{ID: "p2", Type: PostTypeImage, MediaURL: "https://cdn/i.png"}, true, false},
		{"video", Post{ID: "p3", Type: PostTypeVideo, MediaURL: "https://cdn/v.mp4", ThumbnailURL: "https://cdn/t.jpg"}, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(PostWithOwner{Post: &tc.post})
			require.NoError(t, err)

			var out map[string]any
			require.NoError(t, json.Unmarshal(raw, &out))
			_, hasMedia := out["mediaUrl"]
			_, hasThumb := out["thumbnailUrl"]
			assert.Equal(t, tc.wantMedia, hasMedia)
			assert.Equal(t, tc.wantThumbnail, hasThumb)
			assert.NotContains(t, out, "mediaAssetId")
		})
	}
}
