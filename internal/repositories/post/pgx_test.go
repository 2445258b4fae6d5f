package post

import (
	"strings"
	"testing"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleReactionQuery(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	returning := strings.Join(columns, ", ")

	cases := []struct {
		name             string
		kind             domain.Reaction
		target, opposite string
	}{
		{"like", domain.ReactionLike, "likes", "dislikes"},
		{"dislike", domain.ReactionDislike, "dislikes", "likes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query, args, err := toggleReactionQuery("post-1", "user-1", tc.kind, now)
			require.NoError(t, err)

			want := "UPDATE posts SET " +
				tc.opposite + " = array_remove(" + tc.opposite + ", $1::uuid), " +
				tc.target + " = CASE WHEN $2::uuid = ANY(" + tc.target + ") THEN array_remove(" + tc.target +
				", $3::uuid) ELSE array_append(" + tc.target + ", $4::uuid) END, " +
				"updated_at = $5 WHERE id = $6 " +
				"RETURNING " + returning + ", $7::uuid = ANY(" + tc.target + ")"
			assert.Equal(t, want, query)
			assert.Equal(t, []interface{}{"user-1", "user-1", "user-1", "user-1", now, "post-1", "user-1"}, args)
		})
	}
}
