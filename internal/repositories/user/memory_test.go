package user

import (
	"context"
	"testing"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsers(t *testing.T, names ...string) (*Memory, []*domain.User) {
	t.Helper()
	repo := NewMemory()
	users := make([]*domain.User, 0, len(names))
	for _, name := range names {
		u, err := repo.Create(context.Background(), &domain.User{Username: name, Email: name + "@Example.com"})
		require.NoError(t, err)
		users = append(users, u)
	}
	return repo, users
}

func TestMemory_CreateDuplicateEmail(t *testing.T) {
	repo, users := newTestUsers(t, "alice")
	ctx := context.Background()

	assert.Equal(t, "alice@example.com", users[0].Email)
	_, err := repo.Create(ctx, &domain.User{Username: "other", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	got, err := repo.GetByEmail(ctx, " Alice@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, got.ID)
}

func TestMemory_SavedPostsSetSemantics(t *testing.T) {
	repo, users := newTestUsers(t, "alice", "bob")
	ctx := context.Background()

	_, err := repo.AddSavedPost(ctx, users[0].ID, "p1")
	require.NoError(t, err)
	u, err := repo.AddSavedPost(ctx, users[0].ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, u.SavedPosts)

	_, err = repo.AddSavedPost(ctx, users[1].ID, "p1")
	require.NoError(t, err)

	changed, err := repo.RemoveSavedPostEverywhere(ctx, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	u, err = repo.GetByID(ctx, users[1].ID)
	require.NoError(t, err)
	assert.Empty(t, u.SavedPosts)
}

func TestMemory_FollowAndSuggest(t *testing.T) {
	repo, users := newTestUsers(t, "alice", "bob", "carol")
	ctx := context.Background()
	alice, bob, carol := users[0], users[1], users[2]

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))

	gotBob, err := repo.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, gotBob.Followers)

	suggested, err := repo.Suggest(ctx, alice.ID, 8)
	require.NoError(t, err)
	require.Len(t, suggested, 1)
	assert.Equal(t, carol.ID, suggested[0].ID)

	require.NoError(t, repo.Unfollow(ctx, alice.ID, bob.ID))
	gotAlice, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, gotAlice.Following)

	assert.ErrorIs(t, repo.Follow(ctx, alice.ID, "missing"), ErrNotFound)
}

func TestMemory_Search(t *testing.T) {
	repo, _ := newTestUsers(t, "alice", "alina", "bob")

	found, err := repo.Search(context.Background(), "AL", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "alice", found[0].Username)

	found, err = repo.Search(context.Background(), "al", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestMemory_UpdateProfile(t *testing.T) {
	repo, users := newTestUsers(t, "alice", "bob")
	ctx := context.Background()

	bio := "hi"
	u, err := repo.UpdateProfile(ctx, users[0].ID, domain.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "hi", u.Bio)
	assert.Equal(t, "alice", u.Username)

	taken := "bob@example.com"
	_, err = repo.UpdateProfile(ctx, users[0].ID, domain.ProfileUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}
