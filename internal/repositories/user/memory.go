package user

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/google/uuid"
)

type Memory struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]*domain.User)}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range m.users {
		if u.Email == email {
			return nil, ErrAlreadyExists
		}
	}

	stored := cloneUser(user)
	stored.ID = uuid.NewString()
	stored.Email = email
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.SavedPosts = []string{}
	stored.Followers = []string{}
	stored.Following = []string{}
	m.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetSummaries(_ context.Context, ids []string) (map[string]domain.UserSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make(map[string]domain.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			summaries[id] = cloneUser(u).Summary()
		}
	}
	return summaries, nil
}

func (m *Memory) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Email != nil {
		email := strings.ToLower(*update.Email)
		for otherID, other := range m.users {
			if otherID != id && other.Email == email {
				return nil, ErrAlreadyExists
			}
		}
		u.Email = email
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (m *Memory) AddSavedPost(_ context.Context, userID, postID string) (*domain.User, error) {
	return m.mutate(userID, func(u *domain.User) { u.SavedPosts = add(u.SavedPosts, postID) })
}

func (m *Memory) RemoveSavedPost(_ context.Context, userID, postID string) (*domain.User, error) {
	return m.mutate(userID, func(u *domain.User) { u.SavedPosts = remove(u.SavedPosts, postID) })
}

func (m *Memory) RemoveSavedPostEverywhere(_ context.Context, postID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var changed int64
	for _, u := range m.users {
		if slices.Contains(u.SavedPosts, postID) {
			u.SavedPosts = remove(u.SavedPosts, postID)
			changed++
		}
	}
	return changed, nil
}

func (m *Memory) Follow(_ context.Context, followerID, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	follower, target, err := m.pair(followerID, targetID)
	if err != nil {
		return err
	}
	target.Followers = add(target.Followers, followerID)
	follower.Following = add(follower.Following, targetID)
	return nil
}

func (m *Memory) Unfollow(_ context.Context, followerID, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	follower, target, err := m.pair(followerID, targetID)
	if err != nil {
		return err
	}
	target.Followers = remove(target.Followers, followerID)
	follower.Following = remove(follower.Following, targetID)
	return nil
}

func (m *Memory) Search(_ context.Context, query string, limit int) ([]*domain.User, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return m.collect(limit, func(u *domain.User) bool {
		return strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(u.Email, q)
	}, func(a, b *domain.User) bool { return a.Username < b.Username }), nil
}

func (m *Memory) Suggest(_ context.Context, userID string, limit int) ([]*domain.User, error) {
	m.mu.RLock()
	me, ok := m.users[userID]
	var following []string
	if ok {
		following = slices.Clone(me.Following)
	}
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	return m.collect(limit, func(u *domain.User) bool {
		return u.ID != userID && !slices.Contains(following, u.ID)
	}, func(a, b *domain.User) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func (m *Memory) collect(limit int, keep func(*domain.User) bool, less func(a, b *domain.User) bool) []*domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*domain.User{}
	for _, u := range m.users {
		if keep(u) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *Memory) mutate(userID string, fn func(*domain.User)) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (m *Memory) pair(followerID, targetID string) (*domain.User, *domain.User, error) {
	follower, ok := m.users[followerID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	target, ok := m.users[targetID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return follower, target, nil
}

func add(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func remove(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}

func cloneUser(u *domain.User) *domain.User {
	out := *u
	out.SavedPosts = slices.Clone(u.SavedPosts)
	out.Followers = slices.Clone(u.Followers)
	out.Following = slices.Clone(u.Following)
	normalize(&out)
	return &out
}
