package post

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/google/uuid"
)

// Memory is a process-local Repository used for development and tests.
type Memory struct {
	mu    sync.RWMutex
	posts map[string]*record
	seq   int64
}

type record struct {
	post domain.Post
	seq  int64
}

func NewMemory() *Memory {
	return &Memory{posts: make(map[string]*record)}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := clonePost(post)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if _, ok := m.posts[stored.ID]; ok {
		return nil, ErrAlreadyExists
	}
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Likes = []string{}
	stored.Dislikes = []string{}
	stored.Comments = []string{}
	stored.Normalize()

	m.seq++
	m.posts[stored.ID] = &record{post: stored, seq: m.seq}
	out := clonePost(&stored)
	return &out, nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clonePost(&rec.post)
	return &out, nil
}

func (m *Memory) List(_ context.Context) ([]*domain.Post, error) {
	return m.filter(func(*domain.Post) bool { return true }), nil
}

func (m *Memory) ListByOwner(_ context.Context, ownerID string) ([]*domain.Post, error) {
	return m.filter(func(p *domain.Post) bool { return p.OwnerID == ownerID }), nil
}

func (m *Memory) filter(keep func(*domain.Post) bool) []*domain.Post {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]*record, 0, len(m.posts))
	for _, rec := range m.posts {
		if keep(&rec.post) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].post.CreatedAt.Equal(recs[j].post.CreatedAt) {
			return recs[i].post.CreatedAt.After(recs[j].post.CreatedAt)
		}
		return recs[i].seq > recs[j].seq
	})

	out := make([]*domain.Post, 0, len(recs))
	for _, rec := range recs {
		p := clonePost(&rec.post)
		out = append(out, &p)
	}
	return out
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *Memory) ToggleReaction(_ context.Context, postID, userID string, kind domain.Reaction) (*domain.Post, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.posts[postID]
	if !ok {
		return nil, false, ErrNotFound
	}

	target, opposite := &rec.post.Likes, &rec.post.Dislikes
	if kind == domain.ReactionDislike {
		target, opposite = &rec.post.Dislikes, &rec.post.Likes
	}

	*opposite = remove(*opposite, userID)
	added := !slices.Contains(*target, userID)
	if added {
		*target = append(*target, userID)
	} else {
		*target = remove(*target, userID)
	}
	rec.post.UpdatedAt = time.Now().UTC()

	out := clonePost(&rec.post)
	return &out, added, nil
}

func (m *Memory) PushComment(_ context.Context, postID, commentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.posts[postID]
	if !ok {
		return ErrNotFound
	}
	rec.post.Comments = append(rec.post.Comments, commentID)
	rec.post.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) PullComment(_ context.Context, postID, commentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.posts[postID]
	if !ok {
		return ErrNotFound
	}
	rec.post.Comments = remove(rec.post.Comments, commentID)
	rec.post.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) CommentRefs(_ context.Context) (map[string][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	refs := make(map[string][]string)
	for id, rec := range m.posts {
		if len(rec.post.Comments) > 0 {
			refs[id] = slices.Clone(rec.post.Comments)
		}
	}
	return refs, nil
}

func remove(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}

func clonePost(p *domain.Post) domain.Post {
	out := *p
	out.Tags = slices.Clone(p.Tags)
	out.Likes = slices.Clone(p.Likes)
	out.Dislikes = slices.Clone(p.Dislikes)
	out.Comments = slices.Clone(p.Comments)
	out.Normalize()
	return out
}
