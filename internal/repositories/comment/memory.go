package comment

import (
	"context"
	"sync"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/google/uuid"
)

type Memory struct {
	mu       sync.RWMutex
	comments map[string]domain.Comment
}

func NewMemory() *Memory {
	return &Memory{comments: make(map[string]domain.Comment)}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) Create(_ context.Context, comment *domain.Comment) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *comment
	stored.ID = uuid.NewString()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.comments[stored.ID] = stored
	return &stored, nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) GetByIDs(_ context.Context, ids []string) ([]*domain.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.comments[id]; ok {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *Memory) UpdateContent(_ context.Context, id, content string) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = time.Now().UTC()
	m.comments[id] = c
	return &c, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *Memory) ExistingIDs(_ context.Context, ids []string) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	existing := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := m.comments[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}
