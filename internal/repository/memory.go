package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/dharsanguruparan/SchoolHub/internal/model"
)

// MemoryRepository keeps schools in a map guarded by an RWMutex. It backs the
// "memory" driver and the HTTP tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	schools map[int64]model.School
}

// NewMemoryRepository constructs a MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		schools: make(map[int64]model.School),
	}
}

// Create assigns the next id and stores a copy of the record.
func (m *MemoryRepository) Create(_ context.Context, school *model.School) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	school.ID = m.nextID
	m.schools[school.ID] = copySchool(*school)
	return nil
}

// List returns copies of every record ordered by id.
func (m *MemoryRepository) List(_ context.Context) ([]model.School, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.School, 0, len(m.schools))
	for _, s := range m.schools {
		out = append(out, copySchool(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns a record copy.
func (m *MemoryRepository) Get(_ context.Context, id int64) (*model.School, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.schools[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := copySchool(s)
	return &c, nil
}

// Delete removes a record and returns it.
func (m *MemoryRepository) Delete(_ context.Context, id int64) (*model.School, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schools[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.schools, id)
	return &s, nil
}

// copySchool detaches the Image pointer so callers cannot mutate stored state.
func copySchool(s model.School) model.School {
	if s.Image != nil {
		ref := *s.Image
		s.Image = &ref
	}
	return s
}
