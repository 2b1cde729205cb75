package jobs

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"videomasa/internal/app/model"
)

// NewID returns a 12 hex digit job identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

type entry struct {
	mu  sync.Mutex
	job *model.Job
}

// Store is the in-memory job table. The map is guarded by an RWMutex and every
// record by its own mutex, so mutations of one job never block another.
// Jobs are never removed.
type Store struct {
	mu    sync.RWMutex
	jobs  map[string]*entry
	order []string
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*entry),
		now:  time.Now,
	}
}

// Create adds job; the id must be unused.
func (s *Store) Create(job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	s.jobs[job.ID] = &entry{job: job}
	s.order = append(s.order, job.ID)
	return nil
}

func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.jobs[id]
	return e, ok
}

// Get returns a copy of the job.
func (s *Store) Get(id string) (model.Job, error) {
	e, ok := s.lookup(id)
	if !ok {
		return model.Job{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.job.Clone(), nil
}

// Update runs fn with exclusive access to the job. The error from fn is returned
// unchanged; UpdatedAt is bumped either way.
func (s *Store) Update(id string, fn func(*model.Job) error) error {
	e, ok := s.lookup(id)
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	err := fn(e.job)
	e.job.UpdatedAt = s.now()
	return err
}

// List returns copies of all jobs in creation order.
func (s *Store) List() []model.Job {
	s.mu.RLock()
	entries := lo.Map(s.order, func(id string, _ int) *entry { return s.jobs[id] })
	s.mu.RUnlock()

	return lo.Map(entries, func(e *entry, _ int) model.Job {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.job.Clone()
	})
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
