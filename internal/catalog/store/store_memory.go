package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"solidario/internal/catalog/models"
	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"
)

// InMemoryStore is a map-backed Store for tests and local development.
type InMemoryStore struct {
	mu            sync.RWMutex
	programs      map[id.ProgramID]*models.Program
	benefits      map[id.BenefitID]*models.Benefit
	nextProgramID id.ProgramID
	nextBenefitID id.BenefitID
}

// NewInMemoryStore creates an empty in-memory catalog store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		programs:      make(map[id.ProgramID]*models.Program),
		benefits:      make(map[id.BenefitID]*models.Benefit),
		nextProgramID: 1,
		nextBenefitID: 1,
	}
}

func (s *InMemoryStore) ListPrograms(_ context.Context, activeOnly bool) ([]*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Program, 0, len(s.programs))
	for _, p := range s.programs {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, s.assemble(p, activeOnly))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *InMemoryStore) FindProgram(_ context.Context, programID id.ProgramID) (*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.programs[programID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.assemble(p, false), nil
}

func (s *InMemoryStore) FindBenefit(_ context.Context, benefitID id.BenefitID) (*models.Benefit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.benefits[benefitID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *InMemoryStore) CreateProgram(_ context.Context, program *models.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	program.ID = s.nextProgramID
	s.nextProgramID++
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	clone := *program
	clone.Benefits = nil
	s.programs[program.ID] = &clone
	return nil
}

func (s *InMemoryStore) UpdateProgram(_ context.Context, program *models.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.programs[program.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	existing.Name = program.Name
	existing.Active = program.Active
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) CreateBenefit(_ context.Context, benefit *models.Benefit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.programs[benefit.ProgramID]; !ok {
		return sentinel.ErrNotFound
	}
	benefit.ID = s.nextBenefitID
	s.nextBenefitID++

	clone := *benefit
	s.benefits[benefit.ID] = &clone
	return nil
}

func (s *InMemoryStore) UpdateBenefit(_ context.Context, benefit *models.Benefit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.benefits[benefit.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	existing.ShortName = benefit.ShortName
	existing.Active = benefit.Active
	return nil
}

// Clear removes all programs and benefits.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs = make(map[id.ProgramID]*models.Program)
	s.benefits = make(map[id.BenefitID]*models.Benefit)
	s.nextProgramID = 1
	s.nextBenefitID = 1
}

// assemble clones a program and attaches its benefits. Callers must hold the
// read lock.
func (s *InMemoryStore) assemble(p *models.Program, activeOnly bool) *models.Program {
	clone := *p
	clone.Benefits = make([]models.Benefit, 0)
	for _, b := range s.benefits {
		if b.ProgramID != p.ID {
			continue
		}
		if activeOnly && !b.Active {
			continue
		}
		clone.Benefits = append(clone.Benefits, *b)
	}
	sort.Slice(clone.Benefits, func(i, j int) bool { return clone.Benefits[i].Code < clone.Benefits[j].Code })
	return &clone
}
