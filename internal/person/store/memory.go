package store

import (
	"context"
	"sync"

	"rehome/internal/events"
	"rehome/internal/person/models"
	"rehome/pkg/domain"
	"rehome/pkg/platform/sentinel"
)

// InMemory keeps person aggregates in a map. It deep-copies on every read
// and write so callers always work on a private snapshot: a command that
// fails halfway never leaks partial mutations into the store, which is what
// makes multi-step operations observably atomic against this store.
type InMemory struct {
	mu      sync.RWMutex
	persons map[domain.PersonID]*models.Person
}

func NewInMemory() *InMemory {
	return &InMemory{persons: make(map[domain.PersonID]*models.Person)}
}

func (s *InMemory) GetByID(_ context.Context, id domain.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.persons[id]; ok {
		return clonePerson(p), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) GetByIdentityID(_ context.Context, identityID string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.persons {
		if p.IdentityID == identityID {
			return clonePerson(p), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Insert(_ context.Context, person *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[person.ID]; ok {
		return sentinel.ErrConflict
	}
	for _, p := range s.persons {
		if p.IdentityID == person.IdentityID {
			return sentinel.ErrConflict
		}
	}
	s.persons[person.ID] = clonePerson(person)
	return nil
}

func (s *InMemory) Update(_ context.Context, person *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[person.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.persons[person.ID] = clonePerson(person)
	return nil
}

func (s *InMemory) Remove(_ context.Context, person *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[person.ID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.persons, person.ID)
	return nil
}

// clonePerson copies the aggregate deeply enough that no mutable state is
// shared. Pending domain events are deliberately not copied; events belong
// to the in-flight command, not to the stored snapshot.
func clonePerson(p *models.Person) *models.Person {
	cp := *p
	cp.Recorder = events.Recorder{}
	cp.Cats = make([]*models.Cat, len(p.Cats))
	for i, c := range p.Cats {
		cc := *c
		if c.AdvertisementID != nil {
			id := *c.AdvertisementID
			cc.AdvertisementID = &id
		}
		cp.Cats[i] = &cc
	}
	cp.AdvertisementIDs = append([]domain.AdvertisementID(nil), p.AdvertisementIDs...)
	return &cp
}
