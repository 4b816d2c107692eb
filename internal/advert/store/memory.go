package store

import (
	"context"
	"sync"
	"time"

	"rehome/internal/advert/models"
	"rehome/internal/events"
	"rehome/pkg/domain"
	"rehome/pkg/platform/sentinel"
)

// InMemory is a thread-safe advertisement store for tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	adverts map[domain.AdvertisementID]*models.Advertisement
}

func NewInMemory() *InMemory {
	return &InMemory{adverts: make(map[domain.AdvertisementID]*models.Advertisement)}
}

func (s *InMemory) GetByID(_ context.Context, id domain.AdvertisementID) (*models.Advertisement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	advert, ok := s.adverts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneAdvertisement(advert), nil
}

func (s *InMemory) Insert(_ context.Context, advert *models.Advertisement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.adverts[advert.ID]; ok {
		return sentinel.ErrConflict
	}
	s.adverts[advert.ID] = cloneAdvertisement(advert)
	return nil
}

func (s *InMemory) Update(_ context.Context, advert *models.Advertisement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.adverts[advert.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.adverts[advert.ID] = cloneAdvertisement(advert)
	return nil
}

func (s *InMemory) Remove(_ context.Context, advert *models.Advertisement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.adverts[advert.ID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.adverts, advert.ID)
	return nil
}

func (s *InMemory) ListByPersonID(_ context.Context, personID domain.PersonID) ([]*models.Advertisement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Advertisement
	for _, advert := range s.adverts {
		if advert.PersonID == personID {
			out = append(out, cloneAdvertisement(advert))
		}
	}
	return out, nil
}

// ListActiveExpiringBefore returns active advertisements whose expiry deadline
// has passed at the given instant. Used by the expiry sweep.
func (s *InMemory) ListActiveExpiringBefore(_ context.Context, now time.Time) ([]*models.Advertisement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Advertisement
	for _, advert := range s.adverts {
		if advert.Status == models.StatusActive && !advert.ExpiresOn.After(now) {
			out = append(out, cloneAdvertisement(advert))
		}
	}
	return out, nil
}

func cloneAdvertisement(a *models.Advertisement) *models.Advertisement {
	c := *a
	c.Recorder = events.Recorder{}
	if a.ClosedOn != nil {
		t := *a.ClosedOn
		c.ClosedOn = &t
	}
	return &c
}
