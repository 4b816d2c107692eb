package thumbnail

import (
	"context"
	"sync"

	"rehome/pkg/domain"
	"rehome/pkg/platform/sentinel"
)

// InMemory is a thumbnail store for tests and local runs.
type InMemory struct {
	mu     sync.RWMutex
	images map[domain.AdvertisementID]Image
}

func NewInMemory() *InMemory {
	return &InMemory{images: make(map[domain.AdvertisementID]Image)}
}

func (s *InMemory) Put(_ context.Context, id domain.AdvertisementID, img Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make([]byte, len(img.Data))
	copy(data, img.Data)
	s.images[id] = Image{ContentType: img.ContentType, Data: data}
	return nil
}

func (s *InMemory) Get(_ context.Context, id domain.AdvertisementID) (Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.images[id]
	if !ok {
		return Image{}, sentinel.ErrNotFound
	}
	data := make([]byte, len(img.Data))
	copy(data, img.Data)
	return Image{ContentType: img.ContentType, Data: data}, nil
}

func (s *InMemory) Exists(_ context.Context, id domain.AdvertisementID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.images[id]
	return ok, nil
}

func (s *InMemory) Remove(_ context.Context, id domain.AdvertisementID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.images, id)
	return nil
}
