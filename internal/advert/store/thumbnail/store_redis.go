package thumbnail

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"rehome/pkg/domain"
	"rehome/pkg/platform/sentinel"
)

var getDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "rehome_thumbnail_get_duration_ms",
	Help:    "Latency of thumbnail reads in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const (
	// Redis key prefix for advertisement thumbnails
	thumbnailKeyPrefix = "thumb:adv:"

	dataField        = "data"
	contentTypeField = "content_type"
)

// Image is a stored advertisement thumbnail.
type Image struct {
	ContentType string
	Data        []byte
}

// Redis is a Redis-backed thumbnail store. This is the recommended
// implementation for distributed deployments where multiple instances
// need to share uploaded thumbnails.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOption configures a Redis thumbnail store.
type RedisOption func(*Redis)

// WithTTL bounds how long an uploaded thumbnail is retained. Zero means
// the thumbnail lives until the advertisement is deleted.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *Redis) {
		s.ttl = ttl
	}
}

// NewRedis constructs a Redis-backed thumbnail store.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	s := &Redis{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Put stores the thumbnail for an advertisement, replacing any previous one.
func (s *Redis) Put(ctx context.Context, id domain.AdvertisementID, img Image) error {
	key := thumbnailKeyPrefix + id.String()

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, dataField, img.Data, contentTypeField, img.ContentType)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Get returns the stored thumbnail, or sentinel.ErrNotFound when none
// has been uploaded.
func (s *Redis) Get(ctx context.Context, id domain.AdvertisementID) (Image, error) {
	start := time.Now()
	defer func() {
		getDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	key := thumbnailKeyPrefix + id.String()
	vals, err := s.client.HMGet(ctx, key, dataField, contentTypeField).Result()
	if errors.Is(err, redis.Nil) {
		return Image{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Image{}, err
	}
	data, ok := vals[0].(string)
	if !ok || data == "" {
		return Image{}, sentinel.ErrNotFound
	}
	contentType, _ := vals[1].(string)
	return Image{ContentType: contentType, Data: []byte(data)}, nil
}

// Exists reports whether a thumbnail has been uploaded for the advertisement.
func (s *Redis) Exists(ctx context.Context, id domain.AdvertisementID) (bool, error) {
	n, err := s.client.Exists(ctx, thumbnailKeyPrefix+id.String()).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remove deletes the thumbnail. Removing a missing thumbnail is a no-op.
func (s *Redis) Remove(ctx context.Context, id domain.AdvertisementID) error {
	return s.client.Del(ctx, thumbnailKeyPrefix+id.String()).Err()
}
