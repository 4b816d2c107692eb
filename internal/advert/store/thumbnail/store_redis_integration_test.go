//go:build integration

package thumbnail_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rehome/internal/advert/store/thumbnail"
	"rehome/pkg/domain"
	"rehome/pkg/platform/sentinel"
	"rehome/pkg/testutil/containers"
)

type RedisThumbnailSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *thumbnail.Redis
}

func TestRedisThumbnailSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisThumbnailSuite))
}

func (s *RedisThumbnailSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = thumbnail.NewRedis(s.redis.Client)
}

func (s *RedisThumbnailSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisThumbnailSuite) TestPutGetRoundTrip() {
	ctx := context.Background()
	id := domain.NewAdvertisementID()
	img := thumbnail.Image{ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}}

	s.Require().NoError(s.store.Put(ctx, id, img))

	got, err := s.store.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal(img.ContentType, got.ContentType)
	s.Equal(img.Data, got.Data)

	exists, err := s.store.Exists(ctx, id)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RedisThumbnailSuite) TestGetMissing() {
	ctx := context.Background()
	_, err := s.store.Get(ctx, domain.NewAdvertisementID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	exists, err := s.store.Exists(ctx, domain.NewAdvertisementID())
	s.Require().NoError(err)
	s.False(exists)
}

func (s *RedisThumbnailSuite) TestPutReplaces() {
	ctx := context.Background()
	id := domain.NewAdvertisementID()

	s.Require().NoError(s.store.Put(ctx, id, thumbnail.Image{ContentType: "image/png", Data: []byte{1}}))
	s.Require().NoError(s.store.Put(ctx, id, thumbnail.Image{ContentType: "image/webp", Data: []byte{2, 3}}))

	got, err := s.store.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("image/webp", got.ContentType)
	s.Equal([]byte{2, 3}, got.Data)
}

func (s *RedisThumbnailSuite) TestRemove() {
	ctx := context.Background()
	id := domain.NewAdvertisementID()

	s.Require().NoError(s.store.Put(ctx, id, thumbnail.Image{ContentType: "image/png", Data: []byte{1}}))
	s.Require().NoError(s.store.Remove(ctx, id))

	_, err := s.store.Get(ctx, id)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.NoError(s.store.Remove(ctx, id))
}

func (s *RedisThumbnailSuite) TestTTLExpiresEntries() {
	ctx := context.Background()
	id := domain.NewAdvertisementID()
	store := thumbnail.NewRedis(s.redis.Client, thumbnail.WithTTL(time.Second))

	s.Require().NoError(store.Put(ctx, id, thumbnail.Image{ContentType: "image/png", Data: []byte{1}}))

	time.Sleep(1500 * time.Millisecond)

	_, err := store.Get(ctx, id)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
