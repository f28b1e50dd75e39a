package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mkkmani/musicbackend/internal/config"
	"github.com/mkkmani/musicbackend/internal/metrics"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// VideoStore is the persistence contract for videos.
type VideoStore interface {
	Create(ctx context.Context, v *model.Video) error
	List(ctx context.Context) ([]model.Video, error)
	SearchByTitle(ctx context.Context, fragment string) ([]model.Video, error)
}

// VideoService handles video business logic and the list cache.
type VideoService struct {
	store VideoStore
	cache *listCache[model.Video]
	log   zerolog.Logger
}

// NewVideoService creates a new VideoService. rdb may be nil.
func NewVideoService(store VideoStore, rdb *redis.Client, ttl time.Duration, m *metrics.Metrics, log zerolog.Logger) *VideoService {
	log = log.With().Str("component", "video_service").Logger()
	return &VideoService{
		store: store,
		cache: &listCache[model.Video]{
			rdb:     rdb,
			key:     config.CacheKey.VideoListKey(),
			genKey:  config.CacheKey.VideoListGenerationKey(),
			name:    "videos",
			ttl:     ttl,
			metrics: m,
			log:     log,
		},
		log: log,
	}
}

// Add stores a new video and drops the cached list.
func (s *VideoService) Add(ctx context.Context, title, link string) (*model.Video, error) {
	v := &model.Video{Title: title, Link: link}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	s.cache.invalidate(ctx)
	s.log.Info().Int("id", v.ID).Str("title", v.Title).Msg("Video added")
	return v, nil
}

// List returns all videos, served from Redis when cached.
func (s *VideoService) List(ctx context.Context) ([]model.Video, error) {
	if videos, ok := s.cache.get(ctx); ok {
		return videos, nil
	}
	videos, err := s.cache.load(ctx, s.store.List)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// Search returns videos whose title contains fragment, case-sensitively.
func (s *VideoService) Search(ctx context.Context, fragment string) ([]model.Video, error) {
	videos, err := s.store.SearchByTitle(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}
	return videos, nil
}

// PrewarmCache loads the video list into Redis on startup.
func (s *VideoService) PrewarmCache(ctx context.Context) error {
	videos, err := s.cache.load(ctx, s.store.List)
	if err != nil {
		return fmt.Errorf("list videos: %w", err)
	}
	s.log.Info().Int("count", len(videos)).Msg("Video cache prewarmed")
	return nil
}
