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

// GalleryStore is the persistence contract for gallery images.
type GalleryStore interface {
	Create(ctx context.Context, img *model.GalleryImage) error
	List(ctx context.Context) ([]model.GalleryImage, error)
}

// GalleryService handles gallery business logic.
type GalleryService struct {
	store GalleryStore
	cache *listCache[model.GalleryImage]
	log   zerolog.Logger
}

// NewGalleryService creates a new GalleryService. rdb may be nil.
func NewGalleryService(store GalleryStore, rdb *redis.Client, ttl time.Duration, m *metrics.Metrics, log zerolog.Logger) *GalleryService {
	log = log.With().Str("component", "gallery_service").Logger()
	return &GalleryService{
		store: store,
		cache: &listCache[model.GalleryImage]{
			rdb:     rdb,
			key:     config.CacheKey.GalleryListKey(),
			genKey:  config.CacheKey.GalleryListGenerationKey(),
			name:    "gallery",
			ttl:     ttl,
			metrics: m,
			log:     log,
		},
		log: log,
	}
}

// Add stores a new gallery image.
func (s *GalleryService) Add(ctx context.Context, imageURL string) (*model.GalleryImage, error) {
	img := &model.GalleryImage{ImageURL: imageURL}
	if err := s.store.Create(ctx, img); err != nil {
		return nil, fmt.Errorf("create gallery image: %w", err)
	}
	s.cache.invalidate(ctx)
	s.log.Info().Int("id", img.ID).Msg("Gallery image added")
	return img, nil
}

// List returns all gallery images.
func (s *GalleryService) List(ctx context.Context) ([]model.GalleryImage, error) {
	if images, ok := s.cache.get(ctx); ok {
		return images, nil
	}
	images, err := s.cache.load(ctx, s.store.List)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	return images, nil
}

// PrewarmCache loads the gallery list into Redis on startup.
func (s *GalleryService) PrewarmCache(ctx context.Context) error {
	images, err := s.cache.load(ctx, s.store.List)
	if err != nil {
		return fmt.Errorf("list gallery: %w", err)
	}
	s.log.Info().Int("count", len(images)).Msg("Gallery cache prewarmed")
	return nil
}
