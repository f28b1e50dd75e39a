package testsupport

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mkkmani/musicbackend/internal/model"
)

// VideoStoreStub is an in-memory video table intended for tests.
type VideoStoreStub struct {
	mu     sync.Mutex
	videos []model.Video
	// Err, when set, is returned by every method.
	Err error

	lists int
}

// NewVideoStoreStub constructs an empty VideoStoreStub.
func NewVideoStoreStub() *VideoStoreStub {
	return &VideoStoreStub{}
}

// Create appends v and assigns its ID.
func (s *VideoStoreStub) Create(_ context.Context, v *model.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	v.ID = len(s.videos) + 1
	v.CreatedAt = time.Now().UTC()
	s.videos = append(s.videos, *v)
	return nil
}

// List returns all videos.
func (s *VideoStoreStub) List(context.Context) ([]model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.Video{}, s.videos...), nil
}

// SearchByTitle returns videos whose title contains fragment.
func (s *VideoStoreStub) SearchByTitle(_ context.Context, fragment string) ([]model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	found := []model.Video{}
	for _, v := range s.videos {
		if strings.Contains(v.Title, fragment) {
			found = append(found, v)
		}
	}
	return found, nil
}

// Lists returns how many times List hit the store.
func (s *VideoStoreStub) Lists() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

// Len returns the number of stored videos.
func (s *VideoStoreStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.videos)
}

// GalleryStoreStub is an in-memory gallery table intended for tests.
type GalleryStoreStub struct {
	mu     sync.Mutex
	images []model.GalleryImage
	// Err, when set, is returned by every method.
	Err error
}

// NewGalleryStoreStub constructs an empty GalleryStoreStub.
func NewGalleryStoreStub() *GalleryStoreStub {
	return &GalleryStoreStub{}
}

// Create appends img and assigns its ID.
func (s *GalleryStoreStub) Create(_ context.Context, img *model.GalleryImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	img.ID = len(s.images) + 1
	img.CreatedAt = time.Now().UTC()
	s.images = append(s.images, *img)
	return nil
}

// List returns all gallery images.
func (s *GalleryStoreStub) List(context.Context) ([]model.GalleryImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.GalleryImage{}, s.images...), nil
}

// Len returns the number of stored images.
func (s *GalleryStoreStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}
