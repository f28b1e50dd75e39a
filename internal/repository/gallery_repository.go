package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkkmani/musicbackend/internal/model"
)

// GalleryRepository handles gallery image data access.
type GalleryRepository struct {
	pool *pgxpool.Pool
}

// NewGalleryRepository creates a new GalleryRepository.
func NewGalleryRepository(pool *pgxpool.Pool) *GalleryRepository {
	return &GalleryRepository{pool: pool}
}

// Create inserts a new gallery image.
func (r *GalleryRepository) Create(ctx context.Context, img *model.GalleryImage) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO gallery (image_url) VALUES ($1) RETURNING id, created_at`,
		img.ImageURL,
	).Scan(&img.ID, &img.CreatedAt)
}

// List returns every gallery image in insertion order.
func (r *GalleryRepository) List(ctx context.Context) ([]model.GalleryImage, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, image_url, created_at FROM gallery ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []model.GalleryImage{}
	for rows.Next() {
		var img model.GalleryImage
		if err := rows.Scan(&img.ID, &img.ImageURL, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
