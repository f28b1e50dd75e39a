package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkkmani/musicbackend/internal/model"
)

// VideoRepository handles video data access.
type VideoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

// Create inserts a new video.
func (r *VideoRepository) Create(ctx context.Context, v *model.Video) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO videos (title, link) VALUES ($1, $2) RETURNING id, created_at`,
		v.Title, v.Link,
	).Scan(&v.ID, &v.CreatedAt)
}

// List returns every video in insertion order.
func (r *VideoRepository) List(ctx context.Context) ([]model.Video, error) {
	return r.query(ctx, `SELECT id, title, link, created_at FROM videos ORDER BY id`)
}

// SearchByTitle returns videos whose title contains fragment. Matching is
// case-sensitive.
func (r *VideoRepository) SearchByTitle(ctx context.Context, fragment string) ([]model.Video, error) {
	return r.query(ctx,
		`SELECT id, title, link, created_at FROM videos WHERE strpos(title, $1) > 0 ORDER BY id`,
		fragment,
	)
}

func (r *VideoRepository) query(ctx context.Context, sql string, args ...any) ([]model.Video, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Link, &v.CreatedAt); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
