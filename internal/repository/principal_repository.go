package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkkmani/musicbackend/internal/model"
)

// PrincipalRepository handles student or admin data access. Both roles share
// the same columns and live in separate tables.
type PrincipalRepository struct {
	pool  *pgxpool.Pool
	role  model.Role
	table string
}

// NewStudentRepository creates a PrincipalRepository over the students table.
func NewStudentRepository(pool *pgxpool.Pool) *PrincipalRepository {
	return &PrincipalRepository{pool: pool, role: model.RoleStudent, table: "students"}
}

// NewAdminRepository creates a PrincipalRepository over the admins table.
func NewAdminRepository(pool *pgxpool.Pool) *PrincipalRepository {
	return &PrincipalRepository{pool: pool, role: model.RoleAdmin, table: "admins"}
}

const principalColumns = `id, name, mobile, email, profile, password_hash, created_at`

// Create inserts a principal and fills in its ID and creation time.
// A unique constraint violation is reported as ErrDuplicate.
func (r *PrincipalRepository) Create(ctx context.Context, p *model.Principal) error {
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, mobile, email, profile, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`, r.table),
		p.Name, p.Mobile, p.Email, p.Profile, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return translateError(err)
	}
	p.Role = r.role
	return nil
}

// CreateIfEmpty inserts p only when the table holds no rows yet.
// It reports whether a row was written. Two callers racing with the same
// mobile or email both pass NOT EXISTS; the loser's unique violation is
// reported as not written.
func (r *PrincipalRepository) CreateIfEmpty(ctx context.Context, p *model.Principal) (bool, error) {
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %[1]s (name, mobile, email, profile, password_hash)
		 SELECT $1, $2, $3, $4, $5
		 WHERE NOT EXISTS (SELECT 1 FROM %[1]s)
		 RETURNING id, created_at`, r.table),
		p.Name, p.Mobile, p.Email, p.Profile, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		err = translateError(err)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	p.Role = r.role
	return true, nil
}

// ExistsByIdentifiers reports whether any row already uses the mobile number
// or the email.
func (r *PrincipalRepository) ExistsByIdentifiers(ctx context.Context, mobile, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE mobile = $1 OR email = $2)`, r.table),
		mobile, email,
	).Scan(&exists)
	return exists, err
}

// GetByIdentifier looks a principal up by email or mobile number.
func (r *PrincipalRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.Principal, error) {
	p := &model.Principal{Role: r.role}
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE email = $1 OR mobile = $1 ORDER BY id LIMIT 1`, principalColumns, r.table),
		identifier,
	).Scan(&p.ID, &p.Name, &p.Mobile, &p.Email, &p.Profile, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

// GetByID retrieves a principal by ID.
func (r *PrincipalRepository) GetByID(ctx context.Context, id int) (*model.Principal, error) {
	p := &model.Principal{Role: r.role}
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, principalColumns, r.table),
		id,
	).Scan(&p.ID, &p.Name, &p.Mobile, &p.Email, &p.Profile, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}
