package testsupport

import (
	"context"
	"sync"
	"time"

	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/mkkmani/musicbackend/internal/repository"
)

// PrincipalStoreStub is an in-memory principal table intended for tests. It
// enforces the same mobile and email uniqueness as the database schema.
type PrincipalStoreStub struct {
	mu     sync.Mutex
	role   model.Role
	rows   []model.Principal
	nextID int

	// SkipExistsCheck makes ExistsByIdentifiers always report false so that
	// tests can reach the unique-constraint path in Create.
	SkipExistsCheck bool
	// Err, when set, is returned by every method.
	Err error

	writes int
	reads  int
}

// NewPrincipalStoreStub constructs an empty stub for role.
func NewPrincipalStoreStub(role model.Role) *PrincipalStoreStub {
	return &PrincipalStoreStub{role: role, nextID: 1}
}

// Create inserts p or returns repository.ErrDuplicate.
func (s *PrincipalStoreStub) Create(_ context.Context, p *model.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.conflictsLocked(p.Mobile, p.Email) {
		return repository.ErrDuplicate
	}
	s.insertLocked(p)
	return nil
}

// CreateIfEmpty inserts p only when no rows exist.
func (s *PrincipalStoreStub) CreateIfEmpty(_ context.Context, p *model.Principal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if len(s.rows) > 0 {
		return false, nil
	}
	s.insertLocked(p)
	return true, nil
}

// ExistsByIdentifiers reports whether mobile or email is already used.
func (s *PrincipalStoreStub) ExistsByIdentifiers(_ context.Context, mobile, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.Err != nil {
		return false, s.Err
	}
	if s.SkipExistsCheck {
		return false, nil
	}
	return s.conflictsLocked(mobile, email), nil
}

// GetByIdentifier finds a row by email or mobile.
func (s *PrincipalStoreStub) GetByIdentifier(_ context.Context, identifier string) (*model.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.Err != nil {
		return nil, s.Err
	}
	for _, row := range s.rows {
		if row.Email == identifier || row.Mobile == identifier {
			p := row
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetByID finds a row by ID.
func (s *PrincipalStoreStub) GetByID(_ context.Context, id int) (*model.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.Err != nil {
		return nil, s.Err
	}
	for _, row := range s.rows {
		if row.ID == id {
			p := row
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Rows returns a copy of every stored principal.
func (s *PrincipalStoreStub) Rows() []model.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Principal(nil), s.rows...)
}

// Writes returns how many rows were inserted.
func (s *PrincipalStoreStub) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Reads returns how many lookups ran.
func (s *PrincipalStoreStub) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *PrincipalStoreStub) conflictsLocked(mobile, email string) bool {
	for _, row := range s.rows {
		if row.Mobile == mobile || row.Email == email {
			return true
		}
	}
	return false
}

func (s *PrincipalStoreStub) insertLocked(p *model.Principal) {
	p.ID = s.nextID
	p.Role = s.role
	p.CreatedAt = time.Now().UTC()
	s.nextID++
	s.writes++
	s.rows = append(s.rows, *p)
}
