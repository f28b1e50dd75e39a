package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkkmani/musicbackend/internal/metrics"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/mkkmani/musicbackend/internal/repository"
	"github.com/rs/zerolog"
)

// Registration and login errors.
var (
	ErrConflict           = errors.New("an account with this mobile or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalNotFound  = errors.New("account not found")
)

// PrincipalStore is the persistence contract for one principal table.
type PrincipalStore interface {
	Create(ctx context.Context, p *model.Principal) error
	CreateIfEmpty(ctx context.Context, p *model.Principal) (bool, error)
	ExistsByIdentifiers(ctx context.Context, mobile, email string) (bool, error)
	GetByIdentifier(ctx context.Context, identifier string) (*model.Principal, error)
	GetByID(ctx context.Context, id int) (*model.Principal, error)
}

// PrincipalService runs the registration and login workflows for one role.
type PrincipalService struct {
	role    model.Role
	store   PrincipalStore
	hasher  *PasswordHasher
	auth    *AuthService
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewStudentService creates a PrincipalService for students.
func NewStudentService(store PrincipalStore, hasher *PasswordHasher, auth *AuthService, m *metrics.Metrics, log zerolog.Logger) *PrincipalService {
	return newPrincipalService(model.RoleStudent, store, hasher, auth, m, log)
}

// NewAdminService creates a PrincipalService for admins.
func NewAdminService(store PrincipalStore, hasher *PasswordHasher, auth *AuthService, m *metrics.Metrics, log zerolog.Logger) *PrincipalService {
	return newPrincipalService(model.RoleAdmin, store, hasher, auth, m, log)
}

func newPrincipalService(role model.Role, store PrincipalStore, hasher *PasswordHasher, auth *AuthService, m *metrics.Metrics, log zerolog.Logger) *PrincipalService {
	return &PrincipalService{
		role:    role,
		store:   store,
		hasher:  hasher,
		auth:    auth,
		metrics: m,
		log:     log.With().Str("component", string(role)+"_service").Logger(),
	}
}

// Role returns the role this service manages.
func (s *PrincipalService) Role() model.Role {
	return s.role
}

// Register creates a principal unless the mobile number or email is taken.
// The pre-check avoids hashing for obvious duplicates; the unique constraints
// decide concurrent attempts.
func (s *PrincipalService) Register(ctx context.Context, req model.RegisterPrincipalRequest) (*model.Principal, error) {
	req.Normalize()

	exists, err := s.store.ExistsByIdentifiers(ctx, req.Mobile, req.Email)
	if err != nil {
		s.metrics.ObserveRegistration(string(s.role), metrics.OutcomeError)
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		s.metrics.ObserveRegistration(string(s.role), metrics.OutcomeConflict)
		return nil, ErrConflict
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.metrics.ObserveRegistration(string(s.role), metrics.OutcomeError)
		return nil, err
	}

	p := &model.Principal{
		Role:         s.role,
		Name:         req.Name,
		Mobile:       req.Mobile,
		Email:        req.Email,
		Profile:      req.Profile,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.ObserveRegistration(string(s.role), metrics.OutcomeConflict)
			return nil, ErrConflict
		}
		s.metrics.ObserveRegistration(string(s.role), metrics.OutcomeError)
		return nil, fmt.Errorf("create %s: %w", s.role, err)
	}

	s.metrics.ObserveRegistration(string(s.role), metrics.OutcomeSuccess)
	s.log.Info().Int("id", p.ID).Msg("Account registered")
	return p, nil
}

// Bootstrap creates the first principal of this role. It is a no-op when the
// table already holds a row.
func (s *PrincipalService) Bootstrap(ctx context.Context, req model.RegisterPrincipalRequest) (bool, error) {
	req.Normalize()

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return false, err
	}

	p := &model.Principal{
		Role:         s.role,
		Name:         req.Name,
		Mobile:       req.Mobile,
		Email:        req.Email,
		Profile:      req.Profile,
		PasswordHash: hash,
	}
	created, err := s.store.CreateIfEmpty(ctx, p)
	if errors.Is(err, repository.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bootstrap %s: %w", s.role, err)
	}
	if created {
		s.log.Info().Int("id", p.ID).Str("email", p.Email).Msg("Bootstrap account created")
	}
	return created, nil
}

// Login resolves username against email or mobile, checks the password and
// issues a token for this service's role. Unknown usernames and wrong
// passwords both return ErrInvalidCredentials.
func (s *PrincipalService) Login(ctx context.Context, req model.LoginRequest) (string, *model.Principal, error) {
	identifier := model.NormalizeIdentifier(req.Username)

	p, err := s.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.VerifyDummy(req.Password)
			s.metrics.ObserveLogin(string(s.role), metrics.OutcomeRejected)
			s.log.Debug().Msg("Login rejected: unknown identifier")
			return "", nil, ErrInvalidCredentials
		}
		s.metrics.ObserveLogin(string(s.role), metrics.OutcomeError)
		return "", nil, fmt.Errorf("lookup %s: %w", s.role, err)
	}

	if err := s.hasher.Verify(p.PasswordHash, req.Password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			s.metrics.ObserveLogin(string(s.role), metrics.OutcomeRejected)
			s.log.Debug().Int("id", p.ID).Msg("Login rejected: password mismatch")
			return "", nil, ErrInvalidCredentials
		}
		s.metrics.ObserveLogin(string(s.role), metrics.OutcomeError)
		return "", nil, err
	}

	token, err := s.auth.IssueToken(p)
	if err != nil {
		s.metrics.ObserveLogin(string(s.role), metrics.OutcomeError)
		return "", nil, err
	}

	s.metrics.ObserveLogin(string(s.role), metrics.OutcomeSuccess)
	return token, p, nil
}

// GetByID retrieves a principal of this role.
func (s *PrincipalService) GetByID(ctx context.Context, id int) (*model.Principal, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("get %s: %w", s.role, err)
	}
	return p, nil
}
