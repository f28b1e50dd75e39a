package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mkkmani/musicbackend/internal/config"
	"github.com/mkkmani/musicbackend/internal/model"
)

// Token errors.
var (
	ErrTokenMissing = errors.New("token is required")
	ErrTokenExpired = errors.New("token has expired")
	ErrInvalidToken = errors.New("token is invalid")
)

// Claims extends JWT standard claims with the principal's identity and role.
type Claims struct {
	jwt.RegisteredClaims
	Role        model.Role `json:"role"`
	Name        string     `json:"name"`
	PrincipalID int        `json:"principal_id"`
}

// AuthService issues and verifies bearer tokens. Each role signs with its own
// secret and every token also carries an explicit role claim.
type AuthService struct {
	secrets map[model.Role][]byte
	issuer  string
	expiry  time.Duration
	now     func() time.Time
}

// NewAuthService creates a new AuthService from the token settings in cfg.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		secrets: map[model.Role][]byte{
			model.RoleStudent: []byte(cfg.StudentJWTSecret),
			model.RoleAdmin:   []byte(cfg.AdminJWTSecret),
		},
		issuer: cfg.JWTIssuer,
		expiry: cfg.JWTExpiry,
		now:    time.Now,
	}
}

// IssueToken signs a token for p with the secret of p's role.
func (s *AuthService) IssueToken(p *model.Principal) (string, error) {
	secret, ok := s.secrets[p.Role]
	if !ok {
		return "", fmt.Errorf("issue token: unknown role %q", p.Role)
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   strconv.Itoa(p.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		Role:        p.Role,
		Name:        p.Name,
		PrincipalID: p.ID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses tokenStr against the secret of expected and checks that
// the role claim agrees.
func (s *AuthService) VerifyToken(tokenStr string, expected model.Role) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenMissing
	}
	secret, ok := s.secrets[expected]
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, expected)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Role != expected {
		return nil, fmt.Errorf("%w: role %q not accepted here", ErrInvalidToken, claims.Role)
	}
	if claims.PrincipalID <= 0 || claims.Subject != strconv.Itoa(claims.PrincipalID) {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
