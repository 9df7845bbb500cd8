package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/donation-service/internal/domain"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

// Verifier turns a raw bearer credential into a verified identity.
type Verifier interface {
	Verify(credential string) (domain.Identity, error)
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ Verifier = (*TokenManager)(nil)

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute, now: time.Now}
}

// Claims describes JWT payload.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT carrying the email claim.
func (tm *TokenManager) GenerateToken(email string) (string, time.Time, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", time.Time{}, apperrors.NewValidationError("email is required", nil)
	}
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Verify implements Verifier. Every failure collapses into the same
// unauthenticated error so callers cannot tell expired from forged.
func (tm *TokenManager) Verify(credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Identity{}, errUnauthenticated()
	}
	claims, err := tm.ParseToken(credential)
	if err != nil {
		return domain.Identity{}, errUnauthenticated()
	}
	email := domain.NormalizeEmail(claims.Email)
	if email == "" {
		return domain.Identity{}, errUnauthenticated()
	}
	return domain.Identity{Email: email}, nil
}

func errUnauthenticated() error {
	return apperrors.NewUnauthorized("unauthorized access")
}
