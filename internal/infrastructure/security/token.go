package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bookingdesk/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken indicates the token failed validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the actor snapshot inside the token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer validates its inputs; the secret must be non-empty.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is not configured")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be greater than zero")
	}
	return &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for user.
func (t *TokenIssuer) Issue(user *entity.User) (string, error) {
	if strings.TrimSpace(user.ID) == "" {
		return "", errors.New("user id is required")
	}
	now := t.now().UTC()
	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, issuer and expiry and returns the actor.
func (t *TokenIssuer) Parse(raw string) (entity.Actor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entity.Actor{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return entity.Actor{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return entity.Actor{}, ErrInvalidToken
	}
	role, ok := entity.ParseRole(claims.Role)
	if !ok {
		return entity.Actor{}, ErrInvalidToken
	}

	return entity.Actor{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  role,
	}, nil
}
