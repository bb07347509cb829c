// Package token issues and verifies the signed session tokens handed out at login.
//
// Tokens are HS256 JWTs carrying the user id, username and role. There is no
// revocation list: expiry is the only way a token stops being valid.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"evidencias/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a session token when none is configured.
const DefaultTTL = time.Hour

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, malformed input, expiry or an unknown role.
var ErrInvalidToken = errors.New("token invalido o expirado")

// Identity is what a verified token says about its bearer.
type Identity struct {
	ID       uint      `json:"id"`
	Username string    `json:"username"`
	Rol      model.Rol `json:"rol"`
}

// Claims are the custom claims embedded in every session token.
type Claims struct {
	UserID   uint      `json:"id"`
	Username string    `json:"username"`
	Rol      model.Rol `json:"rol"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens with a single server-held secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService returns a token service. An empty secret is rejected so that a
// misconfigured deployment fails at startup instead of signing with a guessable key.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token: secret vacio")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token for id, valid for the configured TTL.
func (s *Service) Issue(id Identity) (string, error) {
	if !id.Rol.Valid() {
		return "", fmt.Errorf("token: rol invalido %q", id.Rol)
	}
	now := s.now()
	claims := Claims{
		UserID:   id.ID,
		Username: id.Username,
		Rol:      id.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: firmar: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
func (s *Service) Verify(raw string) (Identity, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}
	if !claims.Rol.Valid() || claims.Username == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: claims.UserID, Username: claims.Username, Rol: claims.Rol}, nil
}
