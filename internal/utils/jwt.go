package utils // package utils provides helper functions for token creation and hashing

import (
	"errors" // sentinel for rejected tokens
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/auth"
)

// ErrInvalidToken is the only error Verify returns.  Expired and forged
// tokens are not told apart.
var ErrInvalidToken = errors.New("invalid token")

// DefaultSessionTTL is the validity window of a session token.
const DefaultSessionTTL = time.Hour

// sessionClaims is the JWT body: the identity plus exp and iat.
type sessionClaims struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens.  The secret and TTL
// are fixed at construction; a codec is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	// Now is the clock used for issuing and validating.  Tests replace it.
	Now func() time.Time
}

// NewTokenCodec returns a codec signing with secret.  A non-positive ttl
// falls back to DefaultSessionTTL.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, Now: time.Now}
}

// TTL reports how long issued tokens stay valid.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue signs a token embedding id, username and role, valid for the
// codec's TTL from now.  It returns the token and its expiry.
func (c *TokenCodec) Issue(id auth.Identity) (string, time.Time, error) {
	now := c.Now().UTC()
	exp := now.Add(c.ttl)
	claims := sessionClaims{
		ID:       id.ID,
		Username: id.Username,
		Role:     string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry and returns the embedded
// identity.  Any failure yields ErrInvalidToken.
func (c *TokenCodec) Verify(raw string) (auth.Identity, error) {
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.Now),
	)
	if err != nil || !tok.Valid {
		return auth.Identity{}, ErrInvalidToken
	}
	role, ok := auth.ParseRole(claims.Role)
	if !ok || claims.ID == 0 || claims.Username == "" {
		return auth.Identity{}, ErrInvalidToken
	}
	return auth.Identity{ID: claims.ID, Username: claims.Username, Role: role}, nil
}
