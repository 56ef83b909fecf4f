package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"
)

// ErrInvalidToken is matched by every verification failure below so callers
// can treat them uniformly.
var ErrInvalidToken = errors.New("invalid token")

var (
	ErrMalformedToken   = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrInvalidSignature = fmt.Errorf("%w: signature invalid", ErrInvalidToken)
	ErrExpiredToken     = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// AccessToken represents a signed JWT access token along with its expiry.
// Exp is already truncated to the precision stored in the token, so it is
// equal to the expiry reported by Verify.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the token payload: the subject (account email), the scopes
// granted at issuance and the standard registered claims.
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 access tokens. The secret and the
// default lifetime are fixed at construction and never change afterwards, so
// a codec is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithIssuer sets the "iss" claim written on issue and required on verify.
func WithIssuer(iss string) CodecOption {
	return func(c *TokenCodec) { c.issuer = iss }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec builds a codec signing with secret. ttl is the lifetime used
// by IssueAccess.
func NewTokenCodec(secret []byte, ttl time.Duration, opts ...CodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the default access token lifetime.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// IssueAccess signs a token for subject with the codec's default lifetime.
func (c *TokenCodec) IssueAccess(subject string, scopes []string) (AccessToken, error) {
	return c.Issue(subject, scopes, c.ttl)
}

// Issue builds and signs an HS256 JWT. The expiry is now+ttl; a zero or
// negative ttl produces a token that is already expired.
func (c *TokenCodec) Issue(subject string, scopes []string, ttl time.Duration) (AccessToken, error) {
	now := c.now().UTC()
	exp := jwt.NewNumericDate(now.Add(ttl))
	claims := Claims{
		Scopes: append([]string{}, scopes...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			ExpiresAt: exp,
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign token: %w", err)
	}
	return AccessToken{Token: signed, Exp: exp.Time}, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
func (c *TokenCodec) Verify(raw string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, classifyJWTError(err)
	}
	if !tok.Valid {
		return Claims{}, ErrMalformedToken
	}
	if claims.Subject == "" || claims.Scopes == nil {
		return Claims{}, fmt.Errorf("%w: missing subject or scopes", ErrMalformedToken)
	}
	return claims, nil
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
