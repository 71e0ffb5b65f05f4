// Package auth verifies bearer tokens and carries the caller's principal
// through request contexts.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"migration-estimator/core/types"
	"migration-estimator/internal/config"
	"migration-estimator/internal/errors"
)

// Claims is the token payload
type Claims struct {
	UserID uint       `json:"user_id"`
	Email  string     `json:"email,omitempty"`
	Role   types.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 tokens
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer from the auth config
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    time.Duration(cfg.TokenTTLMinutes) * time.Minute,
		now:    time.Now,
	}
}

// Issue signs a token for p
func (i *Issuer) Issue(p types.Principal) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: p.UserID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Internal("failed to sign token", err)
	}
	return signed, nil
}

// Verifier checks HS256 tokens
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier creates a verifier from the auth config
func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer, now: time.Now}
}

// Verify parses token and returns its principal.
// Bad signatures, expiry and malformed claims are UNAUTHORIZED; an unknown role is FORBIDDEN.
func (v *Verifier) Verify(token string) (types.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	t, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil || !t.Valid {
		return types.Principal{}, errors.Wrap(errors.TypeUnauthorized, "invalid or expired token", err)
	}

	if claims.UserID == 0 {
		return types.Principal{}, errors.Unauthorized("token has no user_id")
	}
	if !claims.Role.Valid() {
		return types.Principal{}, errors.Forbidden("token role is not recognised").WithContext("role", string(claims.Role))
	}

	email := claims.Email
	if email == "" {
		email = claims.Subject
	}
	return types.Principal{UserID: claims.UserID, Email: email, Role: claims.Role}, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
