package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smartplatform/gateway/internal/port/outbound"
)

var (
	ErrMissingSecret  = errors.New("jwt secret is not configured")
	ErrMissingSubject = errors.New("token has no subject")
)

// JWTConfig holds verifier configuration.
type JWTConfig struct {
	Secret string
	Issuer string
	Leeway time.Duration
}

// JWTVerifier implements outbound.IdentityVerifierPort for HS256 tokens.
// The sub claim is the account id.
type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
	issuer string
}

// NewJWTVerifier creates a verifier. An empty secret is rejected so that a
// misconfigured gateway cannot accept unsigned credentials.
func NewJWTVerifier(cfg *JWTConfig) (*JWTVerifier, error) {
	if cfg == nil || cfg.Secret == "" {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &JWTVerifier{
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(opts...),
		issuer: cfg.Issuer,
	}, nil
}

// Verify validates the token signature and registered claims and returns
// its subject.
func (v *JWTVerifier) Verify(ctx context.Context, credential string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	_, err := v.parser.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}

	return claims.Subject, nil
}

// Issue signs a token for accountID. It backs the dev token command and
// tests; production credentials come from the identity provider.
func (v *JWTVerifier) Issue(accountID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if v.issuer != "" {
		claims.Issuer = v.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Compile-time check
var _ outbound.IdentityVerifierPort = (*JWTVerifier)(nil)
