// Package auth validates bearer tokens issued by the external identity
// provider and extracts the caller's e-mail.
package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/meetings-backend/internal/config"
	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// Validator checks HS256 tokens against a shared secret or RS256 tokens
// against a PEM public key.
type Validator struct {
	secret     []byte
	publicKey  *rsa.PublicKey
	issuer     string
	emailClaim string
}

// NewValidator creates a Validator from cfg. JWTPublicKey takes precedence
// over JWTSecret.
func NewValidator(cfg config.AuthConfig) (*Validator, error) {
	v := &Validator{
		issuer:     cfg.JWTIssuer,
		emailClaim: cfg.EmailClaim,
	}
	if v.emailClaim == "" {
		v.emailClaim = "email"
	}

	if cfg.JWTPublicKey != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.JWTPublicKey))
		if err != nil {
			return nil, fmt.Errorf("auth: parse public key: %w", err)
		}
		v.publicKey = key
		return v, nil
	}

	v.secret = []byte(cfg.JWTSecret)
	return v, nil
}

// ValidateToken parses and validates tokenString and returns the e-mail
// claim. Every failure wraps domain.ErrUnauthorized.
func (v *Validator) ValidateToken(_ context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("%w: token is empty", domain.ErrUnauthorized)
	}

	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.publicKey != nil {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	} else {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, v.key, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: parse token: %v", domain.ErrUnauthorized, err)
	}

	email, _ := claims[v.emailClaim].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: claim %q missing", domain.ErrUnauthorized, v.emailClaim)
	}
	return email, nil
}

func (v *Validator) key(*jwt.Token) (any, error) {
	if v.publicKey != nil {
		return v.publicKey, nil
	}
	return v.secret, nil
}
