package jwtverifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"virtual-pet/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("jwt verifier not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrTokenInvalid  = errors.New("token invalid")
)

type Config struct {
	// Secret HS256 compartido con el emisor de tokens.
	Secret []byte

	// Issuer / Audience opcionales; si se definen se exigen.
	Issuer   string
	Audience string

	// Leeway tolera desfasaje de reloj en exp/nbf.
	Leeway time.Duration
}

// Verifier implementa auth.AuthVerifier con tokens HS256.
// La identidad sale de "sub" (o "user_id" si sub falta).
type Verifier struct {
	cfg Config
}

func New(cfg Config) (*Verifier, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrNotConfigured
	}
	return &Verifier{cfg: cfg}, nil
}

type tokenClaims struct {
	UserID   string `json:"user_id,omitempty"`
	Email    string `json:"email,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.cfg.Secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.cfg.Leeway),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	var parsed tokenClaims
	if _, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return v.cfg.Secret, nil
	}, opts...); err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	uid := strings.TrimSpace(parsed.Subject)
	if uid == "" {
		uid = strings.TrimSpace(parsed.UserID)
	}
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	out := auth.Claims{
		UserID:   uid,
		Email:    strings.TrimSpace(parsed.Email),
		TenantID: strings.TrimSpace(parsed.TenantID),
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}
	return out, nil
}
