package auth

import (
	"context"
	"time"
)

// Claims es la identidad del actor de un request.
// UserID es lo único que el motor usa para autorizar.
type Claims struct {
	UserID   string
	Email    string
	TenantID string

	// ExpiresAt viene del token; cero en modo dev.
	ExpiresAt time.Time

	// Dev marca identidades inyectadas por header sin verificar.
	Dev bool
}

// AuthVerifier valida un bearer token y devuelve sus claims.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
