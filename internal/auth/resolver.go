package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/izgubljeno/internal/apperr"
)

// RevokedFunc reports whether a token ID has been revoked.
type RevokedFunc func(ctx context.Context, jti string) (bool, error)

// Resolver maps a caller credential to an authenticated user.
type Resolver struct {
	secret  string
	revoked RevokedFunc
}

// NewResolver returns a resolver that validates tokens signed with secret.
// A nil revoked func disables the revocation check.
func NewResolver(secret string, revoked RevokedFunc) *Resolver {
	return &Resolver{secret: secret, revoked: revoked}
}

// ResolveCaller validates credential, with or without a "Bearer " prefix,
// and returns its claims. Every failure is reported as an UNAUTHORIZED
// apperr so callers never learn why a token was refused.
func (r *Resolver) ResolveCaller(ctx context.Context, credential string) (*Claims, error) {
	token := strings.TrimSpace(strings.TrimPrefix(credential, "Bearer "))
	if token == "" {
		return nil, apperr.Unauthorized("missing credentials")
	}

	claims, err := ValidateToken(r.secret, token)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnauthorized, "invalid token", err)
	}

	if r.revoked != nil {
		revoked, err := r.revoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("checking token revocation: %w", err)
		}
		if revoked {
			return nil, apperr.Unauthorized("token has been revoked")
		}
	}

	return claims, nil
}
