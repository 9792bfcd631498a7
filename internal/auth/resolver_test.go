package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/izgubljeno/internal/apperr"
)

func TestResolveCaller(t *testing.T) {
	ctx := context.Background()
	token, err := GenerateToken("secret", 42, "bob")
	require.NoError(t, err)

	r := NewResolver("secret", nil)

	claims, err := r.ResolveCaller(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)

	claims, err = r.ResolveCaller(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username)
}

func TestResolveCallerRejects(t *testing.T) {
	ctx := context.Background()
	token, err := GenerateToken("secret", 42, "bob")
	require.NoError(t, err)

	tests := []struct {
		name       string
		resolver   *Resolver
		credential string
	}{
		{"empty", NewResolver("secret", nil), ""},
		{"bearer only", NewResolver("secret", nil), "Bearer "},
		{"wrong secret", NewResolver("other", nil), "Bearer " + token},
		{"garbage", NewResolver("secret", nil), "Bearer abc.def.ghi"},
		{"revoked", NewResolver("secret", func(context.Context, string) (bool, error) {
			return true, nil
		}), "Bearer " + token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.resolver.ResolveCaller(ctx, tt.credential)
			assert.ErrorIs(t, err, apperr.ErrUnauthorized)
		})
	}
}

func TestResolveCallerRevocationLookupFails(t *testing.T) {
	token, err := GenerateToken("secret", 1, "a")
	require.NoError(t, err)

	boom := errors.New("db down")
	r := NewResolver("secret", func(context.Context, string) (bool, error) { return false, boom })

	_, err = r.ResolveCaller(context.Background(), token)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperr.ErrUnauthorized)
}
