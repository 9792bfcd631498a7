package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// jwtSecretKey names the settings row that holds the session signing secret
// used when IZGUBLJENO_JWT_SECRET is not set.
const jwtSecretKey = "jwt_secret"

// GetJWTSecret returns the secret that signs claimer and finder session
// tokens, generating it the first time the service starts against a fresh
// database. Several server processes may start at once, so the candidate is
// inserted with INSERT OR IGNORE and whichever value won is read back.
func GetJWTSecret(ctx context.Context, q Querier) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}

	if _, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		jwtSecretKey, hex.EncodeToString(buf),
	); err != nil {
		return "", fmt.Errorf("storing session secret: %w", err)
	}

	var secret string
	if err := q.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, jwtSecretKey,
	).Scan(&secret); err != nil {
		return "", fmt.Errorf("reading session secret: %w", err)
	}
	return secret, nil
}
