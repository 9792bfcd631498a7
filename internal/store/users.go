package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/izgubljeno/internal/model"
)

const userColumns = `id, username, name, email, phone, password_hash, created_at`

// CreateUser creates a new user.
func CreateUser(ctx context.Context, q Querier, username, name, email, phone, passwordHash string) (*model.User, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO users (username, name, email, phone, password_hash) VALUES (?, ?, ?, ?, ?)`,
		username, name, email, nullString(phone), passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, q, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, q Querier, id int64) (*model.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username.
func GetUserByUsername(ctx context.Context, q Querier, username string) (*model.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

func scanUser(s rowScanner) (*model.User, error) {
	u := &model.User{}
	var phone sql.NullString
	if err := s.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &phone, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Phone = phone.String
	return u, nil
}
