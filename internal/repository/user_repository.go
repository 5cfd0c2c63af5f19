package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
)

// UserRepo is the credential store backed by the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts u and fills in its ID.  A taken username yields
// ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password, role) VALUES (?, ?, ?)",
		u.Username, u.PasswordHash, string(u.Role))
	if err != nil {
		return classify(err, nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password, role FROM users WHERE username = ? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// ExistsByUsername reports whether the username is already registered.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(ctx, r.DB, "SELECT 1 FROM users WHERE username = ? LIMIT 1", username)
}
