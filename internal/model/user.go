package model

import (
	"time"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/auth"
)

// User represents an application user record as stored in the
// `users` table.  The password column only ever holds a bcrypt hash.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	PasswordHash – bcrypt hashed password.
//	Role         – user or admin, fixed at registration.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password
	Role         auth.Role // users.role
	CreatedAt    time.Time // users.created_at
}
