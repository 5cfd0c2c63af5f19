package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/auth"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/repository"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/utils"
)

// TokenIssuer signs session tokens.  *utils.TokenCodec implements it.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, time.Time, error)
}

// RegisterInput is the body of POST /register.
type RegisterInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	Role      auth.Role `json:"role"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService registers users and exchanges credentials for tokens.
type AuthService struct {
	users      UserStore
	tokens     TokenIssuer
	bcryptCost int
}

func NewAuthService(users UserStore, tokens TokenIssuer, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register validates in and stores a new user with a bcrypt-hashed
// password.  The plaintext is never persisted.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" || in.ConfirmPassword == "" || strings.TrimSpace(in.Role) == "" {
		return model.User{}, invalid("All fields are required")
	}
	if in.Password != in.ConfirmPassword {
		return model.User{}, invalid("Passwords do not match")
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return model.User{}, invalid("Password must be at most 72 bytes")
	}
	role, ok := auth.ParseRole(in.Role)
	if !ok {
		return model.User{}, invalid("Invalid role")
	}
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, invalid("Username already exists")
	}
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{Username: username, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, &u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, invalid("Username already exists")
		}
		return model.User{}, err
	}
	return u, nil
}

// Login checks the credentials and issues a session token.  An unknown
// username and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, unauthorized("Invalid credentials")
	}
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, unauthorized("Invalid credentials")
	}
	if err != nil {
		return Session{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, unauthorized("Invalid credentials")
	}
	token, exp, err := s.tokens.Issue(auth.Identity{ID: u.ID, Username: u.Username, Role: u.Role})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Role: u.Role, Username: u.Username, ExpiresAt: exp}, nil
}
