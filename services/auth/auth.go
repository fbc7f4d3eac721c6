// Package auth issues and tears down dashboard user sessions. Credential
// verification lives here, at the collaborator boundary; the core
// services only ever see an already-validated user identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	userRepo "fleetwatch/database/repository/user"
	"fleetwatch/models"
	"fleetwatch/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued token and its cached session stay valid.
const TokenTTL = 30 * time.Minute

// ErrInvalidCredentials is returned on a bad username/password pair or an
// inactive account.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// AuthResponse is returned to a successfully logged-in user.
type AuthResponse struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// RegisterRequest carries the fields for creating a dashboard user.
type RegisterRequest struct {
	FirstName string          `json:"firstName" binding:"required"`
	LastName  string          `json:"lastName" binding:"required"`
	Username  string          `json:"username" binding:"required"`
	Password  string          `json:"password" binding:"required"`
	Role      models.UserRole `json:"role"`
}

// AuthService manages dashboard user sessions.
type AuthService interface {
	// Login verifies credentials, issues a token and caches the session.
	Login(username, password string) (*AuthResponse, error)
	// Logout drops the cached session for the token and returns the user
	// id it belonged to, so callers can tear down grants.
	Logout(token string) (string, error)
	// Register creates a new dashboard user.
	Register(req RegisterRequest) (*models.User, error)
}

// DefaultAuthService implements AuthService backed by the user repository
// and the Redis auth cache.
type DefaultAuthService struct {
	Users userRepo.UserRepository
	Cache *redis.Client
}

// Login verifies the password, issues a JWT and caches the session under
// the token hash.
func (s *DefaultAuthService) Login(username, password string) (*AuthResponse, error) {
	user, err := s.Users.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Username, TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := utils.AuthSession{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		CreatedAt: time.Now(),
	}
	if err := utils.SaveAuthSession(s.Cache, utils.HashToken(token), session, TokenTTL); err != nil {
		return nil, err
	}

	return &AuthResponse{
		ID:        user.ID,
		Token:     token,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
	}, nil
}

// Logout deletes the cached session and reports which user held it.
func (s *DefaultAuthService) Logout(token string) (string, error) {
	hash := utils.HashToken(token)
	session, err := utils.GetAuthSession(s.Cache, hash)
	if err != nil {
		return "", fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return "", errors.New("no active session for token")
	}
	if err := utils.DeleteAuthSession(s.Cache, hash); err != nil {
		return "", err
	}
	return session.UserID, nil
}

// Register creates a new dashboard user with a bcrypt password hash.
func (s *DefaultAuthService) Register(req RegisterRequest) (*models.User, error) {
	existing, err := s.Users.GetByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username %s already registered", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleManager
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
