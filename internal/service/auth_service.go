package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vaitahavya/morandi-sub002/internal/auth"
	"github.com/vaitahavya/morandi-sub002/internal/model"
)

// UserRepositoryInterface defines the interface for user data access.
type UserRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	InsertIfAbsent(ctx context.Context, user *model.User) (bool, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID int64, role string) (string, time.Time, error)
}

// AuthService authenticates users and issues tokens.
type AuthService struct {
	users  UserRepositoryInterface
	tokens TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepositoryInterface, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login checks the credentials and returns a signed token.
// Unknown emails and wrong passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt, Role: user.Role}, nil
}

// EnsureUser creates a user with the given role unless the email already exists.
// Reports whether the user was created.
func (s *AuthService) EnsureUser(ctx context.Context, email, password, role string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, ErrInvalidRequest
	}
	switch role {
	case model.RoleAdmin, model.RoleManager, model.RoleCustomer:
	default:
		return false, ErrInvalidRequest
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	return s.users.InsertIfAbsent(ctx, &model.User{Email: email, PasswordHash: hash, Role: role})
}
