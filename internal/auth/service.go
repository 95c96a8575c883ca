package auth

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stockwise/stockwise/internal/shared"
	"github.com/stockwise/stockwise/internal/users"
)

// UserPort is the slice of the user store authentication needs.
type UserPort interface {
	FindByLoginID(ctx context.Context, loginID string) (users.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// Session is the login response: the account plus its token pair.
type Session struct {
	User users.User `json:"user"`
	TokenPair
}

// Service wraps authentication business rules.
type Service struct {
	logger *slog.Logger
	users  UserPort
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(logger *slog.Logger, userPort UserPort, tokens *TokenStore) *Service {
	return &Service{logger: logger, users: userPort, tokens: tokens}
}

// Login validates credentials and issues a token pair. Every failure mode
// reports the same error so login ids cannot be probed.
func (s *Service) Login(ctx context.Context, loginID, password string) (Session, error) {
	user, err := s.users.FindByLoginID(ctx, loginID)
	if err != nil {
		return Session{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return Session{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, shared.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("touch last login", slog.Int64("user_id", user.ID), slog.Any("error", err))
	}
	user.LastLogin = &now

	pair, err := s.tokens.Issue(ctx, user.ID, user.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, TokenPair: pair}, nil
}

// Refresh rotates a refresh token into a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, shared.ErrUnauthorized
	}
	return s.tokens.Rotate(ctx, refreshToken)
}

// Logout revokes the presented tokens.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return s.tokens.Revoke(ctx, accessToken, refreshToken)
}

// LogoutAll revokes every token the actor holds.
func (s *Service) LogoutAll(ctx context.Context, actor *shared.Actor) error {
	if actor == nil {
		return shared.ErrUnauthorized
	}
	return s.tokens.RevokeAll(ctx, actor.UserID)
}
