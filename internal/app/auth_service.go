// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"

	"muscal/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user and a wrong
// password alike.
var ErrInvalidCredentials = fmt.Errorf("%w: wrong credentials", domain.ErrAuth)

// AuthService handles registration, authentication and token issuance.
type AuthService struct {
	store  domain.Store
	tokens *TokenService
	log    *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store domain.Store, tokens *TokenService, log *zap.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		log:    log.Named("auth"),
	}
}

// Register creates a user together with the default goal profile.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if err := domain.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.provision(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *AuthService) provision(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	var user *domain.User
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Store) error {
		u, err := tx.Create(ctx, username, passwordHash)
		if err != nil {
			return err
		}
		if err := tx.CreateProfile(ctx, domain.DefaultProfile(u.ID)); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username and password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates a user and issues a token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// LoginExternal issues tokens for a user authenticated by an identity
// provider, provisioning the user on first sight. External users have no
// password hash and can never log in with a password. A username already
// taken by a password account is refused with ErrConflict.
func (s *AuthService) LoginExternal(ctx context.Context, username string) (*domain.User, *TokenPair, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		user, err = s.provision(ctx, username, "")
		if errors.Is(err, domain.ErrConflict) {
			// Lost a race with a concurrent first login.
			user, err = s.store.GetByUsername(ctx, username)
			if err == nil && user == nil {
				err = fmt.Errorf("%w: user %q vanished", domain.ErrInternal, username)
			}
		}
		if err != nil {
			return nil, nil, err
		}
		s.log.Info("external user provisioned", zap.Int64("user_id", user.ID), zap.String("username", username))
	}
	if user.PasswordHash != "" {
		return nil, nil, fmt.Errorf("%w: username %q belongs to a password account", domain.ErrConflict, username)
	}
	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a refresh token for a new access token. Tokens of
// users that no longer exist are rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.Resolve(refreshToken, RefreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidToken
	}
	return s.tokens.IssueAccess(user.ID)
}

// ResolveAccess returns the user ID carried by a valid access token.
func (s *AuthService) ResolveAccess(token string) (int64, error) {
	return s.tokens.Resolve(token, AccessToken)
}

// Me returns the user behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}
	return user, nil
}
