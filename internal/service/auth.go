package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/multilingual_crud/internal/hash"
	"github.com/Skotchmaster/multilingual_crud/internal/logging"
	"github.com/Skotchmaster/multilingual_crud/internal/models"
	"github.com/Skotchmaster/multilingual_crud/internal/mykafka"
	"github.com/Skotchmaster/multilingual_crud/internal/repo"
	"github.com/Skotchmaster/multilingual_crud/internal/tokens"
)

// placeholderDomain completes a synthesized email when auto-create receives a
// bare username.
const placeholderDomain = "example.com"

type AuthService struct {
	Repo     *repo.GormRepo
	Issuer   *tokens.Issuer
	Producer *mykafka.Producer
	Index    UserIndexer
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
}

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown identifier")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "user_logged_in", user)
	return pair, nil
}

// LoginOrCreate behaves like Login for existing users. For a missing user it
// either provisions an account (autoCreate) or fails with the exact same
// error a wrong password produces, so callers cannot probe which usernames
// exist.
func (s *AuthService) LoginOrCreate(ctx context.Context, identifier, password string, autoCreate bool) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login_or_create")

	user, err := s.Repo.FindUserByIdentifier(ctx, identifier)
	switch {
	case err == nil:
		if !hash.CheckPassword(user.PasswordHash, password) {
			l.Warn("login_failed", "status", 401, "reason", "password mismatch")
			return nil, ErrInvalidCredentials
		}
	case errors.Is(err, repo.ErrNotFound):
		if !autoCreate {
			l.Warn("login_failed", "status", 401, "reason", "unknown identifier")
			return nil, ErrInvalidCredentials
		}
		user, err = s.autoCreate(ctx, identifier, password)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "user_logged_in", user)
	return pair, nil
}

func (s *AuthService) autoCreate(ctx context.Context, identifier, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.auto_create")

	username, email := DeriveIdentity(identifier)

	exists, err := s.Repo.UsernameOrEmailExists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		l.Warn("auto_create_failed", "status", 400, "reason", "derived identity collides")
		return nil, ErrUserAlreadyExists
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	// reload with roles, same as a regular login path would see it
	user, err = s.Repo.FindUserByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if s.Index != nil {
		if err := s.Index.IndexUser(ctx, user); err != nil {
			l.Error("index_failed", "error", err)
		}
	}
	s.publish(ctx, "user_created", user)
	l.Info("user_auto_created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Refresh exchanges a stored refresh token for a fresh access token. The
// refresh token itself is returned unchanged and stays valid until its own
// expiry; there is no rotation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	row, err := s.Repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "token not found")
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if row.Revoked || time.Now().After(row.ExpiresAt) {
		l.Warn("refresh_failed", "status", 401, "reason", "token revoked or expired")
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Repo.FindUserByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	access, exp, err := s.Issuer.SignAccessToken(user.ID, user.Username, user.Email, user.RoleNames())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refreshToken, AccessExp: exp}, nil
}

// Logout revokes the presented refresh token; unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, exp, err := s.Issuer.SignAccessToken(user.ID, user.Username, user.Email, user.RoleNames())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := tokens.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.Repo.CreateRefreshToken(ctx, refresh, user.ID, time.Now().Add(tokens.RefreshTTL)); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, AccessExp: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType string, user *models.User) {
	event := map[string]interface{}{
		"type":     eventType,
		"user_id":  user.ID,
		"username": user.Username,
	}
	if err := s.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "type", eventType, "error", err)
	}
}

// DeriveIdentity splits the single login identifier into username and email.
// "bob@x.com" -> ("bob", "bob@x.com"); "bob" -> ("bob", "bob@example.com").
func DeriveIdentity(identifier string) (username, email string) {
	v := strings.TrimSpace(identifier)
	if at := strings.Index(v, "@"); at >= 0 {
		return v[:at], v
	}
	return v, v + "@" + placeholderDomain
}
