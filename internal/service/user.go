package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/multilingual_crud/internal/hash"
	"github.com/Skotchmaster/multilingual_crud/internal/logging"
	"github.com/Skotchmaster/multilingual_crud/internal/models"
	"github.com/Skotchmaster/multilingual_crud/internal/mykafka"
	"github.com/Skotchmaster/multilingual_crud/internal/repo"
)

type UserService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
	Index    UserIndexer
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.create")

	taken, err := s.Repo.EmailInUse(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		l.Warn("create_failed", "status", 400, "reason", "email in use")
		return nil, ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, Email: email, PasswordHash: pwHash}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.index(ctx, user)
	s.publish(ctx, "user_created", user)
	l.Info("user_created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Update applies only the non-blank fields. A supplied password is re-hashed,
// a changed email re-checks uniqueness against everyone but the user itself.
func (s *UserService) Update(ctx context.Context, id uint, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "user_id", id)

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(username) != "" {
		user.Username = username
	}
	if strings.TrimSpace(email) != "" {
		taken, err := s.Repo.EmailInUse(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			l.Warn("update_failed", "status", 400, "reason", "email in use")
			return nil, ErrEmailTaken
		}
		user.Email = email
	}
	if strings.TrimSpace(password) != "" {
		pwHash, err := hash.HashPassword(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.index(ctx, user)
	s.publish(ctx, "user_updated", user)
	return user, nil
}

// Delete is idempotent: removing an absent id succeeds.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "user.delete", "user_id", id)

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteUser(ctx, id); err != nil {
			l.Error("index_delete_failed", "error", err)
		}
	}

	event := map[string]interface{}{"type": "user_deleted", "user_id": id}
	if err := s.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(id), event); err != nil {
		l.Error("kafka_publish_failed", "type", "user_deleted", "error", err)
	}
	l.Info("user_deleted")
	return nil
}

func (s *UserService) index(ctx context.Context, user *models.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexUser(ctx, user); err != nil {
		logging.FromContext(ctx).Error("index_failed", "user_id", user.ID, "error", err)
	}
}

func (s *UserService) publish(ctx context.Context, eventType string, user *models.User) {
	event := map[string]interface{}{
		"type":     eventType,
		"user_id":  user.ID,
		"username": user.Username,
	}
	if err := s.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "type", eventType, "error", err)
	}
}
