package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/multilingual_crud/internal/logging"
	"github.com/Skotchmaster/multilingual_crud/internal/models"
	"github.com/Skotchmaster/multilingual_crud/internal/mykafka"
	"github.com/Skotchmaster/multilingual_crud/internal/repo"
)

type RoleService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	return s.Repo.ListRoles(ctx)
}

func (s *RoleService) Create(ctx context.Context, name, description string) (*models.Role, error) {
	l := logging.FromContext(ctx).With("svc", "role.create", "role", name)

	if _, err := s.Repo.FindRoleByName(ctx, name); err == nil {
		l.Warn("create_failed", "status", 400, "reason", "name in use")
		return nil, ErrRoleExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	role := &models.Role{Name: name, Description: description}
	if err := s.Repo.CreateRole(ctx, role); err != nil {
		if errors.Is(err, repo.ErrRoleExists) {
			return nil, ErrRoleExists
		}
		return nil, err
	}

	s.publish(ctx, "role_created", role)
	l.Info("role_created", "role_id", role.ID)
	return role, nil
}

// Delete is idempotent like user deletion; assignments go with the role.
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteRole(ctx, id); err != nil {
		return err
	}

	event := map[string]interface{}{"type": "role_deleted", "role_id": id}
	if err := s.Producer.PublishEvent(ctx, "role_events", fmt.Sprint(id), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "type", "role_deleted", "error", err)
	}
	return nil
}

func (s *RoleService) publish(ctx context.Context, eventType string, role *models.Role) {
	event := map[string]interface{}{
		"type":    eventType,
		"role_id": role.ID,
		"name":    role.Name,
	}
	if err := s.Producer.PublishEvent(ctx, "role_events", fmt.Sprint(role.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "type", eventType, "error", err)
	}
}
