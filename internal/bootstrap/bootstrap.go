package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/multilingual_crud/internal/config"
	"github.com/Skotchmaster/multilingual_crud/internal/hash"
	"github.com/Skotchmaster/multilingual_crud/internal/logging"
	"github.com/Skotchmaster/multilingual_crud/internal/models"
	"github.com/Skotchmaster/multilingual_crud/internal/repo"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Run performs the idempotent startup sequence: schema, built-in roles, seed
// admin. Safe to call on every process start.
func Run(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	l := logging.FromContext(ctx).With("svc", "bootstrap")

	if err := db.AutoMigrate(&models.User{}, &models.Role{}, &models.UserRole{}, &models.RefreshToken{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	r := repo.New(db)

	adminRole, err := EnsureRole(ctx, r, RoleAdmin, "Full access to manage users and roles")
	if err != nil {
		return err
	}
	if _, err := EnsureRole(ctx, r, RoleUser, "Read access; can update own profile"); err != nil {
		return err
	}

	if err := EnsureAdmin(ctx, r, cfg, adminRole); err != nil {
		return err
	}

	l.Info("bootstrap_complete")
	return nil
}

func EnsureRole(ctx context.Context, r *repo.GormRepo, name, description string) (*models.Role, error) {
	role, err := r.FindRoleByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	role = &models.Role{Name: name, Description: description}
	if err := r.CreateRole(ctx, role); err != nil {
		// lost a concurrent race, the row exists now
		if errors.Is(err, repo.ErrRoleExists) {
			return r.FindRoleByName(ctx, name)
		}
		return nil, err
	}
	return role, nil
}

func EnsureAdmin(ctx context.Context, r *repo.GormRepo, cfg *config.Config, adminRole *models.Role) error {
	l := logging.FromContext(ctx).With("svc", "bootstrap")

	admin, err := r.FindUserByIdentifier(ctx, cfg.SeedAdminEmail)
	if errors.Is(err, repo.ErrNotFound) {
		pwHash, err := hash.HashPassword(cfg.SeedAdminPassword)
		if err != nil {
			return err
		}
		admin = &models.User{
			Username:     cfg.SeedAdminUsername,
			Email:        cfg.SeedAdminEmail,
			PasswordHash: pwHash,
		}
		if err := r.CreateUser(ctx, admin); err != nil {
			return fmt.Errorf("create seed admin: %w", err)
		}
		l.Info("seed_admin_created", "username", admin.Username)
	} else if err != nil {
		return err
	}

	return r.AssignRole(ctx, admin.ID, adminRole.ID)
}
