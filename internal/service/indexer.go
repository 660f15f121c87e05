package service

import (
	"context"

	"github.com/Skotchmaster/multilingual_crud/internal/models"
)

// UserIndexer pushes user projections into the search index. Implemented by
// es.UserIndex; nil means search indexing is disabled.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) error
}
