package users

import (
	"context"

	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
)

type Repository interface {
	// Create stores a new user. A taken email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail returns the user or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
