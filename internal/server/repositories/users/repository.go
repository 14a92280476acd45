package users

import (
	"context"

	"github.com/dmitrijs2005/piiquante/internal/server/models"
)

// Repository is the credential store.
type Repository interface {
	// Create inserts user and fills in ID and CreatedAt. A taken email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
