package sauces

import (
	"context"

	"github.com/dmitrijs2005/piiquante/internal/server/models"
)

// Repository is the record store for sauces.
//
// UpdateDetails and UpdateVotes each write only the columns they own and
// bump the version; both fail with common.ErrVersionConflict if the row's
// version no longer matches the one passed in.
type Repository interface {
	List(ctx context.Context) ([]*models.Sauce, error)
	GetByID(ctx context.Context, id string) (*models.Sauce, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Sauce, error)
	Create(ctx context.Context, sauce *models.Sauce) (*models.Sauce, error)
	UpdateDetails(ctx context.Context, sauce *models.Sauce) error
	UpdateVotes(ctx context.Context, sauce *models.Sauce) error
	Delete(ctx context.Context, id string) error
}
