package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/dmitrijs2005/piiquante/internal/dbx"
	"github.com/dmitrijs2005/piiquante/internal/logging"
	"github.com/dmitrijs2005/piiquante/internal/server/assets"
	"github.com/dmitrijs2005/piiquante/internal/server/models"
	"github.com/dmitrijs2005/piiquante/internal/server/rating"
	"github.com/dmitrijs2005/piiquante/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// SauceService implements sauce CRUD and voting. Every change to an
// existing sauce runs in a transaction that holds the row lock, so
// concurrent votes and edits on one sauce are applied one after another.
type SauceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	assets      assets.Store
	logger      logging.Logger
}

func NewSauceService(db *sql.DB, m repomanager.RepositoryManager, store assets.Store, logger logging.Logger) *SauceService {
	return &SauceService{
		db:          db,
		repomanager: m,
		assets:      store,
		logger:      logger.With("module", "sauces"),
	}
}

// Ids that are not UUIDs cannot exist, so they are reported as not found
// without a round trip.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return nil
}

func (s *SauceService) withURL(ctx context.Context, sauce *models.Sauce) (*models.Sauce, error) {
	u, err := s.assets.URL(ctx, sauce.ImageRef)
	if err != nil {
		return nil, fmt.Errorf("resolve image url: %w", err)
	}
	sauce.ImageURL = u
	return sauce, nil
}

func (s *SauceService) List(ctx context.Context) ([]*models.Sauce, error) {
	list, err := s.repomanager.Sauces(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing sauces: %w", err)
	}
	for _, sauce := range list {
		if _, err := s.withURL(ctx, sauce); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (s *SauceService) Get(ctx context.Context, id string) (*models.Sauce, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	sauce, err := s.repomanager.Sauces(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting sauce: %w", err)
	}
	return s.withURL(ctx, sauce)
}

// Create stores img and inserts a sauce owned by ownerID with no votes.
// If the insert fails the stored image is released again.
func (s *SauceService) Create(ctx context.Context, ownerID string, details models.SauceDetails, img *assets.Image) (*models.Sauce, error) {
	if img == nil {
		return nil, common.NewValidationError("image", "is required")
	}

	ref, err := s.assets.Store(ctx, img.Data, img.ContentType)
	if err != nil {
		return nil, fmt.Errorf("error storing image: %w", err)
	}

	sauce := &models.Sauce{
		UserID:        ownerID,
		ImageRef:      ref,
		UsersLiked:    []string{},
		UsersDisliked: []string{},
	}
	details.Apply(sauce)

	created, err := s.repomanager.Sauces(s.db).Create(ctx, sauce)
	if err != nil {
		s.release(ctx, ref, "create failed")
		return nil, fmt.Errorf("error creating sauce: %w", err)
	}

	s.logger.Info(ctx, "sauce created", "sauce_id", created.ID, "user_id", ownerID,
		"image_ref", ref, "width", img.Width, "height", img.Height)
	return s.withURL(ctx, created)
}

// Update changes the editable fields of a sauce and, when img is given,
// replaces its image. Only the owner may update. Votes are never touched.
//
// The new image is stored before the row is written and the old one is
// released only after the commit, so the record never points at a missing
// asset. If the write fails, the new image is released instead.
func (s *SauceService) Update(ctx context.Context, id, requesterID string, details models.SauceDetails, img *assets.Image) (*models.Sauce, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	// Reject strangers before accepting their upload.
	current, err := s.repomanager.Sauces(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting sauce: %w", err)
	}
	if err := AuthorizeMutation(current, requesterID); err != nil {
		return nil, err
	}

	var newRef string
	if img != nil {
		newRef, err = s.assets.Store(ctx, img.Data, img.ContentType)
		if err != nil {
			return nil, fmt.Errorf("error storing image: %w", err)
		}
	}

	var updated *models.Sauce
	var oldRef string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sauces(tx)

		sauce, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("error locking sauce: %w", err)
		}
		if err := AuthorizeMutation(sauce, requesterID); err != nil {
			return err
		}

		details.Apply(sauce)
		if newRef != "" {
			oldRef = sauce.ImageRef
			sauce.ImageRef = newRef
		}
		if err := repo.UpdateDetails(ctx, sauce); err != nil {
			return fmt.Errorf("error updating sauce: %w", err)
		}
		updated = sauce
		return nil
	})
	if err != nil {
		s.release(ctx, newRef, "update failed")
		return nil, err
	}

	s.release(ctx, oldRef, "image replaced")
	attrs := []any{"sauce_id", id, "user_id", requesterID, "image_replaced", newRef != ""}
	if img != nil {
		attrs = append(attrs, "width", img.Width, "height", img.Height)
	}
	s.logger.Info(ctx, "sauce updated", attrs...)
	return s.withURL(ctx, updated)
}

// Delete removes a sauce owned by requesterID and then releases its image.
func (s *SauceService) Delete(ctx context.Context, id, requesterID string) error {
	if err := checkID(id); err != nil {
		return err
	}

	var ref string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sauces(tx)

		sauce, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("error locking sauce: %w", err)
		}
		if err := AuthorizeMutation(sauce, requesterID); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting sauce: %w", err)
		}
		ref = sauce.ImageRef
		return nil
	})
	if err != nil {
		return err
	}

	s.release(ctx, ref, "sauce deleted")
	s.logger.Info(ctx, "sauce deleted", "sauce_id", id, "user_id", requesterID)
	return nil
}

// Vote applies a like (1), dislike (-1) or withdrawal (0) by userID.
// Repeating the current vote changes nothing and writes nothing.
func (s *SauceService) Vote(ctx context.Context, id, userID string, like int) (*models.Sauce, error) {
	intent, err := rating.ParseIntent(like)
	if err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}

	var voted *models.Sauce
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sauces(tx)

		sauce, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("error locking sauce: %w", err)
		}

		changed, err := rating.Apply(sauce, userID, intent)
		if err != nil {
			return err
		}
		if changed {
			if err := repo.UpdateVotes(ctx, sauce); err != nil {
				return fmt.Errorf("error saving vote: %w", err)
			}
		}
		voted = sauce
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "vote applied", "sauce_id", id, "user_id", userID, "state", rating.StateOf(voted, userID))
	return s.withURL(ctx, voted)
}
