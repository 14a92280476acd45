package services

import (
	"context"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/dmitrijs2005/piiquante/internal/server/models"
)

// AuthorizeMutation permits a change to sauce only by its owner.
func AuthorizeMutation(sauce *models.Sauce, requesterID string) error {
	if requesterID == "" || sauce.UserID != requesterID {
		return common.ErrorForbidden
	}
	return nil
}

// release drops an asset that is no longer referenced. Failures leave an
// orphaned file behind and are only logged. It runs after the record change
// is settled, so a client hanging up must not cancel it.
func (s *SauceService) release(ctx context.Context, ref, reason string) {
	if ref == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := s.assets.Release(ctx, ref); err != nil {
		s.logger.Warn(ctx, "asset release failed", "ref", ref, "reason", reason, "error", err)
	}
}
