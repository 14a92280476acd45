// Package memory provides map-backed repositories with the same contracts as
// the PostgreSQL ones. They ignore the DBTX they are bound to, so writes are
// not undone when a surrounding transaction rolls back.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/dmitrijs2005/piiquante/internal/dbx"
	"github.com/dmitrijs2005/piiquante/internal/server/models"
	"github.com/dmitrijs2005/piiquante/internal/server/repositories/sauces"
	"github.com/dmitrijs2005/piiquante/internal/server/repositories/users"
	"github.com/google/uuid"
)

// RepositoryManager hands out the same two stores for every DBTX.
type RepositoryManager struct {
	users  *UserRepository
	sauces *SauceRepository
}

func NewRepositoryManager() *RepositoryManager {
	return &RepositoryManager{
		users:  &UserRepository{byEmail: map[string]*models.User{}},
		sauces: &SauceRepository{byID: map[string]*models.Sauce{}},
	}
}

func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *RepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *RepositoryManager) Sauces(dbx.DBTX) sauces.Repository { return m.sauces }

// SauceStore exposes the concrete sauce store for assertions.
func (m *RepositoryManager) SauceStore() *SauceRepository { return m.sauces }

type UserRepository struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	cp := *user
	r.byEmail[user.Email] = &cp
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type SauceRepository struct {
	mu   sync.Mutex
	byID map[string]*models.Sauce
}

func (r *SauceRepository) List(ctx context.Context) ([]*models.Sauce, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Sauce, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *SauceRepository) GetByID(ctx context.Context, id string) (*models.Sauce, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s.Clone(), nil
}

func (r *SauceRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Sauce, error) {
	return r.GetByID(ctx, id)
}

func (r *SauceRepository) Create(ctx context.Context, s *models.Sauce) (*models.Sauce, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	s.ID = uuid.NewString()
	s.Version = 1
	s.CreatedAt, s.UpdatedAt = now, now
	if s.UsersLiked == nil {
		s.UsersLiked = []string{}
	}
	if s.UsersDisliked == nil {
		s.UsersDisliked = []string{}
	}
	r.byID[s.ID] = s.Clone()
	return s, nil
}

func (r *SauceRepository) UpdateDetails(ctx context.Context, s *models.Sauce) error {
	return r.update(s, func(stored *models.Sauce) {
		models.SauceDetails{
			Name: s.Name, Manufacturer: s.Manufacturer, Description: s.Description,
			MainPepper: s.MainPepper, Heat: s.Heat,
		}.Apply(stored)
		stored.ImageRef = s.ImageRef
	})
}

func (r *SauceRepository) UpdateVotes(ctx context.Context, s *models.Sauce) error {
	return r.update(s, func(stored *models.Sauce) {
		c := s.Clone()
		stored.Likes, stored.Dislikes = c.Likes, c.Dislikes
		stored.UsersLiked, stored.UsersDisliked = c.UsersLiked, c.UsersDisliked
	})
}

func (r *SauceRepository) update(s *models.Sauce, apply func(stored *models.Sauce)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[s.ID]
	if !ok || stored.Version != s.Version {
		return common.ErrVersionConflict
	}
	apply(stored)
	stored.Version++
	stored.UpdatedAt = time.Now()
	s.Version, s.UpdatedAt = stored.Version, stored.UpdatedAt
	return nil
}

func (r *SauceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}
