package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/dbx"
	"github.com/dmitrijs2005/piiquante/internal/logging"
	"github.com/dmitrijs2005/piiquante/internal/server/config"
	"github.com/dmitrijs2005/piiquante/internal/server/models"
	"github.com/dmitrijs2005/piiquante/internal/server/repositories/memory"
	"github.com/dmitrijs2005/piiquante/internal/server/repositories/sauces"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// fakeAssets is an in-memory assets.Store with switchable failures.
type fakeAssets struct {
	mu         sync.Mutex
	seq        int
	objects    map[string][]byte
	released   []string
	releaseCtx []context.Context
	storeErr   error
	releaseErr error
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{objects: map[string][]byte{}}
}

func (f *fakeAssets) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.seq++
	ref := fmt.Sprintf("img-%d", f.seq)
	f.objects[ref] = data
	return ref, nil
}

func (f *fakeAssets) Release(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, ref)
	f.releaseCtx = append(f.releaseCtx, ctx)
	if f.releaseErr != nil {
		return f.releaseErr
	}
	delete(f.objects, ref)
	return nil
}

func (f *fakeAssets) URL(ctx context.Context, ref string) (string, error) {
	return "http://test/images/" + ref, nil
}

func (f *fakeAssets) has(ref string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[ref]
	return ok
}

func (f *fakeAssets) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// failingManager hands out sauce repositories that fail selected writes.
type failingManager struct {
	*memory.RepositoryManager
	createErr error
	updateErr error
}

func (m *failingManager) Sauces(db dbx.DBTX) sauces.Repository {
	return &failingSauceRepo{Repository: m.RepositoryManager.Sauces(db), m: m}
}

type failingSauceRepo struct {
	sauces.Repository
	m *failingManager
}

func (r *failingSauceRepo) Create(ctx context.Context, s *models.Sauce) (*models.Sauce, error) {
	if r.m.createErr != nil {
		return nil, r.m.createErr
	}
	return r.Repository.Create(ctx, s)
}

func (r *failingSauceRepo) UpdateDetails(ctx context.Context, s *models.Sauce) error {
	if r.m.updateErr != nil {
		return r.m.updateErr
	}
	return r.Repository.UpdateDetails(ctx, s)
}

var errBoom = errors.New("boom")

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.TokenTTL = time.Hour
	return cfg
}

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	svc, err := NewUserService(openTestDB(t), memory.NewRepositoryManager(), testConfig(), logging.Discard())
	require.NoError(t, err)
	return svc
}
