package rest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/logging"
	"github.com/dmitrijs2005/piiquante/internal/server/assets"
	"github.com/dmitrijs2005/piiquante/internal/server/config"
	"github.com/dmitrijs2005/piiquante/internal/server/repositories/memory"
	"github.com/dmitrijs2005/piiquante/internal/server/services"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type testEnv struct {
	server *Server
	store  *assets.FSStore
	repos  *memory.RepositoryManager
}

func newTestEnv(t *testing.T, tweak ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.TokenTTL = time.Hour
	cfg.ImagesDir = t.TempDir()
	cfg.PublicBaseURL = "http://piiquante.test"
	cfg.AuthRateBurst = 1000
	cfg.AuthRatePerMinute = 1000
	for _, f := range tweak {
		f(cfg)
	}

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := assets.NewFSStore(cfg.ImagesDir, cfg.PublicBaseURL)
	require.NoError(t, err)

	repos := memory.NewRepositoryManager()
	us, err := services.NewUserService(db, repos, cfg, logging.Discard())
	require.NoError(t, err)
	ss := services.NewSauceService(db, repos, store, logging.Discard())

	s := NewServer(cfg, logging.Discard(), us, ss, db)
	t.Cleanup(s.authLimiter.Stop)

	return &testEnv{server: s, store: store, repos: repos}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target, token string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// multipartRequest builds the sauce form. A nil image leaves the part out.
func multipartRequest(t *testing.T, method, target, token string, sauce any, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	b, err := json.Marshal(sauce)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("sauce", string(b)))

	if image != nil {
		fw, err := mw.CreateFormFile("image", "sauce.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sauceFields() map[string]any {
	return map[string]any{
		"name":         "Hot One",
		"manufacturer": "Acme",
		"description":  "burns",
		"mainPepper":   "habanero",
		"heat":         8,
	}
}

// signup registers and logs in a user, returning its id and token.
func (e *testEnv) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	creds := map[string]string{"email": email, "password": "password123"}

	rec := e.do(t, jsonRequest(t, http.MethodPost, "/api/auth/signup", "", creds))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, jsonRequest(t, http.MethodPost, "/api/auth/login", "", creds))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[loginResponse](t, rec)
	return resp.UserID, resp.Token
}

func (e *testEnv) createSauce(t *testing.T, token string) sauceResponse {
	t.Helper()
	rec := e.do(t, multipartRequest(t, http.MethodPost, "/api/sauces", token, sauceFields(), pngBytes(t)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[sauceResponse](t, rec)
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return sql.ErrConnDone }
