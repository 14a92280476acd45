// Package api is the CLI's HTTP client for the piiquante server. It keeps
// the session token from the last login and sends it with every sauce call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/client/models"
	"github.com/dmitrijs2005/piiquante/internal/common"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.RWMutex
	token  string
	userID string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns its user id.
func (c *Client) Register(ctx context.Context, email string, password []byte) (string, error) {
	var resp struct {
		UserID string `json:"userId"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", credentials{Email: email, Password: string(password)}, &resp)
	if err != nil {
		return "", err
	}
	return resp.UserID, nil
}

// Login authenticates and keeps the session for later calls.
func (c *Client) Login(ctx context.Context, email string, password []byte) (string, error) {
	var resp struct {
		UserID string `json:"userId"`
		Token  string `json:"token"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", credentials{Email: email, Password: string(password)}, &resp)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.token, c.userID = resp.Token, resp.UserID
	c.mu.Unlock()

	return resp.UserID, nil
}

// Logout forgets the session. The server keeps no session state.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token, c.userID = "", ""
	c.mu.Unlock()
}

// UserID is the id of the logged in user, or "".
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Client) LoggedIn() bool {
	return c.UserID() != ""
}

// Ping checks the server's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) ListSauces(ctx context.Context) ([]models.Sauce, error) {
	var list []models.Sauce
	if err := c.doJSON(ctx, http.MethodGet, "/api/sauces", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetSauce(ctx context.Context, id string) (*models.Sauce, error) {
	var s models.Sauce
	if err := c.doJSON(ctx, http.MethodGet, "/api/sauces/"+url.PathEscape(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

type sauceEnvelope struct {
	Message string        `json:"message"`
	Sauce   *models.Sauce `json:"sauce"`
}

// CreateSauce uploads a new sauce with its image as a multipart form.
func (c *Client) CreateSauce(ctx context.Context, in models.SauceInput, imageName string, image []byte) (*models.Sauce, error) {
	fields, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("sauce", string(fields)); err != nil {
		return nil, err
	}
	fw, err := mw.CreateFormFile("image", imageName)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var resp sauceEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/sauces", mw.FormDataContentType(), &body, &resp); err != nil {
		return nil, err
	}
	return resp.Sauce, nil
}

// Vote sends like: 1 likes, -1 dislikes, 0 withdraws.
func (c *Client) Vote(ctx context.Context, id string, like int) (*models.Sauce, error) {
	var resp sauceEnvelope
	err := c.doJSON(ctx, http.MethodPost, "/api/sauces/"+url.PathEscape(id)+"/like", map[string]int{"like": like}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Sauce, nil
}

func (c *Client) DeleteSauce(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/sauces/"+url.PathEscape(id), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	if in == nil {
		return c.do(ctx, method, path, "", nil, out)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(b), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: body.Error, Fields: body.Fields}
}
