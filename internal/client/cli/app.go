package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/client/api"
	"github.com/dmitrijs2005/piiquante/internal/client/config"
	"github.com/dmitrijs2005/piiquante/internal/client/models"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// SauceAPI is the part of api.Client the commands use.
type SauceAPI interface {
	Register(ctx context.Context, email string, password []byte) (string, error)
	Login(ctx context.Context, email string, password []byte) (string, error)
	Logout()
	UserID() string
	LoggedIn() bool
	Ping(ctx context.Context) error
	ListSauces(ctx context.Context) ([]models.Sauce, error)
	GetSauce(ctx context.Context, id string) (*models.Sauce, error)
	CreateSauce(ctx context.Context, in models.SauceInput, imageName string, image []byte) (*models.Sauce, error)
	Vote(ctx context.Context, id string, like int) (*models.Sauce, error)
	DeleteSauce(ctx context.Context, id string) error
}

type App struct {
	config *config.Config
	api    SauceAPI
	reader *bufio.Reader
	out    io.Writer

	mu    sync.Mutex
	email string
	mode  Mode
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

// Run starts the status watcher and the REPL and returns when the user
// exits or ctx is canceled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}

// StartOnlineStatusWatcher pings the server every interval and updates the
// mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
