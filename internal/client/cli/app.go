package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/client/client"
	"github.com/dmitrijs2005/expertprofile/internal/client/config"
	"github.com/dmitrijs2005/expertprofile/internal/client/page"
	"github.com/dmitrijs2005/expertprofile/internal/client/services"
	"github.com/dmitrijs2005/expertprofile/internal/filex"
	"github.com/dmitrijs2005/expertprofile/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	logFileName = "client.log"
	dbFileName  = "profile.db"
)

// getToken and initDatabase are indirections used to facilitate testing.
var (
	getToken     = GetToken
	initDatabase = client.InitDatabase
)

// profileService is what the App needs from services.ProfileService.
type profileService interface {
	page.API
	RevisionURL(ctx context.Context, version int64) (string, error)
	Ping(ctx context.Context) error
	Close() error
}

type App struct {
	config   *config.Config
	profiles profileService
	page     *page.Page
	logger   logging.Logger
	out      io.Writer
	in       io.Reader
	closers  []io.Closer

	mu   sync.Mutex
	mode Mode
}

// NewApp prepares the data directory, the log file and the local store,
// asks for the access token when none is configured and wires the page to
// the REST client.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	closers := []io.Closer{logFile}
	fail := func(err error) (*App, error) {
		closeAll(closers)
		return nil, err
	}

	logger, err := logging.New(logging.BackendSlog, c.LogLevel, logFile)
	if err != nil {
		return fail(err)
	}
	logger = logger.With("module", "cli")

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fail(fmt.Errorf("time zone %q: %w", c.TimeZone, err))
	}

	token := c.AccessToken
	if token == "" {
		if token, err = getToken(os.Stdout); err != nil {
			return fail(err)
		}
	}

	db, err := initDatabase(ctx, filepath.Join(dir, dbFileName))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return fail(err)
	}
	// the service closes the HTTP client, the database goes last
	closers = append([]io.Closer{db}, closers...)

	store := services.NewDraftStore(db, token)
	svc := services.NewProfileService(client.NewHTTPClient(c.ServerURL, token, c.RequestTimeout), store, logger)
	closers = append([]io.Closer{svc}, closers...)

	a := newApp(c, svc, store, loc, logger, os.Stdout)
	a.in = os.Stdin
	a.closers = closers
	return a, nil
}

func newApp(c *config.Config, svc profileService, drafts page.Drafts, loc *time.Location, logger logging.Logger, out io.Writer) *App {
	a := &App{config: c, profiles: svc, logger: logger, out: out}
	a.page = page.New(page.Deps{
		API:      svc,
		Notifier: page.NotifierFunc(a.notify),
		Drafts:   drafts,
		Location: loc,
		Logger:   logger,
	})
	return a
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

// Run loads the profile, starts the connectivity watcher and blocks in the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer closeAll(a.closers)

	printlnFn("Expert profile client (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if err := a.page.Load(ctx); err == nil {
		_ = a.Show(ctx)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.in))
}

func (a *App) notify(n page.Notification) {
	if n.Level == page.Failure {
		a.logger.Warn(context.Background(), "notification", "message", n.Message)
	}
	printlnFn(n.Message)
}

func (a *App) getStatus() string {
	a.mu.Lock()
	parts := []string{}
	if a.mode != "" {
		parts = append(parts, string(a.mode))
	}
	a.mu.Unlock()

	v := a.page.View()
	if v.Mode == page.Editing {
		parts = append(parts, v.Mode.String())
	}
	if v.Unsynced {
		parts = append(parts, "unsynced")
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// setMode reports whether the mode changed.
func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode == mode {
		return false
	}
	a.mode = mode
	return true
}

// StartOnlineStatusWatcher pings the server every interval and switches
// between online and offline mode. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
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
	pctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	err := a.profiles.Ping(pctx)
	cancel()

	mode := ModeOnline
	if err != nil {
		mode = ModeOffline
	}
	if !a.setMode(mode) {
		return
	}

	a.logger.Info(ctx, "connectivity changed", "mode", mode, "error", err)
	printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	if mode == ModeOnline && a.page.View().Unsynced {
		printlnFn(`Server is reachable again, type "retry" to resubmit unsynced changes`)
	}
}
