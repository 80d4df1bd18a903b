package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/motogestor/dashclient/internal/client/client"
	"github.com/motogestor/dashclient/internal/client/config"
	"github.com/motogestor/dashclient/internal/client/repositories/kv"
	"github.com/motogestor/dashclient/internal/client/services"
	"github.com/motogestor/dashclient/internal/filex"
	"github.com/motogestor/dashclient/internal/logging"

	_ "modernc.org/sqlite"
)

// themeSettleTimeout bounds how long the client waits for a tenant theme
// before showing the next prompt unstyled.
const themeSettleTimeout = 500 * time.Millisecond

// App is the running dashboard client.
type App struct {
	config  *config.Config
	log     logging.Logger
	session *services.SessionStore
	themes  *services.ThemeResolver
	vars    *services.VarsSink
	style   *StyleSink
	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// NewApp opens the session storage, builds the API client and restores the
// stored session. The theme resolver starts following the session right
// away, so a restored identity already triggers the tenant theme fetch.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repo, closeRepo, err := openRepository(ctx, c)
	if err != nil {
		return nil, err
	}

	gw := client.NewGateway(c.APIBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log.With("component", "gateway")),
	)
	api := client.NewHTTPClient(gw, c.ProfilePath)

	session := services.NewSessionStore(api, repo,
		services.WithStorageKey(c.StorageKey),
		services.WithSessionLogger(log.With("component", "session")),
	)
	session.Hydrate(ctx)

	vars := services.NewVarsSink()
	style := NewStyleSink()
	themes := services.NewThemeResolver(ctx, session, api, services.MultiSink{vars, style},
		services.WithThemeLogger(log.With("component", "theme")),
	)

	return &App{
		config:  c,
		log:     log,
		session: session,
		themes:  themes,
		vars:    vars,
		style:   style,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closers: []func() error{closeRepo},
	}, nil
}

func openRepository(ctx context.Context, c *config.Config) (kv.Repository, func() error, error) {
	switch c.SessionBackend {
	case config.BackendRedis:
		r, err := kv.NewRedisRepositoryFromURL(c.RedisURL, "dashclient:")
		if err != nil {
			return nil, nil, fmt.Errorf("open redis session storage: %w", err)
		}
		return r, r.Close, nil
	case config.BackendSQLite:
		path, err := filex.EnsureParentDir(c.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite session storage: %w", err)
		}
		db, err := client.InitDatabase(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite session storage: %w", err)
		}
		return kv.NewSQLiteRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
}

// Run blocks until the session is restored, then runs the REPL on stdin
// until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	select {
	case <-a.session.Ready():
	case <-ctx.Done():
		return
	}
	a.settleTheme(ctx)

	fmt.Fprintln(a.out, a.style.Heading().Render("Workshop dashboard")+" (type 'help' for commands)")
	runREPL(ctx, a, a.prompt, bufio.NewScanner(a.reader))
}

// Close stops the theme resolver and releases storage.
func (a *App) Close() error {
	a.themes.Close()

	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// settleTheme gives an in-flight theme fetch a short chance to finish. A
// slow or hung theme endpoint never holds up the dashboard.
func (a *App) settleTheme(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, themeSettleTimeout)
	defer cancel()
	if err := a.themes.WaitContext(ctx); err != nil {
		a.log.Debug(ctx, "tenant theme still loading", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().Authenticated()
}

func (a *App) prompt() string {
	var b strings.Builder
	b.WriteString(a.style.Prompt().Render("dash"))
	if id := a.session.Current(); id.Authenticated() {
		status := fmt.Sprintf(" (%s %s)", id.User.Email, a.themes.Plan())
		b.WriteString(a.style.Muted().Render(status))
	}
	b.WriteString("> ")
	return b.String()
}
