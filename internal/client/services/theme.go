package services

import (
	"context"
	"slices"
	"sync"

	"github.com/motogestor/dashclient/internal/client/models"
	"github.com/motogestor/dashclient/internal/logging"
)

// IdentitySource is the part of SessionStore the theme resolver follows.
type IdentitySource interface {
	Current() Identity
	Subscribe(fn func(Identity)) func()
}

// ThemeClient fetches a tenant's palettes and plan.
type ThemeClient interface {
	TenantTheme(ctx context.Context, token string) (*models.TenantTheme, error)
}

// ThemeResolver keeps the tenant palette applied to a PresentationSink and
// refetches it whenever the signed-in identity changes.
//
// Fetch failures are never returned to callers: the dashboard keeps the
// palette it has (or none) and the error goes to the logger and the
// optional fetch-error hook. A response for an identity that has since
// been replaced is dropped.
type ThemeResolver struct {
	api          ThemeClient
	sink         PresentationSink
	log          logging.Logger
	onFetchError func(error)

	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup

	mu          sync.Mutex
	closed      bool
	seen        bool
	gen         uint64
	cancelFetch context.CancelFunc
	loading     bool
	plan        models.Plan
	themes      []models.ThemePalette
	active      *models.ThemePalette
}

type ThemeOption func(*ThemeResolver)

func WithThemeLogger(l logging.Logger) ThemeOption {
	return func(r *ThemeResolver) { r.log = l }
}

// WithFetchErrorHook is called with every swallowed fetch error.
func WithFetchErrorHook(fn func(error)) ThemeOption {
	return func(r *ThemeResolver) { r.onFetchError = fn }
}

// NewThemeResolver subscribes to src and immediately evaluates its current
// identity. Fetches run under ctx, so cancelling it aborts any fetch in
// flight. Close releases the subscription.
func NewThemeResolver(ctx context.Context, src IdentitySource, api ThemeClient, sink PresentationSink, opts ...ThemeOption) *ThemeResolver {
	ctx, cancel := context.WithCancel(ctx)
	r := &ThemeResolver{
		api:    api,
		sink:   sink,
		log:    logging.Nop(),
		ctx:    ctx,
		cancel: cancel,
		plan:   models.PlanBasic,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.unsubscribe = src.Subscribe(r.onIdentity)
	r.onIdentity(src.Current())
	return r
}

func (r *ThemeResolver) onIdentity(id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || (r.seen && id.Generation <= r.gen) {
		return
	}
	r.seen = true
	r.gen = id.Generation

	if r.cancelFetch != nil {
		r.cancelFetch()
		r.cancelFetch = nil
	}

	if !id.Authenticated() {
		r.loading = false
		r.plan = models.PlanBasic
		return
	}

	ctx, cancel := context.WithCancel(r.ctx)
	r.cancelFetch = cancel
	r.loading = true
	r.wg.Add(1)
	go r.fetch(ctx, cancel, id)
}

func (r *ThemeResolver) fetch(ctx context.Context, cancel context.CancelFunc, id Identity) {
	defer r.wg.Done()
	defer cancel()

	theme, err := r.api.TenantTheme(ctx, id.Token)

	r.mu.Lock()
	if id.Generation != r.gen || r.closed {
		r.mu.Unlock()
		r.log.Debug(ctx, "dropping theme for superseded identity", "generation", id.Generation)
		return
	}
	r.loading = false
	r.cancelFetch = nil

	if err != nil {
		r.mu.Unlock()
		r.log.Warn(ctx, "tenant theme unavailable, keeping current palette", "tenant_id", id.User.TenantID, "error", err)
		if r.onFetchError != nil {
			r.onFetchError(err)
		}
		return
	}

	r.plan = theme.ResolvedPlan()
	r.themes = slices.Clone(theme.Themes)
	r.active = nil
	if len(r.themes) > 0 {
		r.activateLocked(r.themes[0])
	}
	r.mu.Unlock()

	r.log.Debug(ctx, "tenant theme applied", "tenant_id", id.User.TenantID, "plan", theme.ResolvedPlan(), "themes", len(theme.Themes))
}

// SetPaletteByID makes the palette with the given id active. An unknown id
// selects the first available palette; with no palettes it does nothing.
func (r *ThemeResolver) SetPaletteByID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.themes) == 0 {
		return
	}
	chosen := r.themes[0]
	if i := slices.IndexFunc(r.themes, func(p models.ThemePalette) bool { return p.ID == id }); i >= 0 {
		chosen = r.themes[i]
	}
	r.activateLocked(chosen)
}

func (r *ThemeResolver) activateLocked(p models.ThemePalette) {
	r.active = &p
	if r.sink != nil {
		r.sink.Apply(p)
	}
}

// Palette returns the active palette, if any.
func (r *ThemeResolver) Palette() (models.ThemePalette, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return models.ThemePalette{}, false
	}
	return *r.active, true
}

func (r *ThemeResolver) AvailableThemes() []models.ThemePalette {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.themes)
}

func (r *ThemeResolver) Plan() models.Plan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.plan
}

func (r *ThemeResolver) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Wait blocks until every fetch started so far has finished.
func (r *ThemeResolver) Wait() {
	r.wg.Wait()
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() if ctx ends
// first; the fetches keep running.
func (r *ThemeResolver) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close unsubscribes, cancels any fetch in flight and waits for it.
func (r *ThemeResolver) Close() {
	r.unsubscribe()
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()
	r.wg.Wait()
}
