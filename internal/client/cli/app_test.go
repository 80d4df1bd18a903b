package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motogestor/dashclient/internal/client/config"
	"github.com/motogestor/dashclient/internal/client/models"
	"github.com/motogestor/dashclient/internal/client/services"
	"github.com/motogestor/dashclient/internal/logging"
	"github.com/motogestor/dashclient/internal/testutil/fakeapi"
)

var sunsetPalette = models.ThemePalette{
	ID:         "sunset",
	Name:       "Sunset",
	Primary:    "#aa3300",
	Secondary:  "#cc6633",
	Accent:     "#ffdd00",
	Background: "#fff8f0",
	Surface:    "#ffeedd",
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.APIBaseURL = apiURL
	c.DatabasePath = filepath.Join(t.TempDir(), "dash.db")
	c.RequestTimeout = 5 * time.Second
	return c
}

func seededAPI(t *testing.T, token string) *fakeapi.Server {
	t.Helper()
	api := fakeapi.New(t)
	api.AddUser(models.User{
		ID: 7, Name: "Ana", Email: "ana@shop.test",
		TenantID: 3, TenantName: "Motos Ana", Role: "admin",
	}, "secret", token)
	api.SetTheme(3, models.TenantTheme{
		Tenant: &models.TenantInfo{Plan: "PRO"},
		Themes: []models.ThemePalette{oceanPalette, sunsetPalette},
	})
	return api
}

// startApp builds an App on cfg whose terminal is input and a buffer.
func startApp(t *testing.T, cfg *config.Config, input string) (*App, *bytes.Buffer) {
	t.Helper()
	a, err := NewApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	var out bytes.Buffer
	a.reader = rdr(input)
	a.out = &out
	return a, &out
}

func TestApp_LoginThemesAndLogout(t *testing.T) {
	ctx := context.Background()
	api := seededAPI(t, "tok1")
	stubReadPassword(t, []byte("secret"), nil)
	a, out := startApp(t, testConfig(t, api.URL), "ana@shop.test\n")

	assert.False(t, a.isLoggedIn())
	require.NoError(t, a.Login(ctx))
	assert.Contains(t, out.String(), "Welcome, Ana")
	assert.True(t, a.isLoggedIn())
	a.themes.Wait()

	primary, ok := a.vars.Get(services.VarPrimary)
	require.True(t, ok)
	assert.Equal(t, oceanPalette.Primary, primary)
	p, ok := a.style.Palette()
	require.True(t, ok)
	assert.Equal(t, "ocean", p.ID)

	out.Reset()
	require.NoError(t, a.ShowPlan(ctx))
	assert.Equal(t, "Plan: PRO\n", out.String())

	out.Reset()
	require.NoError(t, a.ListThemes(ctx))
	assert.Contains(t, out.String(), "* ")
	assert.Contains(t, out.String(), "ocean")
	assert.Contains(t, out.String(), "sunset")

	out.Reset()
	require.NoError(t, a.SelectTheme(ctx, "sunset"))
	assert.Equal(t, "Theme set to sunset\n", out.String())
	primary, _ = a.vars.Get(services.VarPrimary)
	assert.Equal(t, sunsetPalette.Primary, primary)

	out.Reset()
	require.NoError(t, a.SelectTheme(ctx, "missing"))
	assert.Contains(t, out.String(), `Unknown theme "missing", using ocean`)

	out.Reset()
	require.NoError(t, a.Whoami(ctx))
	assert.Contains(t, out.String(), "tenant: Motos Ana (#3)")
	assert.Contains(t, out.String(), "role:   admin")
	assert.NotContains(t, out.String(), "token expires")

	out.Reset()
	require.NoError(t, a.Logout(ctx))
	assert.Equal(t, "Logged out\n", out.String())
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, models.PlanBasic, a.themes.Plan())

	// The presentation keeps the last palette after logout.
	primary, _ = a.vars.Get(services.VarPrimary)
	assert.Equal(t, oceanPalette.Primary, primary)

	// but the previous tenant's palettes are no longer reachable.
	out.Reset()
	require.NoError(t, a.ListThemes(ctx))
	require.NoError(t, a.SelectTheme(ctx, "sunset"))
	assert.Equal(t, "Not logged in\nNot logged in\n", out.String())
	primary, _ = a.vars.Get(services.VarPrimary)
	assert.Equal(t, oceanPalette.Primary, primary)
}

func TestApp_LoginFailurePrintsUserMessage(t *testing.T) {
	api := seededAPI(t, "tok1")
	stubReadPassword(t, []byte("wrong"), nil)
	a, out := startApp(t, testConfig(t, api.URL), "ana@shop.test\n")

	err := a.Login(context.Background())

	require.Error(t, err)
	assert.Contains(t, out.String(), "Login failed: invalid credentials\n")
	assert.False(t, a.isLoggedIn())
	assert.Zero(t, api.Calls("/tenant/theme"))
}

func TestApp_ProfileFailureDoesNotSignIn(t *testing.T) {
	api := seededAPI(t, "tok1")
	api.FailMe(http.StatusBadGateway)
	stubReadPassword(t, []byte("secret"), nil)
	a, out := startApp(t, testConfig(t, api.URL), "ana@shop.test\n")

	require.Error(t, a.Login(context.Background()))
	assert.Contains(t, out.String(), "Login failed: profile unavailable")
	assert.False(t, a.isLoggedIn())
}

func TestApp_LogoutWhenAnonymous(t *testing.T) {
	api := seededAPI(t, "tok1")
	a, out := startApp(t, testConfig(t, api.URL), "")

	require.NoError(t, a.Logout(context.Background()))
	require.NoError(t, a.Whoami(context.Background()))
	require.NoError(t, a.ListThemes(context.Background()))
	require.NoError(t, a.SelectTheme(context.Background(), "ocean"))
	assert.Equal(t, "Not logged in\nNot logged in\nNot logged in\nNot logged in\n", out.String())
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	api := seededAPI(t, "tok1")
	cfg := testConfig(t, api.URL)
	stubReadPassword(t, []byte("secret"), nil)

	first, _ := startApp(t, cfg, "ana@shop.test\n")
	require.NoError(t, first.Login(ctx))
	require.NoError(t, first.Close())

	second, out := startApp(t, cfg, "")
	<-second.session.Ready()
	second.themes.Wait()

	assert.True(t, second.isLoggedIn())
	assert.Equal(t, models.PlanPro, second.themes.Plan())
	assert.Contains(t, second.prompt(), "ana@shop.test")
	assert.Contains(t, second.prompt(), "PRO")

	require.NoError(t, second.Whoami(ctx))
	assert.Contains(t, out.String(), "Ana")
}

func TestApp_WhoamiShowsTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).
		SignedString([]byte("test-key"))
	require.NoError(t, err)

	api := seededAPI(t, token)
	stubReadPassword(t, []byte("secret"), nil)
	a, out := startApp(t, testConfig(t, api.URL), "ana@shop.test\n")
	require.NoError(t, a.Login(context.Background()))

	out.Reset()
	require.NoError(t, a.Whoami(context.Background()))
	assert.Contains(t, out.String(), "token expires: "+exp.Local().Format(time.RFC1123))
}

func TestApp_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	api := seededAPI(t, "tok1")
	cfg := testConfig(t, api.URL)
	cfg.SessionBackend = config.BackendRedis
	cfg.RedisURL = "redis://" + mr.Addr()
	stubReadPassword(t, []byte("secret"), nil)

	a, _ := startApp(t, cfg, "ana@shop.test\n")
	require.NoError(t, a.Login(context.Background()))

	raw, err := mr.Get("dashclient:" + cfg.StorageKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"token":"tok1"`)

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, mr.Exists("dashclient:"+cfg.StorageKey))
}

func TestNewApp_StorageErrors(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.SessionBackend = "etcd"
	_, err := NewApp(context.Background(), cfg, logging.Nop())
	assert.Error(t, err)

	cfg.SessionBackend = config.BackendRedis
	cfg.RedisURL = "not-a-url"
	_, err = NewApp(context.Background(), cfg, logging.Nop())
	assert.Error(t, err)

	cfg.SessionBackend = config.BackendSQLite
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.DatabasePath = filepath.Join(blocker, "dash.db")
	_, err = NewApp(context.Background(), cfg, logging.Nop())
	assert.Error(t, err)
}

func TestNewApp_CreatesDatabaseDirectory(t *testing.T) {
	api := seededAPI(t, "tok1")
	cfg := testConfig(t, api.URL)
	cfg.DatabasePath = filepath.Join(t.TempDir(), "state", "dash.db")

	startApp(t, cfg, "")

	_, err := os.Stat(cfg.DatabasePath)
	assert.NoError(t, err)
}

func TestApp_RunExitsOnQuit(t *testing.T) {
	capturePrintln(t)
	api := seededAPI(t, "tok1")
	a, out := startApp(t, testConfig(t, api.URL), "plan\nquit\n")

	a.Run(context.Background())

	assert.Contains(t, out.String(), "Workshop dashboard")
	assert.Contains(t, out.String(), "Plan: BASIC")
}

func TestApp_HungThemeEndpointDoesNotBlockLogin(t *testing.T) {
	api := seededAPI(t, "tok1")
	api.HangTheme(t)
	cfg := testConfig(t, api.URL)
	cfg.RequestTimeout = time.Minute
	stubReadPassword(t, []byte("secret"), nil)

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()
	a, err := NewApp(appCtx, cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	var out bytes.Buffer
	a.reader = rdr("ana@shop.test\n")
	a.out = &out

	done := make(chan error, 1)
	go func() { done <- a.Login(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("login blocked on the tenant theme fetch")
	}
	assert.True(t, a.isLoggedIn())
	assert.True(t, a.themes.Loading())
	_, ok := a.style.Palette()
	assert.False(t, ok)

	// Cancelling the app context aborts the fetch still in flight.
	cancelApp()
	waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.themes.WaitContext(waitCtx))
	assert.Equal(t, models.PlanBasic, a.themes.Plan())
}

func TestApp_RunWithRestoredSessionAndHungTheme(t *testing.T) {
	ctx := context.Background()
	api := seededAPI(t, "tok1")
	cfg := testConfig(t, api.URL)
	cfg.RequestTimeout = time.Minute
	stubReadPassword(t, []byte("secret"), nil)

	first, _ := startApp(t, cfg, "ana@shop.test\n")
	require.NoError(t, first.Login(ctx))
	require.NoError(t, first.Close())

	api.HangTheme(t)
	capturePrintln(t)
	second, out := startApp(t, cfg, "whoami\nexit\n")

	done := make(chan struct{})
	go func() {
		second.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("startup blocked on the tenant theme fetch")
	}
	assert.Contains(t, out.String(), "ana@shop.test")
}

func TestApp_LoginFailureIsLoggedOnce(t *testing.T) {
	api := seededAPI(t, "tok1")
	stubReadPassword(t, []byte("wrong"), nil)

	var logs bytes.Buffer
	a, err := NewApp(context.Background(), testConfig(t, api.URL), logging.NewTextLogger(&logs, "info"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	a.reader = rdr("ana@shop.test\n")
	a.out = &bytes.Buffer{}

	require.Error(t, a.Login(context.Background()))

	assert.Equal(t, 1, strings.Count(logs.String(), "level=WARN"), logs.String())
	assert.Contains(t, logs.String(), "login rejected")
}
