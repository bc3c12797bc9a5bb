package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgerline/warden-client/pkg/config"
	"github.com/ledgerline/warden-client/pkg/tokencache"
	"github.com/ledgerline/warden-client/pkg/warden"
)

func newTestApp(t *testing.T, handler http.HandlerFunc) *cli {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logg := zap.NewNop()
	return &cli{
		cfg: &config.Config{
			BaseURL:  srv.URL,
			Timeout:  5 * time.Second,
			TokenTTL: time.Minute,
		},
		logger: logg,
		client: warden.New(logg, warden.Config{BaseURL: srv.URL, HTTPClient: srv.Client()}),
		store:  tokencache.NewMemory(),
	}
}

func runCommand(t *testing.T, app *cli, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(app)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLogin_StoresSession(t *testing.T) {
	var gotPath, gotUsername string
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = r.ParseForm()
		gotUsername = r.PostFormValue("username")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-cli-1234567890","token_type":"bearer"}`))
	})

	out, err := runCommand(t, app, "login", "-u", "johndoe", "-p", "secret")
	require.NoError(t, err)

	assert.Equal(t, "/token", gotPath)
	assert.Equal(t, "johndoe", gotUsername)
	assert.Contains(t, out, "Logged in as johndoe")
	assert.Contains(t, out, "tok-...7890")
	assert.NotContains(t, out, "tok-cli-1234567890")

	entry, err := app.store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "tok-cli-1234567890", entry.AccessToken)
}

func TestLogin_BadCredentials(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
	})

	_, err := runCommand(t, app, "login", "-u", "johndoe", "-p", "wrong")
	require.Error(t, err)

	var apiErr *warden.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Incorrect username or password", apiErr.Message)

	entry, err := app.store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestLogin_RequiresCredentials(t *testing.T) {
	var calls int32
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := runCommand(t, app, "login", "-u", "johndoe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provide --username and --password")
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestLogout_ClearsSession(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	ctx := context.Background()
	entry := tokencache.Entry{AccessToken: "tok-abc", ObtainedAt: time.Now().UTC()}
	require.NoError(t, app.store.Put(ctx, sessionKey, entry, time.Minute))

	out, err := runCommand(t, app, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	got, err := app.store.Get(ctx, sessionKey)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWhoami_UsesStoredSession(t *testing.T) {
	var gotAuth string
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"username":"johndoe","email":"johndoe@example.com","full_name":"John Doe","disabled":false}`))
	})

	ctx := context.Background()
	entry := tokencache.Entry{AccessToken: "tok-abc", ObtainedAt: time.Now().UTC()}
	require.NoError(t, app.store.Put(ctx, sessionKey, entry, time.Minute))

	out, err := runCommand(t, app, "whoami")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.Contains(t, out, "Username:  johndoe")
	assert.Contains(t, out, "Email:     johndoe@example.com")
	assert.Contains(t, out, "Full name: John Doe")
	assert.Contains(t, out, "Status:    active")
}

func TestWhoami_TokenFlagOverridesSession(t *testing.T) {
	var gotAuth string
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"username":"johndoe","disabled":true}`))
	})

	ctx := context.Background()
	entry := tokencache.Entry{AccessToken: "tok-stale", ObtainedAt: time.Now().UTC()}
	require.NoError(t, app.store.Put(ctx, sessionKey, entry, time.Minute))

	out, err := runCommand(t, app, "whoami", "--token", "tok-fresh")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-fresh", gotAuth)
	assert.Contains(t, out, "Status:    disabled")
}

func TestWhoami_NoSession(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := runCommand(t, app, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active session")
}

func TestItems_ListsItems(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"item_id":"Foo","owner":"johndoe"},{"item_id":"Bar","owner":"johndoe"}]`))
	})

	out, err := runCommand(t, app, "items", "--token", "tok-abc")
	require.NoError(t, err)
	assert.Contains(t, out, "Foo")
	assert.Contains(t, out, "Bar")
	assert.Contains(t, out, "(owner: johndoe)")
}

func TestItems_Empty(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	out, err := runCommand(t, app, "items", "--token", "tok-abc")
	require.NoError(t, err)
	assert.Contains(t, out, "No items.")
}

func TestRegister_SendsExplicitNulls(t *testing.T) {
	var gotBody []byte
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		gotBody = buf.Bytes()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"username":"alice"}`))
	})

	out, err := runCommand(t, app, "register", "-u", "alice", "-p", "pw", "--email", "alice@example.com")
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"username":"alice","password":"pw","email":"alice@example.com","full_name":null}`,
		string(gotBody))
	assert.Contains(t, out, "Registered user alice")
}

func TestRegister_RequiresUsername(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := runCommand(t, app, "register", "-p", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}
