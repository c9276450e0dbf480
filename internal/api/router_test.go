package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/keyforge/keyforge-be/internal/auth"
	"github.com/keyforge/keyforge-be/internal/database"
	"github.com/keyforge/keyforge-be/internal/limiter"
	"github.com/keyforge/keyforge-be/internal/realtime"
	"github.com/keyforge/keyforge-be/internal/services"
	"github.com/keyforge/keyforge-be/internal/session"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the full application against an in-memory database.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	db, err := database.New("file::memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	hub := realtime.NewHub()
	go hub.Run()

	sessions := session.NewStore(db, time.Hour)
	tokens := auth.NewManager("test-secret")
	attempts := limiter.NewMemory(5, time.Minute)

	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db)
	masterService := services.NewMasterPasswordService(db, sessions, attempts, eventService)
	entryService := services.NewEntryService(db, eventService)

	router := NewRouter("http://localhost:3000", tokens, sessions, hub,
		userService, masterService, entryService, eventService)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestVaultEndToEnd(t *testing.T) {
	srv, client := newTestServer(t)
	base := srv.URL + "/api/v1"

	// Register and log in.
	resp := doJSON(t, client, http.MethodPost, base+"/auth/register", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "login-pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodPost, base+"/auth/login", map[string]string{
		"email": "alice@example.com", "password": "login-pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The vault is locked before any master password exists.
	resp = doJSON(t, client, http.MethodGet, base+"/entries/", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	var status struct {
		HasPassword bool `json:"hasPassword"`
		IsVerified  bool `json:"isVerified"`
	}
	resp = doJSON(t, client, http.MethodGet, base+"/auth/master-password/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &status)
	require.False(t, status.HasPassword)
	require.False(t, status.IsVerified)

	// Too-short master password is rejected before any mutation.
	resp = doJSON(t, client, http.MethodPost, base+"/auth/master-password/setup", map[string]string{
		"masterPassword": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Setup succeeds and implies verification.
	resp = doJSON(t, client, http.MethodPost, base+"/auth/master-password/setup", map[string]string{
		"masterPassword": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, base+"/auth/master-password/status", nil)
	decodeBody(t, resp, &status)
	require.True(t, status.HasPassword)
	require.True(t, status.IsVerified)

	// A second setup conflicts.
	resp = doJSON(t, client, http.MethodPost, base+"/auth/master-password/setup", map[string]string{
		"masterPassword": "other-secret",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Create an entry and read it back.
	var entry struct {
		ID      int64  `json:"id"`
		Service string `json:"service"`
	}
	resp = doJSON(t, client, http.MethodPost, base+"/entries/", map[string]string{
		"service": "bank", "username": "u", "email": "e@example.com", "password": "p",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &entry)
	require.NotZero(t, entry.ID)
	require.Equal(t, "bank", entry.Service)

	var entries []map[string]interface{}
	resp = doJSON(t, client, http.MethodGet, base+"/entries/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &entries)
	require.Len(t, entries, 1)

	// A fresh login starts a fresh, unverified session.
	resp = doJSON(t, client, http.MethodPost, base+"/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodPost, base+"/auth/login", map[string]string{
		"email": "alice@example.com", "password": "login-pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, base+"/entries/", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodPost, base+"/auth/master-password/verify", map[string]string{
		"masterPassword": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, base+"/auth/master-password/status", nil)
	decodeBody(t, resp, &status)
	require.True(t, status.HasPassword)
	require.False(t, status.IsVerified)

	resp = doJSON(t, client, http.MethodPost, base+"/auth/master-password/verify", map[string]string{
		"masterPassword": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Vault unlocked again: delete the entry, then clear.
	resp = doJSON(t, client, http.MethodDelete, base+"/entries/9999", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodDelete, base+"/entries/abc", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodDelete, base+"/entries/"+strconv.FormatInt(entry.ID, 10), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodDelete, base+"/entries/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, base+"/entries/", nil)
	decodeBody(t, resp, &entries)
	require.Empty(t, entries)

	// The audit trail recorded the vault activity.
	var events []map[string]interface{}
	resp = doJSON(t, client, http.MethodGet, base+"/events", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &events)
	require.NotEmpty(t, events)
}

func TestVaultRequiresAuthentication(t *testing.T) {
	srv, client := newTestServer(t)
	base := srv.URL + "/api/v1"

	for _, route := range []string{"/auth/user", "/auth/master-password/status"} {
		resp := doJSON(t, client, http.MethodGet, base+route, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, route)
		resp.Body.Close()
	}

	resp := doJSON(t, client, http.MethodGet, base+"/entries/", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestGeneratorEndpoints(t *testing.T) {
	srv, client := newTestServer(t)
	base := srv.URL + "/api/v1/generator"

	var generated struct {
		Password string `json:"password"`
		Strength struct {
			Score int    `json:"score"`
			Text  string `json:"text"`
		} `json:"strength"`
	}
	resp := doJSON(t, client, http.MethodPost, base+"/password", map[string]interface{}{
		"length": 6, "includeSpecial": true, "includeNumbers": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &generated)
	require.NotEmpty(t, generated.Password)

	resp = doJSON(t, client, http.MethodPost, base+"/password", map[string]interface{}{
		"length": -1,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var strength struct {
		Score int    `json:"score"`
		Text  string `json:"text"`
		Color string `json:"color"`
	}
	resp = doJSON(t, client, http.MethodPost, base+"/strength", map[string]string{
		"password": "abcdefghijkl1!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &strength)
	require.Equal(t, 100, strength.Score)
	require.Equal(t, "Strong", strength.Text)
	require.Equal(t, "bg-green-500", strength.Color)
}
