package myhours_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mhoersch/hoursheet/internal/myhours"
)

// memStore is an in-memory SessionStore.
type memStore struct {
	session myhours.Session
	saves   int
}

func (m *memStore) Load() (myhours.Session, error) { return m.session, nil }

func (m *memStore) Save(s myhours.Session) error {
	m.session = s
	m.saves++
	return nil
}

func validSession() myhours.Session {
	return myhours.Session{
		Email:        "jane@example.com",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func expiredSession() myhours.Session {
	s := validSession()
	s.ExpiresAt = time.Now().Add(-time.Minute)
	return s
}

func newManager(t *testing.T, baseURL string, store *memStore) *myhours.TokenManager {
	t.Helper()
	tm, err := myhours.NewTokenManager(baseURL, store, nil)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return tm
}

func writeTokens(w http.ResponseWriter, access, refresh string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"accessToken":  access,
		"refreshToken": refresh,
		"expiresIn":    3600,
	})
}

func TestLogIn(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokens/login" {
			t.Errorf("path = %q, want /tokens/login", r.URL.Path)
		}
		if got := r.Header.Get("api-version"); got != "1.0" {
			t.Errorf("api-version = %q, want 1.0", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding login body: %v", err)
		}
		writeTokens(w, "access-1", "refresh-1")
	}))
	defer server.Close()

	store := &memStore{}
	tm := newManager(t, server.URL, store)

	session, err := tm.LogIn(context.Background(), "jane@example.com", "hunter2")
	if err != nil {
		t.Fatalf("LogIn: %v", err)
	}

	if gotBody["grantType"] != "password" || gotBody["clientId"] != "api" {
		t.Errorf("login body = %v", gotBody)
	}
	if gotBody["email"] != "jane@example.com" || gotBody["password"] != "hunter2" {
		t.Errorf("credentials not forwarded: %v", gotBody)
	}

	if session.Email != "jane@example.com" {
		t.Errorf("Email = %q", session.Email)
	}
	if session.AccessToken != "access-1" || session.RefreshToken != "refresh-1" {
		t.Errorf("tokens = %q/%q", session.AccessToken, session.RefreshToken)
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Errorf("ExpiresAt = %v, want in the future", session.ExpiresAt)
	}

	if store.saves != 1 {
		t.Errorf("session saves = %d, want 1", store.saves)
	}
	if !tm.IsLoggedIn() {
		t.Error("IsLoggedIn = false after login")
	}
}

func TestLogInRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":          "Invalid credentials",
			"validationErrors": []string{},
		})
	}))
	defer server.Close()

	store := &memStore{}
	tm := newManager(t, server.URL, store)

	_, err := tm.LogIn(context.Background(), "jane@example.com", "wrong")
	var authErr *myhours.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthError", err)
	}
	if !strings.Contains(authErr.Reason, "Invalid credentials") {
		t.Errorf("Reason = %q, want the server message", authErr.Reason)
	}

	if store.saves != 0 {
		t.Errorf("session saves = %d, want 0", store.saves)
	}
	if tm.IsLoggedIn() {
		t.Error("IsLoggedIn = true after rejected login")
	}
	if s := tm.Session(); s != (myhours.Session{}) {
		t.Errorf("session not fully unset: %+v", s)
	}
}

func TestIsLoggedInIgnoresExpiry(t *testing.T) {
	store := &memStore{session: expiredSession()}
	tm := newManager(t, "http://unused.invalid", store)
	if !tm.IsLoggedIn() {
		t.Error("IsLoggedIn = false for an expired but present token")
	}
}

func TestRefreshWithoutTokenFails(t *testing.T) {
	store := &memStore{}
	tm := newManager(t, "http://unused.invalid", store)

	_, err := tm.RefreshTokens(context.Background())
	var preErr *myhours.PreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("error = %v, want *PreconditionError", err)
	}
}

func TestRefreshTokens(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokens/refresh" {
			t.Errorf("path = %q, want /tokens/refresh", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding refresh body: %v", err)
		}
		writeTokens(w, "access-2", "refresh-2")
	}))
	defer server.Close()

	store := &memStore{session: expiredSession()}
	tm := newManager(t, server.URL, store)

	session, err := tm.RefreshTokens(context.Background())
	if err != nil {
		t.Fatalf("RefreshTokens: %v", err)
	}

	if gotBody["refreshToken"] != "refresh-1" || gotBody["grantType"] != "refresh_token" {
		t.Errorf("refresh body = %v", gotBody)
	}
	if session.AccessToken != "access-2" || session.RefreshToken != "refresh-2" {
		t.Errorf("tokens = %q/%q", session.AccessToken, session.RefreshToken)
	}
	if session.Email != "jane@example.com" {
		t.Errorf("Email lost on refresh: %q", session.Email)
	}
	if store.saves != 1 {
		t.Errorf("session saves = %d, want 1", store.saves)
	}
}

func TestEnsureValidFreshTokenNoNetwork(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	store := &memStore{session: validSession()}
	tm := newManager(t, server.URL, store)

	if err := tm.EnsureValid(context.Background()); err != nil {
		t.Fatalf("EnsureValid: %v", err)
	}
	if requests != 0 {
		t.Errorf("requests = %d, want 0 for a fresh token", requests)
	}
}

func TestEnsureValidExpiredRefreshesOnce(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/tokens/refresh" {
			t.Errorf("path = %q, want /tokens/refresh", r.URL.Path)
		}
		writeTokens(w, "access-2", "refresh-2")
	}))
	defer server.Close()

	store := &memStore{session: expiredSession()}
	tm := newManager(t, server.URL, store)

	if err := tm.EnsureValid(context.Background()); err != nil {
		t.Fatalf("EnsureValid: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want exactly 1 refresh", requests)
	}

	// The refreshed token is fresh, so the next call stays local.
	if err := tm.EnsureValid(context.Background()); err != nil {
		t.Fatalf("second EnsureValid: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d after second call, want still 1", requests)
	}
}

func TestEnsureValidRejectedRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "refresh token expired"})
	}))
	defer server.Close()

	store := &memStore{session: expiredSession()}
	tm := newManager(t, server.URL, store)

	err := tm.EnsureValid(context.Background())
	var authErr *myhours.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthError", err)
	}
}

func TestEnsureValidWithoutSession(t *testing.T) {
	tm := newManager(t, "http://unused.invalid", &memStore{})

	err := tm.EnsureValid(context.Background())
	var preErr *myhours.PreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("error = %v, want *PreconditionError", err)
	}
}

func TestLogOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokens/logout" {
			t.Errorf("path = %q, want /tokens/logout", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
			t.Errorf("Authorization = %q", got)
		}
	}))
	defer server.Close()

	store := &memStore{session: validSession()}
	tm := newManager(t, server.URL, store)

	if err := tm.LogOut(context.Background()); err != nil {
		t.Fatalf("LogOut: %v", err)
	}

	if tm.IsLoggedIn() {
		t.Error("IsLoggedIn = true after logout")
	}
	if store.session != (myhours.Session{}) {
		t.Errorf("stored session not cleared: %+v", store.session)
	}
}

func TestLogOutWithoutSession(t *testing.T) {
	tm := newManager(t, "http://unused.invalid", &memStore{})

	err := tm.LogOut(context.Background())
	var preErr *myhours.PreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("error = %v, want *PreconditionError", err)
	}
}

func TestFileSessionStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "session.json")
	store := &myhours.FileSessionStore{Path: path}

	// Missing file yields a blank session.
	s, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != (myhours.Session{}) {
		t.Errorf("expected blank session, got %+v", s)
	}

	want := validSession()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if got.Email != want.Email || got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, want.ExpiresAt)
	}
}
