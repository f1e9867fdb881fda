package myhours

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the production MyHours API root.
const DefaultBaseURL = "https://api2.myhours.com/api"

const apiVersion = "1.0"

// TokenManager owns the Session and the token endpoints: login, refresh
// and logout. It is not safe for concurrent use; callers drive it from a
// single goroutine (a cobra command or the bubbletea update loop).
type TokenManager struct {
	baseURL    string
	store      SessionStore
	session    Session
	httpClient *http.Client
}

// NewTokenManager loads any stored session from store. A nil httpClient
// falls back to http.DefaultClient.
func NewTokenManager(baseURL string, store SessionStore, httpClient *http.Client) (*TokenManager, error) {
	session, err := store.Load()
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenManager{
		baseURL:    baseURL,
		store:      store,
		session:    session,
		httpClient: httpClient,
	}, nil
}

// Session returns a copy of the current session.
func (tm *TokenManager) Session() Session {
	return tm.session
}

// IsLoggedIn reports whether an access token is present, regardless of
// expiry.
func (tm *TokenManager) IsLoggedIn() bool {
	return tm.session.LoggedIn()
}

// tokenResponse is the token pair the login and refresh endpoints return.
type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// LogIn exchanges credentials for a token pair and persists the new
// session before returning it.
func (tm *TokenManager) LogIn(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{
		"email":     email,
		"password":  password,
		"grantType": "password",
		"clientId":  "api",
	}

	resp, err := tm.postJSON(ctx, "/tokens/login", body)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Session{}, &AuthError{Reason: errorFromResponse(resp).Error()}
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return Session{}, fmt.Errorf("decoding token response: %w", err)
	}

	session := Session{
		Email:        email,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
	}
	if err := tm.store.Save(session); err != nil {
		return Session{}, err
	}
	tm.session = session
	return session, nil
}

// RefreshTokens exchanges the stored refresh token for a new token pair.
// A rejected refresh means the user has to log in again.
func (tm *TokenManager) RefreshTokens(ctx context.Context) (Session, error) {
	if tm.session.RefreshToken == "" {
		return Session{}, &PreconditionError{Op: "refresh the access token", Need: "a refresh token"}
	}

	body := map[string]string{
		"refreshToken": tm.session.RefreshToken,
		"grantType":    "refresh_token",
	}

	resp, err := tm.postJSON(ctx, "/tokens/refresh", body)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Session{}, &AuthError{Reason: errorFromResponse(resp).Error()}
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return Session{}, fmt.Errorf("decoding token response: %w", err)
	}

	session := tm.session
	session.AccessToken = tokens.AccessToken
	session.RefreshToken = tokens.RefreshToken
	session.ExpiresAt = time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second)

	if err := tm.store.Save(session); err != nil {
		return Session{}, err
	}
	tm.session = session
	return session, nil
}

// LogOut invalidates the session server-side, then clears the stored
// session.
func (tm *TokenManager) LogOut(ctx context.Context) error {
	if err := tm.EnsureValid(ctx); err != nil {
		return err
	}

	resp, err := tm.postJSON(ctx, "/tokens/logout", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}

	if err := tm.store.Save(Session{}); err != nil {
		return err
	}
	tm.session = Session{}
	return nil
}

// EnsureValid gates every authenticated remote call. A live token
// returns immediately with no network traffic; an expired one triggers
// exactly one refresh, whose failure propagates as an AuthError.
func (tm *TokenManager) EnsureValid(ctx context.Context) error {
	s := tm.session
	if s.AccessToken == "" || s.RefreshToken == "" || s.ExpiresAt.IsZero() {
		return &PreconditionError{Op: "call the API", Need: "a logged-in session"}
	}

	if !s.Expired(time.Now()) {
		return nil
	}

	_, err := tm.RefreshTokens(ctx)
	return err
}

// TokenSource adapts the manager to oauth2 so the API client can be a
// plain oauth2.NewClient. Token validates the session first, so every
// request through the transport is gated on EnsureValid.
func (tm *TokenManager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &sessionTokenSource{ctx: ctx, tm: tm}
}

type sessionTokenSource struct {
	ctx context.Context
	tm  *TokenManager
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	if err := s.tm.EnsureValid(s.ctx); err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: s.tm.session.AccessToken,
		TokenType:   "Bearer",
		Expiry:      s.tm.session.ExpiresAt,
	}, nil
}

// postJSON sends an unauthenticated-or-bearer POST to a token endpoint.
// The bearer token is attached when present; the logout endpoint needs
// it, login and refresh ignore it.
func (tm *TokenManager) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("api-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")
	if tm.session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tm.session.AccessToken)
	}

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	return resp, nil
}
