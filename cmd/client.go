package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mhoersch/hoursheet/internal/config"
	"github.com/mhoersch/hoursheet/internal/model"
	"github.com/mhoersch/hoursheet/internal/myhours"
	"github.com/mhoersch/hoursheet/internal/storage"
)

// newTokenManager builds the token manager over the stored session.
func newTokenManager() (*myhours.TokenManager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	path, err := myhours.DefaultSessionPath()
	if err != nil {
		return nil, err
	}
	return myhours.NewTokenManager(cfg.API.BaseURL, &myhours.FileSessionStore{Path: path}, nil)
}

// newClient builds an authenticated API client, failing early when no
// session is stored.
func newClient(ctx context.Context) (*myhours.Client, error) {
	tm, err := newTokenManager()
	if err != nil {
		return nil, err
	}
	if !tm.IsLoggedIn() {
		return nil, fmt.Errorf("not logged in; run `hoursheet login` first")
	}
	return myhours.NewClient(ctx, tm), nil
}

// loadProjects returns the account's projects, served from the local cache
// when it is fresh. A failed fetch falls back to a stale cache rather than
// failing the command.
func loadProjects(ctx context.Context, client *myhours.Client) ([]model.Project, error) {
	base, err := config.BaseDir()
	if err != nil {
		return nil, err
	}
	cached, err := storage.LoadProjects(base)
	if err != nil {
		return nil, err
	}
	if !cached.Stale(time.Now()) {
		return cached.Projects, nil
	}

	projects, err := client.Projects(ctx)
	if err != nil {
		if len(cached.Projects) > 0 {
			return cached.Projects, nil
		}
		return nil, err
	}
	if err := storage.SaveProjects(base, projects); err != nil {
		return nil, err
	}
	return projects, nil
}
