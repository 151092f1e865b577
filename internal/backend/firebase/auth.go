package firebase

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"todo/internal/config"
)

// OAuth scopes accepted by the Realtime Database REST API.
var databaseScopes = []string{
	"https://www.googleapis.com/auth/firebase.database",
	"https://www.googleapis.com/auth/userinfo.email",
}

// NewHTTPClient returns the HTTP client used for store requests.
// A service account file takes precedence over a static access token;
// with neither, requests go out unauthenticated.
func NewHTTPClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	switch {
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, databaseScopes...)
		if err != nil {
			return nil, fmt.Errorf("invalid credentials file: %w", err)
		}
		client, _, err := htransport.NewClient(ctx, option.WithCredentials(creds))
		if err != nil {
			return nil, fmt.Errorf("failed to create authenticated client: %w", err)
		}
		return client, nil

	case cfg.AccessToken != "":
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.AccessToken,
			TokenType:   "Bearer",
		})
		return oauth2.NewClient(ctx, tokenSource), nil

	default:
		return &http.Client{}, nil
	}
}
