// Package export holds the outbound collaborators: the headless document
// renderer, the campaign-status sync hook and the archive writer. None of
// them participate in lifecycle decisions; callers treat failures as
// degraded-mode conditions, not lifecycle errors.
package export

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/collabglam/contractflow/internal/platform/env"
)

// ErrUnavailable signals that the export service could not be reached or
// answered with a server error. Callers fall back to plain-text rendering.
var ErrUnavailable = errors.New("export service unavailable")

type Config struct {
	DocumentURL     string
	CampaignSyncURL string

	TokenURL     string
	ClientID     string
	ClientSecret string

	Timeout time.Duration
}

func ConfigFromEnv() (Config, error) {
	timeout, err := env.Duration("EXPORT_HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		DocumentURL:     env.String("EXPORT_DOCUMENT_URL", ""),
		CampaignSyncURL: env.String("EXPORT_CAMPAIGN_SYNC_URL", ""),
		TokenURL:        env.String("EXPORT_OAUTH_TOKEN_URL", ""),
		ClientID:        env.String("EXPORT_OAUTH_CLIENT_ID", ""),
		ClientSecret:    env.String("EXPORT_OAUTH_CLIENT_SECRET", ""),
		Timeout:         timeout,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("EXPORT_HTTP_TIMEOUT must be positive")
	}
	if strings.TrimSpace(c.TokenURL) != "" {
		if strings.TrimSpace(c.ClientID) == "" {
			return errors.New("EXPORT_OAUTH_CLIENT_ID is required with EXPORT_OAUTH_TOKEN_URL")
		}
		if strings.TrimSpace(c.ClientSecret) == "" {
			return errors.New("EXPORT_OAUTH_CLIENT_SECRET is required with EXPORT_OAUTH_TOKEN_URL")
		}
	}
	return nil
}

// HTTPClient builds the outbound client. With a token URL configured it
// carries client-credentials service auth; otherwise it is a plain client.
func (c Config) HTTPClient(ctx context.Context) *http.Client {
	if strings.TrimSpace(c.TokenURL) != "" {
		cc := clientcredentials.Config{
			TokenURL:     c.TokenURL,
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
		}
		client := cc.Client(ctx)
		client.Timeout = c.Timeout
		return client
	}
	return &http.Client{Timeout: c.Timeout}
}
