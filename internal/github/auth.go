package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	github_ratelimit "github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/merge-warden/internal/config"
)

// ClientFactory returns a provider client for one submission. Runs triggered
// by a GitHub App webhook carry an installation ID; all others use the token.
type ClientFactory interface {
	ForInstallation(ctx context.Context, installationID int64) (Client, error)
}

type clientFactory struct {
	cfg    config.GitHubConfig
	logger *slog.Logger
}

// NewClientFactory returns a factory that builds rate-limit aware clients.
func NewClientFactory(cfg config.GitHubConfig, logger *slog.Logger) ClientFactory {
	return &clientFactory{cfg: cfg, logger: logger}
}

func (f *clientFactory) ForInstallation(ctx context.Context, installationID int64) (Client, error) {
	if installationID != 0 && f.cfg.AppID != 0 {
		return CreateInstallationClient(f.cfg, installationID, f.logger)
	}
	if f.cfg.Token == "" {
		return nil, fmt.Errorf("no GitHub token configured and no app installation available")
	}
	return NewPATClient(ctx, f.cfg.Token, f.logger), nil
}

// NewPATClient creates a new GitHub client authenticated with a Personal Access Token (PAT).
// Secondary rate limits are absorbed by the go-github-ratelimit transport.
func NewPATClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(github_ratelimit.NewClient(tc.Transport))
	return NewGitHubClient(client, logger)
}

// CreateInstallationClient creates a GitHub client that is authenticated as a
// specific application installation. Installation tokens are refreshed by the
// transport as they expire.
func CreateInstallationClient(cfg config.GitHubConfig, installationID int64, logger *slog.Logger) (Client, error) {
	logger.Info("creating GitHub installation client", "installation_id", installationID)

	itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.AppID, installationID, cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create installation transport from %s: %w", cfg.PrivateKeyPath, err)
	}

	client := github.NewClient(github_ratelimit.NewClient(itr))
	return NewGitHubClient(client, logger), nil
}
