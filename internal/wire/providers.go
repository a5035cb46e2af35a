// Package wire assembles the application's dependency graph.
package wire

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/wire"
	"github.com/jmoiron/sqlx"

	"github.com/sevigo/merge-warden/internal/analysis"
	"github.com/sevigo/merge-warden/internal/app"
	"github.com/sevigo/merge-warden/internal/config"
	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/db"
	"github.com/sevigo/merge-warden/internal/gate"
	"github.com/sevigo/merge-warden/internal/github"
	"github.com/sevigo/merge-warden/internal/jobs"
	"github.com/sevigo/merge-warden/internal/llm"
	"github.com/sevigo/merge-warden/internal/logger"
	"github.com/sevigo/merge-warden/internal/merge"
	"github.com/sevigo/merge-warden/internal/pipeline"
	"github.com/sevigo/merge-warden/internal/server"
	"github.com/sevigo/merge-warden/internal/server/handler"
	"github.com/sevigo/merge-warden/internal/storage"
)

// AppSet is the full provider graph for InitializeApp.
var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	config.LoadConfig,
	db.NewDatabase,
	storage.NewStore,
	analysis.New,
	github.NewClientFactory,
	github.NewReportPublisher,
	llm.NewPromptManager,
	llm.NewReviewer,
	pipeline.NewDriver,
	jobs.NewReviewJob,
	provideLoggerConfig,
	provideLogWriter,
	provideSlogLogger,
	provideDBConfig,
	provideSQLX,
	providePolicy,
	provideHTTPClient,
	provideBackends,
	provideReviewerOptions,
	provideGitHubConfig,
	provideGate,
	providePipelineOptions,
	provideDispatcher,
	wire.Bind(new(jobs.Pipeline), new(*pipeline.Driver)),
	wire.Bind(new(core.Job), new(*jobs.ReviewJob)),
	wire.Bind(new(handler.Runner), new(*jobs.ReviewJob)),
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stderr":
		return os.Stderr
	case "file":
		// nil lets the logger open its own file.
		return nil
	default:
		return os.Stdout
	}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return &cfg.Database
}

func provideSQLX(conn *db.DB) *sqlx.DB {
	return conn.DB
}

// providePolicy loads the risk policy file; a missing file means defaults.
func providePolicy(cfg *config.Config, logger *slog.Logger) (analysis.Policy, error) {
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if errors.Is(err, config.ErrPolicyNotFound) {
		logger.Debug("no policy file, using default risk patterns", "path", cfg.PolicyFile)
		return policy, nil
	}
	return policy, err
}

// provideHTTPClient creates an HTTP client with long timeouts for local model
// servers, which can take a while to answer.
func provideHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: 5 * time.Minute,
	}
}

func provideBackends(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []llm.Backend {
	return llm.NewBackends(ctx, cfg.AI, httpClient, logger)
}

func provideReviewerOptions(cfg *config.Config) llm.Options {
	return llm.Options{Timeout: cfg.AI.Timeout, MaxDiffBytes: cfg.AI.MaxDiffBytes}
}

func provideGitHubConfig(cfg *config.Config) config.GitHubConfig {
	return cfg.GitHub
}

func provideGate(cfg *config.Config) *gate.Evaluator {
	return gate.New(cfg.Merge.RequiredApprovals)
}

func providePipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Merge: merge.Options{
			BackupPrefix: cfg.Merge.BackupPrefix,
			Method:       core.MergeMethod(cfg.Merge.Method),
			GracePeriod:  cfg.Merge.SyncGracePeriod,
			PollAttempts: cfg.Merge.SyncPollAttempts,
			Backoff:      cfg.Merge.SyncBackoff,
		},
		PostReport:       cfg.Merge.PostReport,
		BaseContextBytes: cfg.AI.MaxContextBytes,
	}
}

func provideDispatcher(job core.Job, cfg *config.Config, logger *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(job, cfg.MaxWorkers, logger)
}
