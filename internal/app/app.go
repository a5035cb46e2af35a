// Package app holds the assembled Merge Warden components and runs the
// HTTP service.
package app

import (
	"log/slog"

	"github.com/sevigo/merge-warden/internal/config"
	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/db"
	"github.com/sevigo/merge-warden/internal/jobs"
	"github.com/sevigo/merge-warden/internal/server"
	"github.com/sevigo/merge-warden/internal/storage"
)

// App holds the main application components. The CLI uses ReviewJob and Store
// directly; the service runs Server.
type App struct {
	Cfg        *config.Config
	Logger     *slog.Logger
	DB         *db.DB
	Store      storage.Store
	ReviewJob  *jobs.ReviewJob
	Dispatcher core.JobDispatcher
	Server     *server.Server
}

// NewApp bundles the wired components.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	dbConn *db.DB,
	store storage.Store,
	reviewJob *jobs.ReviewJob,
	dispatcher core.JobDispatcher,
	srv *server.Server,
) *App {
	return &App{
		Cfg:        cfg,
		Logger:     logger,
		DB:         dbConn,
		Store:      store,
		ReviewJob:  reviewJob,
		Dispatcher: dispatcher,
		Server:     srv,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.Logger.Info("starting Merge Warden",
		"server_port", a.Cfg.Server.Port,
		"max_workers", a.Cfg.MaxWorkers,
		"merge_method", a.Cfg.Merge.Method)

	err := a.Server.Start()
	if err != nil {
		a.Logger.Error("failed to start HTTP server", "error", err)
		return err
	}

	return nil
}

// Stop shuts down the application cleanly. The database pool is closed by the
// cleanup function returned alongside the App.
func (a *App) Stop() error {
	a.Logger.Info("shutting down Merge Warden services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.Server.Stop()
	if serverErr != nil {
		a.Logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	// In-flight merges are allowed to finish.
	a.Dispatcher.Stop()

	if serverErr != nil {
		a.Logger.Error("Merge Warden stopped with errors", "error", serverErr)
		return serverErr
	}

	a.Logger.Info("Merge Warden stopped successfully")
	return nil
}
