package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/clockheat/clockheat/internal/config"
	"github.com/clockheat/clockheat/internal/database"
	"github.com/clockheat/clockheat/pkg/dashboard"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration, settings storage, router, and server lifecycle.
type Application struct {
	cfg        config.Application
	deps       *Dependencies
	router     *mux.Router
	srv        *http.Server
	closeStore func()
}

// NewApplication loads the configuration at configPath, opens the settings
// store and restores the saved Clockify credential.
func NewApplication(ctx context.Context, configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := database.OpenSettingsStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	deps := BuildDependencies(store, cfg)
	if err := dashboard.RestoreSession(ctx, deps.Session, deps.CredentialRepository, cfg.Clockify.ApiKey); err != nil {
		closeStore()
		return nil, err
	}
	deps.Pipeline.WatchSession()

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: cfg.Server.WriteTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv, closeStore: closeStore}, nil
}

func (a *Application) Dependencies() *Dependencies {
	return a.deps
}

// Run loads the dashboard in the background, serves HTTP and blocks until
// ctx is done, then shuts the server down gracefully.
func (a *Application) Run(ctx context.Context) error {
	go func() {
		if _, err := a.deps.Pipeline.Start(ctx); err != nil {
			log.Warnf("Initial dashboard load failed: %v", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.srv.Shutdown(shutdownCtx)
}

func (a *Application) Close() {
	if a.closeStore != nil {
		a.closeStore()
	}
}
