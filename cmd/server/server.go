package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/pos-kasir/api"
	"github.com/irsalhamdi/pos-kasir/config"
	"github.com/irsalhamdi/pos-kasir/core/receipt"
	"github.com/irsalhamdi/pos-kasir/database"
	"github.com/irsalhamdi/pos-kasir/rate"
	"github.com/irsalhamdi/pos-kasir/store"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return
		}
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	const prefix = "POSKASIR"
	var cfg config.Config
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return fmt.Errorf("loading report timezone: %w", err)
	}

	backend, closeBackend, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Auth.SessionLifetime
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	limiter := rate.NewLimiter(cfg.Auth.LoginBurst, cfg.Auth.LoginInterval, time.Duration(cfg.Auth.LoginExpiry)*time.Minute)
	defer limiter.Close()

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:   cfg.Cors.Origin,
		Log:          logger,
		Store:        store.New(backend),
		Session:      sessionManager,
		LoginLimiter: limiter,
		Location:     loc,
		Receipt: receipt.Options{
			StoreName: cfg.Receipt.StoreName,
			Width:     cfg.Receipt.Width,
			Location:  loc,
		},
	})

	api := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}

func openBackend(cfg config.Config, logger logrus.FieldLogger) (store.Backend, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		logger.Warn("using the memory store: data is lost on shutdown")
		return store.NewMemory(), func() {}, nil

	case "postgres":
		db, err := database.Open(cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.StatusCheck(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to reach the database: %w", err)
		}

		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate the database: %w", err)
		}

		logger.WithField("host", cfg.DB.Host).Info("using the postgres store")
		return database.Blobs{DB: db}, func() { db.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
