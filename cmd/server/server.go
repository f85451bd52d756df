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

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/course-listing/api"
	"github.com/irsalhamdi/course-listing/clock"
	"github.com/irsalhamdi/course-listing/config"
	"github.com/irsalhamdi/course-listing/core/auth"
	"github.com/irsalhamdi/course-listing/core/sweep"
	"github.com/irsalhamdi/course-listing/database"
	"github.com/irsalhamdi/course-listing/rate"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := Run(log); err != nil {
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

	const prefix = "GOLIST"
	var cfg config.Config
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	logger.Infof("config:\n%s", out)

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open db connection: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	store := auth.NewPostgresStore(db)

	sessionManager := scs.New()
	sessionManager.Store = store
	sessionManager.Lifetime = cfg.Session.Lifetime
	sessionManager.Cookie.Name = cfg.Session.CookieName

	limiter := rate.NewLimiter(cfg.Rate.Burst, cfg.Rate.Expiry, cfg.Rate.RPS)
	defer limiter.Stop()

	clk := clock.System{}
	sweeper := sweep.New(logger, db, clk)

	sched := cron.New(cron.WithLogger(sweep.Logger{Log: logger}))
	sweeper.Schedule(sched, cfg.Listing.SweepInterval, cfg.Listing.SweepTimeout)

	if _, err := sched.AddFunc("@every 1h", func() {
		n, err := store.Cleanup(context.Background())
		if err != nil {
			logger.WithError(err).Error("session cleanup failed")
			return
		}
		logger.WithField("deleted", n).Debug("expired sessions removed")
	}); err != nil {
		return fmt.Errorf("scheduling session cleanup: %w", err)
	}

	sched.Start()

	mux := api.APIMux(api.APIConfig{
		CorsOrigin: cfg.Cors.Origin,
		Log:        logger,
		DB:         db,
		Session:    sessionManager,
		Clock:      clk,
		FeePerDay:  cfg.Listing.FeePerDay,
		Limiter:    limiter,
		Sweeper:    sweeper,
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
		sched.Stop()
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		select {
		case <-sched.Stop().Done():
		case <-ctx.Done():
			return errors.New("could not complete the running sweep")
		}
	}
	return nil
}
