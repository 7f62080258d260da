package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"github.com/campusforge/placements/modules/core"
	coreservices "github.com/campusforge/placements/modules/core/services"
	"github.com/campusforge/placements/modules/placement"
	"github.com/campusforge/placements/pkg/application"
	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/configuration"
	"github.com/campusforge/placements/pkg/eventbus"
	"github.com/campusforge/placements/pkg/httpapi"
	"github.com/campusforge/placements/pkg/metrics"
	"github.com/campusforge/placements/pkg/middleware"
	"github.com/campusforge/placements/pkg/schema"
	"github.com/campusforge/placements/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	if err := schema.Migrate(conf.Database.Opts, logger); err != nil {
		logger.WithError(err).Fatal("failed to apply migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{conf.Origin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	app.RegisterMiddleware(
		middleware.RequestLogger(logger),
		middleware.WithPool(pool),
		corsHandler.Handler,
	)

	if err := core.NewModule().Register(app); err != nil {
		logger.WithError(err).Fatal("failed to register core module")
	}
	if err := placement.NewModule().Register(app); err != nil {
		logger.WithError(err).Fatal("failed to register placement module")
	}
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	auth := app.Service(coreservices.AuthService{}).(*coreservices.AuthService)
	seedCtx := composables.WithPool(context.Background(), pool)
	if err := auth.EnsureDefaultAdmin(seedCtx, conf.Auth.AdminUsername, conf.Auth.AdminPassword); err != nil {
		logger.WithError(err).Fatal("failed to seed default admin")
	}

	srv := server.NewHTTPServer(app, notFound(), methodNotAllowed())
	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := srv.Start(conf.SocketAddress); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func notFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
}

func methodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
}
