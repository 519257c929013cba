// Package server is the composition root: it loads config, connects the
// backing services, wires repositories into services and controllers, and
// runs the HTTP server until shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ibrahimdesign/atelier/app/controllers"
	"github.com/ibrahimdesign/atelier/app/jobs"
	"github.com/ibrahimdesign/atelier/app/repositories"
	"github.com/ibrahimdesign/atelier/app/routes"
	"github.com/ibrahimdesign/atelier/app/services"
	"github.com/ibrahimdesign/atelier/config"
	"github.com/ibrahimdesign/atelier/pkg/cache"
	"github.com/ibrahimdesign/atelier/pkg/database"
	"github.com/ibrahimdesign/atelier/pkg/event"
	"github.com/ibrahimdesign/atelier/pkg/imagestore"
	"github.com/ibrahimdesign/atelier/pkg/logger"
	"github.com/ibrahimdesign/atelier/pkg/metrics"
	"github.com/ibrahimdesign/atelier/pkg/middleware"
	"github.com/ibrahimdesign/atelier/pkg/queue"
	"github.com/ibrahimdesign/atelier/pkg/reqid"
	"github.com/ibrahimdesign/atelier/pkg/router"
	"github.com/redis/go-redis/v9"
)

const workerCount = 4

// Start boots everything and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, config.MongoURI(), config.MongoDB())
	if err != nil {
		return fmt.Errorf("server: mongo: %w", err)
	}
	defer func() {
		disCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Disconnect(disCtx, db); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}()

	if config.LogToMongo() {
		handler := logger.NewMongoHandler(db.Collection("logs"))
		defer handler.Close()
		logger.Setup(handler)
	}

	if err := database.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("server: indexes: %w", err)
	}

	// Redis backs both the category cache and the job queue. The server
	// runs without it: cache calls no-op and jobs stay on the in-memory
	// driver.
	var c *cache.Cache
	if addr := config.RedisAddr(); addr != "" {
		c, err = cache.Connect(ctx, addr, config.RedisPassword())
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache", "error", err)
		} else {
			queue.SetDriver(queue.NewRedisDriver(redis.NewClient(&redis.Options{
				Addr:     addr,
				Password: config.RedisPassword(),
			})))
		}
	}

	var images imagestore.Store
	if config.ImageBucket() != "" {
		images, err = imagestore.NewS3Store(ctx)
		if err != nil {
			return fmt.Errorf("server: image store: %w", err)
		}
	} else {
		logger.Warn("IMAGE_BUCKET not set, uploads are held in memory only")
		images = imagestore.NewMemoryStore()
	}

	// Repositories and services.
	productRepo := repositories.NewProductRepository(db)
	userRepo := repositories.NewUserRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	productSvc := services.NewProductService(productRepo, images, c)
	roleSvc := services.NewRoleService(userRepo)
	bookingSvc := services.NewBookingService(bookingRepo)

	event.Listen(services.CatalogChanged, func(interface{}) {
		productSvc.InvalidateCategories()
	})

	// Background workers.
	jobs.Register(jobs.Deps{Users: userRepo, Orders: orderRepo})
	queue.UseDB(db.Collection("failed_jobs"))
	queue.StartWorkers(ctx, workerCount)

	r := router.New()
	applyMiddleware(r)
	r.HandleFunc("/metrics", metrics.Handler())

	routes.RegisterAPI(r, routes.Controllers{
		Catalog:  controllers.NewCatalogController(productSvc),
		Manage:   controllers.NewManageController(productSvc, roleSvc),
		Bookings: controllers.NewBookingController(bookingSvc),
		Account:  controllers.NewAccountController(userRepo, orderRepo),
		Webhooks: controllers.NewWebhookController(),
	})

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
	}
	return nil
}

// applyMiddleware installs the global stack, outermost to innermost:
//
//  1. Prometheus metrics — outermost for accurate total latency
//  2. Recovery           — catches panics before they kill the goroutine
//  3. Request ID         — inject unique ID before anything logs
//  4. Logger             — logs request_id from context
//  5. CORS               — set CORS headers
//  6. Rate limiter       — reject abusers early
func applyMiddleware(r *router.Router) {
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))
}
