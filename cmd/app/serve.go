package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/address"
	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/cart"
	"github.com/wichananm65/food-order-backend/internal/category"
	"github.com/wichananm65/food-order-backend/internal/config"
	"github.com/wichananm65/food-order-backend/internal/customer"
	"github.com/wichananm65/food-order-backend/internal/dish"
	"github.com/wichananm65/food-order-backend/internal/favorite"
	"github.com/wichananm65/food-order-backend/internal/infrastructure/blobstore"
	"github.com/wichananm65/food-order-backend/internal/infrastructure/database"
	"github.com/wichananm65/food-order-backend/internal/logger"
	"github.com/wichananm65/food-order-backend/internal/middleware"
	"github.com/wichananm65/food-order-backend/internal/order"
	"github.com/wichananm65/food-order-backend/internal/recommended"
	"github.com/wichananm65/food-order-backend/internal/restaurant"
	"github.com/wichananm65/food-order-backend/internal/user"
)

func serveCommand() *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, migrateFirst)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

type registrar interface {
	RegisterProtectedRoutes(app *fiber.App)
}

func serve(ctx context.Context, cfg config.Config, migrateFirst bool) error {
	log := logger.Log

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateFirst {
		if err := database.Migrate(db.DB, true, 0); err != nil {
			return err
		}
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return err
	}
	carts, closeCarts, err := newCartRepository(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeCarts()

	authSvc := auth.NewService(cfg.JWTSecret, cfg.JWTExpiresIn)

	restaurantRepo := restaurant.NewPostgresRepository(db)
	dishSvc := dish.NewService(dish.NewPostgresRepository(db), blobs)
	favoriteSvc := favorite.NewService(favorite.NewPostgresRepository(db), restaurantRepo)
	restaurantSvc := restaurant.NewService(restaurantRepo, blobs, favoriteSvc, dishSvc)
	orderSvc := order.NewService(order.NewPostgresRepository(db), restaurantSvc, dishSvc, cfg.PricingMode)
	customerSvc := customer.NewService(customer.NewPostgresRepository(db), blobs)
	userSvc := user.NewService(user.NewPostgresRepository(db), authSvc, customerSvc, restaurantSvc)
	addressSvc := address.NewService(address.NewPostgresRepository(db))
	cartSvc := cart.NewService(carts, dishSvc, orderSvc, addressSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.FiberHandler,
		BodyLimit:    6 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	app.Use(logger.RequestLogger())

	loginLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, 10*time.Minute)
	userHandler := user.NewHandler(userSvc, loginLimiter.Handler())
	userHandler.RegisterPublicRoutes(app)
	category.NewHandler(category.NewService(category.NewPostgresRepository(db))).RegisterPublicRoutes(app)
	recommended.NewHandler(recommended.NewService(recommended.NewPostgresRepository(db))).RegisterPublicRoutes(app)
	if cfg.Blob.Backend == config.BlobLocal {
		app.Static("/uploads", cfg.Blob.UploadDir)
	}

	app.Use(authSvc.Middleware())
	for _, h := range []registrar{
		userHandler,
		customer.NewHandler(customerSvc),
		address.NewHandler(addressSvc),
		restaurant.NewHandler(restaurantSvc),
		dish.NewHandler(dishSvc),
		favorite.NewHandler(favoriteSvc),
		order.NewHandler(orderSvc),
		cart.NewHandler(cartSvc),
	} {
		h.RegisterProtectedRoutes(app)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func newBlobStore(ctx context.Context, cfg config.Config) (blobstore.Store, error) {
	if cfg.Blob.Backend == config.BlobS3 {
		return blobstore.NewS3Store(ctx, cfg.Blob)
	}
	return blobstore.NewLocalStore(cfg.Blob.UploadDir, "/uploads"), nil
}

func newCartRepository(ctx context.Context, cfg config.Config, db *sqlx.DB) (cart.Repository, func(), error) {
	if cfg.Cart.Backend != config.CartRedis {
		return cart.NewPostgresRepository(db), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cart.RedisAddr,
		Password: cfg.Cart.RedisPassword,
		DB:       cfg.Cart.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return cart.NewRedisRepository(client, cfg.Cart.TTL), func() { _ = client.Close() }, nil
}
