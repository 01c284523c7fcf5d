package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"myshop/internal/auth"
	"myshop/internal/cart"
	"myshop/internal/catalog"
	"myshop/internal/checkout"
	"myshop/internal/config"
	"myshop/internal/db"
	"myshop/internal/events"
	httpapi "myshop/internal/http"
	"myshop/internal/order"
	"myshop/internal/user"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "myshop").Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.OpenPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	defer redisClient.Close()

	catalogRepo := catalog.NewPostgresRepository(pool)
	orderRepo := order.NewPostgresRepository(pool)
	userRepo := user.NewPostgresRepository(pool)
	cartStore := cart.NewRedisStore(redisClient, cfg.CartTTL)

	var publisher checkout.EventPublisher = events.NopPublisher{}
	if cfg.RabbitURL != "" {
		conn, err := amqp.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to RabbitMQ")
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatal().Err(err).Msg("create event publisher")
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Warn().Msg("RABBITMQ_URL not set, order events disabled")
	}

	tokens := auth.NewTokenMaker(cfg.JWTSecret, cfg.TokenTTL)

	cartSvc := cart.NewService(cartStore, catalogRepo, cfg.TaxRate)
	checkoutSvc := checkout.NewService(cartSvc, orderRepo, publisher, cfg.TaxRate, logger)
	userSvc := user.NewService(userRepo, tokens)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:       logger,
		Tokens:       tokens,
		AllowOrigins: cfg.CORSAllowOrigins,
		Users:        httpapi.NewUserHandler(userSvc),
		Catalog:      httpapi.NewCatalogHandler(catalogRepo, cfg.PageSize),
		Cart:         httpapi.NewCartHandler(cartSvc),
		Checkout:     httpapi.NewCheckoutHandler(checkoutSvc),
		Orders:       httpapi.NewOrderHandler(orderRepo),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("myshop listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}
