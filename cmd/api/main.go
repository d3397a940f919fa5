package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Yatin2505/E-Commerce1-backend/internal/cache"
	"github.com/Yatin2505/E-Commerce1-backend/internal/cart"
	"github.com/Yatin2505/E-Commerce1-backend/internal/catalog"
	"github.com/Yatin2505/E-Commerce1-backend/internal/config"
	"github.com/Yatin2505/E-Commerce1-backend/internal/events"
	"github.com/Yatin2505/E-Commerce1-backend/internal/httpx"
	"github.com/Yatin2505/E-Commerce1-backend/internal/inventory"
	"github.com/Yatin2505/E-Commerce1-backend/internal/order"
	"github.com/Yatin2505/E-Commerce1-backend/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	// MongoDB
	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Client().Disconnect(ctx)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	productRepo := repository.NewMongoProductRepository(db)
	cartRepo := repository.NewMongoCartRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Printf("Connected to Redis at %s", cfg.RedisAddr)

	productCache := cache.NewRedisCache(redisClient)

	// Kafka order events (optional)
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing order events to %v", cfg.KafkaBrokers)
	}

	// Services
	catalogService := catalog.NewService(productRepo, productCache)
	ledger := inventory.NewLedger(productRepo, productCache)
	cartService := cart.NewService(cartRepo, catalogService)
	orderService := order.NewService(orderRepo, cartService, catalogService, ledger, publisher)

	// HTTP
	router := httpx.NewRouter(
		httpx.NewProductHandler(catalogService),
		httpx.NewCartHandler(cartService),
		httpx.NewOrderHandler(orderService),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server stopped")
}
