package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gourav6746-ai/Thulodeal/internal/cart"
	"github.com/gourav6746-ai/Thulodeal/internal/catalog"
	"github.com/gourav6746-ai/Thulodeal/internal/checkout"
	h "github.com/gourav6746-ai/Thulodeal/internal/http"
	"github.com/gourav6746-ai/Thulodeal/internal/orders"
	"github.com/gourav6746-ai/Thulodeal/internal/publisher"
	"github.com/gourav6746-ai/Thulodeal/internal/storage"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	RedisPassword   string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsPath  string
	KafkaBrokers    []string
	AdminEmails     map[string]bool
	ReceiptURLBase  string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	adminEmails := make(map[string]bool)
	for _, email := range strings.Split(getEnv("ADMIN_EMAILS", ""), ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			adminEmails[email] = true
		}
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "thulodeal"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:      getEnv("POSTGRES_DB", "thulodeal"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		AdminEmails:     adminEmails,
		ReceiptURLBase:  getEnv("RECEIPT_URL_BASE", "/api/v1/admin/receipts"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("invalid value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MongoDB holds the catalog and the receipt blobs
	db, err := catalog.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("mongodb connection failed: %v", err)
	}
	defer db.Client().Disconnect(context.Background())
	log.Printf("connected to MongoDB at %s", cfg.MongoURI)

	catalogRepo := catalog.NewMongoRepository(db)
	if err := catalogRepo.CreateIndexes(ctx); err != nil {
		log.Fatalf("failed to create mongodb indexes: %v", err)
	}

	// Redis holds cart slots and the product list cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	log.Printf("redis ping succeeded")

	// Postgres holds orders and the outbox
	pgCred := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPass,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	orderRepo, err := orders.NewRepository(pgCred)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(pgCred); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Printf("connected to Postgres at %s:%d", cfg.PostgresHost, cfg.PostgresPort)

	receipts, err := storage.NewGridFSStorage(db, cfg.ReceiptURLBase)
	if err != nil {
		log.Fatalf("failed to init receipt storage: %v", err)
	}

	cartService := cart.NewService(cart.NewRedisStore(redisClient))
	catalogService := catalog.NewService(catalogRepo, catalog.NewRedisListCache(redisClient))
	checkoutService := checkout.NewService(cartService, catalogService, orderRepo, receipts)

	// outbox poller pushes order events to Kafka
	poller := publisher.NewOutboxPoller(orderRepo, cfg.KafkaBrokers...)
	defer poller.Close()
	go poller.Run(ctx)

	router := h.NewRouter(h.Handlers{
		Catalog:  h.NewCatalogHandler(catalogService, cfg.RequestTimeout),
		Cart:     h.NewCartHandler(cartService, catalogService, cfg.RequestTimeout),
		Checkout: h.NewCheckoutHandler(checkoutService, cfg.RequestTimeout),
		Orders:   h.NewOrdersHandler(orderRepo, cfg.RequestTimeout),
		Admin:    h.NewAdminHandler(catalogService, orderRepo, receipts, cfg.RequestTimeout),
	}, cfg.AdminEmails, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "thulodeal-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Thulodeal API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	cancel()

	log.Println("server exited")
}
