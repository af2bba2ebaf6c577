package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dejidee0/litwaypickss-eccomerce/internal/api"
	checkoutservice "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/service"
	loyaltydomain "github.com/dejidee0/litwaypickss-eccomerce/internal/loyalty/domain"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/orders"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/payment"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/session"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/storage"
)

type Config struct {
	HTTPPort        string
	StorageBackend  string // memory, redis or mongo
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDBName     string
	KafkaBrokers    string // comma separated; empty disables order events
	RelayURL        string
	CountryCode     string
	PaymentTimeout  time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StorageBackend:  getEnv("STORAGE_BACKEND", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "litwaydb"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		RelayURL:        getEnv("MOMO_RELAY_URL", "http://localhost:5000"),
		CountryCode:     getEnv("COUNTRY_CODE", payment.DefaultCountryCode),
		PaymentTimeout:  60 * time.Second,
		RequestTimeout:  90 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore := connectStore(ctx, cfg)
	defer closeStore()

	sessions := session.NewManager(store, loyaltydomain.DefaultConfig())
	paymentClient := payment.NewClient(cfg.RelayURL, cfg.CountryCode, cfg.PaymentTimeout)

	var publisher checkoutservice.OrderPublisher
	var recorder *orders.Recorder
	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		kafkaPublisher := orders.NewPublisher(brokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		recorder = orders.NewRecorder()
		consumer := orders.NewConsumer(recorder, brokers...)
		defer consumer.Close()
		go consumer.Run(ctx)
		log.Printf("order events enabled, brokers: %s", cfg.KafkaBrokers)
	}

	orchestrator := checkoutservice.NewOrchestrator(paymentClient, publisher, cfg.PaymentTimeout)
	router := api.NewRouter(sessions, orchestrator, recorder, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront API starting on :%s (storage: %s)", cfg.HTTPPort, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func connectStore(ctx context.Context, cfg *Config) (storage.Store, func()) {
	switch cfg.StorageBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		log.Printf("connected to Redis at %s", cfg.RedisAddr)
		return storage.NewRedisStore(client), func() { client.Close() }
	case "mongo":
		collection, disconnect, err := storage.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		log.Printf("connected to MongoDB at %s", cfg.MongoURI)
		return storage.NewMongoStore(collection), disconnect
	case "memory":
		log.Println("using in-memory storage, documents will not survive a restart")
		return storage.NewMemoryStore(), func() {}
	default:
		log.Fatalf("unknown storage backend %q", cfg.StorageBackend)
		return nil, nil
	}
}
