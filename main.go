package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"campustech-backend/internal/auth"
	"campustech-backend/internal/config"
	"campustech-backend/internal/server"
	"campustech-backend/internal/service"
	"campustech-backend/internal/storage"
	"campustech-backend/internal/storage/memory"
	mongostore "campustech-backend/internal/storage/mongo"
	"campustech-backend/internal/upload"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Printf("close storage: %v", err)
		}
	}()

	revocations := auth.Revocations(auth.NoRevocations{})
	if cfg.RedisAddr != "" {
		client, err := auth.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("init redis: %v", err)
		}
		defer client.Close()
		revocations = auth.NewRedisRevocations(client)
		log.Printf("token revocation enabled (redis %s)", cfg.RedisAddr)
	}

	images, err := upload.NewDisk(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		log.Fatalf("init uploads: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	users := service.NewUserService(store)
	catalog := service.NewCatalogService(store, images)

	if cfg.SeedSampleItems {
		if err := catalog.SeedSamples(ctx); err != nil {
			log.Printf("seed sample items: %v", err)
		}
	}

	srv := server.New(cfg, server.Services{
		Auth:    service.NewAuthService(store, tokens, revocations, &cfg),
		Users:   users,
		Catalog: catalog,
		Carts:   service.NewCartService(store),
		Orders:  service.NewOrderService(store, users, &cfg),
	})

	go func() {
		log.Printf("campustech backend listening on %s (storage: %s)", cfg.HTTPAddress(), cfg.StorageDriver)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		log.Println("using in-memory storage; data is lost on restart")
		return memory.New(), nil
	}
	log.Printf("connecting to MongoDB database %s", cfg.MongoDatabase)
	return mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTransactions)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
