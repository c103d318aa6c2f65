package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"cleaning-app/notification-service/internal/config"
	"cleaning-app/notification-service/internal/handler"
	"cleaning-app/notification-service/internal/repository"
	"cleaning-app/notification-service/internal/services"
	"cleaning-app/notification-service/internal/utils"
	"cleaning-app/notification-service/internal/utils/mail"
	"cleaning-app/notification-service/internal/utils/push"
	"cleaning-app/pkg/shutdown"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	ctx, shutdownManager := shutdown.New(context.Background(), 10*time.Second)
	shutdownManager.Listen()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Error parsing configs: %v", err)
	}

	var (
		repo       repository.NotificationRepository
		recipients repository.RecipientRepository
	)
	if cfg.MongoDB.URI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		mongoClient, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoDB.URI))
		if err == nil {
			err = mongoClient.Ping(connectCtx, nil)
		}
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		shutdownManager.Register("MongoDB connection", func(ctx context.Context) error {
			return mongoClient.Disconnect(ctx)
		})
		db := mongoClient.Database(cfg.MongoDB.DBName)
		repo = repository.NewMongoNotificationRepo(db)
		recipients = repository.NewMongoRecipientRepo(db)
	} else {
		log.Println("[STORE] MONGO_URI not set, using in-memory feed")
		repo = repository.NewMemoryRepo()
		recipients = repository.NewMemoryRecipientRepo()
	}

	var pusher services.Pusher
	if cfg.Firebase.CredentialsFile != "" {
		fcmClient, err := push.NewFCMClient(ctx, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatal("Failed to init FCM:", err)
		}
		pusher = fcmClient
	}
	var mailer services.Mailer
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.From)
	}

	notificationService := services.NewNotificationService(repo, recipients, pusher, mailer)

	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal("Invalid Redis URL:", err)
		}
		rdb := redis.NewClient(redisOpts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		shutdownManager.Register("Redis connection", func(ctx context.Context) error {
			return rdb.Close()
		})
		go notificationService.StartRedisSubscriber(ctx, rdb)
	} else {
		log.Println("[REDIS] REDIS_URL not set, no order events will arrive")
	}

	router := mux.NewRouter()
	router.Use(utils.LoggingMiddleware)
	handler.NewNotificationHandler(notificationService).Register(router)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Notification service running on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register("HTTP server", func(ctx context.Context) error {
		return server.Shutdown(ctx)
	})

	if err := shutdownManager.Wait(); err != nil {
		log.Printf("[SHUTDOWN] Finished with errors: %v", err)
	}
}
