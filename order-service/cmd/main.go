package main

import (
	"cleaning-app/order-service/internal/config"
	"cleaning-app/order-service/internal/handler"
	"cleaning-app/order-service/internal/lifecycle"
	"cleaning-app/order-service/internal/repository"
	"cleaning-app/order-service/internal/services"
	"cleaning-app/order-service/internal/utils"
	"cleaning-app/pkg/shutdown"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// 1. Base context and shutdown manager
	ctx, shutdownManager := shutdown.New(context.Background(), 15*time.Second)
	shutdownManager.Listen()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	loc, err := cfg.Lifecycle.Location()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Stores: MongoDB when configured, in-process otherwise
	var (
		orderRepo    repository.OrderRepository
		staffRepo    repository.StaffRepository
		evidenceRepo repository.EvidenceRepository
		reportRepo   repository.ReportRepository
	)
	if cfg.MongoDB.URI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		if err := mongoClient.Ping(ctx, nil); err != nil {
			log.Fatal("Failed to ping MongoDB:", err)
		}
		shutdownManager.Register("MongoDB connection", func(ctx context.Context) error {
			return mongoClient.Disconnect(ctx)
		})

		db := mongoClient.Database(cfg.MongoDB.DBName)
		orderRepo = repository.NewOrderRepository(db)
		staffRepo = repository.NewStaffRepository(db)
		evidenceRepo = repository.NewEvidenceRepository(db)
		reportRepo = repository.NewReportRepository(db)
	} else {
		log.Println("[STORE] MONGO_URI not set, using in-memory stores")
		orderRepo = repository.NewMemoryOrderRepository()
		staffRepo = repository.NewMemoryStaffRepository()
		evidenceRepo = repository.NewMemoryEvidenceRepository()
		reportRepo = repository.NewMemoryReportRepository()
	}

	// 3. Order events go to Redis for the notification service
	var publisher utils.EventPublisher = utils.NopPublisher{}
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal("Invalid Redis URL:", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		shutdownManager.Register("Redis connection", func(ctx context.Context) error {
			return rdb.Close()
		})
		publisher = utils.NewRedisPublisher(rdb)
	}

	var messenger utils.Messenger = utils.LogMessenger{}
	if cfg.Twilio.Enabled() {
		messenger = utils.NewTwilioMessenger(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
	} else {
		log.Println("[SMS] Twilio not configured, messages are only logged")
	}

	var (
		evidenceService *services.EvidenceService
		store           utils.ObjectStore
	)
	clock := services.SystemClock{}
	if cfg.Minio.Endpoint != "" {
		minioClient, err := utils.NewMinioClient(ctx, cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.Secure)
		if err != nil {
			log.Fatal("Failed to init MinIO:", err)
		}
		store = utils.NewMinioStore(minioClient, cfg.Minio.Bucket, cfg.Minio.PublicURL)
		evidenceService = services.NewEvidenceService(orderRepo, evidenceRepo, store, clock)
	}

	// 4. Services
	metrics := utils.NewMetrics(prometheus.DefaultRegisterer)
	orderService := services.NewOrderService(services.OrderServiceDeps{
		Repo:      orderRepo,
		Machine:   lifecycle.New(lifecycle.WithCancelOverride(cfg.Lifecycle.AllowCancelOverride)),
		Messenger: messenger,
		Publisher: publisher,
		Clock:     clock,
		Metrics:   metrics,
	}, cfg.Lifecycle)
	dashboardService := services.NewDashboardService(orderRepo, staffRepo, clock, loc)
	staffService := services.NewStaffService(staffRepo)
	reportService := services.NewReportService(reportRepo, orderRepo, store, publisher, clock)

	cron := services.NewCronJobService(orderRepo, publisher, clock, cfg.Lifecycle.ReminderInterval, cfg.Lifecycle.ReminderAfter)
	cron.Start(ctx)

	// 5. Router
	router := handler.NewRouter(
		handler.NewOrderHandler(orderService, dashboardService, evidenceService),
		handler.NewStaffHandler(staffService),
		handler.NewReportHandler(reportService),
		metrics,
		cfg.Server.AllowedOrigins,
	)

	// 6. Server
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Order service running on :%s", cfg.Server.Port)
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
