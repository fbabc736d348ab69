package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mahalaxmi-auto/storefront/internal/config"
	delivery "github.com/mahalaxmi-auto/storefront/internal/delivery/http"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/messaging"
	"github.com/mahalaxmi-auto/storefront/internal/messaging/kafka"
	"github.com/mahalaxmi-auto/storefront/internal/notify"
	"github.com/mahalaxmi-auto/storefront/internal/realtime"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
	mongostore "github.com/mahalaxmi-auto/storefront/internal/repository/mongo"
	"github.com/mahalaxmi-auto/storefront/internal/repository/postgres"
	redisstore "github.com/mahalaxmi-auto/storefront/internal/repository/redis"
	"github.com/mahalaxmi-auto/storefront/internal/service"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(cfg.NewLogger())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	// --- Database ---
	db, err := postgres.InitDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	products := postgres.NewProductRepository(db)
	areas := postgres.NewDeliveryAreaRepository(db)
	orders := postgres.NewOrderRepository(db)
	carts := postgres.NewCartRepository(db)
	users := postgres.NewUserRepository(db)
	reviews := postgres.NewReviewRepository(db)
	wishlist := postgres.NewWishlistRepository(db)

	if cfg.SeedData {
		if err := seed(ctx, products, areas); err != nil {
			return err
		}
	}

	// --- Redis ---
	rdb, err := redisstore.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Audit log ---
	audit, closeAudit, err := openAuditLog(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeAudit()

	// --- Email ---
	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.ResendAPIKey != "" {
		resendMailer, err := notify.NewResendMailer(cfg.ResendAPIKey, cfg.ResendAPIURL, cfg.EmailFrom, notify.Store{
			Name:    cfg.StoreName,
			Address: cfg.StoreAddress,
			Phone:   cfg.StorePhone,
		})
		if err != nil {
			return err
		}
		mailer = resendMailer
	} else {
		slog.Warn("RESEND_API_KEY not set, status emails will only be logged")
	}
	notifications := service.NewNotificationService(users, mailer)

	// --- Kafka ---
	var (
		publisher messaging.Publisher = messaging.NewLogPublisher()
		inline    service.StatusChangeHandler
	)
	if cfg.KafkaEnabled() {
		broker := kafka.NewKafkaBroker(cfg.KafkaBrokers)
		defer broker.Close()
		publisher = broker

		// Consumer: orders.status_changed → customer email
		go broker.Consume(ctx, messaging.TopicOrderStatusChanged, "storefront-notifications", notifications.HandleMessage)
		slog.Info("Kafka consumers started", "brokers", cfg.KafkaBrokers)
	} else {
		inline = notifications
		slog.Info("KAFKA_BROKERS not set, status changes are handled in-process")
	}

	// --- Realtime ---
	hub := realtime.NewHub()
	defer hub.Close()

	listener := realtime.NewListener(cfg.DatabaseURL, postgres.OrderUpdatesChannel, hub)
	go func() {
		if err := listener.Run(ctx); err != nil {
			slog.Error("Order update listener stopped", "err", err)
		}
	}()

	// --- Services ---
	delivers := service.NewDeliveryService(areas)
	handler := delivery.NewHandler(delivery.Services{
		Auth:          service.NewAuthService(users, redisstore.NewSessionStore(rdb), cfg.JWTSecret, cfg.SessionTTL),
		Delivery:      delivers,
		Catalog:       service.NewCatalogService(products),
		Cart:          service.NewCartService(carts, products),
		Checkout:      service.NewCheckoutService(redisstore.NewCheckoutStore(rdb), carts, orders, delivers, publisher, cfg.CheckoutTTL),
		Orders:        service.NewOrderService(orders, hub),
		Admin:         service.NewAdminService(orders, products, areas, users, audit, publisher, inline),
		Notifications: notifications,
		Reviews:       service.NewReviewService(reviews, products),
		Wishlist:      service.NewWishlistService(wishlist, products),
	})

	// --- HTTP API ---
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := entity.RegisterValidations(v); err != nil {
			return err
		}
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := delivery.NewRouter(handler, cfg.CORSOrigins)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("🚀 HTTP server starting", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// openAuditLog picks the audit sink. The returned func releases it.
func openAuditLog(ctx context.Context, cfg config.Config, db *sql.DB) (repository.AuditLog, func(), error) {
	if cfg.AuditLogStore != "mongo" {
		return postgres.NewAuditLog(db), func() {}, nil
	}

	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			slog.Warn("Failed to disconnect from MongoDB", "err", err)
		}
	}
	audit, err := mongostore.NewAuditLog(ctx, client.Database(cfg.MongoDB))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	slog.Info("Audit log stored in MongoDB", "database", cfg.MongoDB)
	return audit, closeFn, nil
}
