package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/marketplace-backend/internal/config"
	"github.com/ignatzorin/marketplace-backend/internal/db"
	httpHandlers "github.com/ignatzorin/marketplace-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/marketplace-backend/internal/http/router"
	"github.com/ignatzorin/marketplace-backend/internal/logger"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
	"github.com/ignatzorin/marketplace-backend/internal/service"
	"github.com/ignatzorin/marketplace-backend/internal/storage"
	"github.com/ignatzorin/marketplace-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	evidenceStorage, err := storage.NewEvidenceStorage(cfg.EvidenceStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	atomic := repository.NewAtomic(dbConn, cfg.LockTimeout)
	userRepo := repository.NewUserRepository(dbConn)
	listingRepo := repository.NewListingRepository(dbConn)
	bookingRepo := repository.NewBookingRepository(dbConn)
	escrowRepo := repository.NewEscrowRepository(dbConn)
	walletRepo := repository.NewWalletRepository(dbConn, cfg.WalletCurrency)
	transactionRepo := repository.NewTransactionRepository(dbConn)
	disputeRepo := repository.NewDisputeRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	conversationRepo := repository.NewConversationRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	walletService := service.NewWalletService(atomic, walletRepo, transactionRepo)
	listingService := service.NewListingService(listingRepo)
	bookingService := service.NewBookingService(atomic, bookingRepo, listingRepo, userRepo)
	escrowService := service.NewEscrowService(atomic, bookingRepo, escrowRepo, walletRepo, transactionRepo)
	payoutService := service.NewPayoutService(atomic, bookingRepo, escrowRepo, walletRepo, transactionRepo)
	cancellationService := service.NewCancellationService(atomic, bookingRepo, escrowRepo, walletRepo, transactionRepo)
	disputeService := service.NewDisputeService(atomic, disputeRepo, bookingRepo, escrowRepo, walletRepo, transactionRepo)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo)
	messageService := service.NewMessageService(conversationRepo, bookingRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	seedService := service.NewSeedService(atomic, userRepo, walletRepo, listingRepo)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	hub.SetNotificationSaver(ws.NewNotificationRepositoryAdapter(notificationRepo))
	go hub.Run()

	bookingService.SetHub(hub)
	escrowService.SetHub(hub)
	payoutService.SetHub(hub)
	cancellationService.SetHub(hub)
	disputeService.SetHub(hub)
	messageService.SetHub(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	walletHandler := httpHandlers.NewWalletHandler(walletService)
	listingHandler := httpHandlers.NewListingHandler(listingService)
	bookingHandler := httpHandlers.NewBookingHandler(bookingService, cancellationService, payoutService)
	escrowHandler := httpHandlers.NewEscrowHandler(escrowService)
	disputeHandler := httpHandlers.NewDisputeHandler(disputeService, evidenceStorage)
	reviewHandler := httpHandlers.NewReviewHandler(reviewService)
	messageHandler := httpHandlers.NewMessageHandler(messageService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	seedHandler := httpHandlers.NewSeedHandler(seedService)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg,
		authHandler, walletHandler, listingHandler, bookingHandler, escrowHandler,
		disputeHandler, reviewHandler, messageHandler, notificationHandler,
		wsHandler, healthHandler, seedHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
