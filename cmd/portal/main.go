package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/counseling_portal/internal/app"
	"github.com/Freeeeeet/counseling_portal/internal/config"
	"github.com/Freeeeeet/counseling_portal/internal/controller"
	"github.com/Freeeeeet/counseling_portal/internal/repository"
	"github.com/Freeeeeet/counseling_portal/internal/repository/base"
	"github.com/Freeeeeet/counseling_portal/internal/service"
	"github.com/Freeeeeet/counseling_portal/migrations"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting counseling portal",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
	)

	pool, err := app.NewPool(ctx, cfg.GetDBDSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Репозитории
	db := base.NewRepository(pool)
	userRepo := repository.NewUserRepository(db)
	counselorRepo := repository.NewCounselorRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	academicRepo := repository.NewAcademicInfoRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Сервисы
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.SessionTTL, logger)
	userService := service.NewUserService(userRepo, academicRepo, logger)
	availabilityService := service.NewAvailabilityService(counselorRepo, availabilityRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, messageRepo, userRepo, cfg.NotificationFallbackDays, logger)
	appointmentService := service.NewAppointmentService(appointmentRepo, availabilityService, logger)
	reportService := service.NewReportService(reportRepo, logger)

	// portal set-password <username|email>, пароль читается из первой строки stdin
	if len(os.Args) > 1 && os.Args[1] == "set-password" {
		if len(os.Args) != 3 {
			logger.Fatal("Usage: portal set-password <username|email> < password")
		}
		if err := setPassword(ctx, authService, os.Args[2]); err != nil {
			logger.Fatal("Failed to set password", zap.Error(err))
		}
		return
	}

	portal := controller.NewPortalController(
		authService,
		userService,
		availabilityService,
		notificationService,
		appointmentService,
		reportService,
		db,
		logger,
	)

	handler := portal.Handler(controller.Options{
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		AccessLog:          app.NewLogWriter(logger.Named("access")),
	})

	server := app.NewServer(cfg.HTTPAddr, handler, logger)
	if err := server.Run(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Counseling portal stopped")
}

func setPassword(ctx context.Context, auth *service.AuthService, identifier string) error {
	scanner := bufio.NewScanner(os.Stdin)
	var password string
	if scanner.Scan() {
		password = scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	return auth.SetPassword(ctx, service.PasswordReset{Identifier: identifier, Password: password})
}
