package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"roombooking/internal/core/auth"
	"roombooking/internal/core/config"
	"roombooking/internal/core/database"
	"roombooking/internal/core/logger"
	"roombooking/internal/core/server"
	"roombooking/internal/repo"
	"roombooking/internal/service"
	"roombooking/internal/transport/http/handler"
	"roombooking/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	var jwter *auth.JWTer
	if cfg.JWT.Secret != "" {
		jwter = &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		}
	}
	var identity auth.IdentitySource
	identityHeader := ""
	switch cfg.Auth.Mode {
	case config.AuthModeJWT:
		identity = auth.BearerIdentity{JWT: jwter}
	default:
		identity = auth.HeaderIdentity{Header: cfg.Auth.Header}
		identityHeader = cfg.Auth.Header
	}

	userRepo := repo.NewUserRepo(db)
	bookingRepo := repo.NewBookingRepo(db)
	userSvc := service.NewUserService(userRepo, log)
	bookingSvc := service.NewBookingService(bookingRepo, log)
	usageSvc := service.NewUsageService(bookingRepo, cfg.Usage.ExcludeAdmins)

	h := cfg.App.HTTP
	r := router.NewAPIEngine(router.Deps{
		Logger:   log,
		Identity: identity,
		Gate:     service.NewAuthService(userRepo),
		Registry: router.NewRegistry(
			handler.NewUserHandler(userSvc, jwter),
			handler.NewBookingHandler(bookingSvc, usageSvc),
		),
		Limits: router.Limits{
			RateLimitRPS:   h.RateLimitRPS,
			RateLimitBurst: h.RateLimitBurst,
			RateLimitPerIP: h.RateLimitPerIP,
			MaxConcurrent:  h.MaxConcurrent,
			MaxBodyBytes:   h.MaxBodyBytes,
			RequestTimeout: time.Duration(h.RequestTimeoutSec) * time.Second,
		},
		CORSOrigins:    h.CORSOrigins,
		IdentityHeader: identityHeader,
		Health:         pinger(db),
	})

	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(h.Port)
	log.Info("room booking api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("auth_mode", cfg.Auth.Mode),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("room booking api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("room booking api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	f := cfg.Log.File
	if !f.Enable {
		return logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Filename:   f.Filename,
		MaxSizeMB:  f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAgeDays: f.MaxAgeDays,
		Compress:   f.Compress,
	})
}

func pinger(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return sqlDB.PingContext(ctx)
	}
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
