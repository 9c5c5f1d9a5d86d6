// Command admin prepares a store for the API: it migrates the schema and makes
// sure at least one admin exists, since only admins can create users.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"roombooking/internal/core/auth"
	"roombooking/internal/core/config"
	"roombooking/internal/core/database"
	"roombooking/internal/core/logger"
	"roombooking/internal/repo"
	"roombooking/internal/service"
)

func main() {
	configPath := flag.String("config", "", "config file (default $CONFIG_PATH or ./configs/config.local.yaml)")
	name := flag.String("name", "admin", "name of the admin to create when none exists")
	token := flag.Bool("token", false, "print a bearer token for the admin (needs jwt.secret)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(*configPath)
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		Username: cfg.DB.Username,
		Password: cfg.DB.Password,
		LogLevel: cfg.DB.LogLevel,
		Logger:   log,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	users := service.NewUserService(repo.NewUserRepo(db), log)
	u, created, err := users.EnsureAdmin(ctx, *name)
	if err != nil {
		log.Fatal("ensure admin", zap.Error(err))
	}
	if created {
		log.Info("admin created", zap.Int64("id", u.ID), zap.String("name", u.Name))
	} else {
		log.Info("admin already present", zap.Int64("id", u.ID), zap.String("name", u.Name))
	}
	fmt.Fprintf(os.Stdout, "admin id=%d name=%s\n", u.ID, u.Name)

	if *token {
		if cfg.JWT.Secret == "" {
			log.Fatal("jwt.secret is not configured")
		}
		j := &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		}
		tok, exp, err := j.Issue(u.ID)
		if err != nil {
			log.Fatal("issue token", zap.Error(err))
		}
		fmt.Fprintf(os.Stdout, "token=%s\nexpires_at=%s\n", tok, exp.UTC().Format(time.RFC3339))
	}
}
