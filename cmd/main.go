package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fathima-sithara/user-auth-service/internal/automation"
	"github.com/fathima-sithara/user-auth-service/internal/config"
	"github.com/fathima-sithara/user-auth-service/internal/database"
	"github.com/fathima-sithara/user-auth-service/internal/handlers"
	"github.com/fathima-sithara/user-auth-service/internal/mailer"
	"github.com/fathima-sithara/user-auth-service/internal/middleware"
	"github.com/fathima-sithara/user-auth-service/internal/repository"
	"github.com/fathima-sithara/user-auth-service/internal/server"
	"github.com/fathima-sithara/user-auth-service/internal/services"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting user-auth-service in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	brevo := mailer.NewBrevoClient(cfg.Brevo.APIKey, cfg.Brevo.FromEmail, cfg.Brevo.FromName)
	if !brevo.IsConfigured() {
		sugar.Warn("Brevo client not fully configured. Email delivery will fail.")
	}
	twilio := mailer.NewTwilioClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From)
	if !twilio.IsConfigured() {
		sugar.Warn("Twilio client not fully configured. SMS delivery will fail.")
	}

	userRepo := repository.NewMongoUserRepo(db, cfg.User.Collection)
	accountSvc := services.NewAccountService(
		userRepo,
		brevo,
		twilio,
		cfg.App.FrontendURL,
		time.Duration(cfg.Security.OtpTTLMinutes)*time.Minute,
		sugar,
	)
	h := handlers.NewHandler(
		accountSvc,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpireMinutes)*time.Minute,
		time.Duration(cfg.JWT.CookieExpireDays)*24*time.Hour,
	)
	authRequired := middleware.Authenticated(accountSvc, cfg.JWT.Secret)

	app := server.New(cfg, h, authRequired, logger)

	// background pruning of stale unverified accounts
	bgCtx, bgCancel := context.WithCancel(context.Background())
	go automation.RemoveUnverifiedAccounts(
		bgCtx,
		userRepo,
		time.Duration(cfg.Security.UnverifiedMaxAgeMinutes)*time.Minute,
		time.Duration(cfg.Security.CleanupIntervalMinutes)*time.Minute,
		sugar,
	)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")
	bgCancel()

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}

	sugar.Info("Graceful shutdown complete.")
}
