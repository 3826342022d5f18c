package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"climatemap/captcha"
	"climatemap/config"
	"climatemap/database"
	"climatemap/handlers"
	"climatemap/middleware"
	"climatemap/routes"
	"climatemap/store"
	"climatemap/upload"
)

func main() {
	log.Println("Starting Climate Stories Map backend...")

	cfg := config.Load()

	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET must be set")
	}

	log.Println("Connecting to MongoDB...")

	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDatabase); err != nil {
			dbErr = err
			log.Printf("MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		log.Fatal("Failed to connect to MongoDB: ", dbErr)
	}
	defer database.DisconnectMongo()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := middleware.NewSessionManager(cfg.SessionSecret, cfg.SessionLifetime)
	limiter := middleware.NewLoginLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow, cfg.LoginLockout)
	verifier := captcha.NewHCaptchaVerifier(cfg.CaptchaVerifyURL, cfg.CaptchaSecretKey)

	var uploader upload.Uploader
	if cld, err := upload.NewCloudinaryUploader(cfg.CloudinaryURL, cfg.UploadFolder); err != nil {
		log.Printf("Image uploads disabled: %v", err)
	} else {
		uploader = cld
	}

	postStore := store.NewMongoPostStore(database.Stories)
	userStore := store.NewMongoUserStore(database.Users)

	router := routes.SetupRouter(routes.Deps{
		Posts:    handlers.NewPostHandler(postStore, verifier, uploader),
		Users:    handlers.NewUserHandler(userStore),
		Auth:     handlers.NewAuthHandler(userStore, sessions, limiter),
		Sessions: sessions,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown: ", err)
	}

	log.Println("Server stopped gracefully")
}
