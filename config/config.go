package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting read from the environment.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	SessionSecret   string
	SessionLifetime time.Duration

	CaptchaSecretKey string
	CaptchaVerifyURL string

	CloudinaryURL string
	UploadFolder  string

	LoginMaxAttempts int
	LoginWindow      time.Duration
	LoginLockout     time.Duration
}

// Load reads configuration from the environment. A .env file is loaded
// first when present so local development matches deployment.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("[config] failed to load .env: %v", err)
		}
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		MongoURI:         getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:    getEnv("MONGODB_DATABASE", "climatemap"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		SessionLifetime:  time.Duration(getEnvInt("SESSION_LIFETIME_MINUTES", 60)) * time.Minute,
		CaptchaSecretKey: os.Getenv("CAPTCHA_SECRET_KEY"),
		CaptchaVerifyURL: getEnv("CAPTCHA_VERIFY_URL", "https://hcaptcha.com/siteverify"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		UploadFolder:     getEnv("UPLOAD_FOLDER", "climatemap/stories"),
		LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginWindow:      time.Duration(getEnvInt("LOGIN_WINDOW_MINUTES", 15)) * time.Minute,
		LoginLockout:     time.Duration(getEnvInt("LOGIN_LOCKOUT_MINUTES", 15)) * time.Minute,
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}
