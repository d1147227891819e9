package main

import (
	"flag"
	"log"

	"go-retail-api/internal/config"
	"go-retail-api/internal/repository"
	"go-retail-api/pkg/database"
	applogger "go-retail-api/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Resets an account password from the command line, for recovering a
// locked-out admin without touching the database by hand.
func main() {
	email := flag.String("email", "", "account email, defaults to ADMIN_EMAIL")
	password := flag.String("password", "", "new password, defaults to ADMIN_PASSWORD")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	if *email == "" {
		*email = cfg.AdminEmail
	}
	if *password == "" {
		*password = cfg.AdminPassword
	}

	zlog, err := applogger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// 3. Find the account
	users := repository.NewUserRepo(db)
	user, err := users.FindByEmail(*email)
	if err != nil {
		zlog.Fatal("user not found", zap.String("email", *email), zap.Error(err))
	}

	// 4. Hash and store the new password
	if err := user.SetPassword(*password); err != nil {
		zlog.Fatal("failed to hash password", zap.Error(err))
	}
	if err := users.UpdatePassword(user.ID, user.Password); err != nil {
		zlog.Fatal("failed to update password", zap.Error(err))
	}

	zlog.Info("password reset", zap.String("email", *email))
}
