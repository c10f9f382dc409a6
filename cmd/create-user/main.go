package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/certifyai/certify-backend/internal/database"
	"github.com/certifyai/certify-backend/internal/logger"
	"github.com/certifyai/certify-backend/internal/model"
	"github.com/certifyai/certify-backend/internal/repository"
	"github.com/certifyai/certify-backend/internal/service"
)

// create-user provisions an account from the command line. Flags instead of
// prompts so it can run from CI and seed scripts.
func main() {
	var (
		name     = flag.String("name", "", "Full name")
		email    = flag.String("email", "", "Email address")
		password = flag.String("password", "", "Password (min 8 characters)")
	)
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		fmt.Println("Usage: create-user -name <name> -email <email> -password <password>")
		os.Exit(1)
	}
	if len(*password) < 8 {
		fmt.Println("Error: password must be at least 8 characters")
		os.Exit(1)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Create the User ───────────────────────────────────────────────
	authService := service.NewAuthService(cfg, nil)
	hash, err := authService.HashPassword(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	userRepo := repository.NewUserRepository(pool)
	user := &model.User{Name: *name, Email: *email, PasswordHash: hash}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("Created user %d (%s)\n", user.ID, user.Email)
}
