package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	crm "github.com/goliatone/go-crm"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg, err := crm.LoadConfig()
	if err != nil {
		// refusing to start beats serving unverifiable tokens
		log.Fatalf("config: %v", err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()

	if err := crm.CreateSchema(ctx, db); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	repo := crm.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		log.Fatalf("repositories: %v", err)
	}

	if err := seedAdmin(ctx, repo, cfg); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	provider := crm.NewUserProvider(repo.Users())
	auth := crm.NewAuthenticator(provider, cfg)

	auther, err := crm.NewRouteController(auth, cfg)
	if err != nil {
		log.Fatalf("route controller: %v", err)
	}

	engine := django.New("./views", ".html")

	app := fiber.New(fiber.Config{
		AppName: "go-crm",
		Views:   engine,
	})

	crm.RegisterRoutes(app, auther, repo, cfg)

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// seedAdmin provisions the configured admin credential record when it does
// not exist yet. The plaintext secret never leaves this function unhashed.
func seedAdmin(ctx context.Context, repo crm.RepositoryManager, cfg *crm.AppConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	hash, err := crm.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	user, err := repo.Users().GetOrCreate(ctx, &crm.User{
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}

	log.Printf("admin user ready: %s", user.Email)
	return nil
}
