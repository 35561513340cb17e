// Command seed creates the first administrator directly against the
// configured store. It is a no-op when any contributor already exists.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/aussiebroadwan/onbd/internal/onbd/app"
	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/service"
	"github.com/aussiebroadwan/onbd/pkg/cryptox"
	"github.com/aussiebroadwan/onbd/pkg/slogx"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	email := flag.String("email", envOr("ONBD_ADMIN_EMAIL", "admin@pss.com"), "administrator email")
	name := flag.String("name", envOr("ONBD_ADMIN_NAME", "Platform Admin"), "administrator display name")
	password := flag.String("password", os.Getenv("ONBD_ADMIN_PASSWORD"), "administrator password")
	flag.Parse()

	if *password == "" {
		log.Fatal("administrator password is required (-password or ONBD_ADMIN_PASSWORD)")
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := slogx.New(slogx.Config{
		Service: "onbd-seed",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	if err := cryptox.SetPasswordCost(cfg.BcryptCost); err != nil {
		log.Fatalf("failed to set bcrypt cost: %v", err)
	}
	cipher, err := cryptox.NewFieldCipher(cfg.AESKey)
	if err != nil {
		log.Fatalf("failed to initialize field cipher: %v", err)
	}

	db, err := app.OpenStore(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	svc := &service.BootstrapService{Store: db, Cipher: cipher}

	ctx := slogx.WithContext(context.Background(), logger)
	admin, err := svc.Seed(ctx, domain.BootstrapData{
		Email:    *email,
		Name:     *name,
		Password: *password,
	})
	switch {
	case errors.Is(err, service.ErrBootstrapAlready):
		logger.Info("store already has contributors, nothing to seed")
	case err != nil:
		logger.Error("seed failed", "error", err)
		db.Close()
		os.Exit(1)
	default:
		logger.Info("administrator created", "id", admin.ID, "email", admin.Email)
	}
}
