package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"travel-vault-server/internal/assistant"
	"travel-vault-server/internal/auth"
	"travel-vault-server/internal/config"
	"travel-vault-server/internal/hub"
	"travel-vault-server/internal/model"
	"travel-vault-server/internal/server"
	"travel-vault-server/internal/storage"
	"travel-vault-server/internal/vault"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	gin.SetMode(cfg.GinMode)

	var backend storage.Backend
	switch cfg.StorageBackend {
	case "sqlite":
		backend, err = storage.NewSQLiteBackend(filepath.Join(cfg.DataDir, "vault.db"))
	default:
		backend, err = storage.NewFileBackend(cfg.DataDir)
	}
	if err != nil {
		log.Fatal(err)
	}

	queue := storage.NewQueue(backend, func(key string, err error) {
		log.Printf("changes to %s may not be saved: %v", key, err)
	})

	sessions := vault.NewSessionStore(queue, cfg.Namespace)
	loyalty := vault.NewLoyaltyStore(queue, cfg.Namespace)
	ktns := vault.NewKTNStore(queue, cfg.Namespace)
	settings := vault.NewSettingsStore(queue, cfg.Namespace)

	completer := assistant.NewClient(cfg.AssistantURL, cfg.AssistantTimeout)
	engine := assistant.NewEngine(completer, queue, cfg.Namespace)

	for _, load := range []func() error{sessions.Load, loyalty.Load, ktns.Load, settings.Load, engine.Load} {
		if err := load(); err != nil {
			log.Fatal(err)
		}
	}

	wsHub := hub.New()
	broadcast := func(event string, body any) {
		if user, ok := sessions.Current(); ok {
			wsHub.BroadcastEvent(user.ID, event, body)
		}
	}
	engine.OnEvent = broadcast
	loyalty.Subscribe(func(items []model.LoyaltyProgram) { broadcast("loyalty", items) })
	ktns.Subscribe(func(items []model.KTN) { broadcast("ktn", items) })

	tokenCfg := auth.TokenConfig{
		Secret: cfg.MasterSecret,
		Expiry: cfg.TokenExpiry,
		Issuer: "travel-vault-server",
	}

	router := server.NewRouter(server.Deps{
		Sessions:    sessions,
		Loyalty:     loyalty,
		KTNs:        ktns,
		Settings:    settings,
		Engine:      engine,
		Hub:         wsHub,
		TokenConfig: tokenCfg,
		Version:     version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("listening on %s", fmt.Sprintf(":%d", cfg.Port))
	if err := server.RunContext(ctx, cfg, router); err != nil {
		log.Printf("server: %v", err)
	}

	queue.Flush()
	if err := backend.Close(); err != nil {
		log.Printf("close storage: %v", err)
	}
}
