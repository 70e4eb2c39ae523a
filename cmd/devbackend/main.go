// Command devbackend runs an in-memory document service that speaks the same
// HTTP contract as the production backend.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dharsanguruparan/LinguaShelf/internal/config"
	"github.com/dharsanguruparan/LinguaShelf/internal/processing"
	"github.com/dharsanguruparan/LinguaShelf/internal/server"
	"github.com/dharsanguruparan/LinguaShelf/internal/signing"
	"github.com/dharsanguruparan/LinguaShelf/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	store := storage.NewMemoryStore()
	processor := processing.New(store, cfg.ProcessingPool)
	signer := signing.NewSigner(cfg.SigningSecret, cfg.SignedURLTTL)
	srv := server.New(cfg, store, processor, signer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log.Printf("devbackend listening on %s (public %s)", cfg.DevAddress, cfg.DevPublicURL)
	if err := srv.Serve(ctx); err != nil {
		log.Printf("server stopped: %v", err)
		os.Exit(1)
	}
}
