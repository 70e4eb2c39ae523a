// Command linguashelf is the terminal client for the document library and
// the multilingual query assistant.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/LinguaShelf/internal/backend"
	"github.com/dharsanguruparan/LinguaShelf/internal/config"
	"github.com/dharsanguruparan/LinguaShelf/internal/docview"
	"github.com/dharsanguruparan/LinguaShelf/internal/library"
	"github.com/dharsanguruparan/LinguaShelf/internal/s3storage"
)

var backendURL string

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "linguashelf: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linguashelf",
		Short: "Document library and multilingual query client",
		Long: `linguashelf uploads documents to the LinguaShelf service, lists and searches them,
opens a document for viewing, and asks questions that come back in English, Arabic and French
with a source citation.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend origin; skips the runtime config resource")
	cmd.AddCommand(
		newChatCmd(),
		newAskCmd(),
		newFilesCmd(),
		newUploadCmd(),
		newViewCmd(),
		newConfigCmd(),
	)
	return cmd
}

// app is the wiring shared by every subcommand.
type app struct {
	cfg      *config.Config
	origin   *config.Origin
	client   *backend.Client
	registry *library.Registry
	viewer   *library.Viewer
	fetcher  *docview.Fetcher
}

// newApp loads configuration and settles the backend origin before any
// command talks to the network.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	var origin *config.Origin
	if backendURL != "" {
		origin = config.ResolvedOrigin(backendURL)
	} else {
		origin = config.NewOrigin(cfg.BackendURL)
		config.NewResolver(cfg.RuntimeConfig).Resolve(ctx, origin)
	}
	client := backend.New(origin, nil)
	registry := library.NewRegistry(client)
	viewer := library.NewViewer(client, library.ViewerOptions{
		CacheTTL:  cfg.ViewCacheTTL,
		CacheSize: cfg.ViewCacheSize,
	})
	registry.OnRefresh(viewer.Reset)

	fetcher := &docview.Fetcher{}
	objects, err := s3storage.New(cfg)
	switch {
	case err == nil:
		fetcher.Objects = objects
	case !errors.Is(err, s3storage.ErrNotConfigured):
		return nil, err
	}
	return &app{
		cfg:      cfg,
		origin:   origin,
		client:   client,
		registry: registry,
		viewer:   viewer,
		fetcher:  fetcher,
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved backend origin",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend:        %s\n", a.origin.Get())
			fmt.Fprintf(out, "default:        %s\n", a.cfg.BackendURL)
			fmt.Fprintf(out, "runtime config: %s\n", a.cfg.RuntimeConfig)
			fmt.Fprintf(out, "ready:          %t\n", a.origin.IsReady())
			return nil
		},
	}
}
