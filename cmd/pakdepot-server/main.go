// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pakdepot/pakdepot/lib/assetcache"
	"github.com/pakdepot/pakdepot/lib/buildlog"
	"github.com/pakdepot/pakdepot/lib/clock"
	"github.com/pakdepot/pakdepot/lib/config"
	"github.com/pakdepot/pakdepot/lib/manifest"
	"github.com/pakdepot/pakdepot/lib/process"
	"github.com/pakdepot/pakdepot/lib/service"
	"github.com/pakdepot/pakdepot/lib/site"
	"github.com/pakdepot/pakdepot/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")

	// Deployment flags. Each overrides the corresponding config file
	// field, for systemd unit files and ad-hoc local runs.
	var (
		configPath  string
		listen      string
		contentRoot string
		socketPath  string
	)
	flag.StringVar(&configPath, "config", "", "config file path (default: $PAKDEPOT_CONFIG)")
	flag.StringVar(&listen, "listen", "", "HTTP listen address (overrides config)")
	flag.StringVar(&contentRoot, "content-root", "", "asset content root (overrides config)")
	flag.StringVar(&socketPath, "socket", "", "control socket path (overrides config)")
	flag.Parse()

	if showVersion {
		fmt.Printf("pakdepot-server %s\n", version.Info())
		return nil
	}

	logger := service.NewLogger()

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if listen != "" {
		cfg.Server.Listen = listen
	}
	if contentRoot != "" {
		cfg.Content.Root = contentRoot
	}
	if socketPath != "" {
		cfg.Server.SocketPath = socketPath
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.Real()

	depot := &DepotServer{
		store: manifest.NewStore(),
		builder: manifest.NewBuilder(manifest.BuilderConfig{
			Root:        cfg.Content.Root,
			Extensions:  cfg.Content.Extensions,
			Concurrency: cfg.Content.Concurrency,
			Clock:       clk,
			Logger:      logger,
		}),
		clock:       clk,
		logger:      logger,
		contentRoot: cfg.Content.Root,
		startedAt:   clk.Now(),
	}

	if interval, enabled := cfg.Content.RescanEvery(); enabled {
		depot.rescanInterval = interval
	}

	if cfg.Cache.Enabled {
		depot.cache = assetcache.New(assetcache.Config{
			MaxBytes:      cfg.Cache.MaxBytes,
			MaxEntryBytes: cfg.Cache.MaxEntryBytes,
		})
		depot.cacheEntryLimit = cfg.Cache.MaxEntryBytes
		logger.Info("asset cache enabled",
			"max_bytes", cfg.Cache.MaxBytes,
			"max_entry_bytes", cfg.Cache.MaxEntryBytes,
		)
	}

	if cfg.BuildLog.Path != "" {
		ledger, err := buildlog.Open(buildlog.Config{
			Path:   cfg.BuildLog.Path,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("opening build ledger: %w", err)
		}
		defer ledger.Close()
		depot.ledger = ledger
	}

	if cfg.Site.File != "" {
		definition, err := site.ReadFile(cfg.Site.File)
		if err != nil {
			return fmt.Errorf("loading site definition: %w", err)
		}
		page, err := site.NewPage(definition)
		if err != nil {
			return fmt.Errorf("preparing landing page: %w", err)
		}
		depot.page = page
		logger.Info("landing page enabled", "file", cfg.Site.File, "title", definition.Title)
	}

	// The initial build is synchronous and fatal on failure: an empty
	// or unreadable content root means there is nothing valid to
	// serve, and the deployment should fail loudly instead of
	// answering every asset request with a 400.
	if _, _, err := depot.rebuild(ctx, buildlog.ReasonStartup); err != nil {
		return fmt.Errorf("initial manifest build: %w", err)
	}

	httpServer := service.NewHTTPServer(service.HTTPServerConfig{
		Address: cfg.Server.Listen,
		Handler: depot.routes(),
		Logger:  logger,
	})

	socketServer := service.NewSocketServer(cfg.Server.SocketPath, logger)
	depot.registerActions(socketServer)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return httpServer.Serve(groupCtx) })
	group.Go(func() error { return socketServer.Serve(groupCtx) })
	if depot.rescanInterval > 0 {
		group.Go(func() error {
			depot.rescanLoop(groupCtx, depot.rescanInterval)
			return nil
		})
	}

	current := depot.store.Current()
	logger.Info("pakdepot server running",
		"version", version.Short(),
		"listen", cfg.Server.Listen,
		"socket", cfg.Server.SocketPath,
		"content_root", cfg.Content.Root,
		"assets", current.Len(),
		"digest", current.Digest(),
	)

	return group.Wait()
}

// DepotServer is the core server state shared by the HTTP handlers,
// the control socket actions, and the rescan loop.
type DepotServer struct {
	store   *manifest.Store
	builder *manifest.Builder
	cache   *assetcache.Cache // nil when the cache is disabled
	ledger  *buildlog.Log     // nil when build history is disabled
	page    *site.Page        // nil when no site file is configured
	clock   clock.Clock
	logger  *slog.Logger

	contentRoot string
	startedAt   time.Time

	// cacheEntryLimit mirrors the cache's per-entry admission cap.
	// The asset handler uses it to decide between reading a file
	// fully into memory (cacheable) and streaming it (too large).
	cacheEntryLimit int64

	// rescanInterval is the periodic rescan interval. Zero disables
	// the rescan loop.
	rescanInterval time.Duration

	// rebuildMu serializes manifest builds. Acquired with TryLock: a
	// build triggered while another is running is refused, not
	// queued — a queue of full-tree scans behind a slow disk helps
	// nobody.
	rebuildMu sync.Mutex
}
