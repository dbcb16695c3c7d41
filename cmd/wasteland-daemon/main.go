package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	daemongrpc "github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/grpc"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/metrics"
	narrativeadapter "github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/narrative"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/persistence"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/scheduler"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/ws"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/setup"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/config"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/database"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/logging"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/pidfile"
)

func main() {
	forceFlag := flag.Bool("force", false, "Stop any running daemon and start a new one")
	configFlag := flag.String("config", "", "Config file (default: search ., ./configs, ~/.wasteland)")
	playerFlag := flag.String("player", "", "Player id (overrides engine.player_id)")
	flag.Parse()

	fmt.Println("Wasteland Automata Daemon v0.1.0")
	fmt.Println("================================")

	cfg := config.MustLoadConfig(*configFlag)
	if *playerFlag != "" {
		if err := config.ValidatePlayerID(*playerFlag); err != nil {
			log.Fatal(err)
		}
		cfg.Engine.PlayerID = *playerFlag
	}

	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		if !*forceFlag {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to stop the existing daemon", err)
		}
		fmt.Println("Force mode enabled - stopping existing daemon...")
		if killErr := pf.KillExisting(cfg.Daemon.ShutdownTimeout); killErr != nil {
			log.Fatalf("Failed to stop existing daemon: %v", killErr)
		}
		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock after stopping existing daemon: %v", err)
		}
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	if err := run(ctx, cfg); err != nil {
		logger.Error("daemon stopped with error", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println("\nDaemon stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.FromContext(ctx)
	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	// 1. Storage
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	logger.Info("database connected", zap.String("type", cfg.Database.Type))

	var store game.SnapshotStore = persistence.NewGormSnapshotRepository(db)
	if cfg.Cache.Enabled {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		client, err := persistence.NewRedisClient(pingCtx, cfg.Cache.RedisAddr, cfg.Cache.Password, cfg.Cache.DB)
		cancel()
		if err != nil {
			logger.Warn("snapshot cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			store = persistence.NewRedisSnapshotCache(client, store, cfg.Cache.TTL, logger)
			logger.Info("snapshot cache enabled", zap.String("addr", cfg.Cache.RedisAddr))
		}
	}

	// 2. Metrics registry, before any collector is created
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		narrativeMetrics := metrics.NewNarrativeMetricsCollector()
		if err := narrativeMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register narrative metrics: %w", err)
		}
		metrics.SetGlobalNarrativeCollector(narrativeMetrics)
	}

	// 3. Session
	core, err := setup.NewCore(cfg.Engine)
	if err != nil {
		return err
	}
	clock := shared.NewRealClock()
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithAutosaver(session.NewAutosaver(store, cfg.Engine.SaveInterval, logger)),
	}
	if cfg.Narrative.Enabled {
		gen := narrativeadapter.NewOpenAIGenerator(narrativeadapter.Config{
			APIKey:            cfg.Narrative.APIKey,
			BaseURL:           cfg.Narrative.BaseURL,
			Model:             cfg.Narrative.Model,
			RequestsPerMinute: cfg.Narrative.RequestsPerMinute,
		}, logger)
		opts = append(opts, session.WithGenerator(gen, cfg.Narrative.Timeout))
	}
	dispatcher := session.NewDispatcher(core, clock, store, opts...)

	batches := scheduler.NewBatchScheduler(dispatcher, dispatcher, clock, logger)
	defer batches.Stop()
	dispatcher.SetScheduler(batches)

	idle := scheduler.NewIdleDetector(dispatcher, clock, cfg.Engine.IdleTimeout, logger)
	dispatcher.AddListener(idle)

	var gameMetrics *metrics.GameMetricsCollector
	if cfg.Metrics.Enabled {
		gameMetrics = metrics.NewGameMetricsCollector(dispatcher)
		if err := gameMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register game metrics: %w", err)
		}
		dispatcher.AddListener(gameMetrics)
	}

	var hub *ws.Hub
	if cfg.Server.WSAddr != "" {
		hub = ws.NewHub(dispatcher, dispatcher, logger)
		dispatcher.AddListener(hub)
	}

	if _, err := dispatcher.Start(ctx, cfg.Engine.PlayerID); err != nil {
		return err
	}
	logger.Info("session started", zap.String("playerID", cfg.Engine.PlayerID))

	// 4. Background loops and listeners
	var wg sync.WaitGroup
	goRun := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	goRun(func() { scheduler.NewTickLoop(dispatcher, cfg.Engine.TickPeriod, logger).Run(ctx) })
	goRun(func() { batches.RunSweeper(ctx, scheduler.SweeperInterval) })
	goRun(func() { idle.Run(ctx, cfg.Engine.TickPeriod) })

	var httpServers []interface{ Shutdown(context.Context) error }
	if gameMetrics != nil {
		gameMetrics.Start(ctx, 10*time.Second)
		defer gameMetrics.Stop()

		metricsServer, err := metrics.NewServer(cfg.Metrics.Addr, cfg.Metrics.Path, logger)
		if err != nil {
			return err
		}
		httpServers = append(httpServers, metricsServer)
		goRun(func() {
			if err := metricsServer.ListenAndServe(); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		})
	}
	if hub != nil {
		goRun(func() { hub.Run(ctx) })
		wsServer := &http.Server{Addr: cfg.Server.WSAddr, Handler: hub, ReadHeaderTimeout: 5 * time.Second}
		httpServers = append(httpServers, wsServer)
		goRun(func() {
			logger.Info("websocket feed listening", zap.String("addr", cfg.Server.WSAddr))
			if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("websocket server stopped", zap.Error(err))
			}
		})
	}

	daemonServer, err := daemongrpc.NewDaemonServer(cfg.Server.SocketPath, dispatcher, dispatcher, logger)
	if err != nil {
		return err
	}
	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	// blocks until a signal arrives
	serveErr := daemonServer.Serve(ctx)
	cancelRun()

	// 5. Graceful shutdown: stop input first, then write the final snapshot
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	for _, srv := range httpServers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown failed", zap.Error(err))
		}
	}
	batches.Stop()
	wg.Wait()
	if err := dispatcher.Close(shutdownCtx); err != nil {
		return fmt.Errorf("failed to save final snapshot: %w", err)
	}
	logger.Info("final snapshot saved")
	return serveErr
}
