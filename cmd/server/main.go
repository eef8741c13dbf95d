package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"menugrid.gg/internal/auditlog"
	"menugrid.gg/internal/config"
	"menugrid.gg/internal/host"
	"menugrid.gg/internal/menu"
	"menugrid.gg/internal/sched"
	"menugrid.gg/internal/statsdb"
	"menugrid.gg/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", "", "http listen address (overrides config)")
		configPath = flag.String("config", "", "path to server.yaml (empty: built-in defaults)")
		dataDir    = flag.String("data", "", "runtime data directory (overrides config)")
		disableDB  = flag.Bool("disable_db", false, "disable the interaction stats index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.ListenAddr = strings.TrimSpace(*addr)
	}
	if strings.TrimSpace(*dataDir) != "" {
		cfg.DataDir = strings.TrimSpace(*dataDir)
	}
	if *disableDB {
		cfg.Stats.Enabled = false
	}
	_ = os.MkdirAll(cfg.DataDir, 0o755)

	ctx, cancel := signalContext()
	defer cancel()

	pool := sched.NewPool(cfg.Sched.Shards, cfg.Sched.Workers, logger)
	wsrv := ws.NewServer(pool, logger)
	svc := menu.NewService(wsrv, pool, logger)
	wsrv.Bind(menu.NewDispatcher(svc))

	// Optional recorders, registered through the capability registry.
	var recorders menu.MultiRecorder
	if cfg.Audit.Enabled {
		audit := auditlog.NewRecorder(cfg.DataDir, pool, logger)
		defer audit.Close()
		recorders = append(recorders, audit)
	}
	if cfg.Stats.Enabled {
		path := strings.TrimSpace(cfg.Stats.Path)
		if path == "" {
			path = filepath.Join(cfg.DataDir, "stats", "menu.db")
		}
		stats, err := statsdb.Open(path)
		if err != nil {
			logger.Fatalf("open stats db: %v", err)
		}
		defer stats.Close()
		recorders = append(recorders, stats)
	}
	if len(recorders) > 0 {
		menu.RegisterCapability[menu.Recorder](svc, recorders)
	}

	lobby, err := buildMenus(cfg.Menus.CatalogRefresh())
	if err != nil {
		logger.Fatalf("build menus: %v", err)
	}
	wsrv.OnJoin(func(user host.UserID, name string) {
		logger.Printf("join %s (%s)", name, user)
		lobby.Open(svc, user)
	})
	wsrv.OnLeave(func(user host.UserID, name string) {
		logger.Printf("leave %s (%s)", name, user)
		// User ids are one-per-connection; forget the shard assignment or
		// the owners table grows forever.
		pool.Release(string(user))
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", wsrv.Handler())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
		svc.Shutdown()
		pool.Stop()
	}()

	logger.Printf("listening on %s", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
