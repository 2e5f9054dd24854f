package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nstehr/muster/muster-core/catalog"
	"github.com/nstehr/muster/muster-core/config"
	"github.com/nstehr/muster/muster-core/httpapi"
	"github.com/nstehr/muster/muster-core/ipc"
	"github.com/nstehr/muster/muster-core/ruleset"
	"github.com/nstehr/muster/muster-core/service"
	"github.com/nstehr/muster/muster-core/store"
	"github.com/nstehr/muster/muster-core/telemetry"
)

const banner = `
███╗   ███╗██╗   ██╗███████╗████████╗███████╗██████╗
████╗ ████║██║   ██║██╔════╝╚══██╔══╝██╔════╝██╔══██╗
██╔████╔██║██║   ██║███████╗   ██║   █████╗  ██████╔╝
██║╚██╔╝██║██║   ██║╚════██║   ██║   ██╔══╝  ██╔══██╗
██║ ╚═╝ ██║╚██████╔╝███████║   ██║   ███████╗██║  ██║
╚═╝     ╚═╝ ╚═════╝ ╚══════╝   ╚═╝   ╚══════╝╚═╝  ╚═╝

Warband Rules Compiler`

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	if err := run(cfg); err != nil {
		slog.Error("muster stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting muster", "rulebookVersion", cfg.RulebookVersion, "store", cfg.Store)

	shutdownTracing, err := telemetry.Setup(ctx, "musterd", cfg.RulebookVersion, cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	cat, warnings, err := catalog.LoadFS(os.DirFS(cfg.CatalogDir))
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", cfg.CatalogDir, err)
	}
	if len(warnings) > 0 {
		slog.Warn("catalog has unresolved references", "count", len(warnings))
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := service.New(ruleset.New(cat, st, cfg.PersistCompiled), cfg.RulebookVersion)

	listener, err := listenSocket(cfg.SocketPath)
	if err != nil {
		return err
	}
	defer listener.Close()
	defer os.Remove(cfg.SocketPath)
	go acceptLoop(ctx, listener, svc)

	var httpServer *http.Server
	if cfg.HTTPAddr != "" {
		httpServer = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpapi.NewRouter(svc),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		go func() {
			slog.Info("listening on http", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server failed", "error", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	slog.Info("shutting down")

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http shutdown", "error", err)
		}
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		slog.Info("using sqlite store", "path", cfg.SQLitePath)
		return store.OpenSQLite(cfg.SQLitePath)
	case config.StoreRedis:
		client, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		slog.Info("using redis store", "addr", cfg.RedisAddr, "ttl", cfg.RedisTTL)
		return store.NewRedisStore(client, "muster:", cfg.RedisTTL), nil
	default:
		return store.NewMemoryStore(), nil
	}
}

func listenSocket(path string) (net.Listener, error) {
	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("clean up socket %s: %w", path, err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket %s: %w", path, err)
	}
	slog.Info("listening on domain socket", "path", path)
	return listener, nil
}

const acceptRetryDelay = 100 * time.Millisecond

func acceptLoop(ctx context.Context, listener net.Listener, svc *service.Service) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				if errors.Is(err, net.ErrClosed) {
					return
				}
				slog.Error("failed to accept connection", "error", err)
				time.Sleep(acceptRetryDelay)
				continue
			}
		}
		slog.Info("new connection accepted")
		go handleConn(ctx, conn, svc)
	}
}

func handleConn(ctx context.Context, conn net.Conn, svc *service.Service) {
	c := ipc.NewConnection(conn, nil)
	service.NewSession(c, svc)
	c.ReadLoop(ctx)
}
