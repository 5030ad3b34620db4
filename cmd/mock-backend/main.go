// Command mock-backend runs a deterministic youwol backend for local demos
// of the youwol CLI: the local server's health, environment and projects
// endpoints, its live endpoint, the files backend and the sessions storage.
//
// Configuration:
//
//	MOCK_PORT      - Listen port (default: 2000)
//	MOCK_HEARTBEAT - Interval of the live heartbeat messages (default: 5s, 0 disables)
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/youwol/httpclients/internal/mockbackend"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "2000"
	}
	heartbeat := 5 * time.Second
	if v := os.Getenv("MOCK_HEARTBEAT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Error("invalid MOCK_HEARTBEAT", "value", v, "error", err)
			os.Exit(1)
		}
		heartbeat = d
	}

	backend := mockbackend.New(slog.Default())
	srv := &http.Server{Addr: ":" + port, Handler: backend.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if heartbeat > 0 {
		go backend.Heartbeat(ctx, heartbeat)
	}

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	backend.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
