// Command apidance-tools serves the apidance client operations as HTTP
// tools. Credentials come from flags, a YAML config file, or the
// environment (.env supported).
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apidance "github.com/anatolykoptev/go-apidance"
	"github.com/anatolykoptev/go-apidance/toolserver"
)

func main() {
	var (
		port       = flag.Int("port", 8080, "listen port")
		configPath = flag.String("config", "", "optional YAML config file")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	var cfg apidance.ClientConfig
	if *configPath != "" {
		var err error
		cfg, err = apidance.LoadConfigFile(*configPath)
		if err != nil {
			slog.Error("load config", slog.Any("error", err))
			os.Exit(1)
		}
	}
	cfg.MetricsHook = toolserver.RecordAPICall

	client, err := apidance.NewClient(cfg)
	if err != nil {
		slog.Error("init client", slog.Any("error", err))
		os.Exit(1)
	}

	srv := toolserver.NewServer(*port, client)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("shutdown", slog.Any("error", err))
	}
	slog.Info("server stopped")
}
