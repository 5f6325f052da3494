package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidahmann/campusguard/internal/api"
	"github.com/davidahmann/campusguard/internal/config"
	"github.com/davidahmann/campusguard/internal/coordinator"
	"github.com/davidahmann/campusguard/internal/metrics"
	"github.com/davidahmann/campusguard/internal/reload"
)

func main() {
	if err := runFn(os.Args[1:], os.Getenv, listenAndServe, newServer); err != nil {
		fatalf("server error: %v", err)
	}
}

var runFn = run

var fatalf = func(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

type settings struct {
	Addr             string
	CampusConfigPath string
	AllowedOrigin    string
	WatchConfig      bool
	Logger           *slog.Logger
}

// gateway bundles the server with the background config watcher, if any.
type gateway struct {
	Server   *http.Server
	Reloader *reload.Reloader
}

type envFn func(string) string
type listenFn func(context.Context, *gateway) error
type serverFactory func(settings) (*gateway, error)

func newServer(s settings) (*gateway, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	coord, err := coordinator.New(s.CampusConfigPath,
		coordinator.WithLogger(s.Logger),
		coordinator.WithRecorder(m),
	)
	if err != nil {
		return nil, err
	}

	h := &api.Handler{
		Coordinator:   coord,
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Failures:      m,
		AllowedOrigin: s.AllowedOrigin,
		Logger:        s.Logger,
	}

	gw := &gateway{
		Server: &http.Server{
			Addr:              s.Addr,
			Handler:           api.NewRouter(h),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	if s.WatchConfig {
		gw.Reloader, err = reload.New(s.CampusConfigPath, coord, m, s.Logger)
		if err != nil {
			return nil, err
		}
	}
	return gw, nil
}

func run(args []string, getenv envFn, listen listenFn, factory serverFactory) error {
	fs := flag.NewFlagSet("campus-gateway", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to gateway config file")
	watch := fs.Bool("watch", false, "reload the campus config when it changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = getenv("CAMPUS_GATEWAY_CONFIG")
	}

	var cfg config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	level, err := config.ParseLevel(firstNonEmpty(getenv("CAMPUS_LOG_LEVEL"), cfg.LogLevel))
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	s := settings{
		Addr:             firstNonEmpty(getenv("CAMPUS_LISTEN_ADDR"), cfg.ListenAddr, ":8000"),
		CampusConfigPath: firstNonEmpty(getenv("CAMPUS_CONFIG_PATH"), cfg.CampusConfigPath, coordinator.DefaultConfigPath),
		AllowedOrigin:    firstNonEmpty(getenv("CAMPUS_ALLOWED_ORIGIN"), cfg.AllowedOrigin, api.DefaultAllowedOrigin),
		WatchConfig:      *watch || cfg.WatchConfig,
		Logger:           logger,
	}

	gw, err := factory(s)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("campus-gateway listening", "addr", s.Addr, "campus_config", s.CampusConfigPath, "watch", s.WatchConfig)
	if err := listen(ctx, gw); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func listenAndServe(ctx context.Context, gw *gateway) error {
	if gw.Reloader != nil {
		go func() {
			_ = gw.Reloader.Run(ctx)
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = gw.Server.Shutdown(shutdownCtx)
	}()

	return gw.Server.ListenAndServe()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
