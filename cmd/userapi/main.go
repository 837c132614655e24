// Command userapi serves the user lookup API.
//
// Run:
//
//	go run ./cmd/userapi
//	go run ./cmd/userapi -addr 127.0.0.1:9000 -log-format text
//
// Print the OpenAPI document instead of serving:
//
//	go run ./cmd/userapi -spec
//	go run ./cmd/userapi -spec -format yaml -o openapi.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bjaus/userapi/api"
	"github.com/bjaus/userapi/users"
)

type config struct {
	addr      string
	logLevel  slog.Level
	logFormat string
	rate      float64
	burst     int

	spec       bool
	specFormat string
	specOut    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, then either writes the OpenAPI document or serves until
// ctx is cancelled. It returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger := newLogger(stderr, cfg)

	r := newRouter(cfg, logger)

	if cfg.spec {
		if err := writeSpec(r, stdout, cfg.specFormat, cfg.specOut); err != nil {
			logger.Error("spec generation failed", "err", err)
			return 1
		}
		return 0
	}

	if err := r.ListenAndServe(ctx, cfg.addr); err != nil {
		logger.Error("server error", "err", err)
		return 1
	}

	logger.Info("server stopped")
	return 0
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	fs := flag.NewFlagSet("userapi", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := config{logLevel: slog.LevelInfo}
	fs.StringVar(&cfg.addr, "addr", "0.0.0.0:9000", "Address to listen on")
	fs.TextVar(&cfg.logLevel, "log-level", slog.LevelInfo, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.logFormat, "log-format", "json", "Log format (json, text)")
	fs.Float64Var(&cfg.rate, "rate", 0, "Per-client requests per second; 0 disables rate limiting")
	fs.IntVar(&cfg.burst, "burst", 10, "Per-client burst when -rate is set")
	fs.BoolVar(&cfg.spec, "spec", false, "Print the OpenAPI spec and exit")
	fs.StringVar(&cfg.specFormat, "format", "json", "Spec format (json, yaml)")
	fs.StringVar(&cfg.specOut, "o", "", "Output file for the spec (requires -spec)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	switch cfg.logFormat {
	case "json", "text":
	default:
		err := fmt.Errorf("unknown log format %q", cfg.logFormat)
		fmt.Fprintln(stderr, err)
		return cfg, err
	}
	switch cfg.specFormat {
	case "json", "yaml":
	default:
		err := fmt.Errorf("unknown spec format %q", cfg.specFormat)
		fmt.Fprintln(stderr, err)
		return cfg, err
	}

	return cfg, nil
}

func newLogger(w io.Writer, cfg config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.logLevel}
	if cfg.logFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func newRouter(cfg config, logger *slog.Logger) *api.Router {
	r := api.New(
		api.WithTitle("User API"),
		api.WithVersion("1.0.0"),
		api.WithLogger(logger),
	)

	r.Use(api.RequestID())
	r.Use(api.Logger(logger))
	r.Use(api.Recovery(logger))
	r.Use(api.RateLimit(api.RateLimitConfig{Rate: cfg.rate, Burst: cfg.burst}))

	users.Register(r)

	return r
}

func writeSpec(r *api.Router, stdout io.Writer, format, outFile string) (err error) {
	w := stdout
	if outFile != "" {
		f, createErr := os.Create(outFile) //nolint:gosec // user-provided CLI flag
		if createErr != nil {
			return createErr
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		w = f
	}

	if strings.EqualFold(format, "yaml") {
		return r.WriteSpecYAML(w)
	}
	return r.WriteSpec(w)
}
