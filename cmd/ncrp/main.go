package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazyhaar/ncrp-ingest/pkg/api"
	"github.com/hazyhaar/ncrp-ingest/pkg/export"
	"github.com/hazyhaar/ncrp-ingest/pkg/ingest"
	"github.com/hazyhaar/ncrp-ingest/pkg/mcpquic"
	"github.com/hazyhaar/ncrp-ingest/pkg/store"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

const version = "0.1.0"

type config struct {
	Addr      string `yaml:"addr"`
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	Workbook  string `yaml:"workbook"`
	DBPath    string `yaml:"db_path"`

	// MCP over QUIC, served next to HTTP when QUICAddr is set. Without
	// cert/key a self-signed certificate is generated.
	QUICAddr string `yaml:"quic_addr"`
	TLSCert  string `yaml:"tls_cert"`
	TLSKey   string `yaml:"tls_key"`

	// CORSOrigin is the one browser origin allowed to call the HTTP API.
	CORSOrigin string `yaml:"cors_origin"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ingest":
		os.Exit(cmdIngest(os.Args[2:]))
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: ncrp <command>\n\nCommands:\n"+
		"  ingest  Process every complaint file of a directory\n"+
		"  serve   Start the HTTP server\n"+
		"  mcp     Serve the ingestion tools over MCP stdio\n")
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	p, closeSinks, err := newPipeline(cfg, logger)
	if err != nil {
		logger.Error("pipeline", "error", err)
		os.Exit(1)
	}
	defer closeSinks()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewRouter(p, apiConfig(cfg, logger)),
	}

	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.QUICAddr != "" {
		ln := listenQUIC(cfg, p, logger)
		defer ln.Close()
		go func() {
			if err := ln.Serve(ctx); err != nil {
				logger.Error("mcp quic", "error", err)
			}
		}()
	}

	go func() {
		logger.Info("ncrp listening", "addr", cfg.Addr, "run_id", p.RunID())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	// stdout carries the protocol; logs stay on stderr.
	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	p, closeSinks, err := newPipeline(cfg, logger)
	if err != nil {
		logger.Error("pipeline", "error", err)
		os.Exit(1)
	}
	defer closeSinks()

	srv := newMCPServer(cfg, p, logger)
	logger.Info("mcp server on stdio", "run_id", p.RunID())
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server", "error", err)
		os.Exit(1)
	}
}

func newMCPServer(cfg config, p *ingest.Pipeline, logger *slog.Logger) *server.MCPServer {
	srv := server.NewMCPServer("ncrp-ingest", version, server.WithToolCapabilities(false))
	api.RegisterMCPTools(srv, p, apiConfig(cfg, logger))
	return srv
}

func apiConfig(cfg config, logger *slog.Logger) api.Config {
	return api.Config{InputDir: cfg.InputDir, AllowOrigin: cfg.CORSOrigin, Logger: logger}
}

func listenQUIC(cfg config, p *ingest.Pipeline, logger *slog.Logger) *mcpquic.Listener {
	tlsCfg, err := mcpquic.ServerTLS(cfg.TLSCert, cfg.TLSKey)
	if err != nil {
		logger.Error("quic tls", "error", err)
		os.Exit(1)
	}
	ln, err := mcpquic.Listen(cfg.QUICAddr, tlsCfg, newMCPServer(cfg, p, logger), logger)
	if err != nil {
		logger.Error("quic listen", "addr", cfg.QUICAddr, "error", err)
		os.Exit(1)
	}
	return ln
}

// newPipeline builds a pipeline whose results go to the configured outputs.
// The returned func releases them.
func newPipeline(cfg config, logger *slog.Logger) (*ingest.Pipeline, func(), error) {
	opts := []ingest.Option{ingest.WithLogger(logger)}
	if cfg.OutputDir != "" || cfg.Workbook != "" {
		opts = append(opts, ingest.WithSink(&export.Writer{Dir: cfg.OutputDir, Workbook: cfg.Workbook}))
	}

	closeFn := func() {}
	if cfg.DBPath != "" {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store %s: %w", cfg.DBPath, err)
		}
		opts = append(opts, ingest.WithSink(st))
		closeFn = func() { st.Close() }
	}
	return ingest.New(opts...), closeFn, nil
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:      ":8430",
		InputDir:  "input",
		OutputDir: "output",
		Workbook:  "output/complaints.xlsx",
		DBPath:    "output/ncrp.db",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
