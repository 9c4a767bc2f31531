package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tokentrace/internal/adapters/document"
	mcpadapter "tokentrace/internal/adapters/mcp"
	"tokentrace/internal/adapters/sqlite"
	"tokentrace/internal/application/search"
	"tokentrace/internal/config"
	"tokentrace/internal/logger"
	"tokentrace/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("tokentrace-mcp: %v", err)
	}

	docFlag := flag.String("document", cfg.Document, "path to the exported document")
	metricsFlag := flag.String("metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address")
	flag.Parse()

	// stdout carries the protocol
	l := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: os.Stderr})

	doc, err := document.Load(*docFlag)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to load document")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	opts := []search.Option{
		search.WithMetrics(m),
		search.WithFonts(cfg.Fonts.Primary, cfg.Fonts.Fallback),
		search.WithProgressInterval(cfg.ProgressInterval),
	}
	historyPath := cfg.HistoryPath
	if historyPath == "" {
		historyPath = sqlite.DefaultPath()
	}
	history, err := sqlite.Open(historyPath, logger.Component(l, "history"))
	if err != nil {
		// searches still work without history
		l.Warn().Err(err).Msg("failed to open history")
	} else {
		defer history.Close()
		opts = append(opts, search.WithHistory(history))
	}
	svc := search.NewService(doc, logger.Component(l, "search"), opts...)

	if *metricsFlag != "" {
		go serveMetrics(*metricsFlag, reg, l)
	}

	mcpServer := server.NewMCPServer(
		"tokentrace-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.NewTools(doc, svc, logger.Component(l, "mcp")).Register(mcpServer)

	l.Info().Str("document", doc.Name()).Msg("serving on stdio")
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("tokentrace-mcp: %v", err)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, l zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	l.Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error().Err(err).Msg("metrics endpoint stopped")
	}
}
