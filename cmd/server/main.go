// Command server runs the long-running HTTP map-matching service: it
// loads a persisted graph and serves POST /api/v1/match, GET
// /api/v1/health and GET /api/v1/stats.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"mapmatch/pkg/api"
	"mapmatch/pkg/config"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/match"
)

func main() {
	graphPath := flag.String("graph", "graph.bin", "path to a graph persisted by cmd/match --save")
	configPath := flag.String("config", "", "optional config file (yaml/json/toml), see pkg/config")
	port := flag.Int("port", 0, "HTTP port; overrides the config's http_addr when non-zero")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin; overrides the config's cors_origin when non-empty")
	flag.Parse()

	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	if *port != 0 {
		cfg.HTTPAddr = fmt.Sprintf(":%d", *port)
	}
	if *corsOrigin != "" {
		cfg.CORSOrigin = *corsOrigin
	}

	start := time.Now()
	logger.Infow("loading graph", "path", *graphPath)
	g, err := graph.Load(*graphPath)
	if err != nil {
		logger.Fatalw("failed to load graph", "error", err)
	}
	logger.Infow("graph loaded", "nodes", g.NumNodes(), "edges", g.NumEdges(), "elapsed", time.Since(start))

	serverCfg := api.DefaultConfig(cfg.HTTPAddr)
	serverCfg.CORSOrigin = cfg.CORSOrigin

	matchDefaults := match.Options{
		InterpDist:     cfg.InterpDist,
		Radius:         cfg.Radius,
		Closest:        true,
		Sigma:          cfg.Sigma,
		Beta:           cfg.Beta,
		MaxRouteLength: cfg.MaxRouteLength,
	}

	stats := api.StatsResponse{NumNodes: g.NumNodes(), NumEdges: g.NumEdges()}
	handlers := api.NewHandlers(g, matchDefaults, stats)
	srv := api.NewServer(serverCfg, handlers, logger)

	if err := api.ListenAndServe(srv, logger); err != nil {
		logger.Errorw("server stopped", "error", err)
		os.Exit(1)
	}
}
