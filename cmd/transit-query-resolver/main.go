package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-query-resolver/config"
	"github.com/theoremus-urban-solutions/transit-query-resolver/extract"
	"github.com/theoremus-urban-solutions/transit-query-resolver/fuzzymatch"
	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
	"github.com/theoremus-urban-solutions/transit-query-resolver/geocode"
	"github.com/theoremus-urban-solutions/transit-query-resolver/internal"
	"github.com/theoremus-urban-solutions/transit-query-resolver/resolver"
	"github.com/theoremus-urban-solutions/transit-query-resolver/server"
	"github.com/theoremus-urban-solutions/transit-query-resolver/topology"
)

func main() {
	mode := flag.String("mode", "serve", "serve|resolve")
	text := flag.String("text", "", "message text for -mode resolve")
	transport := flag.String("transport", "bus", "bus|tube|dlr")
	lat := flag.Float64("lat", 0, "message latitude for -mode resolve")
	lon := flag.Float64("lon", 0, "message longitude for -mode resolve")
	logLevel := flag.String("log-level", "info", "debug|info|warn|error")
	flag.Parse()

	// Provider API keys usually live in .env during development.
	_ = godotenv.Load()

	logger, err := internal.NewLogger(*logLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := config.LoadAppConfig(); err != nil {
		panic(err)
	}

	eng, idx, err := buildEngine(logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	switch *mode {
	case "serve":
		srv := server.New(config.Config.Server.Port, eng, idx, logger)
		srv.Start()
		srv.HandleGracefulShutdown()
	case "resolve":
		msg := resolver.Message{Text: *text, Mode: gazetteer.Mode(*transport)}
		if *lat != 0 || *lon != 0 {
			msg.Geo = &resolver.GeoPoint{Lat: *lat, Lon: *lon}
		}
		oneshot(eng, msg, logger)
	default:
		panic("unknown mode")
	}
}

// oneshot resolves a single message and prints the outcome as JSON, the
// same shapes the HTTP API serves. Semantic failures exit 1, resolution
// results exit 0.
func oneshot(eng *resolver.Resolver, msg resolver.Message, logger *zap.Logger) {
	res, err := eng.Resolve(context.Background(), msg)
	if err != nil {
		var f *resolver.Failure
		if errors.As(err, &f) {
			buf, _ := json.MarshalIndent(struct {
				*resolver.Failure
				Prompt string `json:"prompt"`
			}{f, f.Prompt()}, "", "  ")
			fmt.Println(string(buf))
			os.Exit(1)
		}
		logger.Fatal("resolve failed", zap.Error(err))
	}
	buf, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(buf))
}

// buildEngine loads the dataset and assembles the resolution pipeline
// from configuration.
func buildEngine(logger *zap.Logger) (*resolver.Resolver, *gazetteer.Index, error) {
	cfg := config.Config

	idx, err := gazetteer.LoadFromSQLite(cfg.Dataset.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load gazetteer: %w", err)
	}
	graph := topology.NewGraph(idx)

	dict, err := extract.NewDictionary(idx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build line dictionary: %w", err)
	}
	ex := extract.NewExtractor(dict, cfg.Bot.Handle)

	chain, err := geocode.NewChainFromConfig(cfg.Geocode, logger)
	if err != nil {
		return nil, nil, err
	}
	locator := geocode.NewLocator(chain, idx, cfg.Geocode.MaxRadiusKM)

	eng := resolver.New(idx, graph, fuzzymatch.Ranker{}, locator, ex, resolver.Options{
		MinConfidence:   cfg.Matching.MinConfidence,
		AmbiguityMargin: cfg.Matching.AmbiguityMargin,
	}, logger)

	logger.Info("engine ready",
		zap.Int("stops", idx.StopCount()),
		zap.Int("lines", idx.LineCount()),
		zap.Strings("geocoders", cfg.Geocode.Providers))
	return eng, idx, nil
}
