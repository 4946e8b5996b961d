package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/aman-zulfiqar/solana-txkit/internal/ai"
	"github.com/aman-zulfiqar/solana-txkit/internal/codec"
	"github.com/aman-zulfiqar/solana-txkit/internal/config"
	"github.com/aman-zulfiqar/solana-txkit/internal/jupiter"
	"github.com/aman-zulfiqar/solana-txkit/internal/programs/sendprogram"
	"github.com/aman-zulfiqar/solana-txkit/internal/registry"
	"github.com/aman-zulfiqar/solana-txkit/internal/schema"
	"github.com/aman-zulfiqar/solana-txkit/internal/server"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// loadSchemas loads every *.json IDL under dir, keyed by the address each
// schema declares.
func loadSchemas(reg *schema.Registry, dir string, logger *logrus.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.WithError(err).Warnf("no IDL directory at %s, starting with empty schema registry", dir)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		idl, err := schema.ParseIDLFile(path)
		if err != nil {
			logger.WithError(err).Warnf("skipping malformed IDL %s", path)
			continue
		}
		src, err := os.ReadFile(path)
		if err != nil {
			logger.WithError(err).Warnf("skipping unreadable IDL %s", path)
			continue
		}
		if err := reg.Load(idl.Address, src); err != nil {
			logger.WithError(err).Warnf("failed to load IDL %s", path)
			continue
		}
		logger.WithFields(logrus.Fields{
			"program": idl.Address,
			"file":    entry.Name(),
		}).Info("loaded program schema")
	}
}

// main is the entry point for the API server
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Schemas and encoder
	schemas := schema.NewRegistry(logger)
	loadSchemas(schemas, cfg.IDLDir, logger)
	sendprogram.RegisterWith(schemas)
	encoder := codec.NewEncoder(schemas)

	// Redis-backed program-route manifests
	rclient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0,
	})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	programs, err := registry.NewStore(rclient)
	if err != nil {
		logger.WithError(err).Fatal("failed to create program registry store")
	}

	// Optional LLM explainer
	var explainer *ai.Explainer
	if cfg.OpenRouterAPIKey != "" {
		e, err := ai.NewExplainer(ai.ExplainerConfig{
			OpenRouterAPIKey: cfg.OpenRouterAPIKey,
			Model:            cfg.AIModel,
			Logger:           logger,
		})
		if err != nil {
			logger.WithError(err).Warn("failed to initialize failure explainer")
		} else {
			explainer = e
		}
	}

	h := &server.Handlers{
		Schemas:   schemas,
		Encoder:   encoder,
		Programs:  programs,
		Jupiter:   jupiter.NewClient(cfg.JupiterBaseURL, cfg.JupiterAPIKey),
		Explainer: explainer,
		DevMode:   cfg.DevMode,
		Logger:    logger,
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.APIAddr).Info("api server starting")
	if err := srv.Start(); err != nil {
		// "http: Server closed" is expected during graceful shutdown
		if err.Error() == "http: Server closed" {
			return
		}
		logger.WithError(err).Fatal("api server failed")
	}

	if err := srv.WaitClosed(context.Background()); err != nil {
		fmt.Println(err)
	}
}
