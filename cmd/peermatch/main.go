// Package main is the PeerMatch CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ninerlabs/peermatch/internal/cli"
	"github.com/ninerlabs/peermatch/internal/config"
	"github.com/ninerlabs/peermatch/internal/embedding"
	"github.com/ninerlabs/peermatch/internal/extract"
	"github.com/ninerlabs/peermatch/internal/indexer"
	"github.com/ninerlabs/peermatch/internal/ingest"
	"github.com/ninerlabs/peermatch/internal/keyword"
	"github.com/ninerlabs/peermatch/internal/matcher"
	"github.com/ninerlabs/peermatch/internal/models"
	"github.com/ninerlabs/peermatch/internal/parser"
	"github.com/ninerlabs/peermatch/internal/search"
	"github.com/ninerlabs/peermatch/internal/server"
	"github.com/ninerlabs/peermatch/internal/similarity"
	"github.com/ninerlabs/peermatch/internal/storage"
	"github.com/ninerlabs/peermatch/internal/vector"
	"github.com/ninerlabs/peermatch/internal/watcher"
	"github.com/ninerlabs/peermatch/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/peermatch/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "peermatch server" from the project dir uses the project's config.
// A .env file in the current directory is loaded first so OPENAI_API_KEY can live there.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	_ = godotenv.Load()

	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "search":
		runSearch()
	case "match":
		runMatch()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("peermatch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// The vector snapshot can be missing or stale after a crash. Rebuild from
	// the profile store so semantic search covers everything on disk.
	if count, countErr := components.Storage.CountProfiles(context.Background()); countErr == nil &&
		count > 0 && components.VectorIndex.Size() == 0 {
		indexed, embedFailures, rebuildErr := components.Indexer.RebuildIndexes(context.Background())
		if rebuildErr != nil {
			logger.Warn("index rebuild failed", zap.Error(rebuildErr))
		} else {
			logger.Info("indexes rebuilt",
				zap.Int("indexed", indexed),
				zap.Int("embed_failures", embedFailures),
			)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Ingest.Watch && cfg.Ingest.ResumeDir != "" {
		pipeline, pipeErr := ingest.NewPipeline(
			extract.NewExtractor(),
			parser.NewRegexParser(),
			components.Indexer,
			cfg.Ingest.Workers,
			logger,
		)
		if pipeErr != nil {
			logger.Fatal("Failed to create ingest pipeline", zap.Error(pipeErr))
		}
		defer pipeline.Close()

		watchSvc := watcher.NewWatcher(
			cfg.Ingest.ResumeDir,
			cfg.Ingest.Extensions,
			func(path string) {
				if ingestErr := pipeline.IngestFile(context.Background(), path); ingestErr != nil {
					logger.Warn("resume ingest failed", zap.String("path", path), zap.Error(ingestErr))
				}
			},
			func(path string) {
				if removeErr := pipeline.RemoveFile(context.Background(), path); removeErr != nil {
					logger.Warn("resume removal failed", zap.String("path", path), zap.Error(removeErr))
				}
			},
			logger,
		)
		if watchErr := watchSvc.Start(ctx); watchErr != nil {
			logger.Fatal("Failed to start resume watcher", zap.Error(watchErr))
		}
		defer watchSvc.Stop()
		logger.Info("watching resume directory", zap.String("dir", cfg.Ingest.ResumeDir))
	}

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		components.Matcher,
		components.Scorer,
		components.Storage,
		components.KeywordIndex,
		components.VectorIndex,
		cfg, logger,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("Server failed", zap.Error(err))
	case sig := <-sigCh:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	saveVectorIndex(components, cfg, logger)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: peermatch ingest [flags] <directory>")
		os.Exit(1)
	}
	dir := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	pipeline, err := ingest.NewPipeline(
		extract.NewExtractor(),
		parser.NewRegexParser(),
		components.Indexer,
		cfg.Ingest.Workers,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to create ingest pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	ingested, failed, err := pipeline.IngestDirectory(context.Background(), dir, cfg.Ingest.Extensions)
	if err != nil {
		fmt.Printf("Ingest failed: %v\n", err)
		os.Exit(1)
	}
	saveVectorIndex(components, cfg, logger)
	fmt.Printf("Ingested %d resumes (%d failed)\n", ingested, failed)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 0, "number of results (default from config)")
	alpha := fs.Float64("alpha", -1, "semantic blend weight in [0,1] (default from config)")
	format := fs.String("format", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: peermatch search [flags] <query>")
		os.Exit(1)
	}
	queryText := strings.Join(fs.Args(), " ")

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	query := &models.SearchQuery{Query: queryText, Limit: *limit}
	if query.Limit == 0 {
		query.Limit = cfg.Search.DefaultLimit
	}
	if *alpha >= 0 {
		query.Alpha = alpha
	}

	response, err := components.Engine.Search(context.Background(), query)
	if err != nil {
		fmt.Printf("Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, cli.OutputFormat(*format)); err != nil {
		fmt.Printf("Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runMatch() {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 0, "number of matches (default from config)")
	format := fs.String("format", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: peermatch match [flags] <profile-id>")
		os.Exit(1)
	}
	profileID := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	requesting, err := components.Storage.GetProfile(ctx, profileID)
	if err != nil {
		fmt.Printf("Profile lookup failed: %v\n", err)
		os.Exit(1)
	}
	candidates, err := components.Storage.ListProfiles(ctx, 0, -1)
	if err != nil {
		fmt.Printf("Candidate listing failed: %v\n", err)
		os.Exit(1)
	}
	swiped, err := components.Storage.ListSwipedIDs(ctx, profileID)
	if err != nil {
		fmt.Printf("Swipe lookup failed: %v\n", err)
		os.Exit(1)
	}

	matchLimit := *limit
	if matchLimit == 0 {
		matchLimit = cfg.Match.DefaultLimit
	}
	matches, err := components.Matcher.FindMatches(requesting, candidates, swiped, matchLimit)
	if err != nil {
		fmt.Printf("Matching failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteMatches(os.Stdout, matches, cli.OutputFormat(*format)); err != nil {
		fmt.Printf("Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: peermatch delete [flags] <profile-id>")
		os.Exit(1)
	}
	profileID := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if err := components.Indexer.RemoveProfile(context.Background(), profileID); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	saveVectorIndex(components, cfg, logger)
	fmt.Printf("Profile deleted: %s\n", profileID)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	profiles, err := components.Storage.CountProfiles(ctx)
	if err != nil {
		fmt.Printf("Status failed: %v\n", err)
		os.Exit(1)
	}
	swipes, err := components.Storage.CountSwipes(ctx)
	if err != nil {
		fmt.Printf("Status failed: %v\n", err)
		os.Exit(1)
	}
	keywordDocs, err := components.KeywordIndex.DocCount()
	if err != nil {
		fmt.Printf("Status failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Config:     %s\n", resolvedConfigPath)
	fmt.Printf("Profiles:   %d\n", profiles)
	fmt.Printf("Swipes:     %d\n", swipes)
	fmt.Printf("Keyword:    %d documents\n", keywordDocs)
	fmt.Printf("Vectors:    %d (%d dimensions)\n",
		components.VectorIndex.Size(), components.VectorIndex.Dimensions())
	fmt.Printf("Embedding:  %s (%s)\n", cfg.Embedding.Provider, cfg.Embedding.Model)
	if diskBytes, diskErr := storage.DiskUsageBytes(
		cfg.Storage.DatabasePath,
		cfg.Storage.BleveIndexPath,
		cfg.Storage.VectorIndexPath,
	); diskErr == nil {
		fmt.Printf("Disk:       %.1f MB\n", float64(diskBytes)/(1024*1024))
	}
}

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	Embedder     embedding.Embedder
	VectorIndex  vector.VectorIndex
	KeywordIndex keyword.KeywordIndex
	Engine       *search.Engine
	Scorer       *similarity.Scorer
	Matcher      *matcher.Matcher
	Indexer      *indexer.Indexer
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	for _, dir := range []string{
		filepath.Dir(cfg.Storage.DatabasePath),
		filepath.Dir(cfg.Storage.BleveIndexPath),
		filepath.Dir(cfg.Storage.VectorIndexPath),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var embedder embedding.Embedder
	switch cfg.Embedding.Provider {
	case "mock":
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	default:
		openaiEmbedder, embErr := embedding.NewOpenAIEmbedder(cfg.Embedding, os.Getenv("OPENAI_API_KEY"))
		if embErr != nil {
			// Keyword search still works without embeddings, but semantic
			// results will be deterministic noise until a key is set.
			logger.Warn("embedding service unavailable, using mock embedder", zap.Error(embErr))
			embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
		} else {
			embedder = openaiEmbedder
		}
	}

	vectorIndex, err := vector.NewMemoryIndex(cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if cfg.Storage.VectorIndexPath != "" {
		if loadErr := vectorIndex.Load(cfg.Storage.VectorIndexPath); loadErr != nil {
			logger.Warn("vector snapshot load skipped",
				zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(loadErr))
		}
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	scorer, err := similarity.NewScorer(cfg.Match.Weights)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scorer: %w", err)
	}

	return &Components{
		Storage:      store,
		Embedder:     embedder,
		VectorIndex:  vectorIndex,
		KeywordIndex: keywordIndex,
		Engine:       search.NewEngine(keywordIndex, vectorIndex, embedder, &cfg.Search, logger),
		Scorer:       scorer,
		Matcher:      matcher.NewMatcher(scorer, cfg.Match.MinScore, logger),
		Indexer:      indexer.NewIndexer(store, embedder, vectorIndex, keywordIndex, logger),
	}, nil
}

func saveVectorIndex(components *Components, cfg *config.Config, logger *zap.Logger) {
	if cfg.Storage.VectorIndexPath == "" {
		return
	}
	if err := components.VectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
		logger.Warn("vector snapshot save failed",
			zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
	}
}

func printUsage() {
	fmt.Println(`peermatch - Student profile search and matching engine

Usage:
  peermatch server [flags]            Start the HTTP server
  peermatch ingest [flags] <dir>      Ingest a directory of resumes
  peermatch search [flags] <query>    Search student profiles
  peermatch match [flags] <id>        Find study partners for a profile
  peermatch delete [flags] <id>       Delete a profile
  peermatch status [flags]            Show storage and index status
  peermatch version                   Show version
  peermatch help                      Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/peermatch/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --limit int        Number of results (default from config)
  --alpha float      Semantic blend weight in [0,1]; 0 is keyword-only, 1 is semantic-only
  --format string    Output format: text or json (default: text)

Match Flags:
  --limit int        Number of matches (default from config)
  --format string    Output format: text or json (default: text)

Examples:
  peermatch server
  peermatch ingest ./resumes
  peermatch search "python machine learning"
  peermatch search --alpha 0 --format json "CS 201"
  peermatch match --limit 5 student-42
  peermatch status`)
}
