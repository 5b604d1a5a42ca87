// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	newsvec "github.com/poiesic/newsvec"
	"github.com/poiesic/newsvec/ai"
	"github.com/poiesic/newsvec/ai/openai"
	"github.com/poiesic/newsvec/ingestion"
	"github.com/poiesic/newsvec/search"
	"github.com/poiesic/newsvec/searxng"
	"github.com/poiesic/newsvec/storage/badger"
	"github.com/poiesic/newsvec/vectorstore"
)

const dateLayout = "2006-01-02"

func main() {
	app := &cli.App{
		Name:  "newsvec",
		Usage: "News article collection and semantic search pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Collect, extract, embed, and upload articles for the given topics",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "topic",
						Aliases:  []string{"t"},
						Usage:    "Topic to collect (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "searxng-url",
						Usage:    "SearXNG instance URL",
						EnvVars:  []string{"SEARXNG_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "supabase-url",
						Usage:    "Supabase project URL",
						EnvVars:  []string{"SUPABASE_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "supabase-key",
						Usage:    "Supabase service role key",
						EnvVars:  []string{"SUPABASE_SERVICE_KEY"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						EnvVars: []string{"EMBEDDING_HOST"},
						Value:   "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						EnvVars: []string{"MODEL_ID_EMBEDDING"},
						Value:   "mxbai-embed-large",
					},
					&cli.IntFlag{
						Name:  "max-pages",
						Usage: "Maximum search result pages per topic",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "time-range",
						Usage: "Restrict results by age (day, week, month, year)",
					},
					&cli.IntFlag{
						Name:  "process-limit",
						Usage: "Maximum backlog articles to extract per topic (0 = no limit)",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print article store statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Search uploaded content within a date range",
				ArgsUsage: "QUERY",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "supabase-url",
						Usage:    "Supabase project URL",
						EnvVars:  []string{"SUPABASE_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "supabase-key",
						Usage:    "Supabase service role key",
						EnvVars:  []string{"SUPABASE_SERVICE_KEY"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						EnvVars: []string{"EMBEDDING_HOST"},
						Value:   "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						EnvVars: []string{"MODEL_ID_EMBEDDING"},
						Value:   "mxbai-embed-large",
					},
					&cli.StringFlag{
						Name:  "start",
						Usage: "Start date (YYYY-MM-DD), default 30 days ago",
					},
					&cli.StringFlag{
						Name:  "end",
						Usage: "End date (YYYY-MM-DD), default today",
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity for a match",
						Value: search.DefaultThreshold,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of matches",
						Value: search.DefaultLimit,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := newsvec.NewDatabase(c.String("db"), newsvec.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	searchClient, err := searxng.NewClient(c.String("searxng-url"))
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	store, err := vectorstore.NewSupabaseStore(c.String("supabase-url"), c.String("supabase-key"))
	if err != nil {
		return fmt.Errorf("failed to create vector store: %w", err)
	}

	pipeline, err := db.NewIngestionPipeline(searchClient, store)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	opts := &ingestion.RunOptions{
		MaxPages:     c.Int("max-pages"),
		TimeRange:    c.String("time-range"),
		ProcessLimit: c.Int("process-limit"),
	}

	if err := pipeline.RunTopics(ctx, c.StringSlice("topic"), opts); err != nil {
		return err
	}

	stats, err := db.Articles().Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	printStats(stats.Total, stats.Processed, stats.Unprocessed, stats.ExtractionSucceeded, stats.ExtractionFailed)
	return nil
}

func statsCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewArticleRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	stats, err := repo.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	printStats(stats.Total, stats.Processed, stats.Unprocessed, stats.ExtractionSucceeded, stats.ExtractionFailed)
	return nil
}

func queryCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)
	var err error
	if s := c.String("start"); s != "" {
		start, err = time.Parse(dateLayout, s)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}
	if s := c.String("end"); s != "" {
		end, err = time.Parse(dateLayout, s)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := vectorstore.NewSupabaseStore(c.String("supabase-url"), c.String("supabase-key"))
	if err != nil {
		return fmt.Errorf("failed to create vector store: %w", err)
	}

	searcher, err := search.NewSearcher(embedder, store,
		search.WithThreshold(c.Float64("threshold")),
		search.WithLimit(c.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	matches, err := searcher.Search(context.Background(), query, start, end)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(matches)
}

func printStats(total, processed, unprocessed, succeeded, failed int) {
	fmt.Printf("Total articles:        %d\n", total)
	fmt.Printf("Processed:             %d\n", processed)
	fmt.Printf("Unprocessed:           %d\n", unprocessed)
	fmt.Printf("Extraction succeeded:  %d\n", succeeded)
	fmt.Printf("Extraction failed:     %d\n", failed)
}

func setup(c *cli.Context) error {
	// Load .env if present; flags and real env vars still win.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env")
	}

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
