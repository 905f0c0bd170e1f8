package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandwipshanto/relevant/internal/formatter"
	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/repositories"
	"github.com/sandwipshanto/relevant/internal/shared"
	"github.com/sandwipshanto/relevant/internal/tasks"
	"github.com/urfave/cli/v3"
)

// LocalSetup initializes the config file and the local content database.
func (r *Runner) LocalSetup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	dbPath := config.ResolveDatabasePath()
	r.logger.Info("initializing database", "path", dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := shared.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", dbPath)

	r.writePlainln("✓ Local database ready at %s", dbPath)
	return nil
}

// LocalRefresh pulls the feed and saved listings into the local database
// for offline reads.
func (r *Runner) LocalRefresh(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewContentRepository(db)
	progress := r.progressPrinter()
	defer close(progress)

	engine := tasks.NewRefreshEngine(r.client, repositories.NewContentCacheAdapter(repo))
	result, err := engine.Run(ctx, progress, tasks.RefreshOpts{
		MaxPages:     int(cmd.Int("pages")),
		PageSize:     r.pageSize(cmd),
		MinRelevance: r.config.Feed.MinRelevance,
	})
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	r.writePlainln("✓ Cached %d of %d items (%d feed pages, %d saved pages)",
		result.ItemsCached, result.ItemsFetched, result.FeedPages, result.SavedPages)
	if result.CacheErrors > 0 {
		r.writePlain("⚠ %d items failed to cache\n", result.CacheErrors)
	}
	return nil
}

// LocalList prints cached content from the local database.
func (r *Runner) LocalList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewContentRepository(db)
	criteria := map[string]any{}
	if cmd.Bool("saved") {
		criteria["saved"] = true
	}
	if cmd.IsSet("source") {
		criteria["source"] = cmd.String("source")
	}
	if cmd.IsSet("min-relevance") {
		criteria["min_relevance"] = cmd.Float("min-relevance")
	}

	cached, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list cached content: %w", err)
	}

	items := make([]models.Content, 0, len(cached))
	for _, record := range cached {
		items = append(items, record.Content())
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Local cache (%d items)", len(items)))
	r.printContent(items)
	return nil
}

// LocalExport writes cached content to a file in the requested format.
func (r *Runner) LocalExport(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewContentRepository(db)
	cached, err := repo.List(map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to list cached content: %w", err)
	}

	items := make([]models.Content, 0, len(cached))
	for _, record := range cached {
		items = append(items, record.Content())
	}

	format := cmd.String("format")
	output := cmd.String("output")
	if output == "" {
		output = "local_cache" + formatter.Extension(format)
	}

	export := &formatter.ContentExport{Title: "Local cache", Items: items}
	path, err := formatter.WriteExport(export, format, output)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("✓ Exported %d items to %s", len(items), path)
	return nil
}
