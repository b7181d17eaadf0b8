package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcos/telescope-api/config"
	"github.com/rcos/telescope-api/internal/bootstrap"
	"github.com/rcos/telescope-api/internal/projects/cache"
	"github.com/rcos/telescope-api/internal/projects/domain"
	"github.com/rcos/telescope-api/internal/projects/seed"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Upsert projects from a YAML fixture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			projects, err := seed.Parse(f)
			if err != nil {
				return err
			}

			db, err := bootstrap.OpenDB(cmd.Context(), &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := seed.Apply(cmd.Context(), db, projects)
			if err != nil {
				return err
			}
			slog.Info("seeded projects", "file", args[0], "count", n)

			if err := clearProjectCache(cmd.Context(), cfg, projects); err != nil {
				return fmt.Errorf("seeded %d projects, cache not cleared: %w", n, err)
			}
			return nil
		},
	}
}

// clearProjectCache drops the cached list and the seeded items so a running API
// serves the new rows before CACHE_TTL expires. No-op when the cache is disabled.
func clearProjectCache(ctx context.Context, cfg *config.Config, projects []domain.Project) error {
	if !cfg.CacheEnabled() {
		return nil
	}

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	ids := make([]int64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	// only the redis side of the cache is touched here
	c := cache.New(nil, rdb, cfg.Redis.CacheTTL, slog.Default())
	if err := c.Invalidate(ctx, ids...); err != nil {
		return err
	}
	slog.Info("project cache cleared", "addr", cfg.Redis.Addr, "projects", len(ids))
	return nil
}
