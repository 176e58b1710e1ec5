package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-hub/internal/config"
	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/dynamo"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"

	basecache "github.com/riskibarqy/cricket-hub/internal/platform/cache"
)

type stores struct {
	matches match.Repository
	series  series.Repository
	db      *sqlx.DB
	cache   *basecache.Store
}

func (s *stores) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// openStores builds the configured persistence backend and wraps it with the
// read-through cache when enabled.
func openStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (*stores, error) {
	out := &stores{}

	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, err
		}
		out.db = db
		out.matches = postgres.NewMatchRepository(db)
		out.series = postgres.NewSeriesRepository(db)
	case config.StoreDynamoDB:
		client, err := dynamo.NewClient(ctx, cfg.DynamoRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, err
		}
		out.matches = dynamo.NewMatchRepository(client, cfg.DynamoMatchesTable)
		out.series = dynamo.NewSeriesRepository(client, cfg.DynamoSeriesTable)
	default:
		out.matches = memory.NewMatchRepository(nil)
		out.series = memory.NewSeriesRepository(nil)
	}

	logger.Info("store ready", "driver", cfg.StoreDriver, "cache_enabled", cfg.CacheEnabled)
	if !cfg.CacheEnabled {
		return out, nil
	}

	store := basecache.NewStore(cfg.CacheMatchDetailsTTL)
	out.cache = store
	out.matches = cache.NewMatchRepository(out.matches, store, cache.MatchTTLs{
		Query:  cfg.CacheLiveMatchTTL,
		Detail: cfg.CacheMatchDetailsTTL,
	})
	out.series = cache.NewSeriesRepository(out.series, store, cache.SeriesTTLs{
		List:   cfg.CacheSeriesListTTL,
		Detail: cfg.CacheSeriesDetailsTTL,
	})
	return out, nil
}
