package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/provaloop/studyloop-backend/internal/platform/anthropic"
	"github.com/provaloop/studyloop-backend/internal/platform/envutil"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
	"github.com/provaloop/studyloop-backend/internal/platform/tavily"
)

type Clients struct {
	AI     anthropic.Client
	Search tavily.Client
	Redis  *redis.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	ai, err := anthropic.NewClient(log)
	if err != nil {
		return Clients{}, err
	}
	search, err := tavily.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	var rdb *redis.Client
	if addr := envutil.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, falling back to in-process dispute locks", "error", err.Error())
			rdb = nil
		}
	}

	return Clients{AI: ai, Search: search, Redis: rdb}, nil
}
