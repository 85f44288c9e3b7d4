package engine

import (
	"context"
	"strings"
	"time"

	"tsumego/solver"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache puts redis in front of another engine, keyed by the job and ignore
// strings. The raw oracle output is stored and re-parsed on hits, so cached
// results hand out fresh candidate nodes each time.
type Cache struct {
	inner  solver.Engine
	client *redis.Client
	ttl    time.Duration
}

func NewCache(inner solver.Engine, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

func (c *Cache) Evaluate(ctx context.Context, node *solver.Node, ignore []string) (*solver.Result, error) {
	key := "eval:" + solver.JobString(node) + "|" + strings.Join(ignore, ";")

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		result, perr := ParseOutput(raw)
		if perr == nil {
			return result, nil
		}
		log.Warn().Err(perr).Str("key", key).Msg("discarding unparsable cached evaluation")
	} else if err != redis.Nil {
		log.Warn().Err(err).Str("key", key).Msg("evaluation cache read failed")
	}

	result, err := c.inner.Evaluate(ctx, node, ignore)
	if err != nil {
		return nil, err
	}

	if result.Raw != "" {
		if err := c.client.Set(ctx, key, result.Raw, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("evaluation cache write failed")
		}
	}
	return result, nil
}
