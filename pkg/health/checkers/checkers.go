package checkers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

const pingTimeout = time.Second

// Ping is a health.Checker that pings one storage backend with a short deadline.
type Ping struct {
	name string
	ping func(ctx context.Context) error
}

func (p *Ping) Name() string { return p.name }

func (p *Ping) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p.ping(ctx)
}

// Postgres checks the pool backing the session and settings repositories.
func Postgres(pool *pgxpool.Pool) *Ping {
	return &Ping{name: "postgres", ping: pool.Ping}
}

// Redis checks the client backing the settings store.
func Redis(client goredis.UniversalClient) *Ping {
	return &Ping{name: "redis", ping: func(ctx context.Context) error { return client.Ping(ctx).Err() }}
}
