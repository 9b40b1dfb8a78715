package usage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists usage events to PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed usage store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) SaveRequestServed(ctx context.Context, event *RequestServedEvent) error {
	query := `
		INSERT INTO gateway_requests
			(request_id, path, resource, identity_id, tier, cache_status,
			 duration_millis, client_ip, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (request_id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.RequestID,
		event.Path,
		event.Resource,
		event.IdentityID,
		event.Tier,
		string(event.CacheStatus),
		event.DurationMillis,
		event.ClientIP,
		event.UserAgent,
		event.OccurredAt,
	)

	return err
}

func (p *PostgresStore) SaveRateLimited(ctx context.Context, event *RateLimitedEvent) error {
	query := `
		INSERT INTO gateway_rate_limited
			(request_id, path, identity_id, tier, count, "limit",
			 reset_in_seconds, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (request_id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.RequestID,
		event.Path,
		event.IdentityID,
		event.Tier,
		event.Count,
		event.Limit,
		event.ResetInSeconds,
		event.OccurredAt,
	)

	return err
}

// Compile-time check.
var _ Store = (*PostgresStore)(nil)
