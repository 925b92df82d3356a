package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/query"
)

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for
// channel subscriptions.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository
// backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Toggle unsubscribes if a subscription exists for the pair and subscribes
// otherwise. The unique pair constraint keeps concurrent toggles consistent.
func (r *PostgresSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, $4)
    `, uuid.NewString(), subscriberID, channelID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				// A concurrent toggle won the insert; the subscription exists.
				return true, nil
			case "23503":
				return false, ErrNotFound
			case "23514":
				return false, ErrConflict
			}
		}
		return false, fmt.Errorf("insert subscription: %w", err)
	}

	return true, nil
}

// ListSubscribers returns the users following the channel, joined against the
// user collection and projected to public fields, plus the total count.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string) ([]models.Owner, int64, error) {
	p := query.From("subscriptions s").
		Select("u.id", "u.full_name", "u.email").
		Join("JOIN users u ON u.id = s.subscriber_id").
		Where("s.channel_id = ?", channelID).
		OrderBy("s.created_at", true)

	return r.traverse(ctx, p, "subscribers")
}

// ListChannels returns the channels the user follows, joined against the user
// collection and projected to public fields, plus the total count.
func (r *PostgresSubscriptionRepository) ListChannels(ctx context.Context, subscriberID string) ([]models.Owner, int64, error) {
	p := query.From("subscriptions s").
		Select("u.id", "u.full_name", "u.email").
		Join("JOIN users u ON u.id = s.channel_id").
		Where("s.subscriber_id = ?", subscriberID).
		OrderBy("s.created_at", true)

	return r.traverse(ctx, p, "subscribed channels")
}

// traverse runs one direction of the subscription graph. An empty relation is
// a zero-length list with an explicit total of 0, never a failure.
func (r *PostgresSubscriptionRepository) traverse(ctx context.Context, p *query.Pipeline, what string) ([]models.Owner, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	countSQL, countArgs := p.CountSQL()
	var total int64
	if err := conn.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", what, err)
	}

	itemSQL, itemArgs := p.SQL()
	rows, err := conn.Query(ctx, itemSQL, itemArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	owners := make([]models.Owner, 0)
	for rows.Next() {
		var owner models.Owner
		if err := rows.Scan(&owner.ID, &owner.FullName, &owner.Email); err != nil {
			return nil, 0, fmt.Errorf("scan %s row: %w", what, err)
		}
		owners = append(owners, owner)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate %s: %w", what, err)
	}

	return owners, total, nil
}

var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
