package repositories

import (
	"context"
	"fmt"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/models"
)

// PostgresStatsRepository runs the independent channel aggregates against
// PostgreSQL. Every query COALESCEs or counts to 0 so an empty collection
// never surfaces as an error or a null.
type PostgresStatsRepository struct {
	pool db.Pool
}

// NewPostgresStatsRepository constructs a stats repository backed by PostgreSQL.
func NewPostgresStatsRepository(pool db.Pool) *PostgresStatsRepository {
	return &PostgresStatsRepository{pool: pool}
}

// CountVideos counts the channel's owned videos.
func (r *PostgresStatsRepository) CountVideos(ctx context.Context, ownerID string) (int64, error) {
	return r.scalar(ctx, `SELECT COUNT(*) FROM videos WHERE owner_id = $1`, ownerID, "count videos")
}

// SumVideoViews totals views over the channel's owned videos.
func (r *PostgresStatsRepository) SumVideoViews(ctx context.Context, ownerID string) (int64, error) {
	return r.scalar(ctx, `SELECT COALESCE(SUM(views), 0) FROM videos WHERE owner_id = $1`, ownerID, "sum video views")
}

// CountSubscribers counts the channel's subscribers.
func (r *PostgresStatsRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	return r.scalar(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID, "count subscribers")
}

// CountLikesReceived counts likes whose target of the given kind is owned by
// the channel, by joining the like collection against the target collection.
func (r *PostgresStatsRepository) CountLikesReceived(ctx context.Context, ownerID string, kind models.LikeTargetKind) (int64, error) {
	var sql string
	switch kind {
	case models.LikeTargetVideo:
		sql = `SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.video_id WHERE v.owner_id = $1`
	case models.LikeTargetComment:
		sql = `SELECT COUNT(*) FROM likes l JOIN comments c ON c.id = l.comment_id WHERE c.owner_id = $1`
	case models.LikeTargetTweet:
		sql = `SELECT COUNT(*) FROM likes l JOIN tweets t ON t.id = l.tweet_id WHERE t.owner_id = $1`
	default:
		return 0, ErrInvalidTarget
	}

	return r.scalar(ctx, sql, ownerID, fmt.Sprintf("count %s likes", kind))
}

func (r *PostgresStatsRepository) scalar(ctx context.Context, sql, arg, what string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var value int64
	if err := conn.QueryRow(ctx, sql, arg).Scan(&value); err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}

	return value, nil
}

var _ StatsRepository = (*PostgresStatsRepository)(nil)
