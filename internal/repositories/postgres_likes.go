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

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// likeColumn resolves the target column for a like kind. The column set is
// closed; anything else is an invalid target.
func likeColumn(kind models.LikeTargetKind) (string, error) {
	switch kind {
	case models.LikeTargetVideo:
		return "video_id", nil
	case models.LikeTargetComment:
		return "comment_id", nil
	case models.LikeTargetTweet:
		return "tweet_id", nil
	default:
		return "", ErrInvalidTarget
	}
}

// Toggle removes the like if one exists for the (user, target) pair and
// creates it otherwise. The partial unique indexes keep the pair unique even
// under concurrent toggles.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, userID string, target models.LikeTarget) (bool, error) {
	column, err := likeColumn(target.Kind)
	if err != nil {
		return false, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx,
		fmt.Sprintf(`DELETE FROM likes WHERE liked_by = $1 AND %s = $2`, column),
		userID, target.ID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = conn.Exec(ctx,
		fmt.Sprintf(`INSERT INTO likes (id, liked_by, %s, created_at) VALUES ($1, $2, $3, $4)`, column),
		uuid.NewString(), userID, target.ID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				// A concurrent toggle won the insert; the like exists.
				return true, nil
			case "23503":
				return false, ErrNotFound
			}
		}
		return false, fmt.Errorf("insert like: %w", err)
	}

	return true, nil
}

// ListLikedVideos returns one page of videos the user has liked, newest like
// first, each annotated with the video owner's public projection.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, userID string, page query.PageRequest) ([]models.VideoWithOwner, int64, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}

	p := query.From("likes l").
		Select(
			"v.id", "v.owner_id", "v.title", "v.description", "v.video_file",
			"v.thumbnail", "v.duration", "v.views", "v.is_published",
			"v.created_at", "v.updated_at",
			"u.full_name", "u.avatar",
		).
		Join("JOIN videos v ON v.id = l.video_id").
		Join("JOIN users u ON u.id = v.owner_id").
		Where("l.liked_by = ?", userID).
		Where("l.video_id IS NOT NULL").
		OrderBy("l.created_at", true).
		Paginate(page)

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	countSQL, countArgs := p.CountSQL()
	var total int64
	if err := conn.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count liked videos: %w", err)
	}

	itemSQL, itemArgs := p.SQL()
	rows, err := conn.Query(ctx, itemSQL, itemArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	var items []models.VideoWithOwner
	for rows.Next() {
		var item models.VideoWithOwner
		if err := rows.Scan(
			&item.ID, &item.Owner, &item.Title, &item.Description, &item.VideoFile,
			&item.Thumbnail, &item.Duration, &item.Views, &item.IsPublished,
			&item.CreatedAt, &item.UpdatedAt,
			&item.OwnerDetails.FullName, &item.OwnerDetails.Avatar,
		); err != nil {
			return nil, 0, fmt.Errorf("scan liked video row: %w", err)
		}
		item.OwnerDetails.ID = item.Owner
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate liked videos: %w", err)
	}

	return items, total, nil
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)
