package repositories

import (
	"context"

	"github.com/videotube/backend/internal/models"
)

// StatsRepository exposes the independent aggregates behind a channel's
// dashboard. Every count resolves to 0 when the channel owns nothing of the
// queried kind.
type StatsRepository interface {
	CountVideos(ctx context.Context, ownerID string) (int64, error)
	SumVideoViews(ctx context.Context, ownerID string) (int64, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	// CountLikesReceived counts likes whose target of the given kind is owned
	// by the channel (likes joined against the target collection).
	CountLikesReceived(ctx context.Context, ownerID string, kind models.LikeTargetKind) (int64, error)
}
