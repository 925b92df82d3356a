package repositories

import (
	"context"

	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/query"
)

// LikeRepository exposes the like toggle and liked-video feeds.
type LikeRepository interface {
	// Toggle creates the like if absent and removes it if present, returning
	// whether the like exists after the call.
	Toggle(ctx context.Context, userID string, target models.LikeTarget) (bool, error)
	ListLikedVideos(ctx context.Context, userID string, page query.PageRequest) ([]models.VideoWithOwner, int64, error)
}
