package repositories

import (
	"context"

	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/query"
)

// VideoFilter narrows a video feed. Zero values leave the dimension open.
type VideoFilter struct {
	OwnerID       string
	TitleQuery    string
	PublishedOnly bool
}

// VideoSort names a whitelisted ordering key for video feeds.
type VideoSort struct {
	Key  string
	Desc bool
}

// VideoRepository exposes data access for videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	ListPage(ctx context.Context, filter VideoFilter, page query.PageRequest, sort VideoSort) ([]models.VideoWithOwner, int64, error)
}
