package handlers

import (
	"context"
	"io"

	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/query"
	"github.com/videotube/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the auth handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// SessionManager issues, refreshes, and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string)
}

// VideoStore captures persistence for video publishing and feeds.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	ListPage(ctx context.Context, filter repositories.VideoFilter, page query.PageRequest, sort repositories.VideoSort) ([]models.VideoWithOwner, int64, error)
}

// CommentStore captures persistence for video comments.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (models.Comment, error)
	Delete(ctx context.Context, id string) error
	ListForVideo(ctx context.Context, videoID string, page query.PageRequest) ([]models.CommentWithOwner, int64, error)
}

// TweetStore captures persistence for tweets.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string, page query.PageRequest) ([]models.TweetWithOwner, int64, error)
}

// LikeStore captures the like toggle and liked-video feed.
type LikeStore interface {
	Toggle(ctx context.Context, userID string, target models.LikeTarget) (bool, error)
	ListLikedVideos(ctx context.Context, userID string, page query.PageRequest) ([]models.VideoWithOwner, int64, error)
}

// SubscriptionStore captures the subscription toggle and graph traversals.
type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.Owner, int64, error)
	ListChannels(ctx context.Context, subscriberID string) ([]models.Owner, int64, error)
}

// PlaylistStore captures persistence for playlists.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	FindByIDWithVideos(ctx context.Context, id string) (models.PlaylistWithVideos, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	ListForUser(ctx context.Context, userID string, page query.PageRequest) ([]models.Playlist, int64, error)
}

// StatsCollector produces a channel's dashboard rollup.
type StatsCollector interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}

// MediaStore holds uploaded media objects and removes them when their owning
// records go away. Save returns the public location of the stored object.
type MediaStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}
