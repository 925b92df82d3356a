package handlers

import (
	"time"

	"github.com/videotube/backend/internal/models"
)

// videoView is the transport shape of a video in feeds and detail responses.
type videoView struct {
	ID          string        `json:"id"`
	Owner       string        `json:"owner"`
	OwnerInfo   *models.Owner `json:"ownerInfo,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	VideoFile   string        `json:"videoFile"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Duration    float64       `json:"duration"`
	Views       int64         `json:"views"`
	IsPublished bool          `json:"isPublished"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func toVideoView(v models.Video) videoView {
	return videoView{
		ID:          v.ID,
		Owner:       v.Owner,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toVideoViews(videos []models.VideoWithOwner) []videoView {
	views := make([]videoView, 0, len(videos))
	for _, v := range videos {
		view := toVideoView(v.Video)
		owner := v.OwnerDetails
		view.OwnerInfo = &owner
		views = append(views, view)
	}
	return views
}

type commentView struct {
	ID        string        `json:"id"`
	Owner     string        `json:"owner"`
	OwnerInfo *models.Owner `json:"ownerInfo,omitempty"`
	VideoID   string        `json:"videoId"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func toCommentView(c models.Comment) commentView {
	return commentView{
		ID:        c.ID,
		Owner:     c.Owner,
		VideoID:   c.VideoID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCommentViews(comments []models.CommentWithOwner) []commentView {
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		view := toCommentView(c.Comment)
		owner := c.OwnerDetails
		view.OwnerInfo = &owner
		views = append(views, view)
	}
	return views
}

type tweetView struct {
	ID        string        `json:"id"`
	Owner     string        `json:"owner"`
	OwnerInfo *models.Owner `json:"ownerInfo,omitempty"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func toTweetView(t models.Tweet) tweetView {
	return tweetView{
		ID:        t.ID,
		Owner:     t.Owner,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTweetViews(tweets []models.TweetWithOwner) []tweetView {
	views := make([]tweetView, 0, len(tweets))
	for _, t := range tweets {
		view := toTweetView(t.Tweet)
		owner := t.OwnerDetails
		view.OwnerInfo = &owner
		views = append(views, view)
	}
	return views
}

type playlistView struct {
	ID          string      `json:"id"`
	Owner       string      `json:"owner"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Videos      []videoView `json:"videos,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func toPlaylistView(p models.Playlist) playlistView {
	return playlistView{
		ID:          p.ID,
		Owner:       p.Owner,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPlaylistViews(playlists []models.Playlist) []playlistView {
	views := make([]playlistView, 0, len(playlists))
	for _, p := range playlists {
		views = append(views, toPlaylistView(p))
	}
	return views
}
