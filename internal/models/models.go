package models

import "time"

// User represents an account within the VideoTube platform. The password hash
// is only ever read by the auth handlers; queries that surface users to other
// callers must project through Owner instead.
type User struct {
	ID         string
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     string
	CoverImage string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Owner is the public projection of a user attached to feed items. It never
// carries credentials; Email is populated only by the subscription traversals,
// which are explicitly permitted to expose it.
type Owner struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Video is a published (or draft) upload owned by exactly one user.
type Video struct {
	ID          string
	Owner       string
	Title       string
	Description string
	VideoFile   string
	Thumbnail   string
	Duration    float64
	Views       int64
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerID reports the owning user so the ownership guard can protect videos.
func (v Video) OwnerID() string { return v.Owner }

// VideoWithOwner annotates a video with its owner's public projection for
// feed responses.
type VideoWithOwner struct {
	Video
	OwnerDetails Owner
}

// Comment is attached to exactly one video.
type Comment struct {
	ID        string
	Owner     string
	VideoID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID reports the owning user so the ownership guard can protect comments.
func (c Comment) OwnerID() string { return c.Owner }

// CommentWithOwner annotates a comment with its owner's public projection.
type CommentWithOwner struct {
	Comment
	OwnerDetails Owner
}

// Tweet is a short text post owned by one user.
type Tweet struct {
	ID        string
	Owner     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID reports the owning user so the ownership guard can protect tweets.
func (t Tweet) OwnerID() string { return t.Owner }

// TweetWithOwner annotates a tweet with its owner's public projection.
type TweetWithOwner struct {
	Tweet
	OwnerDetails Owner
}

// LikeTargetKind identifies which collection a like points into.
type LikeTargetKind string

const (
	LikeTargetVideo   LikeTargetKind = "video"
	LikeTargetComment LikeTargetKind = "comment"
	LikeTargetTweet   LikeTargetKind = "tweet"
)

// LikeTarget names exactly one of a video, comment, or tweet.
type LikeTarget struct {
	Kind LikeTargetKind
	ID   string
}

// Like records that a user liked exactly one target. At most one like exists
// per (user, target) pair; the schema enforces this with partial unique
// indexes.
type Like struct {
	ID        string
	LikedBy   string
	VideoID   string
	CommentID string
	TweetID   string
	CreatedAt time.Time
}

// Subscription records that a subscriber follows a channel. At most one
// subscription exists per (subscriber, channel) pair.
type Subscription struct {
	ID         string
	Subscriber string
	Channel    string
	CreatedAt  time.Time
}

// Playlist is an owned, ordered collection of video references.
type Playlist struct {
	ID          string
	Owner       string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerID reports the owning user so the ownership guard can protect playlists.
func (p Playlist) OwnerID() string { return p.Owner }

// PlaylistWithVideos carries the playlist's videos in their stored order.
type PlaylistWithVideos struct {
	Playlist
	Videos []VideoWithOwner
}

// ChannelStats aggregates a channel's reach across every owned collection.
// Every count is zero, never absent, when the channel owns nothing.
type ChannelStats struct {
	TotalVideos       int64 `json:"totalVideos"`
	TotalSubscribers  int64 `json:"totalSubscribers"`
	TotalViews        int64 `json:"totalViews"`
	TotalLikes        int64 `json:"totalLikes"`
	TotalTweetLikes   int64 `json:"totalTweetLikes"`
	TotalCommentLikes int64 `json:"totalCommentLikes"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
