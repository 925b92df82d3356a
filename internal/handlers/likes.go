package handlers

import (
	"net/http"

	"github.com/videotube/backend/internal/guard"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/query"
)

// LikeHandler implements the like toggle across videos, comments, and tweets,
// plus the liked-videos feed.
type LikeHandler struct {
	Likes LikeStore
}

// ToggleVideo handles POST /api/v1/likes/videos/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, "videoId")
}

// ToggleComment handles POST /api/v1/likes/comments/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, "commentId")
}

// ToggleTweet handles POST /api/v1/likes/tweets/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, "tweetId")
}

// toggle flips the caller's like for one target. The response reports the
// resulting state so clients never guess which way the toggle landed.
func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, kind models.LikeTargetKind, param string) {
	ctx := r.Context()
	callerID := middleware.CallerID(ctx)

	id, err := guard.Canonical(r.PathValue(param))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid "+string(kind)+" id")
		return
	}

	liked, err := h.Likes.Toggle(ctx, callerID, models.LikeTarget{Kind: kind, ID: id})
	if err != nil {
		respondMapped(ctx, w, err, "failed to toggle like")
		return
	}

	message := "like removed"
	if liked {
		message = "like added"
	}
	respond(ctx, w, http.StatusOK, likePayload{Liked: liked}, message)
}

// ListLikedVideos handles GET /api/v1/likes/videos, the caller's liked-video
// feed, most recently liked first.
func (h LikeHandler) ListLikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.CallerID(ctx)

	page, err := query.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	if err != nil {
		respondMapped(ctx, w, err, "invalid pagination")
		return
	}

	videos, total, err := h.Likes.ListLikedVideos(ctx, callerID, page)
	if err != nil {
		respondMapped(ctx, w, err, "failed to list liked videos")
		return
	}

	respond(ctx, w, http.StatusOK, newFeedPayload(toVideoViews(videos), total, page), "liked videos fetched")
}

type likePayload struct {
	Liked bool `json:"liked"`
}
