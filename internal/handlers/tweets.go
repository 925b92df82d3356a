package handlers

import (
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/guard"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/query"
)

const maxTweetLength = 5000

// TweetHandler implements the tweet endpoints.
type TweetHandler struct {
	Tweets  TweetStore
	NowFunc func() time.Time
}

func (h TweetHandler) guard() guard.Descriptor[models.Tweet] {
	return guard.Descriptor[models.Tweet]{Resource: "tweet", Param: "tweetId", Fetch: h.Tweets.FindByID}
}

func validTweet(content string) bool {
	n := utf8.RuneCountInString(content)
	return n > 0 && n <= maxTweetLength
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.CallerID(ctx)

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}
	if !validTweet(content) {
		respondErr(ctx, w, http.StatusBadRequest, "tweet must be between 1 and 5000 characters")
		return
	}

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		Owner:     callerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		respondMapped(ctx, w, err, "failed to create tweet")
		return
	}

	respond(ctx, w, http.StatusCreated, toTweetView(tweet), "tweet created")
}

// ListForUser handles GET /api/v1/users/{userId}/tweets, newest first.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := guard.Canonical(r.PathValue("userId"))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid user id")
		return
	}

	page, err := query.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	if err != nil {
		respondMapped(ctx, w, err, "invalid pagination")
		return
	}

	tweets, total, err := h.Tweets.ListForUser(ctx, userID, page)
	if err != nil {
		respondMapped(ctx, w, err, "failed to list tweets")
		return
	}

	respond(ctx, w, http.StatusOK, newFeedPayload(toTweetViews(tweets), total, page), "tweets fetched")
}

// Update handles PATCH /api/v1/tweets/{tweetId}. Only the owner may edit.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize tweet update")
		return
	}

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}
	if !validTweet(content) {
		respondErr(ctx, w, http.StatusBadRequest, "tweet must be between 1 and 5000 characters")
		return
	}

	updated, err := h.Tweets.UpdateContent(ctx, tweet.ID, content)
	if err != nil {
		respondMapped(ctx, w, err, "failed to update tweet")
		return
	}

	respond(ctx, w, http.StatusOK, toTweetView(updated), "tweet updated")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}. Only the owner may delete.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize tweet delete")
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		respondMapped(ctx, w, err, "failed to delete tweet")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "tweet deleted")
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
