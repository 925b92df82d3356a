package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/guard"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/query"
)

const minCommentLength = 2

// CommentHandler implements the per-video comment endpoints.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	NowFunc  func() time.Time
}

func (h CommentHandler) guard() guard.Descriptor[models.Comment] {
	return guard.Descriptor[models.Comment]{Resource: "comment", Param: "commentId", Fetch: h.Comments.FindByID}
}

// ListForVideo handles GET /api/v1/videos/{videoId}/comments, oldest first.
func (h CommentHandler) ListForVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, err := guard.Canonical(r.PathValue("videoId"))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid video id")
		return
	}

	page, err := query.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	if err != nil {
		respondMapped(ctx, w, err, "invalid pagination")
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondMapped(ctx, w, err, "failed to load video")
		return
	}

	comments, total, err := h.Comments.ListForVideo(ctx, videoID, page)
	if err != nil {
		respondMapped(ctx, w, err, "failed to list comments")
		return
	}

	respond(ctx, w, http.StatusOK, newFeedPayload(toCommentViews(comments), total, page), "comments fetched")
}

// Create handles POST /api/v1/videos/{videoId}/comments.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.CallerID(ctx)

	videoID, err := guard.Canonical(r.PathValue("videoId"))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid video id")
		return
	}

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}
	if utf8.RuneCountInString(content) < minCommentLength {
		respondErr(ctx, w, http.StatusBadRequest, "comment must be at least 2 characters")
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondMapped(ctx, w, err, "failed to load video")
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		Owner:     callerID,
		VideoID:   videoID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondMapped(ctx, w, err, "failed to create comment")
		return
	}

	respond(ctx, w, http.StatusCreated, toCommentView(comment), "comment added")
}

// Update handles PATCH /api/v1/comments/{commentId}. Only the owner may edit.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize comment update")
		return
	}

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}
	if utf8.RuneCountInString(content) < minCommentLength {
		respondErr(ctx, w, http.StatusBadRequest, "comment must be at least 2 characters")
		return
	}

	updated, err := h.Comments.UpdateContent(ctx, comment.ID, content)
	if err != nil {
		respondMapped(ctx, w, err, "failed to update comment")
		return
	}

	respond(ctx, w, http.StatusOK, toCommentView(updated), "comment updated")
}

// Delete handles DELETE /api/v1/comments/{commentId}. Only the owner may delete.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize comment delete")
		return
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		respondMapped(ctx, w, err, "failed to delete comment")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "comment deleted")
}

type contentRequest struct {
	Content string `json:"content"`
}

// decodeContent reads the common {"content": ...} body shared by comment and
// tweet writes. It reports false after responding when the body is invalid.
func decodeContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	return strings.TrimSpace(req.Content), true
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
