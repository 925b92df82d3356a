package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/guard"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/query"
	"github.com/videotube/backend/internal/repositories"
)

// VideoHandler implements the video catalog endpoints.
type VideoHandler struct {
	Videos  VideoStore
	Media   MediaStore
	NowFunc func() time.Time
}

func (h VideoHandler) guard() guard.Descriptor[models.Video] {
	return guard.Descriptor[models.Video]{Resource: "video", Param: "videoId", Fetch: h.Videos.FindByID}
}

// List handles GET /api/v1/videos. It accepts page, limit, query, userId,
// sortBy, and sortType parameters and returns only published videos unless
// the caller filters by their own channel.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := query.ParsePage(q.Get("page"), q.Get("limit"))
	if err != nil {
		respondMapped(ctx, w, err, "invalid pagination")
		return
	}

	filter := repositories.VideoFilter{
		TitleQuery:    strings.TrimSpace(q.Get("query")),
		PublishedOnly: true,
	}

	if raw := strings.TrimSpace(q.Get("userId")); raw != "" {
		ownerID, err := guard.Canonical(raw)
		if err != nil {
			respondErr(ctx, w, http.StatusBadRequest, "invalid userId filter")
			return
		}
		filter.OwnerID = ownerID
		// Owners see their own drafts in their channel feed.
		if caller, err := guard.Canonical(middleware.CallerID(ctx)); err == nil && caller == ownerID {
			filter.PublishedOnly = false
		}
	}

	sort := repositories.VideoSort{
		Key:  strings.TrimSpace(q.Get("sortBy")),
		Desc: !strings.EqualFold(q.Get("sortType"), "asc"),
	}

	videos, total, err := h.Videos.ListPage(ctx, filter, page, sort)
	if err != nil {
		respondMapped(ctx, w, err, "failed to list videos")
		return
	}

	respond(ctx, w, http.StatusOK, newFeedPayload(toVideoViews(videos), total, page), "videos fetched")
}

// Get handles GET /api/v1/videos/{videoId}. Every successful fetch counts as
// a view.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, err := guard.Canonical(r.PathValue("videoId"))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid video id")
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondMapped(ctx, w, err, "failed to load video")
		return
	}

	if err := h.Videos.IncrementViews(ctx, id); err != nil {
		// The read already succeeded; a lost view count is not worth a 500.
		logger.Warn("failed to record view", "error", err, "videoId", id)
	} else {
		video.Views++
	}

	respond(ctx, w, http.StatusOK, toVideoView(video), "video fetched")
}

// Create handles POST /api/v1/videos.
func (h VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.CallerID(ctx)

	var req videoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.VideoFile = strings.TrimSpace(req.VideoFile)
	if req.Title == "" || req.VideoFile == "" {
		respondErr(ctx, w, http.StatusBadRequest, "title and videoFile are required")
		return
	}

	now := h.now()
	video := models.Video{
		ID:          uuid.NewString(),
		Owner:       callerID,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		VideoFile:   req.VideoFile,
		Thumbnail:   strings.TrimSpace(req.Thumbnail),
		Duration:    req.Duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		respondMapped(ctx, w, err, "failed to create video")
		return
	}

	respond(ctx, w, http.StatusCreated, toVideoView(video), "video created")
}

// Update handles PATCH /api/v1/videos/{videoId}. Only the owner may update.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize video update")
		return
	}

	var req videoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		video.Title = title
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		video.Description = desc
	}
	if thumb := strings.TrimSpace(req.Thumbnail); thumb != "" {
		video.Thumbnail = thumb
	}
	video.UpdatedAt = h.now()

	if err := h.Videos.Update(ctx, video); err != nil {
		respondMapped(ctx, w, err, "failed to update video")
		return
	}

	respond(ctx, w, http.StatusOK, toVideoView(video), "video updated")
}

// TogglePublish handles PATCH /api/v1/videos/{videoId}/publish.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize publish toggle")
		return
	}

	video.IsPublished = !video.IsPublished
	if err := h.Videos.SetPublished(ctx, video.ID, video.IsPublished); err != nil {
		respondMapped(ctx, w, err, "failed to toggle publish state")
		return
	}

	respond(ctx, w, http.StatusOK, toVideoView(video), "publish state toggled")
}

// Delete handles DELETE /api/v1/videos/{videoId}. Only the owner may delete;
// stored media is removed best-effort after the record goes away.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	video, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize video delete")
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		respondMapped(ctx, w, err, "failed to delete video")
		return
	}

	if h.Media != nil {
		for _, key := range []string{video.VideoFile, video.Thumbnail} {
			if key == "" {
				continue
			}
			if err := h.Media.Delete(ctx, key); err != nil && !errors.Is(err, repositories.ErrNotFound) {
				logger.Warn("failed to delete media object", "error", err, "key", key, "videoId", video.ID)
			}
		}
	}

	respond(ctx, w, http.StatusOK, nil, "video deleted")
}

type videoRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	VideoFile   string  `json:"videoFile"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    float64 `json:"duration"`
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
