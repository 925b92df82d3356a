package handlers

import (
	"net/http"

	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/query"
	"github.com/videotube/backend/internal/repositories"
)

// DashboardHandler implements the channel owner's dashboard endpoints.
type DashboardHandler struct {
	Stats  StatsCollector
	Videos VideoStore
}

// GetStats handles GET /api/v1/dashboard/stats: the caller's channel rollup.
// A fresh channel reports zeroes, not an error.
func (h DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.Stats.ChannelStats(ctx, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to collect channel stats")
		return
	}

	respond(ctx, w, http.StatusOK, stats, "channel stats fetched")
}

// ListVideos handles GET /api/v1/dashboard/videos: every video owned by the
// caller, drafts included, newest first.
func (h DashboardHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := query.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	if err != nil {
		respondMapped(ctx, w, err, "invalid pagination")
		return
	}

	filter := repositories.VideoFilter{OwnerID: middleware.CallerID(ctx)}
	sort := repositories.VideoSort{Key: "createdAt", Desc: true}

	videos, total, err := h.Videos.ListPage(ctx, filter, page, sort)
	if err != nil {
		respondMapped(ctx, w, err, "failed to list channel videos")
		return
	}

	respond(ctx, w, http.StatusOK, newFeedPayload(toVideoViews(videos), total, page), "channel videos fetched")
}
