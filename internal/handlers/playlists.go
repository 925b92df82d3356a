package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/guard"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/query"
)

// PlaylistHandler implements the playlist endpoints.
type PlaylistHandler struct {
	Playlists PlaylistStore
	Videos    VideoStore
	NowFunc   func() time.Time
}

func (h PlaylistHandler) guard() guard.Descriptor[models.Playlist] {
	return guard.Descriptor[models.Playlist]{Resource: "playlist", Param: "playlistId", Fetch: h.Playlists.FindByID}
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.CallerID(ctx)

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondErr(ctx, w, http.StatusBadRequest, "playlist name is required")
		return
	}

	now := h.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		Owner:       callerID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		respondMapped(ctx, w, err, "failed to create playlist")
		return
	}

	respond(ctx, w, http.StatusCreated, toPlaylistView(playlist), "playlist created")
}

// Get handles GET /api/v1/playlists/{playlistId}, returning the playlist with
// its videos in stored order.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := guard.Canonical(r.PathValue("playlistId"))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	playlist, err := h.Playlists.FindByIDWithVideos(ctx, id)
	if err != nil {
		respondMapped(ctx, w, err, "failed to load playlist")
		return
	}

	view := toPlaylistView(playlist.Playlist)
	view.Videos = toVideoViews(playlist.Videos)
	respond(ctx, w, http.StatusOK, view, "playlist fetched")
}

// ListForUser handles GET /api/v1/users/{userId}/playlists.
func (h PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
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

	playlists, total, err := h.Playlists.ListForUser(ctx, userID, page)
	if err != nil {
		respondMapped(ctx, w, err, "failed to list playlists")
		return
	}

	respond(ctx, w, http.StatusOK, newFeedPayload(toPlaylistViews(playlists), total, page), "playlists fetched")
}

// Update handles PATCH /api/v1/playlists/{playlistId}. Only the owner may edit.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize playlist update")
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		playlist.Name = name
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		playlist.Description = desc
	}
	playlist.UpdatedAt = h.now()

	if err := h.Playlists.Update(ctx, playlist); err != nil {
		respondMapped(ctx, w, err, "failed to update playlist")
		return
	}

	respond(ctx, w, http.StatusOK, toPlaylistView(playlist), "playlist updated")
}

// Delete handles DELETE /api/v1/playlists/{playlistId}. Only the owner may
// delete; the referenced videos are untouched.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize playlist delete")
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		respondMapped(ctx, w, err, "failed to delete playlist")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "playlist deleted")
}

// AddVideo handles POST /api/v1/playlists/{playlistId}/videos/{videoId}.
// Only the owner may add; a video already present is rejected.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize playlist change")
		return
	}

	videoID, err := guard.Canonical(r.PathValue("videoId"))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid video id")
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondMapped(ctx, w, err, "failed to load video")
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlist.ID, videoID); err != nil {
		respondMapped(ctx, w, err, "failed to add video to playlist")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "video added to playlist")
}

// RemoveVideo handles DELETE /api/v1/playlists/{playlistId}/videos/{videoId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.guard().Authorize(ctx, r, middleware.CallerID(ctx))
	if err != nil {
		respondMapped(ctx, w, err, "failed to authorize playlist change")
		return
	}

	videoID, err := guard.Canonical(r.PathValue("videoId"))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid video id")
		return
	}

	if err := h.Playlists.RemoveVideo(ctx, playlist.ID, videoID); err != nil {
		respondMapped(ctx, w, err, "failed to remove video from playlist")
		return
	}

	respond(ctx, w, http.StatusOK, nil, "video removed from playlist")
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
