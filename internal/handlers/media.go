package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/guard"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/middleware"
)

// maxUploadBytes caps a single media upload. Large enough for a video file,
// small enough that an abusive client cannot exhaust the disk behind the
// multipart buffer.
const maxUploadBytes = 512 << 20

// MediaHandler accepts media uploads and hands back their public locations.
// Clients upload first, then reference the returned URL from video and
// profile payloads.
type MediaHandler struct {
	Media MediaStore
}

// Upload handles POST /api/v1/media. The request carries a multipart form
// with a single "file" field.
func (h MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Media == nil {
		respondErr(ctx, w, http.StatusServiceUnavailable, "media uploads are not configured")
		return
	}

	callerID, err := guard.Canonical(middleware.CallerID(ctx))
	if err != nil {
		respondErr(ctx, w, http.StatusUnauthorized, "invalid caller identity")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "a file form field is required")
		return
	}
	defer file.Close()

	name := fmt.Sprintf("uploads/%s/%s%s", callerID, uuid.NewString(), strings.ToLower(filepath.Ext(header.Filename)))

	location, err := h.Media.Save(ctx, name, file)
	if err != nil {
		logger.Error("failed to store upload", "error", err, "name", name)
		respondErr(ctx, w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	respond(ctx, w, http.StatusCreated, uploadPayload{URL: location}, "upload stored")
}

type uploadPayload struct {
	URL string `json:"url"`
}
