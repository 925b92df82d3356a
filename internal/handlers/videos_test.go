package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/models"
)

func publishedVideo(id, owner string) models.Video {
	return models.Video{
		ID:          id,
		Owner:       owner,
		Title:       "title " + id,
		VideoFile:   "videos/" + id + ".mp4",
		Thumbnail:   "thumbnails/" + id + ".jpg",
		IsPublished: true,
		CreatedAt:   fixedNow(),
		UpdatedAt:   fixedNow(),
	}
}

func TestListVideosPaginatesWithTotalCount(t *testing.T) {
	videos := newFakeVideoStore()
	for i := 0; i < 7; i++ {
		videos.Create(context.Background(), publishedVideo(uuid.NewString(), aliceID))
	}
	handler := VideoHandler{Videos: videos}

	rec := httptest.NewRecorder()
	handler.List(rec, newRequest(t, http.MethodGet, "/api/v1/videos?page=2&limit=3", nil, "", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var payload struct {
		Items      []videoView `json:"items"`
		TotalCount int64       `json:"totalCount"`
		Page       int         `json:"page"`
		Limit      int         `json:"limit"`
	}
	decodeData(t, env, &payload)

	if len(payload.Items) != 3 {
		t.Fatalf("expected 3 items on page 2, got %d", len(payload.Items))
	}
	if payload.TotalCount != 7 {
		t.Fatalf("expected total count 7 regardless of page, got %d", payload.TotalCount)
	}
	if payload.Page != 2 || payload.Limit != 3 {
		t.Fatalf("expected echoed pagination, got page=%d limit=%d", payload.Page, payload.Limit)
	}
}

func TestListVideosLastPageKeepsTotal(t *testing.T) {
	videos := newFakeVideoStore()
	for i := 0; i < 7; i++ {
		videos.Create(context.Background(), publishedVideo(uuid.NewString(), aliceID))
	}
	handler := VideoHandler{Videos: videos}

	rec := httptest.NewRecorder()
	handler.List(rec, newRequest(t, http.MethodGet, "/api/v1/videos?page=3&limit=3", nil, "", nil))

	env := decodeEnvelope(t, rec)
	var payload feedEnvelope[videoView]
	decodeData(t, env, &payload)

	if len(payload.Items) != 1 || payload.TotalCount != 7 {
		t.Fatalf("expected short last page with full total, got %d items total %d", len(payload.Items), payload.TotalCount)
	}
}

func TestListVideosRejectsBadPagination(t *testing.T) {
	handler := VideoHandler{Videos: newFakeVideoStore()}

	for _, target := range []string{
		"/api/v1/videos?page=0",
		"/api/v1/videos?page=-1",
		"/api/v1/videos?limit=0",
		"/api/v1/videos?limit=abc",
	} {
		rec := httptest.NewRecorder()
		handler.List(rec, newRequest(t, http.MethodGet, target, nil, "", nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestListVideosEmptyFeedIsSuccess(t *testing.T) {
	handler := VideoHandler{Videos: newFakeVideoStore()}

	rec := httptest.NewRecorder()
	handler.List(rec, newRequest(t, http.MethodGet, "/api/v1/videos", nil, "", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty feed, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var payload feedEnvelope[videoView]
	decodeData(t, env, &payload)

	if payload.Items == nil {
		t.Fatal("expected empty items slice, not null")
	}
	if len(payload.Items) != 0 || payload.TotalCount != 0 {
		t.Fatalf("expected empty feed, got %+v", payload)
	}
}

func TestListVideosHidesDraftsFromOtherCallers(t *testing.T) {
	draft := publishedVideo(uuid.NewString(), aliceID)
	draft.IsPublished = false
	videos := newFakeVideoStore(publishedVideo(uuid.NewString(), aliceID), draft)
	handler := VideoHandler{Videos: videos}

	rec := httptest.NewRecorder()
	target := fmt.Sprintf("/api/v1/videos?userId=%s", aliceID)
	handler.List(rec, newRequest(t, http.MethodGet, target, nil, bobID, nil))

	env := decodeEnvelope(t, rec)
	var payload feedEnvelope[videoView]
	decodeData(t, env, &payload)
	if payload.TotalCount != 1 {
		t.Fatalf("expected only published videos for a stranger, got %d", payload.TotalCount)
	}

	// The owner sees drafts in their own channel feed.
	rec = httptest.NewRecorder()
	handler.List(rec, newRequest(t, http.MethodGet, target, nil, aliceID, nil))

	env = decodeEnvelope(t, rec)
	decodeData(t, env, &payload)
	if payload.TotalCount != 2 {
		t.Fatalf("expected owner to see drafts, got %d", payload.TotalCount)
	}
}

func TestGetVideoCountsView(t *testing.T) {
	video := publishedVideo(uuid.NewString(), aliceID)
	video.Views = 4
	videos := newFakeVideoStore(video)
	handler := VideoHandler{Videos: videos}

	rec := httptest.NewRecorder()
	handler.Get(rec, newRequest(t, http.MethodGet, "/api/v1/videos/"+video.ID, nil, "", map[string]string{"videoId": video.ID}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var got videoView
	decodeData(t, env, &got)

	if got.Views != 5 {
		t.Fatalf("expected response to include the new view, got %d", got.Views)
	}
	if videos.videos[video.ID].Views != 5 {
		t.Fatalf("expected stored views incremented, got %d", videos.videos[video.ID].Views)
	}
}

func TestGetVideoSurvivesViewCountFailure(t *testing.T) {
	video := publishedVideo(uuid.NewString(), aliceID)
	videos := newFakeVideoStore(video)
	videos.incrementErr = errBoom
	handler := VideoHandler{Videos: videos}

	rec := httptest.NewRecorder()
	handler.Get(rec, newRequest(t, http.MethodGet, "/api/v1/videos/"+video.ID, nil, "", map[string]string{"videoId": video.ID}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite view-count failure, got %d", rec.Code)
	}
}

func TestGetVideoUnknownIDReturnsNotFound(t *testing.T) {
	handler := VideoHandler{Videos: newFakeVideoStore()}

	rec := httptest.NewRecorder()
	id := uuid.NewString()
	handler.Get(rec, newRequest(t, http.MethodGet, "/api/v1/videos/"+id, nil, "", map[string]string{"videoId": id}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateVideoRequiresTitleAndFile(t *testing.T) {
	handler := VideoHandler{Videos: newFakeVideoStore(), NowFunc: fixedNow}

	rec := httptest.NewRecorder()
	body := map[string]any{"description": "no title"}
	handler.Create(rec, newRequest(t, http.MethodPost, "/api/v1/videos", body, aliceID, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateVideoAssignsCallerAsOwner(t *testing.T) {
	videos := newFakeVideoStore()
	handler := VideoHandler{Videos: videos, NowFunc: fixedNow}

	body := map[string]any{"title": "My upload", "videoFile": "videos/upload.mp4", "duration": 12.5}
	rec := httptest.NewRecorder()
	handler.Create(rec, newRequest(t, http.MethodPost, "/api/v1/videos", body, aliceID, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var got videoView
	decodeData(t, env, &got)

	if got.Owner != aliceID {
		t.Fatalf("expected owner %s, got %s", aliceID, got.Owner)
	}
	if _, ok := videos.videos[got.ID]; !ok {
		t.Fatal("expected video persisted")
	}
}

func TestUpdateVideoForbiddenForNonOwner(t *testing.T) {
	video := publishedVideo(uuid.NewString(), aliceID)
	videos := newFakeVideoStore(video)
	handler := VideoHandler{Videos: videos, NowFunc: fixedNow}

	body := map[string]any{"title": "hijacked"}
	rec := httptest.NewRecorder()
	handler.Update(rec, newRequest(t, http.MethodPatch, "/api/v1/videos/"+video.ID, body, bobID, map[string]string{"videoId": video.ID}))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if videos.videos[video.ID].Title == "hijacked" {
		t.Fatal("expected stored video untouched after forbidden update")
	}
}

func TestUpdateVideoOwnerChangesFields(t *testing.T) {
	video := publishedVideo(uuid.NewString(), aliceID)
	videos := newFakeVideoStore(video)
	handler := VideoHandler{Videos: videos, NowFunc: fixedNow}

	body := map[string]any{"title": "New title"}
	rec := httptest.NewRecorder()
	handler.Update(rec, newRequest(t, http.MethodPatch, "/api/v1/videos/"+video.ID, body, aliceID, map[string]string{"videoId": video.ID}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if videos.videos[video.ID].Title != "New title" {
		t.Fatalf("expected title updated, got %q", videos.videos[video.ID].Title)
	}
}

func TestTogglePublishFlipsState(t *testing.T) {
	video := publishedVideo(uuid.NewString(), aliceID)
	videos := newFakeVideoStore(video)
	handler := VideoHandler{Videos: videos}

	params := map[string]string{"videoId": video.ID}
	rec := httptest.NewRecorder()
	handler.TogglePublish(rec, newRequest(t, http.MethodPatch, "/api/v1/videos/"+video.ID+"/publish", nil, aliceID, params))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if videos.videos[video.ID].IsPublished {
		t.Fatal("expected video unpublished after first toggle")
	}

	rec = httptest.NewRecorder()
	handler.TogglePublish(rec, newRequest(t, http.MethodPatch, "/api/v1/videos/"+video.ID+"/publish", nil, aliceID, params))
	if !videos.videos[video.ID].IsPublished {
		t.Fatal("expected video republished after second toggle")
	}
}

func TestDeleteVideoForbiddenForNonOwner(t *testing.T) {
	video := publishedVideo(uuid.NewString(), aliceID)
	videos := newFakeVideoStore(video)
	media := &fakeMediaStore{}
	handler := VideoHandler{Videos: videos, Media: media}

	rec := httptest.NewRecorder()
	handler.Delete(rec, newRequest(t, http.MethodDelete, "/api/v1/videos/"+video.ID, nil, bobID, map[string]string{"videoId": video.ID}))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if _, ok := videos.videos[video.ID]; !ok {
		t.Fatal("expected video to survive forbidden delete")
	}
	if len(media.deleted) != 0 {
		t.Fatalf("expected no media cleanup after forbidden delete, got %v", media.deleted)
	}
}

func TestDeleteVideoRemovesRecordAndMedia(t *testing.T) {
	video := publishedVideo(uuid.NewString(), aliceID)
	videos := newFakeVideoStore(video)
	media := &fakeMediaStore{}
	handler := VideoHandler{Videos: videos, Media: media}

	rec := httptest.NewRecorder()
	handler.Delete(rec, newRequest(t, http.MethodDelete, "/api/v1/videos/"+video.ID, nil, aliceID, map[string]string{"videoId": video.ID}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := videos.videos[video.ID]; ok {
		t.Fatal("expected video removed")
	}
	if len(media.deleted) != 2 {
		t.Fatalf("expected video file and thumbnail cleaned up, got %v", media.deleted)
	}
}

func TestDeleteVideoMalformedIDRejected(t *testing.T) {
	handler := VideoHandler{Videos: newFakeVideoStore()}

	rec := httptest.NewRecorder()
	handler.Delete(rec, newRequest(t, http.MethodDelete, "/api/v1/videos/not-a-uuid", nil, aliceID, map[string]string{"videoId": "not-a-uuid"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// feedEnvelope mirrors feedPayload with a concrete item type for decoding.
type feedEnvelope[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}
