package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/models"
)

func TestCreateCommentRejectsShortContent(t *testing.T) {
	video := publishedVideo(uuid.NewString(), aliceID)
	handler := CommentHandler{Comments: newFakeCommentStore(), Videos: newFakeVideoStore(video), NowFunc: fixedNow}

	for _, content := range []string{"", " ", "x", " x "} {
		rec := httptest.NewRecorder()
		body := map[string]string{"content": content}
		handler.Create(rec, newRequest(t, http.MethodPost, "/api/v1/videos/"+video.ID+"/comments", body, bobID, map[string]string{"videoId": video.ID}))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("content %q: expected 400, got %d", content, rec.Code)
		}
	}
}

func TestCreateCommentOnMissingVideoReturnsNotFound(t *testing.T) {
	handler := CommentHandler{Comments: newFakeCommentStore(), Videos: newFakeVideoStore(), NowFunc: fixedNow}

	videoID := uuid.NewString()
	rec := httptest.NewRecorder()
	body := map[string]string{"content": "nice video"}
	handler.Create(rec, newRequest(t, http.MethodPost, "/api/v1/videos/"+videoID+"/comments", body, bobID, map[string]string{"videoId": videoID}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateCommentPersistsForCaller(t *testing.T) {
	video := publishedVideo(uuid.NewString(), aliceID)
	comments := newFakeCommentStore()
	handler := CommentHandler{Comments: comments, Videos: newFakeVideoStore(video), NowFunc: fixedNow}

	rec := httptest.NewRecorder()
	body := map[string]string{"content": "nice video"}
	handler.Create(rec, newRequest(t, http.MethodPost, "/api/v1/videos/"+video.ID+"/comments", body, bobID, map[string]string{"videoId": video.ID}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var got commentView
	decodeData(t, env, &got)

	if got.Owner != bobID || got.VideoID != video.ID {
		t.Fatalf("unexpected comment ownership: %+v", got)
	}
	if _, ok := comments.comments[got.ID]; !ok {
		t.Fatal("expected comment persisted")
	}
}

func TestListCommentsOldestFirstWithTotal(t *testing.T) {
	video := publishedVideo(uuid.NewString(), aliceID)
	base := fixedNow()
	comments := newFakeCommentStore(
		models.Comment{ID: uuid.NewString(), Owner: bobID, VideoID: video.ID, Content: "second", CreatedAt: base.Add(time.Minute)},
		models.Comment{ID: uuid.NewString(), Owner: carolID, VideoID: video.ID, Content: "first", CreatedAt: base},
		models.Comment{ID: uuid.NewString(), Owner: bobID, VideoID: uuid.NewString(), Content: "other video", CreatedAt: base},
	)
	handler := CommentHandler{Comments: comments, Videos: newFakeVideoStore(video)}

	rec := httptest.NewRecorder()
	handler.ListForVideo(rec, newRequest(t, http.MethodGet, "/api/v1/videos/"+video.ID+"/comments", nil, "", map[string]string{"videoId": video.ID}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var payload feedEnvelope[commentView]
	decodeData(t, env, &payload)

	if payload.TotalCount != 2 {
		t.Fatalf("expected 2 comments for video, got %d", payload.TotalCount)
	}
	if payload.Items[0].Content != "first" || payload.Items[1].Content != "second" {
		t.Fatalf("expected oldest-first order, got %+v", payload.Items)
	}
}

func TestListCommentsForMissingVideoReturnsNotFound(t *testing.T) {
	handler := CommentHandler{Comments: newFakeCommentStore(), Videos: newFakeVideoStore()}

	videoID := uuid.NewString()
	rec := httptest.NewRecorder()
	handler.ListForVideo(rec, newRequest(t, http.MethodGet, "/api/v1/videos/"+videoID+"/comments", nil, "", map[string]string{"videoId": videoID}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateCommentForbiddenForNonOwner(t *testing.T) {
	comment := models.Comment{ID: uuid.NewString(), Owner: bobID, VideoID: uuid.NewString(), Content: "original"}
	comments := newFakeCommentStore(comment)
	handler := CommentHandler{Comments: comments, Videos: newFakeVideoStore()}

	rec := httptest.NewRecorder()
	body := map[string]string{"content": "hijacked"}
	handler.Update(rec, newRequest(t, http.MethodPatch, "/api/v1/comments/"+comment.ID, body, carolID, map[string]string{"commentId": comment.ID}))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if comments.comments[comment.ID].Content != "original" {
		t.Fatal("expected comment untouched after forbidden update")
	}
}

func TestUpdateCommentOwnerEditsContent(t *testing.T) {
	comment := models.Comment{ID: uuid.NewString(), Owner: bobID, VideoID: uuid.NewString(), Content: "original"}
	comments := newFakeCommentStore(comment)
	handler := CommentHandler{Comments: comments, Videos: newFakeVideoStore()}

	rec := httptest.NewRecorder()
	body := map[string]string{"content": "edited"}
	handler.Update(rec, newRequest(t, http.MethodPatch, "/api/v1/comments/"+comment.ID, body, bobID, map[string]string{"commentId": comment.ID}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if comments.comments[comment.ID].Content != "edited" {
		t.Fatalf("expected content updated, got %q", comments.comments[comment.ID].Content)
	}
}

func TestDeleteCommentOwnerOnly(t *testing.T) {
	comment := models.Comment{ID: uuid.NewString(), Owner: bobID, VideoID: uuid.NewString(), Content: "bye"}
	comments := newFakeCommentStore(comment)
	handler := CommentHandler{Comments: comments, Videos: newFakeVideoStore()}

	rec := httptest.NewRecorder()
	handler.Delete(rec, newRequest(t, http.MethodDelete, "/api/v1/comments/"+comment.ID, nil, carolID, map[string]string{"commentId": comment.ID}))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Delete(rec, newRequest(t, http.MethodDelete, "/api/v1/comments/"+comment.ID, nil, bobID, map[string]string{"commentId": comment.ID}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", rec.Code)
	}
	if _, ok := comments.comments[comment.ID]; ok {
		t.Fatal("expected comment removed")
	}
}
