package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/videotube/backend/internal/models"
)

func TestToggleSubscriptionFlipsState(t *testing.T) {
	subs := newFakeSubscriptionStore()
	handler := SubscriptionHandler{Subscriptions: subs}

	do := func() (*httptest.ResponseRecorder, subscriptionPayload) {
		rec := httptest.NewRecorder()
		handler.Toggle(rec, newRequest(t, http.MethodPost, "/api/v1/subscriptions/"+bobID, nil, aliceID, map[string]string{"channelId": bobID}))
		var payload subscriptionPayload
		decodeData(t, decodeEnvelope(t, rec), &payload)
		return rec, payload
	}

	rec, payload := do()
	if rec.Code != http.StatusOK || !payload.Subscribed {
		t.Fatalf("expected first toggle to subscribe, got %d %+v", rec.Code, payload)
	}

	rec, payload = do()
	if rec.Code != http.StatusOK || payload.Subscribed {
		t.Fatalf("expected second toggle to unsubscribe, got %d %+v", rec.Code, payload)
	}
}

func TestToggleSubscriptionRejectsSelf(t *testing.T) {
	subs := newFakeSubscriptionStore()
	handler := SubscriptionHandler{Subscriptions: subs}

	rec := httptest.NewRecorder()
	handler.Toggle(rec, newRequest(t, http.MethodPost, "/api/v1/subscriptions/"+aliceID, nil, aliceID, map[string]string{"channelId": aliceID}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self-subscription, got %d", rec.Code)
	}
	if len(subs.subscribed) != 0 {
		t.Fatal("expected no subscription recorded")
	}
}

func TestToggleSubscriptionRejectsMalformedChannel(t *testing.T) {
	handler := SubscriptionHandler{Subscriptions: newFakeSubscriptionStore()}

	rec := httptest.NewRecorder()
	handler.Toggle(rec, newRequest(t, http.MethodPost, "/api/v1/subscriptions/nope", nil, aliceID, map[string]string{"channelId": "nope"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListSubscribersProjectsMembers(t *testing.T) {
	subs := newFakeSubscriptionStore()
	subs.members[bobID] = []models.Owner{
		{ID: aliceID, FullName: "Alice Example", Email: "alice@example.com"},
		{ID: carolID, FullName: "Carol Example", Email: "carol@example.com"},
	}
	handler := SubscriptionHandler{Subscriptions: subs}

	rec := httptest.NewRecorder()
	handler.ListSubscribers(rec, newRequest(t, http.MethodGet, "/api/v1/channels/"+bobID+"/subscribers", nil, "", map[string]string{"channelId": bobID}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var payload struct {
		Members    []models.Owner `json:"members"`
		TotalCount int64          `json:"totalCount"`
	}
	decodeData(t, env, &payload)

	if payload.TotalCount != 2 || len(payload.Members) != 2 {
		t.Fatalf("expected 2 subscribers, got %+v", payload)
	}
	if payload.Members[0].FullName != "Alice Example" || payload.Members[0].Email != "alice@example.com" {
		t.Fatalf("expected full name and email projection, got %+v", payload.Members[0])
	}
}

func TestListChannelsEmptyIsSuccess(t *testing.T) {
	handler := SubscriptionHandler{Subscriptions: newFakeSubscriptionStore()}

	rec := httptest.NewRecorder()
	handler.ListChannels(rec, newRequest(t, http.MethodGet, "/api/v1/users/"+aliceID+"/subscriptions", nil, "", map[string]string{"subscriberId": aliceID}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty subscription list, got %d", rec.Code)
	}

	// Clients rely on members always being a list, so the wire form must be
	// [] even when the store hands back a nil slice.
	if body := rec.Body.String(); !strings.Contains(body, `"members":[]`) {
		t.Fatalf("expected empty members array in body, got %s", body)
	}

	env := decodeEnvelope(t, rec)
	var payload struct {
		Members    []models.Owner `json:"members"`
		TotalCount int64          `json:"totalCount"`
	}
	decodeData(t, env, &payload)

	if payload.Members == nil || payload.TotalCount != 0 {
		t.Fatalf("expected empty members slice, got %+v", payload)
	}
}

func TestListSubscribersEmptyIsSuccess(t *testing.T) {
	handler := SubscriptionHandler{Subscriptions: newFakeSubscriptionStore()}

	rec := httptest.NewRecorder()
	handler.ListSubscribers(rec, newRequest(t, http.MethodGet, "/api/v1/channels/"+bobID+"/subscribers", nil, "", map[string]string{"channelId": bobID}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty subscriber list, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"members":[]`) {
		t.Fatalf("expected empty members array in body, got %s", body)
	}
}
