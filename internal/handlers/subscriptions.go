package handlers

import (
	"net/http"

	"github.com/videotube/backend/internal/guard"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/models"
)

// SubscriptionHandler implements the channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
}

// Toggle handles POST /api/v1/subscriptions/{channelId}. A user cannot
// subscribe to their own channel.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, err := guard.Canonical(r.PathValue("channelId"))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid channel id")
		return
	}

	callerID, err := guard.Canonical(middleware.CallerID(ctx))
	if err != nil {
		respondErr(ctx, w, http.StatusUnauthorized, "invalid caller identity")
		return
	}

	if callerID == channelID {
		respondErr(ctx, w, http.StatusBadRequest, "cannot subscribe to your own channel")
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, callerID, channelID)
	if err != nil {
		respondMapped(ctx, w, err, "failed to toggle subscription")
		return
	}

	message := "unsubscribed"
	if subscribed {
		message = "subscribed"
	}
	respond(ctx, w, http.StatusOK, subscriptionPayload{Subscribed: subscribed}, message)
}

// ListSubscribers handles GET /api/v1/channels/{channelId}/subscribers.
func (h SubscriptionHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, err := guard.Canonical(r.PathValue("channelId"))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid channel id")
		return
	}

	subscribers, total, err := h.Subscriptions.ListSubscribers(ctx, channelID)
	if err != nil {
		respondMapped(ctx, w, err, "failed to list subscribers")
		return
	}

	respond(ctx, w, http.StatusOK, newMemberPayload(subscribers, total), "subscribers fetched")
}

// ListChannels handles GET /api/v1/users/{subscriberId}/subscriptions.
func (h SubscriptionHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriberID, err := guard.Canonical(r.PathValue("subscriberId"))
	if err != nil {
		respondErr(ctx, w, http.StatusBadRequest, "invalid subscriber id")
		return
	}

	channels, total, err := h.Subscriptions.ListChannels(ctx, subscriberID)
	if err != nil {
		respondMapped(ctx, w, err, "failed to list subscribed channels")
		return
	}

	respond(ctx, w, http.StatusOK, newMemberPayload(channels, total), "subscribed channels fetched")
}

type subscriptionPayload struct {
	Subscribed bool `json:"subscribed"`
}

type memberPayload struct {
	Members    []models.Owner `json:"members"`
	TotalCount int64          `json:"totalCount"`
}

// newMemberPayload copies the member list into a fresh slice so an empty
// relation serializes as [] rather than null regardless of what the store
// returned.
func newMemberPayload(owners []models.Owner, total int64) memberPayload {
	members := make([]models.Owner, 0, len(owners))
	return memberPayload{Members: append(members, owners...), TotalCount: total}
}
