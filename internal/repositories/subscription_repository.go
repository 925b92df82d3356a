package repositories

import (
	"context"

	"github.com/videotube/backend/internal/models"
)

// SubscriptionRepository exposes the subscription toggle and the two graph
// traversals over the subscriber/channel relation.
type SubscriptionRepository interface {
	// Toggle subscribes if no subscription exists and unsubscribes otherwise,
	// returning whether the subscription exists after the call.
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	// ListSubscribers returns the users following the channel, projected to
	// public fields, plus the total (0 on empty, never an error).
	ListSubscribers(ctx context.Context, channelID string) ([]models.Owner, int64, error)
	// ListChannels returns the channels the user follows, projected to public
	// fields, plus the total.
	ListChannels(ctx context.Context, subscriberID string) ([]models.Owner, int64, error)
}
