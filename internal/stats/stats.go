// Package stats composes a channel's dashboard numbers from independent
// aggregate queries.
package stats

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/models"
)

// Source supplies the individual aggregates. Each call must resolve to 0 on
// an empty collection rather than failing.
type Source interface {
	CountVideos(ctx context.Context, ownerID string) (int64, error)
	SumVideoViews(ctx context.Context, ownerID string) (int64, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountLikesReceived(ctx context.Context, ownerID string, kind models.LikeTargetKind) (int64, error)
}

// Collector runs the rollup for channel dashboards.
type Collector struct {
	source Source
}

// NewCollector constructs a Collector over the provided aggregate source.
func NewCollector(source Source) *Collector {
	if source == nil {
		panic("stats: source must not be nil")
	}
	return &Collector{source: source}
}

// ChannelStats gathers a channel's totals. The aggregates have no data
// dependency on one another, so they run concurrently; the first failure
// cancels the rest through the group context and fails the whole rollup, so
// a partial result is never returned.
func (c *Collector) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	var result models.ChannelStats

	ctx, span := logging.StartSpan(ctx, "stats.channel")
	defer span.End()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := c.source.CountVideos(ctx, channelID)
		if err != nil {
			return fmt.Errorf("total videos: %w", err)
		}
		result.TotalVideos = n
		return nil
	})

	g.Go(func() error {
		n, err := c.source.CountSubscribers(ctx, channelID)
		if err != nil {
			return fmt.Errorf("total subscribers: %w", err)
		}
		result.TotalSubscribers = n
		return nil
	})

	g.Go(func() error {
		n, err := c.source.SumVideoViews(ctx, channelID)
		if err != nil {
			return fmt.Errorf("total views: %w", err)
		}
		result.TotalViews = n
		return nil
	})

	g.Go(func() error {
		n, err := c.source.CountLikesReceived(ctx, channelID, models.LikeTargetVideo)
		if err != nil {
			return fmt.Errorf("total video likes: %w", err)
		}
		result.TotalLikes = n
		return nil
	})

	g.Go(func() error {
		n, err := c.source.CountLikesReceived(ctx, channelID, models.LikeTargetTweet)
		if err != nil {
			return fmt.Errorf("total tweet likes: %w", err)
		}
		result.TotalTweetLikes = n
		return nil
	})

	g.Go(func() error {
		n, err := c.source.CountLikesReceived(ctx, channelID, models.LikeTargetComment)
		if err != nil {
			return fmt.Errorf("total comment likes: %w", err)
		}
		result.TotalCommentLikes = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.ChannelStats{}, err
	}

	return result, nil
}
