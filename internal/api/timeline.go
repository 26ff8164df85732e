package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pluma-social/pluma/internal/cache"
	"github.com/pluma-social/pluma/pkg/telemetry"
)

// timeline serves a page of posts from the actor and the accounts the
// actor follows. Pages are cached per viewer; mutations by the viewer
// invalidate their cached pages.
func (r *Router) timeline(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "api.timeline")
	defer span.End()

	actor := Actor(c)
	page, limit := r.pageParams(c)
	key := cache.TimelineKey(actor, page, limit)

	if cached, err := r.cache.Get(ctx, key); err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	}

	posts, err := r.posts.Timeline(ctx, actor, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	body := gin.H{
		"posts": postViews(posts),
		"page":  page,
		"limit": limit,
	}

	if encoded, err := json.Marshal(body); err == nil {
		if err := r.cache.Set(ctx, key, encoded, r.feed.TimelineTTL); err != nil && err != cache.ErrCacheDisabled {
			r.logger.Warn("Failed to cache timeline page", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, body)
}

// invalidateTimeline drops the viewer's cached timeline pages after a
// post mutation. Only the author's own pages are invalidated eagerly;
// followers keep serving their cached pages until TimelineTTL expires,
// so that TTL is the staleness bound for seeing another author's
// mutation.
func (r *Router) invalidateTimeline(ctx context.Context, viewerID int64) {
	err := r.cache.DeletePrefix(ctx, fmt.Sprintf("timeline:%d:", viewerID))
	if err != nil && err != cache.ErrCacheDisabled {
		r.logger.Warn("Failed to invalidate timeline cache",
			zap.Int64("viewer_id", viewerID),
			zap.Error(err))
	}
}
