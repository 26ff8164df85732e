package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pluma-social/pluma/internal/db"
	"github.com/pluma-social/pluma/internal/models"
	"github.com/pluma-social/pluma/internal/social"
)

// getUser returns a profile plus the actor's follow status toward it.
func (r *Router) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	ctx := c.Request.Context()
	accountRepo := db.NewAccountRepository(db.NewRepository(r.db.DB))
	account, err := accountRepo.GetActiveByID(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if account == nil {
		writeError(c, social.ErrNotFound)
		return
	}

	view := gin.H{"user": accountView(account)}
	if actor := Actor(c); actor != 0 {
		status, err := r.follows.Status(ctx, actor, account.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		view["follow_status"] = string(status)
	}

	c.JSON(http.StatusOK, view)
}

// listFollowers returns a page of the account's confirmed followers.
func (r *Router) listFollowers(c *gin.Context) {
	r.listFollowPage(c, r.follows.ListFollowers)
}

// listFollowing returns a page of accounts the owner follows.
func (r *Router) listFollowing(c *gin.Context) {
	r.listFollowPage(c, r.follows.ListFollowing)
}

// listFollowPage gates the owner's follow lists behind the private
// account visibility rule, then serves one page.
func (r *Router) listFollowPage(c *gin.Context, list func(context.Context, int64, int, int) ([]*models.Account, error)) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	ctx := c.Request.Context()
	accountRepo := db.NewAccountRepository(db.NewRepository(r.db.DB))
	owner, err := accountRepo.GetActiveByID(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if owner == nil {
		writeError(c, social.ErrNotFound)
		return
	}

	visible, err := r.follows.CanView(ctx, Actor(c), owner.ID, owner.Private)
	if err != nil {
		writeError(c, err)
		return
	}
	if !visible {
		writeError(c, social.ErrAccessDenied)
		return
	}

	page, limit := r.pageParams(c)
	accounts, err := list(ctx, owner.ID, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": accountViews(accounts),
		"page":     page,
		"limit":    limit,
	})
}

// listUserPosts returns a page of the account's root posts, visibility
// gated inside the post service.
func (r *Router) listUserPosts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	page, limit := r.pageParams(c)
	posts, err := r.posts.UserPosts(c.Request.Context(), Actor(c), id, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": postViews(posts),
		"page":  page,
		"limit": limit,
	})
}
