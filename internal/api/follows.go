package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pluma-social/pluma/internal/social"
)

// follow creates a follow edge from the actor to :id. Pending when the
// target is private.
func (r *Router) follow(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	edge, err := r.follows.RequestFollow(c.Request.Context(), Actor(c), targetID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": social.FollowResultMessage(edge),
		"pending": edge.Pending,
	})
}

// unfollow removes the actor's edge toward :id. Covers unfollow and
// cancel-request; rejecting a request goes through the same service
// operation with the pair reversed.
func (r *Router) unfollow(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := r.follows.RemoveFollow(c.Request.Context(), Actor(c), targetID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

// removeFollower deletes the edge from :id toward the actor. Rejecting
// a pending request and removing an established follower are the same
// operation on the reversed pair.
func (r *Router) removeFollower(c *gin.Context) {
	followerID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := r.follows.RemoveFollow(c.Request.Context(), followerID, Actor(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Follower removed"})
}

// acceptFollow approves the pending request from :id to the actor.
func (r *Router) acceptFollow(c *gin.Context) {
	requesterID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := r.follows.AcceptRequest(c.Request.Context(), Actor(c), requesterID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Follow request accepted"})
}
