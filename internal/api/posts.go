package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pluma-social/pluma/internal/models"
	"github.com/pluma-social/pluma/pkg/telemetry"
)

type createPostRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *int64 `json:"parent_id"`
}

type editPostRequest struct {
	Content string `json:"content" binding:"required"`
}

// createPost creates a post or a reply when parent_id is given.
func (r *Router) createPost(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "api.create_post")
	defer span.End()

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	actor := Actor(c)
	result, err := r.posts.CreatePost(ctx, actor, req.Content, req.ParentID, "")
	if err != nil {
		writeError(c, err)
		return
	}

	r.invalidateTimeline(ctx, actor)

	c.JSON(http.StatusCreated, gin.H{
		"post":     postView(result.Post),
		"mentions": mentionHandles(result.Mentions),
		"tags":     tagTexts(result.Tags),
	})
}

// getPost returns a single post, visibility gated.
func (r *Router) getPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	post, err := r.posts.GetPost(c.Request.Context(), Actor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": postView(post)})
}

// editPost replaces the content and recomputes annotations.
func (r *Router) editPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req editPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	actor := Actor(c)
	result, err := r.posts.EditPost(c.Request.Context(), actor, id, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	r.invalidateTimeline(c.Request.Context(), actor)

	c.JSON(http.StatusOK, gin.H{
		"post":     postView(result.Post),
		"mentions": mentionHandles(result.Mentions),
		"tags":     tagTexts(result.Tags),
	})
}

// deletePost soft-deletes the post and its direct replies.
func (r *Router) deletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	actor := Actor(c)
	if err := r.posts.DeletePost(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}

	r.invalidateTimeline(c.Request.Context(), actor)

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// getThread returns the reply tree below a post.
func (r *Router) getThread(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	node, err := r.posts.Thread(c.Request.Context(), Actor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"thread": threadView(node)})
}

// toggleLike flips the actor's like on the post.
func (r *Router) toggleLike(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	liked, err := r.posts.ToggleLike(c.Request.Context(), Actor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func mentionHandles(accounts []*models.Account) []string {
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, "@"+a.Username)
	}
	return out
}

func tagTexts(tags []*models.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Text)
	}
	return out
}
