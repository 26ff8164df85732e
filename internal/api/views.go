package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pluma-social/pluma/internal/models"
	"github.com/pluma-social/pluma/internal/social"
)

// AccountView is the wire shape for an account
type AccountView struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Private     bool   `json:"private"`
}

// PostView is the wire shape for a post
type PostView struct {
	ID          int64     `json:"id"`
	AuthorID    int64     `json:"author_id"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ThreadView is the wire shape for a reply tree node
type ThreadView struct {
	Post    PostView     `json:"post"`
	Replies []ThreadView `json:"replies"`
}

func accountView(a *models.Account) AccountView {
	return AccountView{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName.String,
		Bio:         a.Bio.String,
		AvatarURL:   a.AvatarURL,
		Private:     a.Private,
	}
}

func accountViews(accounts []*models.Account) []AccountView {
	out := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountView(a))
	}
	return out
}

func postView(p *models.Post) PostView {
	v := PostView{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		Content:     p.Content,
		MessageType: p.MessageType,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ParentID.Valid {
		parent := p.ParentID.Int64
		v.ParentID = &parent
	}
	return v
}

func postViews(posts []*models.Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, postView(p))
	}
	return out
}

func threadView(n *social.ThreadNode) ThreadView {
	v := ThreadView{
		Post:    postView(n.Post),
		Replies: make([]ThreadView, 0, len(n.Replies)),
	}
	for _, child := range n.Replies {
		v.Replies = append(v.Replies, threadView(child))
	}
	return v
}

// pageParams parses page/limit query parameters against the feed caps.
func (r *Router) pageParams(c *gin.Context) (page, limit int) {
	page = 1
	limit = r.feed.DefaultPageSize

	if raw := c.Query("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			page = p
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > r.feed.MaxPageSize {
		limit = r.feed.MaxPageSize
	}
	return page, limit
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
