package social

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pluma-social/pluma/internal/annotate"
	"github.com/pluma-social/pluma/internal/db"
	"github.com/pluma-social/pluma/internal/models"
)

// PostResult bundles a post mutation with the annotations it produced.
type PostResult struct {
	Post     *models.Post
	Mentions []*models.Account
	Tags     []*models.Tag
}

// ThreadNode is one post in an assembled reply tree.
type ThreadNode struct {
	Post    *models.Post
	Replies []*ThreadNode
}

// PostService orchestrates post mutations: each create/edit runs in one
// transaction together with mention and tag reconciliation.
type PostService struct {
	repo     *db.Repository
	follows  *FollowService
	annotate *annotate.Service
	logger   *zap.Logger
	maxDepth int
}

// NewPostService creates a new post service
func NewPostService(repo *db.Repository, follows *FollowService, ann *annotate.Service, logger *zap.Logger, maxThreadDepth int) *PostService {
	return &PostService{
		repo:     repo,
		follows:  follows,
		annotate: ann,
		logger:   logger,
		maxDepth: maxThreadDepth,
	}
}

// CreatePost creates a post or, when parentID is set, a reply. Both
// entry points call this one function with explicit arguments. Replies
// require the parent to be active and visible to the author.
func (s *PostService) CreatePost(ctx context.Context, authorID int64, content string, parentID *int64, messageType string) (*PostResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrValidation)
	}
	if messageType == "" {
		messageType = models.MessageTypePost
		if parentID != nil {
			messageType = models.MessageTypeReply
		}
	}

	accountRepo := db.NewAccountRepository(s.repo)
	author, err := accountRepo.GetActiveByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up author: %w", err)
	}
	if author == nil {
		return nil, ErrNotFound
	}

	var parentRef sql.NullInt64
	if parentID != nil {
		postRepo := db.NewPostRepository(s.repo)
		parent, err := postRepo.GetActiveByID(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up parent post: %w", err)
		}
		if parent == nil {
			return nil, ErrNotFound
		}
		if err := s.checkPostVisible(ctx, authorID, parent); err != nil {
			return nil, err
		}
		parentRef = sql.NullInt64{Int64: parent.ID, Valid: true}
	}

	result := &PostResult{}
	err = s.repo.Gorm().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		post := &models.Post{
			AuthorID:    authorID,
			ParentID:    parentRef,
			Content:     content,
			MessageType: messageType,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}

		mentions, err := s.annotate.ReconcileMentions(ctx, tx, post.ID, content, authorID)
		if err != nil {
			return err
		}
		tags, err := s.annotate.ReconcileTags(ctx, tx, post.ID, content)
		if err != nil {
			return err
		}

		result.Post = post
		result.Mentions = mentions
		result.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Created post",
		zap.Int64("post_id", result.Post.ID),
		zap.Int64("author_id", authorID),
		zap.Int("mentions", len(result.Mentions)),
		zap.Int("tags", len(result.Tags)))

	return result, nil
}

// EditPost replaces the post content and recomputes its annotations from
// scratch in the same transaction. Only the author may edit.
func (s *PostService) EditPost(ctx context.Context, actorID, postID int64, newContent string) (*PostResult, error) {
	if strings.TrimSpace(newContent) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrValidation)
	}

	postRepo := db.NewPostRepository(s.repo)
	post, err := postRepo.GetActiveByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if post.AuthorID != actorID {
		return nil, ErrAccessDenied
	}

	result := &PostResult{}
	err = s.repo.Gorm().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post.Content = newContent
		post.UpdatedAt = time.Now().UTC()
		if err := tx.Save(post).Error; err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}

		mentions, tags, err := s.annotate.ReplaceAnnotations(ctx, tx, post.ID, newContent, post.AuthorID)
		if err != nil {
			return err
		}

		result.Post = post
		result.Mentions = mentions
		result.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeletePost soft-deletes a post and its direct replies. Only the
// author may delete.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID int64) error {
	postRepo := db.NewPostRepository(s.repo)
	post, err := postRepo.GetActiveByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to look up post: %w", err)
	}
	if post == nil {
		return ErrNotFound
	}
	if post.AuthorID != actorID {
		return ErrAccessDenied
	}

	err = s.repo.Gorm().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{"active": false, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		if err := tx.Model(&models.Post{}).
			Where("parent_id = ? AND active", post.ID).
			Updates(map[string]interface{}{"active": false, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("failed to delete replies: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Deleted post", zap.Int64("post_id", postID))
	return nil
}

// GetPost returns a post if it is active and its author's content is
// visible to the viewer.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID int64) (*models.Post, error) {
	postRepo := db.NewPostRepository(s.repo)
	post, err := postRepo.GetActiveByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if err := s.checkPostVisible(ctx, viewerID, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Thread assembles the reply tree below a root post with an explicit
// worklist and a visited set keyed by post id, bounded by maxDepth, so
// pathological parent cycles cannot recurse unboundedly.
func (s *PostService) Thread(ctx context.Context, viewerID, rootID int64) (*ThreadNode, error) {
	root, err := s.GetPost(ctx, viewerID, rootID)
	if err != nil {
		return nil, err
	}

	postRepo := db.NewPostRepository(s.repo)
	rootNode := &ThreadNode{Post: root}
	visited := map[int64]bool{root.ID: true}

	type workItem struct {
		node  *ThreadNode
		depth int
	}
	queue := []workItem{{node: rootNode, depth: 0}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.depth >= s.maxDepth {
			continue
		}

		replies, err := postRepo.ListReplies(ctx, item.node.Post.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list replies: %w", err)
		}
		for _, reply := range replies {
			if visited[reply.ID] {
				continue
			}
			visited[reply.ID] = true
			child := &ThreadNode{Post: reply}
			item.node.Replies = append(item.node.Replies, child)
			queue = append(queue, workItem{node: child, depth: item.depth + 1})
		}
	}

	return rootNode, nil
}

// ToggleLike flips the like state for (user, post): one row per pair,
// Active toggled, CreatedAt reset on re-like. Returns the resulting
// liked state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	if _, err := s.GetPost(ctx, userID, postID); err != nil {
		return false, err
	}

	var liked bool
	err := s.repo.Gorm().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likeRepo := db.NewLikeRepository(db.NewRepository(tx))
		existing, err := likeRepo.Get(ctx, userID, postID)
		if err != nil {
			return fmt.Errorf("failed to look up like: %w", err)
		}

		now := time.Now().UTC()
		if existing == nil {
			like := &models.Like{
				UserID:      userID,
				PostID:      postID,
				Active:      true,
				NotifViewed: false,
				CreatedAt:   now,
			}
			if err := tx.Create(like).Error; err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			liked = true
			return nil
		}

		existing.Active = !existing.Active
		if existing.Active {
			existing.CreatedAt = now
			existing.NotifViewed = false
		}
		if err := tx.Save(existing).Error; err != nil {
			return fmt.Errorf("failed to toggle like: %w", err)
		}
		liked = existing.Active
		return nil
	})
	if err != nil {
		return false, err
	}

	return liked, nil
}

// Timeline returns a page of active root posts by the viewer and the
// accounts the viewer follows through confirmed edges, newest first.
func (s *PostService) Timeline(ctx context.Context, viewerID int64, page, limit int) ([]*models.Post, error) {
	offset, err := pageOffset(page, limit)
	if err != nil {
		return nil, err
	}

	followRepo := db.NewFollowRepository(s.repo)
	authorIDs, err := followRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followed accounts: %w", err)
	}
	authorIDs = append(authorIDs, viewerID)

	postRepo := db.NewPostRepository(s.repo)
	return postRepo.ListByAuthors(ctx, authorIDs, offset, limit)
}

// UserPosts returns a page of an account's active root posts, gated by
// the owner's privacy.
func (s *PostService) UserPosts(ctx context.Context, viewerID, ownerID int64, page, limit int) ([]*models.Post, error) {
	offset, err := pageOffset(page, limit)
	if err != nil {
		return nil, err
	}

	accountRepo := db.NewAccountRepository(s.repo)
	owner, err := accountRepo.GetActiveByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if owner == nil {
		return nil, ErrNotFound
	}

	visible, err := s.follows.CanView(ctx, viewerID, owner.ID, owner.Private)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrAccessDenied
	}

	postRepo := db.NewPostRepository(s.repo)
	return postRepo.ListByAuthors(ctx, []int64{ownerID}, offset, limit)
}

// checkPostVisible denies access when the post author's account is
// missing, inactive, or private without a confirmed edge from viewer.
func (s *PostService) checkPostVisible(ctx context.Context, viewerID int64, post *models.Post) error {
	accountRepo := db.NewAccountRepository(s.repo)
	author, err := accountRepo.GetActiveByID(ctx, post.AuthorID)
	if err != nil {
		return fmt.Errorf("failed to look up post author: %w", err)
	}
	if author == nil {
		return ErrNotFound
	}

	visible, err := s.follows.CanView(ctx, viewerID, author.ID, author.Private)
	if err != nil {
		return err
	}
	if !visible {
		return ErrAccessDenied
	}
	return nil
}
