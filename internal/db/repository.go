package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pluma-social/pluma/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Gorm exposes the underlying connection for transactional work.
func (r *Repository) Gorm() *gorm.DB {
	return r.db
}

// AccountRepository provides account-related database operations
type AccountRepository struct {
	*Repository
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(repo *Repository) *AccountRepository {
	return &AccountRepository{Repository: repo}
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetActiveByID retrieves an account by ID, skipping deactivated accounts
func (r *AccountRepository) GetActiveByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active", id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetActiveByUsername retrieves an active account by its exact username
func (r *AccountRepository) GetActiveByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).
		Where("username = ? AND active", username).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// Update updates an account
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// FollowRepository provides follow-edge database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Get retrieves the edge for an ordered (follower, account) pair
func (r *FollowRepository) Get(ctx context.Context, followerID, accountID int64) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND account_id = ?", followerID, accountID).
		First(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &follow, nil
}

// Create inserts a new edge. The composite primary key rejects a second
// edge for the same pair.
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

// Update updates an edge
func (r *FollowRepository) Update(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Save(follow).Error
}

// Delete removes the edge for the pair entirely
func (r *FollowRepository) Delete(ctx context.Context, followerID, accountID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND account_id = ?", followerID, accountID).
		Delete(&models.Follow{})
	return res.RowsAffected, res.Error
}

// ListFollowers returns active accounts following the owner through
// confirmed (non-pending, active) edges.
func (r *FollowRepository) ListFollowers(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Joins("JOIN pluma_follows f ON f.follower_id = pluma_accounts.id").
		Where("f.account_id = ? AND f.active AND NOT f.pending AND pluma_accounts.active", ownerID).
		Order("f.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// ListFollowing returns active accounts the owner follows through
// confirmed edges.
func (r *FollowRepository) ListFollowing(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Joins("JOIN pluma_follows f ON f.account_id = pluma_accounts.id").
		Where("f.follower_id = ? AND f.active AND NOT f.pending AND pluma_accounts.active", ownerID).
		Order("f.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// FollowingIDs returns the ids of accounts the viewer follows through
// confirmed edges, for feed assembly.
func (r *FollowRepository) FollowingIDs(ctx context.Context, viewerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND active AND NOT pending", viewerID).
		Pluck("account_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetActiveByID retrieves a post by ID, skipping soft-deleted posts
func (r *PostRepository) GetActiveByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active", id).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListByAuthors returns active root posts by the given authors, newest first
func (r *PostRepository) ListByAuthors(ctx context.Context, authorIDs []int64, offset, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("author_id IN ? AND active AND parent_id IS NULL", authorIDs).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListReplies returns active direct replies to a post, oldest first
func (r *PostRepository) ListReplies(ctx context.Context, parentID int64) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND active", parentID).
		Order("created_at ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// MentionRepository provides mention-related database operations
type MentionRepository struct {
	*Repository
}

// NewMentionRepository creates a new mention repository
func NewMentionRepository(repo *Repository) *MentionRepository {
	return &MentionRepository{Repository: repo}
}

// ListByPost returns the mentions recorded for a post
func (r *MentionRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Mention, error) {
	var mentions []*models.Mention
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Find(&mentions).Error; err != nil {
		return nil, err
	}
	return mentions, nil
}

// TagRepository provides tag-related database operations
type TagRepository struct {
	*Repository
}

// NewTagRepository creates a new tag repository
func NewTagRepository(repo *Repository) *TagRepository {
	return &TagRepository{Repository: repo}
}

// GetByText retrieves a tag by its canonical text
func (r *TagRepository) GetByText(ctx context.Context, text string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).
		Where("text = ?", text).
		First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// ListByPost returns the tags linked to a post
func (r *TagRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN pluma_post_tags pt ON pt.tag_id = pluma_tags.id").
		Where("pt.post_id = ?", postID).
		Order("pluma_tags.text ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// LikeRepository provides like-related database operations
type LikeRepository struct {
	*Repository
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(repo *Repository) *LikeRepository {
	return &LikeRepository{Repository: repo}
}

// Get retrieves the like row for a (user, post) pair
func (r *LikeRepository) Get(ctx context.Context, userID, postID int64) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

// CountByPost counts active likes on a post
func (r *LikeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ? AND active", postID).
		Count(&count).Error
	return count, err
}
