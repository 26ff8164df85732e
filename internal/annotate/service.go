package annotate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pluma-social/pluma/internal/models"
)

// Service extracts mentions and tags from post text and reconciles them
// against the persisted mention/tag rows, idempotently. All methods run
// against the caller's transaction: the post mutation and its
// annotations commit or roll back as one unit.
type Service struct {
	logger *zap.Logger
}

// NewService creates a new annotation service
func NewService(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// ReconcileMentions records a mention row for every unique @username in
// text that resolves to an active account, skipping the author's own
// username and pairs already recorded for this post. Unknown usernames
// and per-token lookup failures are skipped, not propagated. Returns
// the accounts that ended up mentioned, new or pre-existing.
func (s *Service) ReconcileMentions(ctx context.Context, tx *gorm.DB, postID int64, text string, authorID int64) ([]*models.Account, error) {
	usernames := uniqueInOrder(ExtractMentions(text))
	if len(usernames) == 0 {
		return nil, nil
	}

	mentioned := make([]*models.Account, 0, len(usernames))
	for _, username := range usernames {
		var account models.Account
		err := tx.WithContext(ctx).
			Where("username = ? AND active", username).
			First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			// One bad token must not block the whole batch.
			s.logger.Warn("Skipping unresolvable mention",
				zap.String("username", username),
				zap.Int64("post_id", postID),
				zap.Error(err))
			continue
		}
		if account.ID == authorID {
			// No self-notification.
			continue
		}

		var existing models.Mention
		err = tx.WithContext(ctx).
			Where("user_id = ? AND post_id = ?", account.ID, postID).
			First(&existing).Error
		if err == nil {
			mentioned = append(mentioned, &account)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing mention: %w", err)
		}

		mention := &models.Mention{
			UserID:      account.ID,
			PostID:      postID,
			NotifViewed: false,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.WithContext(ctx).Create(mention).Error; err != nil {
			return nil, fmt.Errorf("failed to create mention: %w", err)
		}
		mentioned = append(mentioned, &account)
	}

	return mentioned, nil
}

// ReconcileTags upserts a canonical Tag for every unique hashtag in text
// and links it to the post. Tag rows are shared across posts; the join
// row is created at most once per pair.
func (s *Service) ReconcileTags(ctx context.Context, tx *gorm.DB, postID int64, text string) ([]*models.Tag, error) {
	texts := uniqueInOrder(ExtractTags(text))
	if len(texts) == 0 {
		return nil, nil
	}

	tags := make([]*models.Tag, 0, len(texts))
	for _, t := range texts {
		var tag models.Tag
		err := tx.WithContext(ctx).Where("text = ?", t).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{Text: t, CreatedAt: time.Now().UTC()}
			if err := tx.WithContext(ctx).Create(&tag).Error; err != nil {
				return nil, fmt.Errorf("failed to create tag %q: %w", t, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to look up tag %q: %w", t, err)
		}

		link := &models.PostTag{PostID: postID, TagID: tag.ID}
		if err := tx.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(link).Error; err != nil {
			return nil, fmt.Errorf("failed to link tag %q: %w", t, err)
		}

		tagCopy := tag
		tags = append(tags, &tagCopy)
	}

	return tags, nil
}

// ReplaceAnnotations drops every mention and tag link recorded for the
// post and re-reconciles against newText. This is a full replace, not a
// diff: a recreated mention starts unseen again.
func (s *Service) ReplaceAnnotations(ctx context.Context, tx *gorm.DB, postID int64, newText string, authorID int64) ([]*models.Account, []*models.Tag, error) {
	if err := tx.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.Mention{}).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to clear mentions: %w", err)
	}
	if err := tx.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.PostTag{}).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to clear tag links: %w", err)
	}

	mentions, err := s.ReconcileMentions(ctx, tx, postID, newText, authorID)
	if err != nil {
		return nil, nil, err
	}
	tags, err := s.ReconcileTags(ctx, tx, postID, newText)
	if err != nil {
		return nil, nil, err
	}
	return mentions, tags, nil
}
