package social

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pluma-social/pluma/internal/db"
	"github.com/pluma-social/pluma/internal/models"
)

// Human-facing results for a follow request, depending on whether the
// target account requires approval.
const (
	MsgFollowRequestSent = "Follow request sent"
	MsgFollowed          = "User followed successfully"
)

// FollowService owns the directed follow relation between accounts and
// answers visibility queries.
type FollowService struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewFollowService creates a new follow service
func NewFollowService(repo *db.Repository, logger *zap.Logger) *FollowService {
	return &FollowService{
		repo:   repo,
		logger: logger,
	}
}

// RequestFollow creates a follow edge from follower to target. The edge
// starts pending when the target account is private at creation time;
// later privacy changes do not alter existing edges.
func (s *FollowService) RequestFollow(ctx context.Context, followerID, targetID int64) (*models.Follow, error) {
	if followerID == targetID {
		return nil, ErrSelfFollow
	}

	accountRepo := db.NewAccountRepository(s.repo)
	target, err := accountRepo.GetActiveByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up target account: %w", err)
	}
	if target == nil {
		return nil, ErrNotFound
	}

	followRepo := db.NewFollowRepository(s.repo)
	existing, err := followRepo.Get(ctx, followerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing follow: %w", err)
	}
	if existing != nil {
		return nil, &AlreadyFollowingError{State: edgeState(existing)}
	}

	now := time.Now().UTC()
	follow := &models.Follow{
		FollowerID:  followerID,
		AccountID:   targetID,
		Pending:     target.Private,
		Active:      true,
		NotifViewed: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := followRepo.Create(ctx, follow); err != nil {
		// The composite primary key serializes concurrent requests for
		// the same pair: if another writer won the race, report the
		// edge it created instead of the constraint violation.
		if winner, getErr := followRepo.Get(ctx, followerID, targetID); getErr == nil && winner != nil {
			return nil, &AlreadyFollowingError{State: edgeState(winner)}
		}
		return nil, fmt.Errorf("failed to create follow: %w", err)
	}

	s.logger.Debug("Created follow edge",
		zap.Int64("follower_id", followerID),
		zap.Int64("account_id", targetID),
		zap.Bool("pending", follow.Pending))

	return follow, nil
}

// RemoveFollow deletes the edge for the pair unconditionally. The
// direction of the pair carries the semantic meaning: removal by the
// follower is an unfollow or request cancel, removal by the account
// holder is a reject or follower removal.
func (s *FollowService) RemoveFollow(ctx context.Context, followerID, targetID int64) error {
	followRepo := db.NewFollowRepository(s.repo)
	rows, err := followRepo.Delete(ctx, followerID, targetID)
	if err != nil {
		return fmt.Errorf("failed to remove follow: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("Removed follow edge",
		zap.Int64("follower_id", followerID),
		zap.Int64("account_id", targetID))

	return nil
}

// AcceptRequest approves a pending follow request from requester to
// target. A second accept for the same edge returns ErrNotFound.
func (s *FollowService) AcceptRequest(ctx context.Context, targetID, requesterID int64) error {
	followRepo := db.NewFollowRepository(s.repo)
	follow, err := followRepo.Get(ctx, requesterID, targetID)
	if err != nil {
		return fmt.Errorf("failed to look up follow request: %w", err)
	}
	if follow == nil || !follow.Pending || !follow.Active {
		return ErrNotFound
	}

	follow.Pending = false
	follow.UpdatedAt = time.Now().UTC()
	if err := followRepo.Update(ctx, follow); err != nil {
		return fmt.Errorf("failed to accept follow request: %w", err)
	}

	s.logger.Debug("Accepted follow request",
		zap.Int64("follower_id", requesterID),
		zap.Int64("account_id", targetID))

	return nil
}

// Status reports the viewer's relation to the target account.
func (s *FollowService) Status(ctx context.Context, viewerID, targetID int64) (models.FollowStatus, error) {
	if viewerID == targetID {
		return models.StatusSelf, nil
	}

	followRepo := db.NewFollowRepository(s.repo)
	follow, err := followRepo.Get(ctx, viewerID, targetID)
	if err != nil {
		return "", fmt.Errorf("failed to look up follow: %w", err)
	}
	if follow == nil {
		return models.StatusNotFollowing, nil
	}
	return edgeState(follow), nil
}

// CanView reports whether the viewer may see the owner's content. Public
// owners are visible to everyone; private owners only to themselves and
// to confirmed followers.
func (s *FollowService) CanView(ctx context.Context, viewerID, ownerID int64, ownerPrivate bool) (bool, error) {
	if !ownerPrivate || viewerID == ownerID {
		return true, nil
	}

	followRepo := db.NewFollowRepository(s.repo)
	follow, err := followRepo.Get(ctx, viewerID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to look up follow: %w", err)
	}
	return follow != nil && follow.Active && !follow.Pending, nil
}

// ListFollowers returns a page of active accounts following the owner
// through confirmed edges. Callers must have checked CanView first for
// private owners.
func (s *FollowService) ListFollowers(ctx context.Context, ownerID int64, page, limit int) ([]*models.Account, error) {
	offset, err := pageOffset(page, limit)
	if err != nil {
		return nil, err
	}
	followRepo := db.NewFollowRepository(s.repo)
	return followRepo.ListFollowers(ctx, ownerID, offset, limit)
}

// ListFollowing returns a page of active accounts the owner follows
// through confirmed edges.
func (s *FollowService) ListFollowing(ctx context.Context, ownerID int64, page, limit int) ([]*models.Account, error) {
	offset, err := pageOffset(page, limit)
	if err != nil {
		return nil, err
	}
	followRepo := db.NewFollowRepository(s.repo)
	return followRepo.ListFollowing(ctx, ownerID, offset, limit)
}

// FollowResultMessage returns the human-facing status for a newly
// created edge.
func FollowResultMessage(f *models.Follow) string {
	if f.Pending {
		return MsgFollowRequestSent
	}
	return MsgFollowed
}

func edgeState(f *models.Follow) models.FollowStatus {
	if f.Pending {
		return models.StatusPending
	}
	if f.Active {
		return models.StatusFollowing
	}
	return models.StatusNotFollowing
}

func pageOffset(page, limit int) (int, error) {
	if page < 1 || limit < 1 {
		return 0, fmt.Errorf("%w: page and limit must be positive", ErrValidation)
	}
	return (page - 1) * limit, nil
}
