package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/banterhq/banter/internal/domain"
)

// GormSocialRepository implements SocialRepository using GORM.
type GormSocialRepository struct {
	db *gorm.DB
}

// NewGormSocialRepository creates a new GORM-backed social repository.
func NewGormSocialRepository(db *gorm.DB) *GormSocialRepository {
	return &GormSocialRepository{db: db}
}

// CreateRequest persists a pending friend request. One row exists per
// ordered (from, to) pair: a declined row is reset to pending so the request
// can be re-sent, while a pending or accepted row conflicts.
func (r *GormSocialRepository) CreateRequest(ctx context.Context, req *domain.FriendRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.FriendRequestModel
		err := tx.Where("from_user_id = ? AND to_user_id = ?", req.FromUserID, req.ToUserID).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.Status != string(domain.RequestDeclined) {
				return ErrDuplicateRequest
			}
			// Re-send after decline: flip the existing row back to pending.
			res := tx.Model(&existing).Update("status", string(domain.RequestPending))
			if res.Error != nil {
				return res.Error
			}
			req.ID = existing.ID
			req.CreatedAt = existing.CreatedAt
			req.Status = domain.RequestPending
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			model := domain.RequestToModel(req)
			if err := tx.Create(model).Error; err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicateRequest
				}
				return err
			}
			req.CreatedAt = model.CreatedAt
			return nil

		default:
			return err
		}
	})
}

// GetPendingRequest returns the pending request with the given id addressed
// to toUserID.
func (r *GormSocialRepository) GetPendingRequest(ctx context.Context, id, toUserID string) (*domain.FriendRequest, error) {
	var model domain.FriendRequestModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND to_user_id = ? AND status = ?", id, toUserID, string(domain.RequestPending)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListPendingRequests returns pending requests addressed to toUserID, oldest
// first.
func (r *GormSocialRepository) ListPendingRequests(ctx context.Context, toUserID string) ([]domain.FriendRequest, error) {
	var models []domain.FriendRequestModel
	err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", toUserID, string(domain.RequestPending)).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	reqs := make([]domain.FriendRequest, 0, len(models))
	for i := range models {
		reqs = append(reqs, *models[i].ToDomain())
	}
	return reqs, nil
}

// UpdateRequestStatus moves a request to a terminal state.
func (r *GormSocialRepository) UpdateRequestStatus(ctx context.Context, id string, status domain.FriendRequestStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.FriendRequestModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// CreateFriendship stores the canonical pair idempotently.
func (r *GormSocialRepository) CreateFriendship(ctx context.Context, userA, userB string) error {
	u1, u2 := domain.CanonicalPair(userA, userB)
	model := domain.FriendshipModel{User1ID: u1, User2ID: u2}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error
	if err != nil && !isUniqueViolation(err) {
		return err
	}
	return nil
}

// ListFriendships returns every friendship row containing userID, from either
// canonical side.
func (r *GormSocialRepository) ListFriendships(ctx context.Context, userID string) ([]domain.Friendship, error) {
	var models []domain.FriendshipModel
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	friendships := make([]domain.Friendship, 0, len(models))
	for i := range models {
		friendships = append(friendships, *models[i].ToDomain())
	}
	return friendships, nil
}

var _ SocialRepository = (*GormSocialRepository)(nil)
