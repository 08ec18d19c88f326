package domain

import "time"

// FriendRequestModel is the GORM model for the friend_requests table.
// The composite unique index keeps one row per ordered (from, to) pair;
// a declined row is reset to pending on re-send rather than duplicated.
type FriendRequestModel struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	FromUserID string    `gorm:"column:from_user_id;type:varchar(36);not null;uniqueIndex:idx_from_to"`
	ToUserID   string    `gorm:"column:to_user_id;type:varchar(36);not null;uniqueIndex:idx_from_to"`
	Status     string    `gorm:"type:varchar(20);index;not null;default:'pending'"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (FriendRequestModel) TableName() string { return "friend_requests" }

func (m *FriendRequestModel) ToDomain() *FriendRequest {
	return &FriendRequest{
		ID:         m.ID,
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		Status:     FriendRequestStatus(m.Status),
		CreatedAt:  m.CreatedAt,
	}
}

func RequestToModel(r *FriendRequest) *FriendRequestModel {
	return &FriendRequestModel{
		ID:         r.ID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}

// FriendshipModel is the GORM model for the friendships table.
// Rows are stored in canonical order (user1_id < user2_id).
type FriendshipModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	User1ID   string    `gorm:"column:user1_id;type:varchar(36);not null;uniqueIndex:idx_user_pair"`
	User2ID   string    `gorm:"column:user2_id;type:varchar(36);not null;uniqueIndex:idx_user_pair;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FriendshipModel) TableName() string { return "friendships" }

func (m *FriendshipModel) ToDomain() *Friendship {
	return &Friendship{
		User1ID:   m.User1ID,
		User2ID:   m.User2ID,
		CreatedAt: m.CreatedAt,
	}
}
