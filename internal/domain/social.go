package domain

import "time"

// FriendRequestStatus is the lifecycle state of a friend request.
type FriendRequestStatus string

const (
	RequestPending  FriendRequestStatus = "pending"
	RequestAccepted FriendRequestStatus = "accepted"
	RequestDeclined FriendRequestStatus = "declined"
)

// Response actions accepted by the respond endpoint.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

// FriendRequest is a directed request from one user to another.
type FriendRequest struct {
	ID         string              `json:"id"`
	FromUserID string              `json:"from_user_id"`
	ToUserID   string              `json:"to_user_id"`
	Status     FriendRequestStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

// FriendRequestView is the projection of an incoming request in API responses.
type FriendRequestView struct {
	ID        string      `json:"id"`
	From      UserPayload `json:"from"`
	CreatedAt time.Time   `json:"created_at"`
}

// Friendship is an unordered user pair stored in canonical order:
// User1ID < User2ID, so the same relation never rows twice.
type Friendship struct {
	User1ID   string    `json:"user1_id"`
	User2ID   string    `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CanonicalPair orders two user ids so the smaller one comes first.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Other returns the friend's id as seen from userID's side of the pair.
func (f *Friendship) Other(userID string) string {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}
