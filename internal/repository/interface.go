package repository

import (
	"context"
	"errors"

	"github.com/banterhq/banter/internal/domain"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSessionNotFound  = errors.New("chat session not found")
	ErrDuplicateURI     = errors.New("chat session uri already exists")
	ErrDuplicateRequest = errors.New("friend request already exists")
	ErrRequestNotFound  = errors.New("friend request not found")
)

// UserRepository exposes the user lookups the chat core needs. User identity
// is owned by the identity provider; Create exists for seeding and tests.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}

// ChatRepository defines persistence operations for sessions, members, and
// messages.
type ChatRepository interface {
	// CreateSession persists a new session. Returns ErrDuplicateURI when the
	// uri is already taken.
	CreateSession(ctx context.Context, session *domain.ChatSession) error
	GetSessionByURI(ctx context.Context, uri string) (*domain.ChatSession, error)

	// AddMember creates the (session, user) membership row if it does not
	// already exist. Idempotent.
	AddMember(ctx context.Context, sessionID, userID string) error
	ListMembers(ctx context.Context, sessionID string) ([]domain.ChatSessionMember, error)

	CreateMessage(ctx context.Context, msg *domain.ChatSessionMessage) error
	// ListMessages returns all messages in a session in creation order.
	ListMessages(ctx context.Context, sessionID string) ([]domain.ChatSessionMessage, error)

	// ListSessionsForUser returns every session the user owns or is a member of.
	ListSessionsForUser(ctx context.Context, userID string) ([]domain.ChatSession, error)
}

// SocialRepository defines persistence operations for friend requests and
// friendships.
type SocialRepository interface {
	// CreateRequest persists a pending request. A declined row for the same
	// (from, to) pair is reset to pending; a pending or accepted row returns
	// ErrDuplicateRequest.
	CreateRequest(ctx context.Context, req *domain.FriendRequest) error

	// GetPendingRequest returns the pending request with the given id
	// addressed to toUserID, or ErrRequestNotFound.
	GetPendingRequest(ctx context.Context, id, toUserID string) (*domain.FriendRequest, error)
	ListPendingRequests(ctx context.Context, toUserID string) ([]domain.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, status domain.FriendRequestStatus) error

	// CreateFriendship stores the canonical pair idempotently.
	CreateFriendship(ctx context.Context, userA, userB string) error
	ListFriendships(ctx context.Context, userID string) ([]domain.Friendship, error)
}
