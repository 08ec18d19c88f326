package service

import (
	"context"
	"errors"

	"github.com/banterhq/banter/internal/domain"
)

var (
	ErrSessionNotFound  = errors.New("chat session not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrDuplicateRequest = errors.New("friend request already exists")
	ErrInvalidAction    = errors.New("invalid response action")
)

// RoomPublisher fans an event out to a room's live connections.
// Satisfied by hub.Publisher.
type RoomPublisher interface {
	Publish(room string, event interface{})
}

// AddMemberResult carries the outcome of adding a member to a session.
// Members lists the owner first, then the remaining members in stored order.
type AddMemberResult struct {
	Members []domain.UserPayload
	User    domain.UserPayload
}

// SessionMessages is the full message listing of one session.
type SessionMessages struct {
	ID       string
	URI      string
	Messages []domain.MessageResponse
}

// ChatService owns chat sessions, their membership, and their messages.
type ChatService interface {
	// CreateSession allocates a fresh uri and persists a session owned by
	// ownerID. Collisions are retried internally.
	CreateSession(ctx context.Context, ownerID string) (*domain.ChatSession, error)

	// AddMember adds the named user to the session. Adding the owner or an
	// existing member is a no-op.
	AddMember(ctx context.Context, uri, actorID, targetUsername string) (*AddMemberResult, error)

	// PostMessage persists a message and fans it out to the session's room.
	PostMessage(ctx context.Context, uri, authorID, text string) (*domain.MessageResponse, error)

	ListMessages(ctx context.Context, uri string) (*SessionMessages, error)

	// ListHistory returns every session userID owns or belongs to, labeled
	// with the other members' usernames.
	ListHistory(ctx context.Context, userID string) ([]domain.SessionSummary, error)

	// AuthorizeJoin verifies the session behind uri exists before a
	// connection may join its room.
	AuthorizeJoin(ctx context.Context, uri string) error
}

// SocialService owns the friend request / friendship graph.
type SocialService interface {
	SendRequest(ctx context.Context, fromUserID, toUsername string) error
	ListIncoming(ctx context.Context, userID string) ([]domain.FriendRequestView, error)

	// Respond accepts or declines a pending request addressed to userID.
	// Accepting returns the uri of the chat session created for the new
	// friends; declining returns "".
	Respond(ctx context.Context, userID, requestID, action string) (string, error)

	ListFriends(ctx context.Context, userID string) ([]string, error)
}
