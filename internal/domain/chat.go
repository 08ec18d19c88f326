package domain

import (
	"strings"
	"time"
)

// RoomPrefix is prepended to a session uri to form its fan-out room name.
const RoomPrefix = "chat_"

// RoomName derives the fan-out room name for a chat session uri.
func RoomName(uri string) string {
	return RoomPrefix + uri
}

// ChatSession is a chat room's persisted identity. The owner is always an
// implicit member and is not rowed in chat_session_members.
type ChatSession struct {
	ID        string    `json:"id"`
	URI       string    `json:"uri"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSessionMember links a non-owner user to a session.
type ChatSessionMember struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSessionMessage is an immutable message in a session.
type ChatSessionMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse is the fixed projection of a message in API responses.
type MessageResponse struct {
	ID        string      `json:"id"`
	Message   string      `json:"message"`
	User      UserPayload `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

// ChatEvent is the wire frame delivered to every live connection in a room.
type ChatEvent struct {
	Message string      `json:"message"`
	User    UserPayload `json:"user"`
}

// SessionSummary annotates a session for the history listing. Name is built
// from the other members' usernames, excluding the requesting user.
type SessionSummary struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RosterName renders a human-readable session label from the other members'
// usernames. A session with no other members renders an empty name.
func RosterName(others []string) string {
	return strings.Join(others, ", ")
}

// ArchivedMessage is the event produced to the message archive topic after a
// message has been persisted.
type ArchivedMessage struct {
	MessageID string    `json:"message_id"`
	URI       string    `json:"uri"`
	Room      string    `json:"room"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
