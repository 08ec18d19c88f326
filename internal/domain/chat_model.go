package domain

import "time"

// ChatSessionModel is the GORM model for the chat_sessions table.
type ChatSessionModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	URI       string    `gorm:"type:varchar(32);uniqueIndex;not null"`
	OwnerID   string    `gorm:"type:varchar(36);index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatSessionModel) TableName() string { return "chat_sessions" }

func (m *ChatSessionModel) ToDomain() *ChatSession {
	return &ChatSession{
		ID:        m.ID,
		URI:       m.URI,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
	}
}

func SessionToModel(s *ChatSession) *ChatSessionModel {
	return &ChatSessionModel{
		ID:        s.ID,
		URI:       s.URI,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt,
	}
}

// ChatSessionMemberModel is the GORM model for the chat_session_members table.
// The composite unique index enforces at most one row per (session, user).
type ChatSessionMemberModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	SessionID string    `gorm:"column:session_id;type:varchar(36);not null;uniqueIndex:idx_session_user"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_session_user"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatSessionMemberModel) TableName() string { return "chat_session_members" }

func (m *ChatSessionMemberModel) ToDomain() *ChatSessionMember {
	return &ChatSessionMember{
		SessionID: m.SessionID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

// ChatSessionMessageModel is the GORM model for the chat_session_messages table.
type ChatSessionMessageModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	SessionID string    `gorm:"column:session_id;type:varchar(36);index;not null"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);not null"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (ChatSessionMessageModel) TableName() string { return "chat_session_messages" }

func (m *ChatSessionMessageModel) ToDomain() *ChatSessionMessage {
	return &ChatSessionMessage{
		ID:        m.ID,
		SessionID: m.SessionID,
		UserID:    m.UserID,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

func MessageToModel(msg *ChatSessionMessage) *ChatSessionMessageModel {
	return &ChatSessionMessageModel{
		ID:        msg.ID,
		SessionID: msg.SessionID,
		UserID:    msg.UserID,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	}
}
