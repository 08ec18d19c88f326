package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/banterhq/banter/internal/domain"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// Requires gorm's TranslateError option (see pkg/database).
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// GormChatRepository implements ChatRepository using GORM.
type GormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GORM-backed chat repository.
func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

// CreateSession persists a new chat session.
func (r *GormChatRepository) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	model := domain.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateURI
		}
		return err
	}
	session.CreatedAt = model.CreatedAt
	return nil
}

// GetSessionByURI retrieves a chat session by uri.
func (r *GormChatRepository) GetSessionByURI(ctx context.Context, uri string) (*domain.ChatSession, error) {
	var model domain.ChatSessionModel
	result := r.db.WithContext(ctx).First(&model, "uri = ?", uri)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// AddMember creates the membership row if it does not already exist.
// ON CONFLICT DO NOTHING keeps concurrent joins race-free instead of racing
// an insert into a uniqueness violation.
func (r *GormChatRepository) AddMember(ctx context.Context, sessionID, userID string) error {
	model := domain.ChatSessionMemberModel{
		SessionID: sessionID,
		UserID:    userID,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error
	if err != nil && !isUniqueViolation(err) {
		return err
	}
	return nil
}

// ListMembers returns session members in the order they were stored.
func (r *GormChatRepository) ListMembers(ctx context.Context, sessionID string) ([]domain.ChatSessionMember, error) {
	var models []domain.ChatSessionMemberModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	members := make([]domain.ChatSessionMember, 0, len(models))
	for i := range models {
		members = append(members, *models[i].ToDomain())
	}
	return members, nil
}

// CreateMessage persists a chat message.
func (r *GormChatRepository) CreateMessage(ctx context.Context, msg *domain.ChatSessionMessage) error {
	model := domain.MessageToModel(msg)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	msg.CreatedAt = model.CreatedAt
	return nil
}

// ListMessages returns all messages in a session in creation order.
func (r *GormChatRepository) ListMessages(ctx context.Context, sessionID string) ([]domain.ChatSessionMessage, error) {
	var models []domain.ChatSessionMessageModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	msgs := make([]domain.ChatSessionMessage, 0, len(models))
	for i := range models {
		msgs = append(msgs, *models[i].ToDomain())
	}
	return msgs, nil
}

// ListSessionsForUser returns every session the user owns or is a member of,
// oldest first.
func (r *GormChatRepository) ListSessionsForUser(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	var models []domain.ChatSessionModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? OR id IN (?)",
			userID,
			r.db.Model(&domain.ChatSessionMemberModel{}).
				Select("session_id").
				Where("user_id = ?", userID),
		).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.ChatSession, 0, len(models))
	for i := range models {
		sessions = append(sessions, *models[i].ToDomain())
	}
	return sessions, nil
}

var _ ChatRepository = (*GormChatRepository)(nil)
