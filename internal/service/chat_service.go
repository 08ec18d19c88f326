package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banterhq/banter/internal/archive"
	"github.com/banterhq/banter/internal/audit"
	"github.com/banterhq/banter/internal/domain"
	"github.com/banterhq/banter/internal/repository"
	"github.com/banterhq/banter/internal/uri"
	pkglog "github.com/banterhq/banter/pkg/log"
)

// uriAllocRetries bounds how often CreateSession retries on a uri collision
// before giving up. Collisions are astronomically rare at the default size.
const uriAllocRetries = 5

type chatService struct {
	chats    repository.ChatRepository
	users    repository.UserRepository
	uris     *uri.Generator
	rooms    RoomPublisher
	producer archive.MessageProducer // nil when archiving is disabled
}

// NewChatService creates a ChatService. producer may be nil.
func NewChatService(
	chats repository.ChatRepository,
	users repository.UserRepository,
	uris *uri.Generator,
	rooms RoomPublisher,
	producer archive.MessageProducer,
) ChatService {
	return &chatService{
		chats:    chats,
		users:    users,
		uris:     uris,
		rooms:    rooms,
		producer: producer,
	}
}

func (s *chatService) CreateSession(ctx context.Context, ownerID string) (*domain.ChatSession, error) {
	l := pkglog.Ctx(ctx)

	for attempt := 0; attempt < uriAllocRetries; attempt++ {
		u, err := s.uris.Generate()
		if err != nil {
			return nil, err
		}

		session := &domain.ChatSession{
			ID:      uuid.New().String(),
			URI:     u,
			OwnerID: ownerID,
		}

		err = s.chats.CreateSession(ctx, session)
		if errors.Is(err, repository.ErrDuplicateURI) {
			l.Warn().Str("uri", u).Msg("session uri collision, retrying")
			continue
		}
		if err != nil {
			l.Error().Err(err).Str(pkglog.FieldUserID, ownerID).Msg("failed to create chat session")
			return nil, err
		}

		audit.LogWithDetail(ctx, audit.ActionCreateSession, ownerID, session.URI, "chat session created")
		return session, nil
	}

	return nil, fmt.Errorf("failed to allocate a unique session uri after %d attempts", uriAllocRetries)
}

func (s *chatService) AddMember(ctx context.Context, sessionURI, actorID, targetUsername string) (*AddMemberResult, error) {
	session, err := s.getSession(ctx, sessionURI)
	if err != nil {
		return nil, err
	}

	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// The owner is an implicit member; only non-owners get a membership row.
	if target.ID != session.OwnerID {
		if err := s.chats.AddMember(ctx, session.ID, target.ID); err != nil {
			return nil, err
		}
	}

	members, err := s.memberRoster(ctx, session)
	if err != nil {
		return nil, err
	}

	audit.LogWithDetail(ctx, audit.ActionAddMember, actorID, target.Username, "member added to chat session")

	return &AddMemberResult{
		Members: members,
		User:    target.ToPayload(),
	}, nil
}

// memberRoster returns the session's member payloads with the owner first,
// then the remaining members in stored order.
func (s *chatService) memberRoster(ctx context.Context, session *domain.ChatSession) ([]domain.UserPayload, error) {
	rows, err := s.chats.ListMembers(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows)+1)
	ids = append(ids, session.OwnerID)
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}

	byID, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	roster := make([]domain.UserPayload, 0, len(ids))
	if owner, ok := byID[session.OwnerID]; ok {
		roster = append(roster, owner.ToPayload())
	}
	for _, row := range rows {
		if u, ok := byID[row.UserID]; ok {
			roster = append(roster, u.ToPayload())
		}
	}
	return roster, nil
}

func (s *chatService) PostMessage(ctx context.Context, sessionURI, authorID, text string) (*domain.MessageResponse, error) {
	l := pkglog.Ctx(ctx)

	session, err := s.getSession(ctx, sessionURI)
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	msg := &domain.ChatSessionMessage{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		UserID:    author.ID,
		Message:   text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		l.Error().Err(err).Str("uri", sessionURI).Msg("failed to persist chat message")
		return nil, err
	}

	// The message is durable; fan-out is fire-and-forget from here.
	room := domain.RoomName(session.URI)
	s.rooms.Publish(room, &domain.ChatEvent{
		Message: msg.Message,
		User:    author.ToPayload(),
	})

	if s.producer != nil {
		archived := &domain.ArchivedMessage{
			MessageID: msg.ID,
			URI:       session.URI,
			Room:      room,
			UserID:    author.ID,
			Username:  author.Username,
			Message:   msg.Message,
			CreatedAt: msg.CreatedAt,
		}
		if err := s.producer.Produce(ctx, archived); err != nil {
			l.Warn().Err(err).Str("uri", session.URI).Msg("failed to archive chat message")
		}
	}

	audit.LogWithDetail(ctx, audit.ActionPostMessage, author.ID, session.URI, "chat message posted")

	return &domain.MessageResponse{
		ID:        msg.ID,
		Message:   msg.Message,
		User:      author.ToPayload(),
		CreatedAt: msg.CreatedAt,
	}, nil
}

func (s *chatService) ListMessages(ctx context.Context, sessionURI string) (*SessionMessages, error) {
	session, err := s.getSession(ctx, sessionURI)
	if err != nil {
		return nil, err
	}

	msgs, err := s.chats.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.UserID)
	}
	byID, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		payload := domain.UserPayload{ID: m.UserID}
		if u, ok := byID[m.UserID]; ok {
			payload = u.ToPayload()
		}
		out = append(out, domain.MessageResponse{
			ID:        m.ID,
			Message:   m.Message,
			User:      payload,
			CreatedAt: m.CreatedAt,
		})
	}

	return &SessionMessages{
		ID:       session.ID,
		URI:      session.URI,
		Messages: out,
	}, nil
}

func (s *chatService) ListHistory(ctx context.Context, userID string) ([]domain.SessionSummary, error) {
	sessions, err := s.chats.ListSessionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.SessionSummary, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		roster, err := s.memberRoster(ctx, session)
		if err != nil {
			return nil, err
		}

		others := make([]string, 0, len(roster))
		for _, p := range roster {
			if p.ID == userID {
				continue
			}
			others = append(others, p.Username)
		}

		summaries = append(summaries, domain.SessionSummary{
			URI:       session.URI,
			Name:      domain.RosterName(others),
			CreatedAt: session.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *chatService) AuthorizeJoin(ctx context.Context, sessionURI string) error {
	_, err := s.getSession(ctx, sessionURI)
	return err
}

func (s *chatService) getSession(ctx context.Context, sessionURI string) (*domain.ChatSession, error) {
	session, err := s.chats.GetSessionByURI(ctx, sessionURI)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *chatService) usersByID(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

var _ ChatService = (*chatService)(nil)
