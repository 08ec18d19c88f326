package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/banterhq/banter/internal/audit"
	"github.com/banterhq/banter/internal/domain"
	"github.com/banterhq/banter/internal/repository"
	pkglog "github.com/banterhq/banter/pkg/log"
)

type socialService struct {
	social repository.SocialRepository
	users  repository.UserRepository
	chats  ChatService
}

// NewSocialService creates a SocialService. It creates the friends' private
// chat session through the ChatService on acceptance.
func NewSocialService(
	social repository.SocialRepository,
	users repository.UserRepository,
	chats ChatService,
) SocialService {
	return &socialService{
		social: social,
		users:  users,
		chats:  chats,
	}
}

// SendRequest creates a pending friend request addressed to toUsername.
// A request declined earlier may be re-sent; a pending or accepted one
// conflicts (see the uniqueness note on SocialRepository.CreateRequest).
func (s *socialService) SendRequest(ctx context.Context, fromUserID, toUsername string) error {
	l := pkglog.Ctx(ctx)

	target, err := s.users.GetByUsername(ctx, toUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if target.ID == fromUserID {
		return ErrSelfRequest
	}

	req := &domain.FriendRequest{
		ID:         uuid.New().String(),
		FromUserID: fromUserID,
		ToUserID:   target.ID,
		Status:     domain.RequestPending,
	}
	if err := s.social.CreateRequest(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicateRequest) {
			return ErrDuplicateRequest
		}
		l.Error().Err(err).
			Str("from_user_id", fromUserID).
			Str("to_user_id", target.ID).
			Msg("failed to create friend request")
		return err
	}

	audit.LogWithDetail(ctx, audit.ActionFriendRequest, fromUserID, target.Username, "friend request sent")
	return nil
}

func (s *socialService) ListIncoming(ctx context.Context, userID string) ([]domain.FriendRequestView, error) {
	reqs, err := s.social.ListPendingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.FromUserID)
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	views := make([]domain.FriendRequestView, 0, len(reqs))
	for _, r := range reqs {
		from := domain.UserPayload{ID: r.FromUserID}
		if u, ok := byID[r.FromUserID]; ok {
			from = u.ToPayload()
		}
		views = append(views, domain.FriendRequestView{
			ID:        r.ID,
			From:      from,
			CreatedAt: r.CreatedAt,
		})
	}
	return views, nil
}

func (s *socialService) Respond(ctx context.Context, userID, requestID, action string) (string, error) {
	l := pkglog.Ctx(ctx)

	if action != domain.ActionAccept && action != domain.ActionDecline {
		return "", ErrInvalidAction
	}

	req, err := s.social.GetPendingRequest(ctx, requestID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return "", ErrRequestNotFound
		}
		return "", err
	}

	if action == domain.ActionDecline {
		if err := s.social.UpdateRequestStatus(ctx, req.ID, domain.RequestDeclined); err != nil {
			return "", err
		}
		audit.LogWithDetail(ctx, audit.ActionFriendRespond, userID, domain.ActionDecline, "friend request declined")
		return "", nil
	}

	if err := s.social.UpdateRequestStatus(ctx, req.ID, domain.RequestAccepted); err != nil {
		return "", err
	}

	// Friendship rows are canonical and idempotent, so a re-accept of a
	// racing duplicate cannot double-row the pair.
	if err := s.social.CreateFriendship(ctx, req.FromUserID, req.ToUserID); err != nil {
		return "", err
	}

	requester, err := s.users.GetByID(ctx, req.FromUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	// The new friends get a private session owned by the accepting user.
	session, err := s.chats.CreateSession(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(pkglog.FieldUserID, userID).Msg("failed to create session for new friendship")
		return "", err
	}
	if _, err := s.chats.AddMember(ctx, session.URI, userID, requester.Username); err != nil {
		return "", err
	}

	audit.LogWithDetail(ctx, audit.ActionFriendRespond, userID, domain.ActionAccept, "friend request accepted")
	return session.URI, nil
}

func (s *socialService) ListFriends(ctx context.Context, userID string) ([]string, error) {
	friendships, err := s.social.ListFriendships(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(friendships))
	for i := range friendships {
		ids = append(ids, friendships[i].Other(userID))
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Username
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

var _ SocialService = (*socialService)(nil)
