package service

import (
	"context"
	"sync"
	"time"

	"github.com/banterhq/banter/internal/domain"
	"github.com/banterhq/banter/internal/repository"
)

// In-memory repository doubles mirroring the documented semantics of the
// GORM implementations.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) GetByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type memChatRepo struct {
	mu       sync.Mutex
	sessions []domain.ChatSession
	members  []domain.ChatSessionMember
	messages []domain.ChatSessionMessage

	// collideFirst makes the first N CreateSession calls report a uri
	// collision, exercising the caller's retry loop.
	collideFirst int
	// attempts counts CreateSession calls, collisions included.
	attempts int
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{}
}

func (r *memChatRepo) CreateSession(_ context.Context, session *domain.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.attempts <= r.collideFirst {
		return repository.ErrDuplicateURI
	}
	for _, s := range r.sessions {
		if s.URI == session.URI {
			return repository.ErrDuplicateURI
		}
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	r.sessions = append(r.sessions, *session)
	return nil
}

func (r *memChatRepo) GetSessionByURI(_ context.Context, uri string) (*domain.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].URI == uri {
			s := r.sessions[i]
			return &s, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (r *memChatRepo) AddMember(_ context.Context, sessionID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.SessionID == sessionID && m.UserID == userID {
			return nil
		}
	}
	r.members = append(r.members, domain.ChatSessionMember{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *memChatRepo) ListMembers(_ context.Context, sessionID string) ([]domain.ChatSessionMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ChatSessionMember
	for _, m := range r.members {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memChatRepo) CreateMessage(_ context.Context, msg *domain.ChatSessionMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *memChatRepo) ListMessages(_ context.Context, sessionID string) ([]domain.ChatSessionMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ChatSessionMessage
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memChatRepo) ListSessionsForUser(_ context.Context, userID string) ([]domain.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ChatSession
	for _, s := range r.sessions {
		if s.OwnerID == userID {
			out = append(out, s)
			continue
		}
		for _, m := range r.members {
			if m.SessionID == s.ID && m.UserID == userID {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

type memSocialRepo struct {
	mu          sync.Mutex
	requests    []domain.FriendRequest
	friendships []domain.Friendship
}

func newMemSocialRepo() *memSocialRepo {
	return &memSocialRepo{}
}

func (r *memSocialRepo) CreateRequest(_ context.Context, req *domain.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.requests {
		existing := &r.requests[i]
		if existing.FromUserID != req.FromUserID || existing.ToUserID != req.ToUserID {
			continue
		}
		if existing.Status == domain.RequestDeclined {
			existing.Status = domain.RequestPending
			req.ID = existing.ID
			return nil
		}
		return repository.ErrDuplicateRequest
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	r.requests = append(r.requests, *req)
	return nil
}

func (r *memSocialRepo) GetPendingRequest(_ context.Context, id, toUserID string) (*domain.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.requests {
		req := r.requests[i]
		if req.ID == id && req.ToUserID == toUserID && req.Status == domain.RequestPending {
			return &req, nil
		}
	}
	return nil, repository.ErrRequestNotFound
}

func (r *memSocialRepo) ListPendingRequests(_ context.Context, toUserID string) ([]domain.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.FriendRequest
	for _, req := range r.requests {
		if req.ToUserID == toUserID && req.Status == domain.RequestPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *memSocialRepo) UpdateRequestStatus(_ context.Context, id string, status domain.FriendRequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.requests {
		if r.requests[i].ID == id {
			r.requests[i].Status = status
			return nil
		}
	}
	return repository.ErrRequestNotFound
}

func (r *memSocialRepo) CreateFriendship(_ context.Context, userA, userB string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u1, u2 := domain.CanonicalPair(userA, userB)
	for _, f := range r.friendships {
		if f.User1ID == u1 && f.User2ID == u2 {
			return nil
		}
	}
	r.friendships = append(r.friendships, domain.Friendship{
		User1ID:   u1,
		User2ID:   u2,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *memSocialRepo) ListFriendships(_ context.Context, userID string) ([]domain.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Friendship
	for _, f := range r.friendships {
		if f.User1ID == userID || f.User2ID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

// capturingPublisher records every Publish call.
type capturingPublisher struct {
	mu     sync.Mutex
	rooms  []string
	events []interface{}
}

func (p *capturingPublisher) Publish(room string, event interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rooms = append(p.rooms, room)
	p.events = append(p.events, event)
}

func (p *capturingPublisher) calls() ([]string, []interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.rooms...), append([]interface{}(nil), p.events...)
}

var (
	_ repository.UserRepository   = (*memUserRepo)(nil)
	_ repository.ChatRepository   = (*memChatRepo)(nil)
	_ repository.SocialRepository = (*memSocialRepo)(nil)
	_ RoomPublisher               = (*capturingPublisher)(nil)
)
