package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/banterhq/banter/internal/domain"
	"github.com/banterhq/banter/internal/service"
	"github.com/banterhq/banter/pkg/jwt"
	"github.com/banterhq/banter/pkg/middleware"
)

// stubChatService returns canned values and records the arguments it saw.
type stubChatService struct {
	session    *domain.ChatSession
	addResult  *service.AddMemberResult
	message    *domain.MessageResponse
	messages   *service.SessionMessages
	history    []domain.SessionSummary
	err        error
	lastURI    string
	lastActor  string
	lastTarget string
}

func (s *stubChatService) CreateSession(_ context.Context, ownerID string) (*domain.ChatSession, error) {
	s.lastActor = ownerID
	return s.session, s.err
}

func (s *stubChatService) AddMember(_ context.Context, uri, actorID, targetUsername string) (*service.AddMemberResult, error) {
	s.lastURI, s.lastActor, s.lastTarget = uri, actorID, targetUsername
	if s.err != nil {
		return nil, s.err
	}
	return s.addResult, nil
}

func (s *stubChatService) PostMessage(_ context.Context, uri, authorID, text string) (*domain.MessageResponse, error) {
	s.lastURI, s.lastActor = uri, authorID
	if s.err != nil {
		return nil, s.err
	}
	return s.message, nil
}

func (s *stubChatService) ListMessages(_ context.Context, uri string) (*service.SessionMessages, error) {
	s.lastURI = uri
	if s.err != nil {
		return nil, s.err
	}
	return s.messages, nil
}

func (s *stubChatService) ListHistory(_ context.Context, userID string) ([]domain.SessionSummary, error) {
	s.lastActor = userID
	return s.history, s.err
}

func (s *stubChatService) AuthorizeJoin(_ context.Context, uri string) error {
	s.lastURI = uri
	return s.err
}

type stubSocialService struct {
	incoming   []domain.FriendRequestView
	friends    []string
	respondURI string
	err        error
	lastActor  string
	lastTarget string
	lastAction string
}

func (s *stubSocialService) SendRequest(_ context.Context, fromUserID, toUsername string) error {
	s.lastActor, s.lastTarget = fromUserID, toUsername
	return s.err
}

func (s *stubSocialService) ListIncoming(_ context.Context, userID string) ([]domain.FriendRequestView, error) {
	s.lastActor = userID
	return s.incoming, s.err
}

func (s *stubSocialService) Respond(_ context.Context, userID, requestID, action string) (string, error) {
	s.lastActor, s.lastAction = userID, action
	return s.respondURI, s.err
}

func (s *stubSocialService) ListFriends(_ context.Context, userID string) ([]string, error) {
	s.lastActor = userID
	return s.friends, s.err
}

var (
	_ service.ChatService   = (*stubChatService)(nil)
	_ service.SocialService = (*stubSocialService)(nil)
)

type handlerFixture struct {
	engine *gin.Engine
	chats  *stubChatService
	social *stubSocialService
	token  string
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := jwt.NewManager("test-secret", time.Hour, "banter-test")
	require.NoError(t, err)
	token, err := tokens.Generate("u-alice", "alice")
	require.NoError(t, err)

	chats := &stubChatService{}
	social := &stubSocialService{}
	h := NewHandler(chats, social, middleware.NewAuthMiddleware(tokens))

	engine := gin.New()
	h.RegisterRoutes(engine)

	return &handlerFixture{engine: engine, chats: chats, social: social, token: token}
}

func (f *handlerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestMissingAuthHeader(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/chats", strings.NewReader(""))
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, r)

	req.Equal(http.StatusUnauthorized, w.Code)
	req.Equal("UNAUTHORIZED", decode(t, w)["status"])
}

func TestInvalidToken(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/chats", strings.NewReader(""))
	r.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, r)

	req.Equal(http.StatusUnauthorized, w.Code)
}

func TestCreateSessionEnvelope(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.chats.session = &domain.ChatSession{ID: "s1", URI: "abc123", OwnerID: "u-alice"}

	w := f.do(t, http.MethodPost, "/api/v1/chats", "")
	req.Equal(http.StatusOK, w.Code)

	body := decode(t, w)
	req.Equal("SUCCESS", body["status"])
	req.Equal("abc123", body["uri"])
	req.Equal("u-alice", f.chats.lastActor)
}

func TestAddMemberSuccess(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.chats.addResult = &service.AddMemberResult{
		Members: []domain.UserPayload{
			{ID: "u-alice", Username: "alice"},
			{ID: "u-bob", Username: "bob"},
		},
		User: domain.UserPayload{ID: "u-bob", Username: "bob"},
	}

	w := f.do(t, http.MethodPatch, "/api/v1/chats/abc123", `{"username":"bob"}`)
	req.Equal(http.StatusOK, w.Code)

	body := decode(t, w)
	req.Equal("SUCCESS", body["status"])
	req.Equal("bob joined the chat", body["message"])
	req.Len(body["members"], 2)
	req.Equal("abc123", f.chats.lastURI)
	req.Equal("bob", f.chats.lastTarget)
}

func TestAddMemberMissingBody(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPatch, "/api/v1/chats/abc123", `{}`)
	req.Equal(http.StatusBadRequest, w.Code)
	req.Equal("BAD_REQUEST", decode(t, w)["status"])
}

func TestAddMemberUnknownSession(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.chats.err = service.ErrSessionNotFound

	w := f.do(t, http.MethodPatch, "/api/v1/chats/nope", `{"username":"bob"}`)
	req.Equal(http.StatusNotFound, w.Code)
	req.Equal("NOT_FOUND", decode(t, w)["status"])
}

func TestPostMessageSuccess(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.chats.message = &domain.MessageResponse{
		ID:      "m1",
		Message: "hello",
		User:    domain.UserPayload{ID: "u-alice", Username: "alice"},
	}

	w := f.do(t, http.MethodPost, "/api/v1/chats/abc123/messages", `{"message":"hello"}`)
	req.Equal(http.StatusOK, w.Code)

	body := decode(t, w)
	req.Equal("SUCCESS", body["status"])
	req.Equal("hello", body["message"])
	req.Equal("abc123", body["uri"])
	user, ok := body["user"].(map[string]interface{})
	req.True(ok)
	req.Equal("alice", user["username"])
}

func TestListMessages(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.chats.messages = &service.SessionMessages{
		ID:  "s1",
		URI: "abc123",
		Messages: []domain.MessageResponse{
			{ID: "m1", Message: "hi", User: domain.UserPayload{ID: "u-alice", Username: "alice"}},
		},
	}

	w := f.do(t, http.MethodGet, "/api/v1/chats/abc123/messages", "")
	req.Equal(http.StatusOK, w.Code)

	body := decode(t, w)
	req.Equal("SUCCESS", body["status"])
	req.Equal("abc123", body["uri"])
	req.Len(body["messages"], 1)
}

func TestListHistory(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.chats.history = []domain.SessionSummary{
		{URI: "abc123", Name: "bob"},
		{URI: "def456", Name: "carol, dave"},
	}

	w := f.do(t, http.MethodGet, "/api/v1/chats/history", "")
	req.Equal(http.StatusOK, w.Code)
	req.Len(decode(t, w)["sessions"], 2)
}

func TestSendFriendRequestConflict(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.social.err = service.ErrDuplicateRequest

	w := f.do(t, http.MethodPost, "/api/v1/friends/request", `{"username":"bob"}`)
	req.Equal(http.StatusConflict, w.Code)
	req.Equal("CONFLICT", decode(t, w)["status"])
}

func TestSendFriendRequestToSelf(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.social.err = service.ErrSelfRequest

	w := f.do(t, http.MethodPost, "/api/v1/friends/request", `{"username":"alice"}`)
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestSendFriendRequestSuccess(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/friends/request", `{"username":"bob"}`)
	req.Equal(http.StatusOK, w.Code)
	req.Equal("SUCCESS", decode(t, w)["status"])
	req.Equal("u-alice", f.social.lastActor)
	req.Equal("bob", f.social.lastTarget)
}

func TestRespondAcceptReturnsURI(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.social.respondURI = "abc123"

	w := f.do(t, http.MethodPost, "/api/v1/friends/respond", `{"request_id":"r1","action":"accept"}`)
	req.Equal(http.StatusOK, w.Code)

	body := decode(t, w)
	req.Equal("SUCCESS", body["status"])
	req.Equal("abc123", body["uri"])
	req.Equal("accept", f.social.lastAction)
}

func TestRespondDeclineOmitsURI(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/friends/respond", `{"request_id":"r1","action":"decline"}`)
	req.Equal(http.StatusOK, w.Code)

	body := decode(t, w)
	req.Equal("SUCCESS", body["status"])
	req.NotContains(body, "uri")
}

func TestRespondInvalidAction(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.social.err = service.ErrInvalidAction

	w := f.do(t, http.MethodPost, "/api/v1/friends/respond", `{"request_id":"r1","action":"maybe"}`)
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestListFriends(t *testing.T) {
	req := require.New(t)
	f := newHandlerFixture(t)
	f.social.friends = []string{"bob", "carol"}

	w := f.do(t, http.MethodGet, "/api/v1/friends", "")
	req.Equal(http.StatusOK, w.Code)

	body := decode(t, w)
	req.Equal("SUCCESS", body["status"])
	req.Len(body["friends"], 2)
}
