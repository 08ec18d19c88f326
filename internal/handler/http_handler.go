package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/banterhq/banter/internal/service"
	pkglog "github.com/banterhq/banter/pkg/log"
	"github.com/banterhq/banter/pkg/middleware"
	"github.com/banterhq/banter/pkg/response"
)

// Handler handles HTTP requests for the chat backend.
type Handler struct {
	chats          service.ChatService
	social         service.SocialService
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(chats service.ChatService, social service.SocialService, authMiddleware *middleware.AuthMiddleware) *Handler {
	return &Handler{
		chats:          chats,
		social:         social,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all request/response routes onto the Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.authMiddleware.RequireAuth())
	{
		chats := api.Group("/chats")
		{
			chats.POST("", h.CreateSession)
			chats.GET("/history", h.ListHistory)
			chats.PATCH("/:uri", h.AddMember)
			chats.GET("/:uri/messages", h.ListMessages)
			chats.POST("/:uri/messages", h.PostMessage)
		}
		friends := api.Group("/friends")
		{
			friends.GET("", h.ListFriends)
			friends.POST("/request", h.SendFriendRequest)
			friends.GET("/requests", h.ListFriendRequests)
			friends.POST("/respond", h.RespondFriendRequest)
		}
	}
}

// CreateSession handles POST /api/v1/chats.
func (h *Handler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	actorID := middleware.GetUserID(c)
	if actorID == "" {
		response.Unauthorized(c, "unauthorized")
		return
	}

	session, err := h.chats.CreateSession(ctx, actorID)
	if err != nil {
		l.Error().Err(err).Msg("create session failed")
		response.InternalError(c, "failed to create chat session")
		return
	}

	response.Success(c, gin.H{
		"uri":     session.URI,
		"message": "New chat session created",
	})
}

type addMemberRequest struct {
	Username string `json:"username" binding:"required"`
}

// AddMember handles PATCH /api/v1/chats/:uri.
func (h *Handler) AddMember(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	actorID := middleware.GetUserID(c)
	uri := c.Param("uri")

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.chats.AddMember(ctx, uri, actorID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, "chat session not found")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l.Error().Err(err).Str("uri", uri).Msg("add member failed")
			response.InternalError(c, "failed to add member")
		}
		return
	}

	response.Success(c, gin.H{
		"members": result.Members,
		"message": result.User.Username + " joined the chat",
		"user":    result.User,
	})
}

// ListMessages handles GET /api/v1/chats/:uri/messages.
func (h *Handler) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	uri := c.Param("uri")

	msgs, err := h.chats.ListMessages(ctx, uri)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, "chat session not found")
		default:
			l.Error().Err(err).Str("uri", uri).Msg("list messages failed")
			response.InternalError(c, "failed to list messages")
		}
		return
	}

	response.Success(c, gin.H{
		"id":       msgs.ID,
		"uri":      msgs.URI,
		"messages": msgs.Messages,
	})
}

type postMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// PostMessage handles POST /api/v1/chats/:uri/messages.
func (h *Handler) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	actorID := middleware.GetUserID(c)
	uri := c.Param("uri")

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.chats.PostMessage(ctx, uri, actorID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, "chat session not found")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l.Error().Err(err).Str("uri", uri).Msg("post message failed")
			response.InternalError(c, "failed to post message")
		}
		return
	}

	response.Success(c, gin.H{
		"uri":     uri,
		"message": msg.Message,
		"user":    msg.User,
	})
}

// ListHistory handles GET /api/v1/chats/history.
func (h *Handler) ListHistory(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	actorID := middleware.GetUserID(c)

	sessions, err := h.chats.ListHistory(ctx, actorID)
	if err != nil {
		l.Error().Err(err).Msg("list history failed")
		response.InternalError(c, "failed to list chat history")
		return
	}

	response.Success(c, gin.H{"sessions": sessions})
}

type friendRequestBody struct {
	Username string `json:"username" binding:"required"`
}

// SendFriendRequest handles POST /api/v1/friends/request.
func (h *Handler) SendFriendRequest(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	actorID := middleware.GetUserID(c)

	var req friendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.social.SendRequest(ctx, actorID, req.Username); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfRequest):
			response.BadRequest(c, "cannot send a friend request to yourself")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrDuplicateRequest):
			response.Conflict(c, "friend request already exists")
		default:
			l.Error().Err(err).Msg("send friend request failed")
			response.InternalError(c, "failed to send friend request")
		}
		return
	}

	response.Success(c, gin.H{"message": "Friend request sent"})
}

// ListFriendRequests handles GET /api/v1/friends/requests.
func (h *Handler) ListFriendRequests(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	actorID := middleware.GetUserID(c)

	requests, err := h.social.ListIncoming(ctx, actorID)
	if err != nil {
		l.Error().Err(err).Msg("list friend requests failed")
		response.InternalError(c, "failed to list friend requests")
		return
	}

	response.Success(c, gin.H{"requests": requests})
}

type respondRequestBody struct {
	RequestID string `json:"request_id" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

// RespondFriendRequest handles POST /api/v1/friends/respond.
func (h *Handler) RespondFriendRequest(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	actorID := middleware.GetUserID(c)

	var req respondRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	uri, err := h.social.Respond(ctx, actorID, req.RequestID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAction):
			response.BadRequest(c, "action must be accept or decline")
		case errors.Is(err, service.ErrRequestNotFound):
			response.NotFound(c, "friend request not found")
		default:
			l.Error().Err(err).Msg("respond to friend request failed")
			response.InternalError(c, "failed to respond to friend request")
		}
		return
	}

	if uri != "" {
		response.Success(c, gin.H{
			"uri":     uri,
			"message": "Friend request accepted",
		})
		return
	}
	response.Success(c, gin.H{"message": "Friend request declined"})
}

// ListFriends handles GET /api/v1/friends.
func (h *Handler) ListFriends(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	actorID := middleware.GetUserID(c)

	friends, err := h.social.ListFriends(ctx, actorID)
	if err != nil {
		l.Error().Err(err).Msg("list friends failed")
		response.InternalError(c, "failed to list friends")
		return
	}

	response.Success(c, gin.H{"friends": friends})
}
