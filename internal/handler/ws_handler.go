package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/banterhq/banter/internal/audit"
	"github.com/banterhq/banter/internal/config"
	"github.com/banterhq/banter/internal/domain"
	"github.com/banterhq/banter/internal/hub"
	"github.com/banterhq/banter/internal/registry"
	"github.com/banterhq/banter/internal/service"
	pkglog "github.com/banterhq/banter/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler serves the persistent-connection endpoint. Each connection is
// scoped to the room of the session uri in its path for its whole lifetime.
type WSHandler struct {
	hub      *hub.Hub
	chats    service.ChatService
	registry registry.Registry // nil when disabled
	wsCfg    config.WebSocketConfig
}

// NewWSHandler creates a WSHandler. reg may be nil.
func NewWSHandler(h *hub.Hub, chats service.ChatService, reg registry.Registry, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:      h,
		chats:    chats,
		registry: reg,
		wsCfg:    wsCfg,
	}
}

// RegisterRoutes registers the websocket route onto the Gin engine.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/chat/:uri", h.HandleWebSocket)
}

// HandleWebSocket handles GET /ws/chat/:uri.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	sessionURI := c.Param("uri")

	if err := h.chats.AuthorizeJoin(ctx, sessionURI); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		l.Error().Err(err).Str("uri", sessionURI).Msg("join authorization failed")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	room := domain.RoomName(sessionURI)
	client := hub.NewClient(uuid.New().String(), room, h.hub, conn, h.wsCfg, h.onClientClose)

	client.Open()
	if h.registry != nil {
		// Liveness metadata only; a failure never blocks the connection.
		if err := h.registry.Register(context.Background(), room); err != nil {
			l.Warn().Err(err).Str(pkglog.FieldRoom, room).Msg("failed to register room liveness")
		}
	}

	audit.LogWithDetail(ctx, audit.ActionJoinRoom, client.ID, room, "connection joined room")

	go client.WritePump()
	go client.ReadPump()
}

// onClientClose runs once per connection, after it has left the hub.
func (h *WSHandler) onClientClose(c *hub.Client) {
	audit.LogWithDetail(context.Background(), audit.ActionLeaveRoom, c.ID, c.Room, "connection left room")

	if h.registry != nil && h.hub.MemberCount(c.Room) == 0 {
		l := pkglog.L()
		if err := h.registry.Deregister(context.Background(), c.Room); err != nil {
			l.Warn().Err(err).Str(pkglog.FieldRoom, c.Room).Msg("failed to deregister room liveness")
		}
	}
}
