package realtime

import (
	"auction-site/internal/auctionerrors"
	model "auction-site/internal/models"
	"auction-site/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// ChatStore is the persistence the chat consumer needs
type ChatStore interface {
	UserLookup
	GetAuction(ctx context.Context, id uint) (model.Auction, error)
	CreateChat(ctx context.Context, chat *model.Chat) error
}

// ChatMessage is the frame broadcast to a chat room
type ChatMessage struct {
	AuctionID uint      `json:"auction_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	TimeSent  time.Time `json:"time_sent"`
}

// URLPattern binds a websocket path to its consumer
type URLPattern struct {
	Path     string
	Consumer gin.HandlerFunc
}

// URLPatterns lists the websocket consumers mounted under the websocket group
func URLPatterns(chat *ChatConsumer) []URLPattern {
	return []URLPattern{
		{Path: "/auction/:auction_id/chat", Consumer: chat.Serve},
	}
}

// ChatConsumer serves one chat room per auction
type ChatConsumer struct {
	store      ChatStore
	hub        *Hub
	upgrader   websocket.Upgrader
	sendBuffer int
	readLimit  int64
}

func NewChatConsumer(store ChatStore, hub *Hub, sendBuffer int, readLimit int64) *ChatConsumer {
	return &ChatConsumer{
		store: store,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sendBuffer: sendBuffer,
		readLimit:  readLimit,
	}
}

// Serve handles GET /ws/auction/:auction_id/chat
func (cc *ChatConsumer) Serve(c *gin.Context) {
	raw := c.Param("auction_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("%w: %q", auctionerrors.ErrInvalidID, raw), "invalid record id")
		return
	}
	auctionID := uint(id)

	if _, err := cc.store.GetAuction(c.Request.Context(), auctionID); err != nil {
		if errors.Is(err, auctionerrors.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, err, "auction not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err, "internal server error")
		utils.Error("ChatConsumer: auction lookup failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	user, authenticated := CurrentUser(c)

	conn, err := cc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Warn("ChatConsumer: upgrade failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	cl := &client{id: utils.GenerateID(), auctionID: auctionID, send: make(chan []byte, cc.sendBuffer)}
	cc.hub.join(cl)
	utils.Info("ChatConsumer: client connected", map[string]any{
		"client_id":     cl.id,
		"auction_id":    auctionID,
		"authenticated": authenticated,
	})

	go cc.writePump(conn, cl)
	cc.readPump(c.Request.Context(), conn, cl, user, authenticated)
}

func (cc *ChatConsumer) readPump(ctx context.Context, conn *websocket.Conn, cl *client, user model.User, authenticated bool) {
	defer func() {
		cc.hub.leave(cl)
		conn.Close()
		utils.Info("ChatConsumer: client disconnected", map[string]any{"client_id": cl.id, "auction_id": cl.auctionID})
	}()

	conn.SetReadLimit(cc.readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.Warn("ChatConsumer: read error", map[string]any{"client_id": cl.id, "error": err.Error()})
			}
			return
		}

		if !authenticated {
			utils.Warn("ChatConsumer: dropped message from anonymous client", map[string]any{"client_id": cl.id, "auction_id": cl.auctionID})
			continue
		}

		text := strings.TrimSpace(string(frame))
		if text == "" {
			continue
		}

		chat := &model.Chat{
			AuctionID: cl.auctionID,
			UserID:    user.ID,
			Message:   text,
			TimeSent:  time.Now().UTC(),
		}
		if err := cc.store.CreateChat(ctx, chat); err != nil {
			utils.Error("ChatConsumer: failed to store message", map[string]any{
				"auction_id": cl.auctionID,
				"user_id":    user.ID,
				"error":      err.Error(),
			})
			continue
		}

		payload, err := json.Marshal(ChatMessage{
			AuctionID: chat.AuctionID,
			UserID:    chat.UserID,
			Username:  user.Username,
			Message:   chat.Message,
			TimeSent:  chat.TimeSent,
		})
		if err != nil {
			utils.Error("ChatConsumer: failed to encode message", map[string]any{"error": err.Error()})
			continue
		}

		delivered := cc.hub.Broadcast(cl.auctionID, payload)
		utils.Debug("ChatConsumer: message broadcast", map[string]any{"auction_id": cl.auctionID, "recipients": delivered})
	}
}

func (cc *ChatConsumer) writePump(conn *websocket.Conn, cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				utils.Warn("ChatConsumer: write error", map[string]any{"client_id": cl.id, "error": err.Error()})
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
