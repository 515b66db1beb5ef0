package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/models"
	"github.com/sportlinkhq/sportlink/realtime"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleConversationStream pushes the viewer's merged conversation list
// over a websocket, one frame per merge tick.
func (s *Server) handleConversationStream() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Get().Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		send := make(chan []byte, 8)
		sub := s.Hub.SubscribeConversations(user.ID, func(views []models.ConversationView) {
			pushFrame(send, views)
		})
		runPumps(conn, send, sub)
	}
}

// handleMessageStream pushes one conversation's ordered message feed.
func (s *Server) handleMessageStream() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		conv, apiErr := s.ConversationService.Get(c.Param("id"))
		if apiErr != nil {
			c.AbortWithStatus(apiErr.Status)
			return
		}
		if !conv.HasParticipant(user.ID) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Get().Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		send := make(chan []byte, 8)
		sub := s.Hub.SubscribeMessages(conv.ID, func(msgs []models.Message) {
			pushFrame(send, msgs)
		})
		runPumps(conn, send, sub)
	}
}

// pushFrame marshals a tick onto the connection's send queue. A slow
// client drops frames rather than stalling the subscription loop; the next
// tick carries the full current state anyway.
func pushFrame(send chan []byte, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case send <- data:
	default:
	}
}

// runPumps drives the connection until the client goes away. Server-push
// only: inbound frames are discarded and serve as liveness signals.
func runPumps(conn *websocket.Conn, send chan []byte, sub *realtime.Subscription) {
	done := make(chan struct{})

	go func() {
		defer close(done)
		conn.SetReadLimit(maxMessageSize)
		conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Cancel()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			return
		case data := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
