package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dota2-beta/Dungeon-Game/internal/engine"
	"github.com/dota2-beta/Dungeon-Game/internal/network"
	"github.com/dota2-beta/Dungeon-Game/pkg/api"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и менеджером сессий.
// Одно соединение - один игрок в одной сессии.
type Client struct {
	manager *engine.Manager
	hub     *network.Broadcaster
	router  *router
	conn    *websocket.Conn
	codec   codec

	connID       string
	userID       string
	defaultClass string
	binding      engine.Binding

	// send - личный канал из хаба, закрывается хабом
	send chan api.ServerMessage
	// pumpDone закрывается, когда writePump записал всё и вышел
	pumpDone chan struct{}
	log      *logrus.Entry
}

func NewClient(s *Server, conn *websocket.Conn, codecName string) *Client {
	connID := uuid.NewString()
	return &Client{
		manager:      s.Manager,
		hub:          s.Hub,
		router:       s.router,
		conn:         conn,
		codec:        codecByName(codecName),
		connID:       connID,
		defaultClass: s.DefaultClass,
		log:          logger.Log.WithField("connection_id", connID),
	}
}

// readPump читает команды от клиента. Первая команда обязана быть JOIN.
func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE (JOIN)
	if !c.handshake() {
		return
	}

	// 2. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Errorf("WS Error: %v", err)
			}
			return
		}
		c.router.dispatch(c, cmd)
	}
}

func (c *Client) handshake() bool {
	var cmd api.ClientCommand
	if err := c.conn.ReadJSON(&cmd); err != nil {
		c.log.WithError(err).Warn("Handshake failed")
		return false
	}
	if strings.ToUpper(cmd.Action) != api.ActionJoin {
		c.writeDirect(errorMessage(api.CodeBadRequest, "first command must be JOIN"))
		return false
	}
	join, err := api.Decode[api.JoinPayload](cmd.Payload)
	if err != nil {
		c.writeDirect(errorMessage(api.CodeBadRequest, err.Error()))
		return false
	}

	c.userID = join.UserID
	if c.userID == "" {
		c.userID = cmd.Token
	}
	if c.userID == "" {
		c.userID = uuid.NewString()
	}
	classID := join.ClassID
	if classID == "" {
		classID = c.defaultClass
	}
	sessionID := join.SessionID
	if sessionID == "" {
		sessionID = engine.DefaultSessionID
	}
	c.log = c.log.WithFields(logrus.Fields{"user_id": c.userID, "session_id": sessionID})

	// Подписка до входа: игрок должен получить собственные player_joined и combat_started
	c.send = c.hub.Register(c.userID)
	c.hub.JoinSession(sessionID, c.userID)
	c.pumpDone = make(chan struct{})
	go c.writePump(c.send, c.pumpDone)

	binding, err := c.manager.Join(sessionID, c.connID, c.userID, classID)
	if err != nil {
		c.log.WithError(err).Warn("Join failed")
		// Уйдёт через writePump до close frame, см. close
		c.sendError(api.CodeBadRequest, err.Error())
		return false
	}
	c.binding = binding
	c.log.WithField("entity_id", binding.EntityID).Info("Client joined")

	c.hub.SendTo(c.userID, api.ServerMessage{Type: api.MsgJoined, Payload: api.JoinedPayload{
		SessionID: binding.SessionID,
		EntityID:  binding.EntityID,
		UserID:    binding.UserID,
	}})
	if err := c.sendSnapshot(); err != nil {
		c.log.WithError(err).Warn("Initial snapshot failed")
	}
	return true
}

// close отвязывает соединение от сессии и хаба.
// Сокет закрывается только после выхода writePump: у соединения один писатель.
func (c *Client) close() {
	if c.send != nil {
		c.manager.Disconnect(c.connID)
		// Закрытие канала: writePump допишет очередь, отправит close frame и выйдет
		c.hub.Unregister(c.userID, c.send)
		<-c.pumpDone
		c.log.Info("Client disconnected")
	}
	if err := c.conn.Close(); err != nil {
		c.log.WithError(err).Debug("failed to close websocket connection")
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump(send <-chan api.ServerMessage, done chan<- struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		defer close(done)
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.write(message); err != nil {
				c.log.WithError(err).Debug("write message failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

func (c *Client) write(msg api.ServerMessage) error {
	typ, data, err := c.codec.Encode(msg)
	if err != nil {
		c.log.WithError(err).WithField("type", msg.Type).Error("Encode failed, message dropped")
		return nil
	}
	return c.conn.WriteMessage(typ, data)
}

// writeDirect пишет в сокет до запуска writePump (только во время handshake)
func (c *Client) writeDirect(msg api.ServerMessage) {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.log.WithError(err).Warn("failed to set write deadline")
	}
	if err := c.write(msg); err != nil {
		c.log.WithError(err).Debug("write message failed")
	}
}

func (c *Client) sendSnapshot() error {
	snap, err := c.manager.Snapshot(c.connID)
	if err != nil {
		return err
	}
	c.hub.SendTo(c.userID, api.ServerMessage{Type: api.MsgSnapshot, Payload: snap})
	return nil
}

func (c *Client) sendError(code, message string) {
	c.hub.SendTo(c.userID, errorMessage(code, message))
}

func errorMessage(code, message string) api.ServerMessage {
	return api.ServerMessage{Type: api.MsgError, Payload: api.ErrorPayload{Code: code, Message: message}}
}
