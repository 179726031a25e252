package signaling

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"photobooth/pkg/protocol"
	"photobooth/pkg/rooms"
)

const (
	defaultReadLimit   = 64 * 1024
	pingInterval       = 40 * time.Second
	pongWait           = 60 * time.Second
	writeTimeout       = 10 * time.Second
	upgradeReadBuffer  = 1024
	upgradeWriteBuffer = 1024
)

// NameStore is an optional application-level store for member display names.
type NameStore interface {
	Remove(ctx context.Context, id string) error
	Set(ctx context.Context, id string, name string) error
	Names(ctx context.Context) (map[string]string, error)
}

// CameraStore is an optional application-level store for camera availability.
type CameraStore interface {
	Remove(ctx context.Context, id string) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Enabled(ctx context.Context) ([]string, error)
}

// HubOptions configures a Hub instance.
type HubOptions struct {
	ICEServers []protocol.ICEServer
	ICEMode    string
	Logger     *log.Logger
	Upgrader   *websocket.Upgrader
	Names      NameStore
	Cameras    CameraStore
	// Now overrides the capture timestamp source (useful in tests).
	Now func() time.Time
}

// ConnOptions controls how a connection is registered.
type ConnOptions struct {
	// ID overrides the generated identity (useful for authenticated callers).
	ID string
	// Context lets the caller cancel the connection (defaults to Background).
	Context context.Context
}

// Hub tracks every live connection and its room membership, relays peer
// handshake payloads, and fans out capture triggers and edit-state updates
// within a room.
//
// The relay path resolves destinations across all rooms on purpose: two
// connections that know each other's identity can exchange handshake data
// without sharing a room. Edit and capture messages, by contrast, only fan
// out within the sender's current room.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client

	rooms   rooms.Store
	names   NameStore
	cameras CameraStore

	iceServers []protocol.ICEServer
	iceMode    string
	upgrader   websocket.Upgrader
	logger     *log.Logger
	now        func() time.Time
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	// room is the client's current room; touched only by its reader goroutine.
	room   string
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub builds a Hub over the provided room directory and options.
func NewHub(roomStore rooms.Store, opts HubOptions) *Hub {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  upgradeReadBuffer,
		WriteBufferSize: upgradeWriteBuffer,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	if opts.Upgrader != nil {
		upgrader = *opts.Upgrader
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Hub{
		clients:    make(map[string]*client),
		rooms:      roomStore,
		names:      opts.Names,
		cameras:    opts.Cameras,
		iceServers: opts.ICEServers,
		iceMode:    opts.ICEMode,
		upgrader:   upgrader,
		logger:     logger,
		now:        now,
	}
}

// HTTPHandler upgrades HTTP connections and registers them with the Hub.
func (h *Hub) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("upgrade error: %v", err)
			return
		}
		// Use a background context so the connection isn't canceled when the HTTP handler returns.
		if err := h.Accept(conn, ConnOptions{}); err != nil {
			h.logger.Printf("accept error: %v", err)
			conn.Close()
		}
	})
}

// Accept registers an already-upgraded WebSocket connection (useful when auth/guards are handled elsewhere).
func (h *Hub) Accept(conn *websocket.Conn, opts ConnOptions) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	c := &client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, 32),
		ctx:    ctx,
		cancel: cancel,
	}

	h.register(c)

	go c.writePump()
	go c.readPump(h)
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.logger.Printf("ws: registered %s", c.id)

	welcome := protocol.WelcomeMessage{
		Type:       "welcome",
		ID:         c.id,
		ICEServers: h.iceServers,
		ICEMode:    h.iceMode,
	}
	c.sendJSON(welcome)
}

// unregister runs the full teardown for a lost connection: leave the current
// room, drop auxiliary state, discard the identity. It is idempotent, so two
// code paths detecting the same loss clean up exactly once.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if h.clients[c.id] != c {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	h.mu.Unlock()

	h.leaveRoom(c)

	ctx := context.Background()
	if h.names != nil {
		if err := h.names.Remove(ctx, c.id); err != nil {
			h.logger.Printf("name state remove: %v", err)
		}
	}
	if h.cameras != nil {
		if err := h.cameras.Remove(ctx, c.id); err != nil {
			h.logger.Printf("camera state remove: %v", err)
		}
	}

	h.logger.Printf("ws: unregistered %s", c.id)
}

func (h *Hub) handleInbound(c *client, msg protocol.InboundMessage) {
	switch msg.Type {
	case "join-room":
		room := strings.TrimSpace(msg.Room)
		if room == "" {
			return
		}
		h.joinRoom(c, room)
	case "signal":
		if msg.To == "" || len(msg.Data) == 0 {
			return
		}
		h.forwardSignal(c.id, msg.To, msg.Data)
	case "capture-trigger":
		if msg.Room == "" || msg.Room != c.room {
			return
		}
		h.triggerCapture(msg.Room)
	case "layer-update":
		if msg.Room == "" || msg.Room != c.room || msg.Layers == nil {
			return
		}
		h.broadcastRoom(msg.Room, protocol.LayersMessage{
			Type:   "layer-update",
			From:   c.id,
			Layers: msg.Layers,
		}, c.id)
	case "background-update":
		if msg.Room == "" || msg.Room != c.room || msg.Background == nil {
			return
		}
		h.broadcastRoom(msg.Room, protocol.BackgroundMessage{
			Type:       "background-update",
			From:       c.id,
			Background: *msg.Background,
		}, c.id)
	case "set-name":
		if h.names == nil {
			return
		}
		h.setName(c, msg.Name)
	case "camera":
		if h.cameras == nil || msg.Enabled == nil {
			return
		}
		h.setCamera(c, *msg.Enabled)
	default:
		h.logger.Printf("unknown message type from %s: %s", c.id, msg.Type)
	}
}

// joinRoom moves the client into room. A join while already in another room
// runs the old room's leave path first; a re-join of the current room is a
// membership no-op that still acks the joiner but does not re-announce it.
func (h *Hub) joinRoom(c *client, room string) {
	ctx := context.Background()

	if c.room != "" && c.room != room {
		h.leaveRoom(c)
	}

	members, joined, err := h.rooms.Join(ctx, room, c.id)
	if err != nil {
		h.logger.Printf("room join %s: %v", room, err)
		return
	}
	c.room = room

	h.logger.Printf("ws: %s joined room %s (members=%d)", c.id, room, len(members))

	ack := protocol.RoomJoinedMessage{
		Type:    "room-joined",
		ID:      c.id,
		Room:    room,
		Members: members,
		Names:   h.roomNames(ctx, members),
		Cameras: h.roomCameras(ctx, members),
	}
	c.sendJSON(ack)

	if joined {
		h.broadcastRoom(room, protocol.PresenceMessage{Type: "user-joined", ID: c.id}, c.id)
	}
}

// leaveRoom removes the client from its current room, if any, and notifies
// the remaining members.
func (h *Hub) leaveRoom(c *client) {
	if c.room == "" {
		return
	}
	room := c.room
	c.room = ""

	if err := h.rooms.Leave(context.Background(), room, c.id); err != nil {
		h.logger.Printf("room leave %s: %v", room, err)
	}
	h.broadcastRoom(room, protocol.PresenceMessage{Type: "user-left", ID: c.id}, c.id)
}

// forwardSignal delivers an opaque handshake payload to one connection.
// An absent destination is an expected race (peer gone mid-handshake): the
// payload is dropped and no error reaches the sender.
func (h *Hub) forwardSignal(from, to string, payload json.RawMessage) {
	data, err := json.Marshal(protocol.SignalMessage{
		Type: "signal",
		From: from,
		Data: payload,
	})
	if err != nil {
		h.logger.Printf("marshal signal: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	target := h.clients[to]
	if target == nil {
		h.logger.Printf("ws: signal target missing %s -> %s", from, to)
		return
	}
	select {
	case target.send <- data:
	default:
		h.logger.Printf("client send buffer full for %s, dropping signal", to)
	}
}

// triggerCapture fans one capture notice to every current member of room,
// the sender included. Best effort: no acks are collected, and concurrent
// triggers each produce their own broadcast.
func (h *Hub) triggerCapture(room string) {
	h.broadcastRoom(room, protocol.CaptureMessage{
		Type:       "capture-now",
		CapturedAt: h.now().UTC().Format(time.RFC3339Nano),
	}, "")
}

func (h *Hub) setName(c *client, name string) {
	name = strings.TrimSpace(name)
	if err := h.names.Set(context.Background(), c.id, name); err != nil {
		h.logger.Printf("name state set: %v", err)
	}
	if c.room != "" {
		h.broadcastRoom(c.room, protocol.NameMessage{Type: "name-update", ID: c.id, Name: name}, "")
	}
}

func (h *Hub) setCamera(c *client, enabled bool) {
	if err := h.cameras.SetEnabled(context.Background(), c.id, enabled); err != nil {
		h.logger.Printf("camera state set: %v", err)
	}
	if c.room != "" {
		h.broadcastRoom(c.room, protocol.CameraMessage{Type: "camera-state", ID: c.id, Enabled: enabled}, "")
	}
}

// broadcastRoom fans msg to every member of room except skipID. The member
// set is snapshotted from the directory first, so membership churn during
// the fanout cannot invalidate the iteration.
func (h *Hub) broadcastRoom(room string, msg interface{}, skipID string) {
	members, err := h.rooms.Members(context.Background(), room)
	if err != nil {
		h.logger.Printf("room members %s: %v", room, err)
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Printf("marshal broadcast: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range members {
		if id == skipID {
			continue
		}
		cl := h.clients[id]
		if cl == nil {
			continue
		}
		select {
		case cl.send <- data:
		default:
			h.logger.Printf("client send buffer full for %s, dropping message", id)
		}
	}
}

// roomNames filters the name store down to the given members.
func (h *Hub) roomNames(ctx context.Context, members []string) map[string]string {
	if h.names == nil {
		return nil
	}
	all, err := h.names.Names(ctx)
	if err != nil {
		h.logger.Printf("name state error: %v", err)
		return nil
	}
	out := make(map[string]string)
	for _, id := range members {
		if name, ok := all[id]; ok {
			out[id] = name
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// roomCameras filters the camera store down to the given members.
func (h *Hub) roomCameras(ctx context.Context, members []string) []string {
	if h.cameras == nil {
		return nil
	}
	enabled, err := h.cameras.Enabled(ctx)
	if err != nil {
		h.logger.Printf("camera state error: %v", err)
		return nil
	}
	on := make(map[string]struct{}, len(enabled))
	for _, id := range enabled {
		on[id] = struct{}{}
	}
	var out []string
	for _, id := range members {
		if _, ok := on[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		close(c.send)
		c.cancel()
	}()

	c.conn.SetReadLimit(defaultReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return
			}
			if !errors.Is(err, websocket.ErrCloseSent) {
				h.logger.Printf("read error from %s: %v", c.id, err)
			}
			return
		}

		var msg protocol.InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			// A malformed message is discarded; the connection stays up.
			h.logger.Printf("bad payload from %s: %v", c.id, err)
			continue
		}
		h.handleInbound(c, msg)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) sendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
