package protocol

import "encoding/json"

// Layer is one positioned, transformable element of the composite photo.
// The server carries layer lists opaquely; only clients interpret them.
type Layer struct {
	ID       string  `json:"id"`
	Src      string  `json:"src"`
	Opacity  float64 `json:"opacity"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
	Visible  bool    `json:"visible"`
	Locked   bool    `json:"locked"`
}

// Background describes the room's composite background.
type Background struct {
	Color string  `json:"color,omitempty"`
	Image string  `json:"image,omitempty"`
	Blur  float64 `json:"blur,omitempty"`
}

// ICEServer describes STUN/TURN servers advertised to clients.
type ICEServer struct {
	URLs       []string `json:"urls"`
	Username   string   `json:"username,omitempty"`
	Credential string   `json:"credential,omitempty"`
}

// InboundMessage is the envelope clients send to the booth service.
type InboundMessage struct {
	Type       string          `json:"type"`
	Room       string          `json:"room,omitempty"`
	To         string          `json:"to,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Layers     []Layer         `json:"layers,omitempty"`
	Background *Background     `json:"background,omitempty"`
	Name       string          `json:"name,omitempty"`
	Enabled    *bool           `json:"enabled,omitempty"`
}

// WelcomeMessage greets a new connection with its assigned identity.
type WelcomeMessage struct {
	Type       string      `json:"type"`
	ID         string      `json:"id"`
	ICEServers []ICEServer `json:"iceServers,omitempty"`
	ICEMode    string      `json:"iceMode,omitempty"`
}

// RoomJoinedMessage acknowledges a join and carries the room roster.
type RoomJoinedMessage struct {
	Type    string            `json:"type"`
	ID      string            `json:"id"`
	Room    string            `json:"room"`
	Members []string          `json:"members"`
	Names   map[string]string `json:"names,omitempty"`
	Cameras []string          `json:"cameras,omitempty"`
}

// PresenceMessage tells room members that one member joined or left.
type PresenceMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// SignalMessage carries opaque peer handshake data between two connections.
type SignalMessage struct {
	Type string          `json:"type"`
	From string          `json:"from"`
	Data json.RawMessage `json:"data"`
}

// CaptureMessage instructs every room member to capture a frame locally.
type CaptureMessage struct {
	Type       string `json:"type"`
	CapturedAt string `json:"capturedAt"`
}

// LayersMessage replaces the receiver's layer list wholesale.
type LayersMessage struct {
	Type   string  `json:"type"`
	From   string  `json:"from"`
	Layers []Layer `json:"layers"`
}

// BackgroundMessage replaces the receiver's background descriptor.
type BackgroundMessage struct {
	Type       string     `json:"type"`
	From       string     `json:"from"`
	Background Background `json:"background"`
}

// NameMessage announces a member's display name to the room.
type NameMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CameraMessage announces a member's camera availability to the room.
type CameraMessage struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}
