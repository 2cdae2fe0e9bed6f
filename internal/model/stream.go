package model

import "github.com/goccy/go-json"

// StreamState is the live-stream state machine position.
type StreamState string

const (
	StreamStateIdle       StreamState = "idle"
	StreamStateAcquiring  StreamState = "acquiring"
	StreamStateConnecting StreamState = "connecting"
	StreamStateLive       StreamState = "live"
)

// StreamInfo is the API view of the current stream session.
type StreamInfo struct {
	StreamID    string      `json:"stream_id,omitempty"`
	State       StreamState `json:"state"`
	IsLive      bool        `json:"is_live"`
	ViewerCount int         `json:"viewer_count"`
}

// StartStreamRequest is the request body for POST /streams/start.
type StartStreamRequest struct {
	Title string `json:"title"`
}

// StartStreamResponse is the backend response for POST /streams/start.
type StartStreamResponse struct {
	StreamID string `json:"stream_id"`
}

// Signaling message types exchanged on the shared socket.
const (
	SignalOffer        = "offer"
	SignalAnswer       = "answer"
	SignalICECandidate = "ice-candidate"
	SignalViewerJoined = "viewer-joined"
	SignalViewerLeft   = "viewer-left"
	EventNotification  = "notification"
)

// SignalMessage is one JSON frame on the signaling socket. Payload carries the
// type-specific body (SDP, ICE candidate, notification) undecoded so the
// dispatcher can route on Type without knowing every shape.
type SignalMessage struct {
	Type     string          `json:"type"`
	StreamID string          `json:"streamId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}
