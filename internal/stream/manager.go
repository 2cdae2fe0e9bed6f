// Package stream manages the live-stream lifecycle: capture acquisition,
// peer-connection negotiation and signaling over the shared socket.
package stream

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/errs"
	"github.com/mirasocial/mira-client/internal/model"
)

// Signaler pushes signaling frames onto the shared socket.
type Signaler interface {
	Send(msg model.SignalMessage) error
}

// BackendAPI is the REST surface the manager needs.
type BackendAPI interface {
	StartStream(ctx context.Context, title string) (string, error)
	StopStream(ctx context.Context, streamID string) error
}

// Manager owns the stream session. State machine:
// Idle -> Acquiring -> Connecting -> Live -> Idle.
type Manager struct {
	api      BackendAPI
	device   CaptureDevice
	signaler Signaler
	sink     PlaybackSink
	stun     []string
	log      *zap.Logger

	mu          sync.Mutex
	state       model.StreamState
	streamID    string
	viewerCount int
	tracks      []webrtc.TrackLocal
	stopCapture func()
	pc          *webrtc.PeerConnection
	// secondary holds per-viewer connections created when viewers offer
	// directly to the broadcaster.
	secondary []*webrtc.PeerConnection
}

// NewManager creates a stream manager in the Idle state.
func NewManager(api BackendAPI, device CaptureDevice, signaler Signaler, sink PlaybackSink, stunServers []string, log *zap.Logger) *Manager {
	return &Manager{
		api:      api,
		device:   device,
		signaler: signaler,
		sink:     sink,
		stun:     stunServers,
		log:      log,
		state:    model.StreamStateIdle,
	}
}

// StartStream registers the stream with the backend, acquires local capture,
// negotiates the peer connection and sends the session offer over the
// signaling socket.
//
// The session is marked Live as soon as the offer round completes, without
// waiting for a matching answer; viewers are not guaranteed to be connected
// when Live is asserted.
func (m *Manager) StartStream(ctx context.Context, title string) (*model.StreamInfo, error) {
	m.mu.Lock()
	if m.state != model.StreamStateIdle {
		m.mu.Unlock()
		return nil, errs.ErrAlreadyLive
	}
	m.state = model.StreamStateAcquiring
	m.mu.Unlock()

	info, err := m.negotiate(ctx, title)
	if err != nil {
		m.reset()
		return nil, err
	}
	return info, nil
}

func (m *Manager) negotiate(ctx context.Context, title string) (*model.StreamInfo, error) {
	streamID, err := m.api.StartStream(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("register stream: %w", err)
	}

	info, err := m.connect(ctx, streamID)
	if err != nil {
		// Registered but never went live; release the backend slot so it is
		// not stuck waiting for a stop that would never come.
		if derr := m.api.StopStream(ctx, streamID); derr != nil {
			m.log.Warn("deregister stream failed", zap.String("stream_id", streamID), zap.Error(derr))
		}
		return nil, err
	}
	return info, nil
}

func (m *Manager) connect(ctx context.Context, streamID string) (*model.StreamInfo, error) {
	tracks, stopCapture, err := m.device.Acquire(ctx, CaptureConstraints{Audio: true, Video: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDeviceUnavailable, err)
	}

	m.mu.Lock()
	m.state = model.StreamStateConnecting
	m.mu.Unlock()

	pc, err := webrtc.NewPeerConnection(m.rtcConfig())
	if err != nil {
		stopCapture()
		return nil, fmt.Errorf("peer connection: %w", err)
	}

	for _, t := range tracks {
		if _, err := pc.AddTrack(t); err != nil {
			stopCapture()
			_ = pc.Close()
			return nil, fmt.Errorf("add track: %w", err)
		}
	}

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		m.sendSignal(model.SignalICECandidate, streamID, c.ToJSON())
	})
	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		if m.sink != nil {
			m.sink.AttachRemoteTrack(streamID, track)
		}
	})

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		stopCapture()
		_ = pc.Close()
		return nil, fmt.Errorf("create offer: %w", err)
	}
	if err := pc.SetLocalDescription(offer); err != nil {
		stopCapture()
		_ = pc.Close()
		return nil, fmt.Errorf("set local description: %w", err)
	}
	m.sendSignal(model.SignalOffer, streamID, offer)

	m.mu.Lock()
	m.state = model.StreamStateLive
	m.streamID = streamID
	m.viewerCount = 0
	m.tracks = tracks
	m.stopCapture = stopCapture
	m.pc = pc
	m.mu.Unlock()

	m.log.Info("stream live", zap.String("stream_id", streamID))
	return &model.StreamInfo{StreamID: streamID, State: model.StreamStateLive, IsLive: true}, nil
}

// StopStream ends the live session: notifies the backend, stops local
// capture, closes the peer connection and any secondary connections, and
// resets to Idle. No-op when not live; calling it twice is idempotent.
func (m *Manager) StopStream(ctx context.Context) error {
	m.mu.Lock()
	if m.state != model.StreamStateLive {
		m.mu.Unlock()
		return nil
	}
	streamID := m.streamID
	stopCapture := m.stopCapture
	pc := m.pc
	secondary := m.secondary
	m.state = model.StreamStateIdle
	m.streamID = ""
	m.viewerCount = 0
	m.tracks = nil
	m.stopCapture = nil
	m.pc = nil
	m.secondary = nil
	m.mu.Unlock()

	err := m.api.StopStream(ctx, streamID)
	if err != nil {
		m.log.Warn("stop stream request failed", zap.String("stream_id", streamID), zap.Error(err))
	}

	if stopCapture != nil {
		stopCapture()
	}
	if pc != nil {
		_ = pc.Close()
	}
	for _, s := range secondary {
		_ = s.Close()
	}
	m.log.Info("stream stopped", zap.String("stream_id", streamID))
	return err
}

// HandleSignal routes an incoming signaling frame for the current stream.
// Frames for other stream ids or while idle are dropped.
func (m *Manager) HandleSignal(msg model.SignalMessage) {
	m.mu.Lock()
	live := m.state == model.StreamStateLive && msg.StreamID == m.streamID
	pc := m.pc
	m.mu.Unlock()
	if !live {
		return
	}

	switch msg.Type {
	case model.SignalAnswer:
		var desc webrtc.SessionDescription
		if err := json.Unmarshal(msg.Payload, &desc); err != nil {
			m.log.Warn("malformed answer", zap.Error(err))
			return
		}
		if err := pc.SetRemoteDescription(desc); err != nil {
			m.log.Warn("set remote description failed", zap.Error(err))
		}
	case model.SignalICECandidate:
		var cand webrtc.ICECandidateInit
		if err := json.Unmarshal(msg.Payload, &cand); err != nil {
			m.log.Warn("malformed ice candidate", zap.Error(err))
			return
		}
		if err := pc.AddICECandidate(cand); err != nil {
			m.log.Warn("add ice candidate failed", zap.Error(err))
		}
	case model.SignalOffer:
		m.handleViewerOffer(msg)
	case model.SignalViewerJoined:
		m.mu.Lock()
		m.viewerCount++
		m.mu.Unlock()
	case model.SignalViewerLeft:
		m.mu.Lock()
		if m.viewerCount > 0 {
			m.viewerCount--
		}
		m.mu.Unlock()
	}
}

// handleViewerOffer answers a viewer that negotiates directly with the
// broadcaster: a secondary peer connection carrying the same local tracks.
func (m *Manager) handleViewerOffer(msg model.SignalMessage) {
	var remote webrtc.SessionDescription
	if err := json.Unmarshal(msg.Payload, &remote); err != nil {
		m.log.Warn("malformed viewer offer", zap.Error(err))
		return
	}

	pc, err := webrtc.NewPeerConnection(m.rtcConfig())
	if err != nil {
		m.log.Warn("secondary peer connection failed", zap.Error(err))
		return
	}

	m.mu.Lock()
	tracks := m.tracks
	streamID := m.streamID
	m.mu.Unlock()

	for _, t := range tracks {
		if _, err := pc.AddTrack(t); err != nil {
			m.log.Warn("secondary add track failed", zap.Error(err))
			_ = pc.Close()
			return
		}
	}
	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		m.sendSignal(model.SignalICECandidate, streamID, c.ToJSON())
	})

	if err := pc.SetRemoteDescription(remote); err != nil {
		m.log.Warn("secondary set remote failed", zap.Error(err))
		_ = pc.Close()
		return
	}
	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		m.log.Warn("create answer failed", zap.Error(err))
		_ = pc.Close()
		return
	}
	if err := pc.SetLocalDescription(answer); err != nil {
		m.log.Warn("secondary set local failed", zap.Error(err))
		_ = pc.Close()
		return
	}
	m.sendSignal(model.SignalAnswer, streamID, answer)

	m.mu.Lock()
	m.secondary = append(m.secondary, pc)
	m.mu.Unlock()
}

// rtcConfig builds the peer-connection configuration from the fixed
// rendezvous server list.
func (m *Manager) rtcConfig() webrtc.Configuration {
	cfg := webrtc.Configuration{}
	if len(m.stun) > 0 {
		cfg.ICEServers = []webrtc.ICEServer{{URLs: m.stun}}
	}
	return cfg
}

// Info returns the current session snapshot.
func (m *Manager) Info() model.StreamInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.StreamInfo{
		StreamID:    m.streamID,
		State:       m.state,
		IsLive:      m.state == model.StreamStateLive,
		ViewerCount: m.viewerCount,
	}
}

// sendSignal marshals payload and pushes one frame. Send failures are logged,
// not retried.
func (m *Manager) sendSignal(typ, streamID string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		m.log.Warn("marshal signal payload", zap.String("type", typ), zap.Error(err))
		return
	}
	msg := model.SignalMessage{Type: typ, StreamID: streamID, Payload: raw}
	if err := m.signaler.Send(msg); err != nil {
		m.log.Warn("send signal failed", zap.String("type", typ), zap.Error(err))
	}
}

func (m *Manager) reset() {
	m.mu.Lock()
	m.state = model.StreamStateIdle
	m.streamID = ""
	m.viewerCount = 0
	m.tracks = nil
	m.stopCapture = nil
	m.pc = nil
	m.secondary = nil
	m.mu.Unlock()
}
