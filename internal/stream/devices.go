package stream

import (
	"context"
	"sync"

	"github.com/pion/webrtc/v4"
)

// CaptureConstraints selects which local tracks to acquire.
type CaptureConstraints struct {
	Audio bool
	Video bool
}

// CaptureDevice is the narrow camera/microphone contract. Acquire returns the
// local tracks and a stop function that releases the hardware.
type CaptureDevice interface {
	Acquire(ctx context.Context, constraints CaptureConstraints) ([]webrtc.TrackLocal, func(), error)
}

// PlaybackSink receives remote media tracks for display.
type PlaybackSink interface {
	AttachRemoteTrack(streamID string, track *webrtc.TrackRemote)
}

// SampleDevice is the built-in capture device: it hands out static sample
// tracks (VP8 video, Opus audio) that a platform integration feeds frames
// into. It never fails acquisition.
type SampleDevice struct{}

// Acquire returns freshly created local tracks per the constraints.
func (SampleDevice) Acquire(_ context.Context, constraints CaptureConstraints) ([]webrtc.TrackLocal, func(), error) {
	var tracks []webrtc.TrackLocal
	if constraints.Video {
		v, err := webrtc.NewTrackLocalStaticSample(
			webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}, "video", "mira-capture")
		if err != nil {
			return nil, nil, err
		}
		tracks = append(tracks, v)
	}
	if constraints.Audio {
		a, err := webrtc.NewTrackLocalStaticSample(
			webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}, "audio", "mira-capture")
		if err != nil {
			return nil, nil, err
		}
		tracks = append(tracks, a)
	}
	return tracks, func() {}, nil
}

// CollectorSink keeps every remote track it is handed. Entries are never
// removed; callers render from Tracks and are responsible for draining
// stale ones.
type CollectorSink struct {
	mu     sync.Mutex
	tracks []*webrtc.TrackRemote
}

// AttachRemoteTrack appends the track to the playback list.
func (s *CollectorSink) AttachRemoteTrack(_ string, track *webrtc.TrackRemote) {
	s.mu.Lock()
	s.tracks = append(s.tracks, track)
	s.mu.Unlock()
}

// Tracks returns the attached remote tracks in arrival order.
func (s *CollectorSink) Tracks() []*webrtc.TrackRemote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*webrtc.TrackRemote, len(s.tracks))
	copy(out, s.tracks)
	return out
}
