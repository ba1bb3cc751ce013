// Package perception runs the camera-driven loops: continuous object
// detection and the simulated emotion readout.
//
// The Manager exclusively owns the camera stream. Detection and emotion
// snapshots are published as values; readers may see them change between
// reads but never mutate them.
package perception

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"
)

// Frame is one captured video frame.
type Frame struct {
	Image      image.Image
	CapturedAt time.Time
}

// Ready reports whether the frame carries pixels. A camera that is still
// warming up yields zero-sized frames.
func (f Frame) Ready() bool {
	return f.Image != nil && !f.Image.Bounds().Empty()
}

// Size returns the frame dimensions.
func (f Frame) Size() (width, height int) {
	if f.Image == nil {
		return 0, 0
	}
	b := f.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Box is a bounding box in frame pixel coordinates.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Detection is one labeled object found in a frame.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"bbox"`
}

// String renders the detection the way the dashboard shows it, e.g. "cup (87%)".
func (d Detection) String() string {
	return fmt.Sprintf("%s (%d%%)", d.Label, int(math.Round(d.Confidence*100)))
}

// Camera acquires a video stream.
type Camera interface {
	// Open starts capture. Errors are classified with ClassifyCameraError.
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open video stream.
type Stream interface {
	// Capture returns the current frame.
	Capture(ctx context.Context) (Frame, error)

	// Close stops the underlying hardware tracks.
	Close() error
}

// Detector finds objects in a frame.
type Detector interface {
	Detect(ctx context.Context, frame Frame) ([]Detection, error)
}

// Flags is the part of the session state the Manager writes.
type Flags interface {
	WebcamActive() bool
	SetWebcamActive(on bool) bool
	EmotionActive() bool
	SetEmotionActive(on bool) bool
}

// Snapshot is the published perception state.
type Snapshot struct {
	WebcamActive  bool         `json:"webcamActive"`
	EmotionActive bool         `json:"emotionActive"`
	Detections    []Detection  `json:"detections"`
	Emotion       EmotionState `json:"emotion"`
	Overlay       *Overlay     `json:"overlay,omitempty"`
}

// Labels returns the detection labels in order.
func Labels(dets []Detection) []string {
	out := make([]string, len(dets))
	for i, d := range dets {
		out[i] = d.Label
	}
	return out
}
