package perception

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"
)

// MockCamera implements Camera for testing.
type MockCamera struct {
	// OpenFunc is called by Open. If nil, Open returns Stream.
	OpenFunc func(ctx context.Context) (Stream, error)

	// Stream is returned by Open when OpenFunc is nil.
	Stream *MockStream

	mu    sync.Mutex
	opens int
}

// NewMockCamera creates a camera whose stream yields img.
func NewMockCamera(img image.Image) *MockCamera {
	return &MockCamera{Stream: NewMockStream(img)}
}

// Open records the call and returns the configured stream.
func (c *MockCamera) Open(ctx context.Context) (Stream, error) {
	c.mu.Lock()
	c.opens++
	c.mu.Unlock()

	if c.OpenFunc != nil {
		return c.OpenFunc(ctx)
	}
	return c.Stream, nil
}

// Opens returns the number of Open calls.
func (c *MockCamera) Opens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}

// MockStream implements Stream for testing.
type MockStream struct {
	mu       sync.Mutex
	img      image.Image
	err      error
	captures int
	closed   int
}

// NewMockStream creates a stream that yields img on every capture.
func NewMockStream(img image.Image) *MockStream {
	return &MockStream{img: img}
}

// SetImage replaces the captured image.
func (s *MockStream) SetImage(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
}

// SetError makes Capture fail with err until cleared with nil.
func (s *MockStream) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Capture returns the configured image.
func (s *MockStream) Capture(ctx context.Context) (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captures++
	if s.err != nil {
		return Frame{}, s.err
	}
	return Frame{Image: s.img, CapturedAt: time.Now()}, nil
}

// Close records the call.
func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Captures returns the number of Capture calls.
func (s *MockStream) Captures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captures
}

// Closed returns the number of Close calls.
func (s *MockStream) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// MockDetector implements Detector for testing.
type MockDetector struct {
	// DetectFunc is called by Detect. If nil, Detect returns no objects.
	DetectFunc func(ctx context.Context, frame Frame) ([]Detection, error)

	mu    sync.Mutex
	calls int
}

// Detect records the call and delegates to DetectFunc.
func (d *MockDetector) Detect(ctx context.Context, frame Frame) ([]Detection, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()

	if d.DetectFunc != nil {
		return d.DetectFunc(ctx, frame)
	}
	return nil, nil
}

// Calls returns the number of Detect calls.
func (d *MockDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// UniformImage returns a width x height image filled with one gray level.
func UniformImage(width, height int, gray uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := color.RGBA{R: gray, G: gray, B: gray, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var (
	_ Camera   = (*MockCamera)(nil)
	_ Stream   = (*MockStream)(nil)
	_ Detector = (*MockDetector)(nil)
)
