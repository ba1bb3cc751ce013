package opencv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/perception"
)

// ErrReadFailed is returned when the device stops delivering frames.
var ErrReadFailed = errors.New("opencv: frame read failed")

// Webcam opens a local capture device.
type Webcam struct {
	config CaptureConfig
	logger *slog.Logger
}

// NewWebcam validates cfg and returns a camera for it.
func NewWebcam(cfg CaptureConfig, logger *slog.Logger) (*Webcam, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid capture config: %v", errs)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Webcam{config: cfg, logger: logger.With("component", "opencv.webcam")}, nil
}

// Open starts capturing. Missing or inaccessible devices wrap
// os.ErrNotExist or os.ErrPermission so perception can classify them.
func (w *Webcam) Open(ctx context.Context) (perception.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := probeDevice(w.config.Device); err != nil {
		return nil, err
	}

	vc, err := gocv.OpenVideoCapture(w.config.Device)
	if err != nil {
		return nil, fmt.Errorf("open device %d: %w", w.config.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("open device %d: %w", w.config.Device, os.ErrNotExist)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(w.config.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(w.config.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(w.config.Framerate))

	w.logger.Info("device opened",
		"device", w.config.Device,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight))

	return &webcamStream{vc: vc, mat: gocv.NewMat()}, nil
}

// probeDevice checks the V4L2 node where one is expected.
func probeDevice(device int) error {
	if runtime.GOOS != "linux" {
		return nil
	}
	path := fmt.Sprintf("/dev/video%d", device)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return f.Close()
}

type webcamStream struct {
	mu     sync.Mutex
	vc     *gocv.VideoCapture
	mat    gocv.Mat
	closed bool
}

// Capture reads one frame. An empty read yields a frame that is not ready.
func (s *webcamStream) Capture(ctx context.Context) (perception.Frame, error) {
	if err := ctx.Err(); err != nil {
		return perception.Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return perception.Frame{}, os.ErrClosed
	}

	if ok := s.vc.Read(&s.mat); !ok {
		return perception.Frame{}, ErrReadFailed
	}
	if s.mat.Empty() {
		return perception.Frame{}, nil
	}

	img, err := s.mat.ToImage()
	if err != nil {
		return perception.Frame{}, fmt.Errorf("convert frame: %w", err)
	}
	return perception.Frame{Image: img, CapturedAt: time.Now()}, nil
}

func (s *webcamStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.mat.Close()
	return s.vc.Close()
}
