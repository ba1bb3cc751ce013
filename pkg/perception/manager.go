package perception

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/store"
)

// ErrNoCamera is returned when the Manager was built without a camera.
var ErrNoCamera = errors.New("perception: no camera configured")

// EmotionStart describes what StartEmotionDetection did.
type EmotionStart struct {
	// AlreadyActive is set when emotion detection was running already.
	AlreadyActive bool

	// CameraStarted is set when the camera had to be started first.
	CameraStarted bool
}

// Manager owns the camera and runs the detection and emotion loops.
type Manager struct {
	camera   Camera
	detector Detector
	flags    Flags
	sim      *Simulator
	config   *Config
	logger   *slog.Logger

	// op serializes start and stop transitions.
	op sync.Mutex

	stream        Stream
	cameraCancel  context.CancelFunc
	cameraWG      sync.WaitGroup
	emotionCancel context.CancelFunc
	emotionWG     sync.WaitGroup

	mu         sync.RWMutex
	frame      Frame
	detections []Detection
	emotion    EmotionState
	overlay    *Overlay
	lastLogged []string
}

// NewManager creates a Manager. detector may be nil, in which case frames
// are captured but no objects are reported.
func NewManager(camera Camera, detector Detector, flags Flags, opts ...Option) *Manager {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Manager{
		camera:   camera,
		detector: detector,
		flags:    flags,
		sim:      NewSimulator(cfg.Rand),
		config:   cfg,
		logger:   cfg.Logger.With("component", "perception.manager"),
	}
}

// StartCamera opens the camera and starts the detection loop. It reports
// false without error when the camera was already active. Failures are
// *CameraError and leave the camera inactive.
func (m *Manager) StartCamera(ctx context.Context) (bool, error) {
	m.op.Lock()
	defer m.op.Unlock()
	return m.startCameraLocked(ctx)
}

func (m *Manager) startCameraLocked(ctx context.Context) (bool, error) {
	if m.flags.WebcamActive() {
		return false, nil
	}
	if m.camera == nil {
		return false, ClassifyCameraError(ErrNoCamera)
	}

	stream, err := m.camera.Open(ctx)
	if err != nil {
		cerr := ClassifyCameraError(err)
		m.logger.Warn("camera open failed", "reason", cerr.Reason, "error", err)
		return false, cerr
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	m.stream = stream
	m.cameraCancel = cancel
	m.flags.SetWebcamActive(true)

	m.cameraWG.Add(1)
	go m.detectLoop(loopCtx, stream)

	m.logger.Info("camera started")
	m.publish()
	return true, nil
}

// StopCamera stops emotion detection if running, halts the detection loop,
// and releases the stream. It is idempotent and reports whether the camera
// was active.
func (m *Manager) StopCamera() bool {
	m.op.Lock()
	defer m.op.Unlock()
	return m.stopCameraLocked()
}

func (m *Manager) stopCameraLocked() bool {
	m.stopEmotionLocked()

	was := m.flags.SetWebcamActive(false)
	cancel, stream := m.cameraCancel, m.stream
	m.cameraCancel, m.stream = nil, nil

	if cancel != nil {
		cancel()
		m.cameraWG.Wait()
		if err := stream.Close(); err != nil {
			m.logger.Warn("camera close failed", "error", err)
		}
		m.logger.Info("camera stopped")
	}

	m.mu.Lock()
	m.frame = Frame{}
	m.detections = nil
	m.lastLogged = nil
	m.mu.Unlock()

	m.publish()
	return was
}

// StartEmotionDetection starts the emotion loop, starting the camera first
// if needed. A camera failure leaves both inactive.
func (m *Manager) StartEmotionDetection(ctx context.Context) (EmotionStart, error) {
	m.op.Lock()
	defer m.op.Unlock()

	if m.flags.EmotionActive() {
		return EmotionStart{AlreadyActive: true}, nil
	}

	var res EmotionStart
	if !m.flags.WebcamActive() {
		if _, err := m.startCameraLocked(ctx); err != nil {
			return res, err
		}
		res.CameraStarted = true
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	m.emotionCancel = cancel
	m.flags.SetEmotionActive(true)

	m.emotionWG.Add(1)
	go m.emotionLoop(loopCtx)

	m.logger.Info("emotion detection started")
	m.publish()
	return res, nil
}

// StopEmotionDetection stops the emotion loop. It is idempotent and reports
// whether emotion detection was active.
func (m *Manager) StopEmotionDetection() bool {
	m.op.Lock()
	defer m.op.Unlock()
	was := m.stopEmotionLocked()
	m.publish()
	return was
}

func (m *Manager) stopEmotionLocked() bool {
	was := m.flags.SetEmotionActive(false)
	cancel := m.emotionCancel
	m.emotionCancel = nil

	if cancel != nil {
		cancel()
		m.emotionWG.Wait()
		m.logger.Info("emotion detection stopped")
	}

	m.mu.Lock()
	m.emotion = EmotionState{}
	m.overlay = nil
	m.mu.Unlock()
	return was
}

// StopAll stops emotion detection and the camera.
func (m *Manager) StopAll() {
	m.op.Lock()
	defer m.op.Unlock()
	m.stopCameraLocked()
}

// Close stops everything.
func (m *Manager) Close() error {
	m.StopAll()
	return nil
}

// CurrentDetections returns the detections of the last processed frame.
func (m *Manager) CurrentDetections() []Detection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.detections)
}

// CurrentEmotion returns the latest emotion readout.
func (m *Manager) CurrentEmotion() EmotionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.emotion
}

// Overlay returns the overlay of the latest readout, or nil when no face is present.
func (m *Manager) Overlay() *Overlay {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.overlay == nil {
		return nil
	}
	o := *m.overlay
	return &o
}

// Snapshot returns the full published state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// DetectionLog returns the persisted detection history, oldest first.
func (m *Manager) DetectionLog(ctx context.Context) ([]store.LogEntry, error) {
	if m.config.DetectionLog == nil {
		return nil, nil
	}
	return m.config.DetectionLog.Entries(ctx)
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{
		WebcamActive:  m.flags.WebcamActive(),
		EmotionActive: m.flags.EmotionActive(),
		Detections:    slices.Clone(m.detections),
		Emotion:       m.emotion,
	}
	if m.overlay != nil {
		o := *m.overlay
		s.Overlay = &o
	}
	return s
}

func (m *Manager) publish() {
	if m.config.OnUpdate == nil {
		return
	}
	m.config.OnUpdate(m.Snapshot())
}

// detectLoop captures and classifies frames until ctx is cancelled.
func (m *Manager) detectLoop(ctx context.Context, stream Stream) {
	defer m.cameraWG.Done()

	var delay time.Duration
	for {
		if !sleep(ctx, delay) || !m.flags.WebcamActive() {
			return
		}
		delay = m.config.RetryBackoff

		frame, err := stream.Capture(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Debug("capture failed", "error", err)
			continue
		}
		if !frame.Ready() {
			continue
		}

		m.mu.Lock()
		m.frame = frame
		m.mu.Unlock()

		if m.detector == nil {
			delay = m.config.FrameInterval
			continue
		}

		dets, err := m.detector.Detect(ctx, frame)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Warn("object detection failed", "error", err)
			continue
		}

		// Re-check so a stop during Detect does not publish stale results.
		if ctx.Err() != nil {
			return
		}
		m.setDetections(ctx, dets)
		delay = m.config.FrameInterval
	}
}

func (m *Manager) setDetections(ctx context.Context, dets []Detection) {
	labels := Labels(dets)

	m.mu.Lock()
	m.detections = dets
	changed := len(labels) > 0 && !slices.Equal(labels, m.lastLogged)
	if changed {
		m.lastLogged = labels
	}
	m.mu.Unlock()

	if changed && m.config.DetectionLog != nil {
		entry := store.LogEntry{Timestamp: m.config.Now(), Objects: make([]store.LoggedObject, len(dets))}
		for i, d := range dets {
			entry.Objects[i] = store.LoggedObject{
				Label: d.Label,
				Score: d.Confidence,
				BBox:  [4]float64{d.Box.X, d.Box.Y, d.Box.W, d.Box.H},
			}
		}
		if err := m.config.DetectionLog.Append(ctx, entry); err != nil {
			m.logger.Warn("detection log append failed", "error", err)
		}
	}

	m.publish()
}

// emotionLoop publishes a readout now and then every EmotionInterval.
func (m *Manager) emotionLoop(ctx context.Context) {
	defer m.emotionWG.Done()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if !m.flags.EmotionActive() || !m.flags.WebcamActive() {
			return
		}
		next := m.config.EmotionInterval
		if !m.emotionTick() {
			next = m.config.RetryBackoff
		}

		if ctx.Err() != nil || !m.flags.EmotionActive() {
			return
		}
		timer.Reset(next)
	}
}

// emotionTick publishes one readout. It reports false when no frame is ready yet.
func (m *Manager) emotionTick() bool {
	m.mu.RLock()
	frame := m.frame
	m.mu.RUnlock()

	if !frame.Ready() {
		return false
	}

	state := EmotionState{UpdatedAt: m.config.Now()}
	var overlay *Overlay
	if FacePresent(frame.Image) {
		state.Label, state.Confidence = m.sim.Next()
		w, h := frame.Size()
		overlay = NewOverlay(w, h, state)
	}

	m.mu.Lock()
	m.emotion = state
	m.overlay = overlay
	m.mu.Unlock()

	m.logger.Debug("emotion readout", "label", state.Label, "confidence", state.Confidence)
	m.publish()
	return true
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
