// Package opencv implements the perception camera and object detector
// on top of OpenCV through gocv.
package opencv

import "fmt"

// CaptureConfig holds the webcam capture settings.
type CaptureConfig struct {
	Device    int `json:"device"`    // V4L2 index, e.g. 0 for /dev/video0
	Width     int `json:"width"`     // Requested frame width in pixels
	Height    int `json:"height"`    // Requested frame height in pixels
	Framerate int `json:"framerate"` // Requested FPS
}

// Capture limits.
const (
	MinWidth     = 160
	MinHeight    = 120
	MaxWidth     = 3840
	MaxHeight    = 2160
	MaxFramerate = 120
)

// Preset names for common capture settings.
const (
	PresetDefault = "default"
	Preset720p    = "720p"
	Preset1080p   = "1080p"
	PresetLow     = "low"
)

// DefaultCaptureConfig returns 640x480 at 30 FPS from the first device.
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		Device:    0,
		Width:     640,
		Height:    480,
		Framerate: 30,
	}
}

// Presets returns all available capture presets.
func Presets() map[string]CaptureConfig {
	hd := DefaultCaptureConfig()
	hd.Width, hd.Height = 1280, 720

	fhd := DefaultCaptureConfig()
	fhd.Width, fhd.Height = 1920, 1080

	low := DefaultCaptureConfig()
	low.Width, low.Height, low.Framerate = 320, 240, 15

	return map[string]CaptureConfig{
		PresetDefault: DefaultCaptureConfig(),
		Preset720p:    hd,
		Preset1080p:   fhd,
		PresetLow:     low,
	}
}

// GetPreset returns the named preset, or nil if unknown.
func GetPreset(name string) *CaptureConfig {
	if p, ok := Presets()[name]; ok {
		return &p
	}
	return nil
}

// Validate checks the settings and returns every problem found, or nil.
func (c *CaptureConfig) Validate() []string {
	var errs []string
	if c.Device < 0 {
		errs = append(errs, "device must not be negative")
	}
	if c.Width < MinWidth || c.Width > MaxWidth {
		errs = append(errs, fmt.Sprintf("width must be between %d and %d", MinWidth, MaxWidth))
	}
	if c.Height < MinHeight || c.Height > MaxHeight {
		errs = append(errs, fmt.Sprintf("height must be between %d and %d", MinHeight, MaxHeight))
	}
	if c.Framerate < 1 || c.Framerate > MaxFramerate {
		errs = append(errs, fmt.Sprintf("framerate must be between 1 and %d", MaxFramerate))
	}
	return errs
}

// YOLOConfig holds YOLO detector configuration
type YOLOConfig struct {
	ModelPath        string
	ConfidenceThresh float32
	NMSThresh        float32
	InputWidth       int
	InputHeight      int
}

// DefaultYOLOConfig returns production defaults for YOLOv8n
func DefaultYOLOConfig() YOLOConfig {
	return YOLOConfig{
		ModelPath:        "models/yolov8n.onnx",
		ConfidenceThresh: 0.5,
		NMSThresh:        0.45,
		InputWidth:       640,
		InputHeight:      640,
	}
}
