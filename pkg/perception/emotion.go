package perception

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"sync"
	"time"
)

// Emotion is a simulated emotion label.
type Emotion string

const (
	Neutral   Emotion = "neutral"
	Happy     Emotion = "happy"
	Focused   Emotion = "focused"
	Calm      Emotion = "calm"
	Surprised Emotion = "surprised"
	Sad       Emotion = "sad"
	Angry     Emotion = "angry"
	Fearful   Emotion = "fearful"
	Disgusted Emotion = "disgusted"
)

// Emotions lists every label the readout can carry.
var Emotions = []Emotion{Neutral, Happy, Focused, Calm, Surprised, Sad, Angry, Fearful, Disgusted}

// WeightedEmotion is one entry of the redraw distribution.
type WeightedEmotion struct {
	Emotion Emotion
	Weight  float64
}

// EmotionWeights is the categorical distribution used for redraws, in
// cumulative sampling order. The weights sum to 1.
var EmotionWeights = []WeightedEmotion{
	{Neutral, 0.40},
	{Happy, 0.25},
	{Focused, 0.15},
	{Calm, 0.10},
	{Surprised, 0.05},
	{Sad, 0.03},
	{Angry, 0.02},
}

// Simulation parameters.
const (
	KeepProbability = 0.7

	keepConfidenceMin   = 75
	redrawConfidenceMin = 70
	confidenceMax       = 95

	// Mean luminance must lie strictly between these for a face to count as present.
	LuminanceLow  = 50.0
	LuminanceHigh = 200.0

	DefaultColor = "#00c6ff"
)

var emotionColors = map[Emotion]string{
	Happy:     "#00ff88",
	Sad:       "#0095ff",
	Angry:     "#ff4444",
	Surprised: "#ffaa00",
	Fearful:   "#aa00ff",
	Disgusted: "#8844ff",
	Neutral:   "#00c6ff",
	Focused:   "#ff6b00",
	Calm:      "#00b894",
}

// Color returns the overlay color for e.
func Color(e Emotion) string {
	if c, ok := emotionColors[e]; ok {
		return c
	}
	return DefaultColor
}

// EmotionState is the published emotion readout. A zero Label means no face.
type EmotionState struct {
	Label      Emotion   `json:"label"`
	Confidence int       `json:"confidence"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FacePresent reports whether the last readout found a face.
func (s EmotionState) FacePresent() bool {
	return s.Label != ""
}

// Simulator produces the stabilized random emotion sequence.
type Simulator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	last Emotion
}

// NewSimulator creates a simulator drawing from rng. A nil rng is seeded randomly.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Simulator{rng: rng, last: Neutral}
}

// DrawWeighted samples one label from EmotionWeights with a single uniform draw.
func (s *Simulator) DrawWeighted() Emotion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawWeighted()
}

func (s *Simulator) drawWeighted() Emotion {
	u := s.rng.Float64()
	cum := 0.0
	for _, w := range EmotionWeights {
		cum += w.Weight
		if u <= cum {
			return w.Emotion
		}
	}
	return Neutral
}

// Next returns the next readout for a frame with a face in it. The previous
// label is kept with probability KeepProbability.
func (s *Simulator) Next() (Emotion, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != "" && s.rng.Float64() < KeepProbability {
		return s.last, keepConfidenceMin + s.rng.IntN(confidenceMax-keepConfidenceMin+1)
	}
	s.last = s.drawWeighted()
	return s.last, redrawConfidenceMin + s.rng.IntN(confidenceMax-redrawConfidenceMin+1)
}

// Last returns the most recent label.
func (s *Simulator) Last() Emotion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// MeanLuminance returns the mean of (r+g+b)/3 over every pixel, on a 0-255 scale.
func MeanLuminance(img image.Image) float64 {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}

	var total float64
	if rgba, ok := img.(*image.RGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := rgba.Pix[rgba.PixOffset(b.Min.X, y):rgba.PixOffset(b.Max.X, y)]
			for i := 0; i < len(row); i += 4 {
				total += float64(int(row[i])+int(row[i+1])+int(row[i+2])) / 3
			}
		}
		return total / float64(n)
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			total += float64(int(c.R)+int(c.G)+int(c.B)) / 3
		}
	}
	return total / float64(n)
}

// FacePresent is the luminance stand-in for a face detector.
func FacePresent(img image.Image) bool {
	l := MeanLuminance(img)
	return l > LuminanceLow && l < LuminanceHigh
}

// Overlay is the static face box drawn for an emotion readout.
type Overlay struct {
	Box       Box     `json:"box"`
	Color     string  `json:"color"`
	Text      string  `json:"text"`
	TextX     float64 `json:"textX"`
	TextY     float64 `json:"textY"`
	LineWidth int     `json:"lineWidth"`
}

// NewOverlay places the box in the upper middle of a width x height frame.
// It does not follow any real face position.
func NewOverlay(width, height int, state EmotionState) *Overlay {
	w, h := float64(width), float64(height)
	bw, bh := w*0.4, h*0.5
	x, y := (w-bw)/2, (h-bh)/3

	textY := 20.0
	if y > 20 {
		textY = y - 10
	}

	return &Overlay{
		Box:       Box{X: x, Y: y, W: bw, H: bh},
		Color:     Color(state.Label),
		Text:      fmt.Sprintf("%s (%d%%)", state.Label, state.Confidence),
		TextX:     x,
		TextY:     textY,
		LineWidth: 3,
	}
}
