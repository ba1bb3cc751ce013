package opencv

import (
	"image"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/perception"
)

// candidate is one above-threshold prediction before NMS.
type candidate struct {
	rect    image.Rectangle
	score   float32
	classID int
}

func (c candidate) detection() perception.Detection {
	label := "unknown"
	if c.classID >= 0 && c.classID < len(COCOClasses) {
		label = COCOClasses[c.classID]
	}
	return perception.Detection{
		Label:      label,
		Confidence: float64(c.score),
		Box: perception.Box{
			X: float64(c.rect.Min.X),
			Y: float64(c.rect.Min.Y),
			W: float64(c.rect.Dx()),
			H: float64(c.rect.Dy()),
		},
	}
}

// decodeYOLOv8 reads a [1, 4+classes, N] tensor stored row-major and
// returns predictions whose best class score reaches the threshold,
// scaled from the network input to an imgW x imgH frame.
func decodeYOLOv8(data []float32, shape []int, cfg YOLOConfig, imgW, imgH float32) []candidate {
	if len(shape) != 3 || shape[1] <= 4 {
		return nil
	}
	attrs, n := shape[1], shape[2]
	if len(data) < attrs*n {
		return nil
	}

	sx := imgW / float32(cfg.InputWidth)
	sy := imgH / float32(cfg.InputHeight)

	var out []candidate
	for i := 0; i < n; i++ {
		maxScore := float32(0)
		maxClassID := 0
		for c := 4; c < attrs; c++ {
			if score := data[c*n+i]; score > maxScore {
				maxScore = score
				maxClassID = c - 4
			}
		}
		if maxScore < cfg.ConfidenceThresh {
			continue
		}

		// center x, center y, width, height
		cx, cy := data[i], data[n+i]
		w, h := data[2*n+i], data[3*n+i]

		out = append(out, candidate{
			rect: image.Rect(
				int((cx-w/2)*sx), int((cy-h/2)*sy),
				int((cx+w/2)*sx), int((cy+h/2)*sy),
			),
			score:   maxScore,
			classID: maxClassID,
		})
	}
	return out
}

// COCOClasses contains the 80 COCO class names
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator",
	"book", "clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}
