package certificate

// Bounds of the normalised name position, keeping the name off the template's
// top and bottom margins.
const (
	MinX = 0.05
	MaxX = 0.95
	MinY = 0.15
	MaxY = 0.85
)

// Position is the centre of the stamped name as fractions of the image size
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Calibrate converts a click on a rendered template of the given size into a
// clamped normalised position. Non-positive sizes yield the centre.
func Calibrate(clickX, clickY, width, height float64) Position {
	if width <= 0 || height <= 0 {
		return Position{X: 0.5, Y: 0.5}
	}
	return Position{
		X: clamp(clickX/width, MinX, MaxX),
		Y: clamp(clickY/height, MinY, MaxY),
	}
}

// Clamped returns p restricted to the allowed band
func (p Position) Clamped() Position {
	return Position{X: clamp(p.X, MinX, MaxX), Y: clamp(p.Y, MinY, MaxY)}
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
