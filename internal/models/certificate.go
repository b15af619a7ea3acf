package models

// CalibrateRequest is a click on the rendered certificate template
type CalibrateRequest struct {
	ClickX float64 `json:"clickX" binding:"min=0"`
	ClickY float64 `json:"clickY" binding:"min=0"`
	Width  float64 `json:"width" binding:"required,gt=0"`
	Height float64 `json:"height" binding:"required,gt=0"`
}

// CalibrateResponse holds the normalised name position
type CalibrateResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PreviewRequest asks for a rendered certificate preview
type PreviewRequest struct {
	Template string  `json:"template" binding:"required"` // base64 or data URI of a PNG/JPEG
	Name     string  `json:"name" binding:"required,max=200"`
	X        float64 `json:"x" binding:"gte=0,lte=1"`
	Y        float64 `json:"y" binding:"gte=0,lte=1"`
	Font     string  `json:"font" binding:"max=100"`
	Color    string  `json:"color" binding:"omitempty,hexcolor"`
	Guide    bool    `json:"guide"`
}
