package preview

const (
	// MessageTypeRender updates the browser with the current step's page.
	MessageTypeRender = "render"
	// MessageTypeNavigate asks the presenter to jump to a step.
	MessageTypeNavigate = "navigate"
)

// IncomingMessage is the minimal envelope used to route browser messages.
type IncomingMessage struct {
	Type string `json:"type"`
}

// NavigateMessage is sent by the browser's step slider.
type NavigateMessage struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// RenderMessage carries a rendered preview document to the browser.
type RenderMessage struct {
	Type  string `json:"type"`
	HTML  string `json:"html"`
	Index int    `json:"index"`
	Total int    `json:"total"`
	Rev   uint64 `json:"rev"`
}
