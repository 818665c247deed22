package fractal

// Server message types sent as websocket text frames before the final PNG binary frame.
const (
	MsgProgress = "progress"
	MsgResult   = "result"
)

// ServerMessage is one JSON text frame of a render session.
type ServerMessage struct {
	Type string `json:"type"`

	// progress
	Done  int `json:"done,omitempty"`
	Total int `json:"total,omitempty"`

	// result, sent right before the image
	Maximum uint32 `json:"maximum,omitempty"`
	Caption string `json:"caption,omitempty"`
	View    *Rect  `json:"view,omitempty"`
}
