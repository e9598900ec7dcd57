package game

// ServerMessage is anything the room pushes to a client.
type ServerMessage interface {
	kind() string
	payload() any
}

type InitialState struct {
	Lines      []Line     `json:"lines"`
	Skribbl    *RoundView `json:"skribblState,omitempty"`
	Dimensions Dimensions `json:"dimensions"`
}

type SkribblStateChanged struct {
	Round RoundView
}

type NewMessage struct {
	Message ChatMessage
}

type NewLine struct {
	Line Line
}

type ClearCanvas struct{}

type TimeChanged struct {
	RemainingSeconds int `json:"remainingSeconds"`
}

func (m InitialState) kind() string        { return "InitialState" }
func (m SkribblStateChanged) kind() string { return "SkribblStateChanged" }
func (m NewMessage) kind() string          { return "NewMessage" }
func (m NewLine) kind() string             { return "NewLine" }
func (m ClearCanvas) kind() string         { return "ClearCanvas" }
func (m TimeChanged) kind() string         { return "TimeChanged" }

func (m InitialState) payload() any        { return m }
func (m SkribblStateChanged) payload() any { return m.Round }
func (m NewMessage) payload() any          { return m.Message }
func (m NewLine) payload() any             { return m.Line }
func (m ClearCanvas) payload() any         { return nil }
func (m TimeChanged) payload() any         { return m }

// ClientMessage is anything a client may ask the room to do.
type ClientMessage interface {
	clientMessage()
}

type ChatInput struct {
	Text string `json:"text"`
}

type LineInput struct {
	Line Line
}

type ClearInput struct{}

// KickPlayer is an administrative command. Any connected client may send it.
type KickPlayer struct {
	Username string `json:"username"`
}

func (ChatInput) clientMessage()  {}
func (LineInput) clientMessage()  {}
func (ClearInput) clientMessage() {}
func (KickPlayer) clientMessage() {}
