package game

type Coord struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// Line is a single stroke segment. Lines are never mutated once stored.
type Line struct {
	Start Coord  `json:"start"`
	End   Coord  `json:"end"`
	Color string `json:"color,omitempty"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ChatMessage is either something a player typed or a server notice.
// System messages have no author.
type ChatMessage struct {
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
	System bool   `json:"system,omitempty"`
}

func UserMessage(author, text string) ChatMessage {
	return ChatMessage{Author: author, Text: text}
}

func SystemMessage(text string) ChatMessage {
	return ChatMessage{Text: text, System: true}
}

// GameState is either FreeDraw or Skribbl.
type GameState interface {
	gameState()
}

type FreeDraw struct{}

type Skribbl struct {
	Round *RoundState
}

func (FreeDraw) gameState() {}
func (Skribbl) gameState()  {}

func modeName(state GameState) string {
	switch state.(type) {
	case Skribbl:
		return "skribbl"
	default:
		return "free-draw"
	}
}
