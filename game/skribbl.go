package game

import (
	"slices"
	"strings"
	"time"
)

const RoundDuration = 120 * time.Second

const (
	firstSolveScore = 100
	solveScoreStep  = 20
	minSolveScore   = 20
	drawerBonus     = 10
)

type PlayerState struct {
	Score     int
	Solved    bool
	SolveRank int
}

// Outcome reports what a round transition did. PreviousWord is only set
// when Rotated is true.
type Outcome struct {
	Solved       bool
	Rotated      bool
	PreviousWord string
}

// RoundState holds the rules of an active scored game. It does no I/O and
// never reads the clock itself.
type RoundState struct {
	order       []string
	drawerIndex int
	currentWord string
	roundStart  time.Time
	players     map[string]*PlayerState
	solves      int

	words    []string
	picker   WordPicker
	duration time.Duration
}

func NewRoundState(usernames []string, words []string, picker WordPicker, duration time.Duration, now time.Time) *RoundState {
	if duration <= 0 {
		duration = RoundDuration
	}
	r := &RoundState{
		order:       make([]string, 0, len(usernames)),
		drawerIndex: -1,
		players:     make(map[string]*PlayerState, len(usernames)),
		words:       words,
		picker:      picker,
		duration:    duration,
	}
	for _, username := range usernames {
		if _, exists := r.players[username]; exists {
			continue
		}
		r.order = append(r.order, username)
		r.players[username] = &PlayerState{}
	}
	if len(r.order) > 0 {
		r.NextTurn(now)
	}
	return r
}

func (r *RoundState) Drawer() string {
	if r.drawerIndex < 0 || r.drawerIndex >= len(r.order) {
		return ""
	}
	return r.order[r.drawerIndex]
}

func (r *RoundState) CurrentWord() string {
	return r.currentWord
}

func (r *RoundState) RoundStart() time.Time {
	return r.roundStart
}

func (r *RoundState) Duration() time.Duration {
	return r.duration
}

// Players returns the rotation order.
func (r *RoundState) Players() []string {
	return slices.Clone(r.order)
}

func (r *RoundState) Player(username string) (PlayerState, bool) {
	ps, ok := r.players[username]
	if !ok {
		return PlayerState{}, false
	}
	return *ps, true
}

func (r *RoundState) CanGuess(username string) bool {
	ps, ok := r.players[username]
	if !ok {
		return false
	}
	return username != r.Drawer() && !ps.Solved
}

func (r *RoundState) OnGuess(username, text string, now time.Time) Outcome {
	if !r.CanGuess(username) {
		return Outcome{}
	}
	if !strings.EqualFold(strings.TrimSpace(text), r.currentWord) {
		return Outcome{}
	}

	r.solves++
	ps := r.players[username]
	ps.Solved = true
	ps.SolveRank = r.solves
	ps.Score += solveScore(r.solves)
	if drawer, ok := r.players[r.Drawer()]; ok {
		drawer.Score += drawerBonus
	}

	out := Outcome{Solved: true}
	if r.allSolved() {
		out.Rotated = true
		out.PreviousWord = r.currentWord
		r.NextTurn(now)
	}
	return out
}

func solveScore(rank int) int {
	return max(firstSolveScore-solveScoreStep*(rank-1), minSolveScore)
}

// allSolved is false when nobody besides the drawer is playing, so a lone
// drawer never rotates on chat.
func (r *RoundState) allSolved() bool {
	drawer := r.Drawer()
	eligible := 0
	for username, ps := range r.players {
		if username == drawer {
			continue
		}
		eligible++
		if !ps.Solved {
			return false
		}
	}
	return eligible > 0
}

// NextTurn hands the pen to the next player in join order and starts a
// fresh round. Callers are responsible for clearing the canvas.
func (r *RoundState) NextTurn(now time.Time) {
	if len(r.order) == 0 {
		r.drawerIndex = -1
		r.currentWord = ""
		r.solves = 0
		return
	}
	r.drawerIndex = (r.drawerIndex + 1) % len(r.order)
	if r.picker != nil {
		r.currentWord = r.picker.Pick(r.words, r.currentWord)
	}
	r.roundStart = now
	r.solves = 0
	for _, ps := range r.players {
		ps.Solved = false
		ps.SolveRank = 0
	}
}

// AddPlayer reports whether the player was new. A player joining an empty
// rotation becomes the drawer right away.
func (r *RoundState) AddPlayer(username string, now time.Time) bool {
	if _, exists := r.players[username]; exists {
		return false
	}
	r.order = append(r.order, username)
	r.players[username] = &PlayerState{}
	if r.drawerIndex < 0 {
		r.NextTurn(now)
	}
	return true
}

func (r *RoundState) RemovePlayer(username string, now time.Time) Outcome {
	idx := slices.Index(r.order, username)
	if idx < 0 {
		return Outcome{}
	}
	wasDrawer := idx == r.drawerIndex

	r.order = slices.Delete(r.order, idx, idx+1)
	delete(r.players, username)

	switch {
	case wasDrawer:
		prev := r.currentWord
		// the next player slid into idx; NextTurn steps forward by one
		r.drawerIndex = idx - 1
		r.NextTurn(now)
		return Outcome{Rotated: true, PreviousWord: prev}
	case idx < r.drawerIndex:
		r.drawerIndex--
	}

	if r.allSolved() {
		prev := r.currentWord
		r.NextTurn(now)
		return Outcome{Rotated: true, PreviousWord: prev}
	}
	return Outcome{}
}

// Tick rotates once the round has run for its full duration. The returned
// remaining time is in whole seconds and already reflects the rotation.
func (r *RoundState) Tick(now time.Time) (Outcome, int) {
	if r.Drawer() == "" {
		return Outcome{}, 0
	}
	if now.Sub(r.roundStart) >= r.duration {
		prev := r.currentWord
		r.NextTurn(now)
		return Outcome{Rotated: true, PreviousWord: prev}, r.Remaining(now)
	}
	return Outcome{}, r.Remaining(now)
}

func (r *RoundState) Remaining(now time.Time) int {
	left := r.duration - now.Sub(r.roundStart)
	if left <= 0 {
		return 0
	}
	secs := int((left + time.Second - 1) / time.Second)
	return min(secs, int(r.duration/time.Second))
}

type PlayerView struct {
	Username  string `json:"username"`
	Score     int    `json:"score"`
	Solved    bool   `json:"solved"`
	SolveRank int    `json:"solveRank,omitempty"`
}

// RoundView is the round as one particular player is allowed to see it.
type RoundView struct {
	Drawer           string       `json:"drawer"`
	Players          []PlayerView `json:"players"`
	Word             string       `json:"word,omitempty"`
	Hint             string       `json:"hint"`
	RoundStartedAt   int64        `json:"roundStartedAt"`
	RemainingSeconds int          `json:"remainingSeconds"`
}

// View hides the word from everyone except the drawer and players who
// already solved it.
func (r *RoundState) View(viewer string, now time.Time) RoundView {
	v := RoundView{
		Drawer:           r.Drawer(),
		Players:          make([]PlayerView, 0, len(r.order)),
		Hint:             maskWord(r.currentWord),
		RoundStartedAt:   r.roundStart.UnixMilli(),
		RemainingSeconds: r.Remaining(now),
	}
	for _, username := range r.order {
		ps := r.players[username]
		v.Players = append(v.Players, PlayerView{
			Username:  username,
			Score:     ps.Score,
			Solved:    ps.Solved,
			SolveRank: ps.SolveRank,
		})
	}
	if ps, ok := r.players[viewer]; ok && (viewer == v.Drawer || ps.Solved) {
		v.Word = r.currentWord
	}
	return v
}

func maskWord(word string) string {
	var b strings.Builder
	for _, c := range word {
		switch c {
		case ' ', '-':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
