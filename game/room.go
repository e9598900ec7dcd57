package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultTickInterval = 500 * time.Millisecond
	defaultQueueSize    = 1024
)

type RoomConfig struct {
	Dimensions    Dimensions
	Words         []string
	RoundDuration time.Duration
	TickInterval  time.Duration
	QueueSize     int
}

type RoomSummary struct {
	ID       string         `json:"id"`
	Mode     string         `json:"mode"`
	Players  []string       `json:"players"`
	Drawer   string         `json:"drawer,omitempty"`
	Scores   map[string]int `json:"scores,omitempty"`
	Lines    int            `json:"lines"`
	HasWords bool           `json:"hasWords"`
}

// Room owns all state of one game room. Everything below Run executes on
// the actor goroutine; other goroutines only talk to it through Submit.
type Room struct {
	id            string
	lines         []Line
	dimensions    Dimensions
	state         GameState
	words         []string
	sessions      *Registry
	lastRemaining int

	picker        WordPicker
	tickers       TickerCreator
	now           func() time.Time
	roundDuration time.Duration
	tickInterval  time.Duration

	events  chan Event
	stopped chan struct{}
	logger  zerolog.Logger
}

func NewRoom(cfg RoomConfig, picker WordPicker, tickers TickerCreator, logger zerolog.Logger) *Room {
	if cfg.RoundDuration <= 0 {
		cfg.RoundDuration = RoundDuration
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	id := uuid.NewString()
	logger = logger.With().Str("room", id).Logger()
	return &Room{
		id:            id,
		lines:         make([]Line, 0, 256),
		dimensions:    cfg.Dimensions,
		state:         FreeDraw{},
		words:         cfg.Words,
		sessions:      NewRegistry(logger),
		lastRemaining: -1,
		picker:        picker,
		tickers:       tickers,
		now:           time.Now,
		roundDuration: cfg.RoundDuration,
		tickInterval:  cfg.TickInterval,
		events:        make(chan Event, cfg.QueueSize),
		stopped:       make(chan struct{}),
		logger:        logger,
	}
}

func (r *Room) ID() string {
	return r.id
}

// Submit enqueues an event for the actor. It blocks until the event is
// queued, ctx is done, or the room has stopped.
func (r *Room) Submit(ctx context.Context, ev Event) error {
	select {
	case <-r.stopped:
		return ErrRoomStopped
	default:
	}
	select {
	case r.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.stopped:
		return ErrRoomStopped
	}
}

func (r *Room) Summary(ctx context.Context) (RoomSummary, error) {
	reply := make(chan RoomSummary, 1)
	if err := r.Submit(ctx, summaryRequest{reply: reply}); err != nil {
		return RoomSummary{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return RoomSummary{}, ctx.Err()
	case <-r.stopped:
		return RoomSummary{}, ErrRoomStopped
	}
}

// Run is the room's event loop. It returns nil when ctx is cancelled and
// ErrEventSourceClosed if the event queue is closed under it.
func (r *Room) Run(ctx context.Context) error {
	ticks, stopTicker := r.tickers.Create(r.tickInterval)
	defer stopTicker()
	defer close(r.stopped)

	r.logger.Info().Str("mode", modeName(r.state)).Int("words", len(r.words)).Msg("room started")
	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return nil
		case ev, ok := <-r.events:
			if !ok {
				r.logger.Error().Msg("event queue closed, stopping room")
				r.shutdown()
				return ErrEventSourceClosed
			}
			r.handle(ev)
		case now := <-ticks:
			r.handleTick(now)
		}
	}
}

func (r *Room) shutdown() {
	for _, username := range r.sessions.Usernames() {
		r.sessions.Remove(username)
	}
	r.logger.Info().Msg("room stopped")
}

func (r *Room) handle(ev Event) {
	switch e := ev.(type) {
	case UserJoined:
		r.handleUserJoined(e.Session)
	case UserLeft:
		r.handleUserLeft(e.Session)
	case ClientEvent:
		r.handleClientEvent(e)
	case Tick:
		r.handleTick(e.Now)
	case summaryRequest:
		e.reply <- r.summary()
	default:
		r.logger.Error().Str("event", fmt.Sprintf("%T", ev)).Msg("unknown event")
	}
}

func (r *Room) handleUserJoined(s *Session) {
	username := s.Username()
	now := r.now()
	_, reconnecting := r.sessions.Get(username)

	if st, ok := r.state.(Skribbl); ok {
		drawerBefore := st.Round.Drawer()
		if st.Round.AddPlayer(username, now) {
			if st.Round.Drawer() != drawerBefore {
				r.clearLines()
				r.lastRemaining = st.Round.Remaining(now)
			}
			r.broadcastRoundState(now)
		}
	}
	if reconnecting {
		r.broadcastSystem(username + " reconnected")
	} else {
		r.broadcastSystem(username + " joined")
	}

	initial := InitialState{
		Lines:      append([]Line{}, r.lines...),
		Dimensions: r.dimensions,
	}
	if st, ok := r.state.(Skribbl); ok {
		view := st.Round.View(username, now)
		initial.Skribbl = &view
	}
	if err := s.Send(initial); err != nil {
		r.logger.Warn().Err(err).Str("username", username).Msg("failed to send initial state")
	}

	if old := r.sessions.Add(s); old != nil {
		r.logger.Info().
			Str("username", username).
			Str("old_conn_id", old.ID().String()).
			Str("conn_id", s.ID().String()).
			Msg("replaced live session")
		return
	}
	r.logger.Info().Str("username", username).Int("sessions", r.sessions.Len()).Msg("user joined")
}

func (r *Room) handleUserLeft(s *Session) {
	if !r.isCurrent(s) {
		s.Close()
		r.logger.Debug().Str("username", s.Username()).Str("conn_id", s.ID().String()).Msg("ignoring leave of stale session")
		return
	}
	r.removePlayer(s.Username(), s.Username()+" left")
}

func (r *Room) handleClientEvent(e ClientEvent) {
	if !r.isCurrent(e.Session) {
		r.logger.Debug().Str("username", e.Session.Username()).Msg("dropping message from detached session")
		return
	}
	username := e.Session.Username()

	switch m := e.Message.(type) {
	case ChatInput:
		r.handleChat(username, m.Text)
	case LineInput:
		r.lines = append(r.lines, m.Line)
		r.sessions.Broadcast(NewLine{Line: m.Line})
	case ClearInput:
		r.clearLines()
		r.sessions.Broadcast(ClearCanvas{})
	case KickPlayer:
		r.logger.Info().Str("by", username).Str("username", m.Username).Msg("kick requested")
		r.removePlayer(m.Username, m.Username+" was kicked")
	}
}

func (r *Room) handleChat(username, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	now := r.now()

	switch st := r.state.(type) {
	case FreeDraw:
		if len(r.words) > 0 {
			r.startSkribbl(now)
		}
	case Skribbl:
		out := st.Round.OnGuess(username, text, now)
		if out.Solved {
			r.broadcastRoundState(now)
			r.broadcastSystem(username + " guessed it!")
			if out.Rotated {
				r.finishRotation(out.PreviousWord, now)
			}
			return
		}
	}

	r.sessions.Broadcast(NewMessage{Message: UserMessage(username, text)})
}

func (r *Room) startSkribbl(now time.Time) {
	round := NewRoundState(r.sessions.Usernames(), r.words, r.picker, r.roundDuration, now)
	r.state = Skribbl{Round: round}
	r.logger.Info().Strs("players", round.Players()).Str("drawer", round.Drawer()).Msg("skribbl started")

	r.clearLines()
	r.broadcastRoundState(now)
	r.sessions.Broadcast(ClearCanvas{})
	r.lastRemaining = round.Remaining(now)
	r.sessions.Broadcast(TimeChanged{RemainingSeconds: r.lastRemaining})
}

// removePlayer is shared by leave and kick. The registry entry and the
// player state go away in the same event, so there is never a broadcast
// with a drawer who is no longer connected.
func (r *Room) removePlayer(username, notice string) {
	if !r.sessions.Remove(username) {
		r.logger.Debug().Str("username", username).Msg("remove of unknown user")
		return
	}
	r.logger.Info().Str("username", username).Int("sessions", r.sessions.Len()).Msg("user removed")

	st, ok := r.state.(Skribbl)
	if !ok {
		r.broadcastSystem(notice)
		return
	}
	now := r.now()
	out := st.Round.RemovePlayer(username, now)
	r.broadcastRoundState(now)
	r.broadcastSystem(notice)
	if out.Rotated {
		r.finishRotation(out.PreviousWord, now)
	}
}

func (r *Room) handleTick(now time.Time) {
	st, ok := r.state.(Skribbl)
	if !ok || st.Round.Drawer() == "" {
		return
	}
	out, remaining := st.Round.Tick(now)
	if out.Rotated {
		r.logger.Debug().Str("drawer", st.Round.Drawer()).Msg("round timed out")
		r.broadcastRoundState(now)
		r.finishRotation(out.PreviousWord, now)
		return
	}
	if remaining == r.lastRemaining {
		return
	}
	r.lastRemaining = remaining
	r.sessions.Broadcast(TimeChanged{RemainingSeconds: remaining})
}

// finishRotation sends what every rotation ends with, after the new round
// state has already gone out.
func (r *Room) finishRotation(previousWord string, now time.Time) {
	r.clearLines()
	r.sessions.Broadcast(ClearCanvas{})
	if previousWord != "" {
		r.broadcastSystem(fmt.Sprintf(`The word was: "%s"`, previousWord))
	}
	st, ok := r.state.(Skribbl)
	if !ok {
		return
	}
	r.lastRemaining = st.Round.Remaining(now)
	r.sessions.Broadcast(TimeChanged{RemainingSeconds: r.lastRemaining})
}

func (r *Room) broadcastRoundState(now time.Time) {
	st, ok := r.state.(Skribbl)
	if !ok {
		return
	}
	r.sessions.BroadcastEach(func(username string) ServerMessage {
		return SkribblStateChanged{Round: st.Round.View(username, now)}
	})
}

func (r *Room) broadcastSystem(text string) {
	r.sessions.Broadcast(NewMessage{Message: SystemMessage(text)})
}

func (r *Room) clearLines() {
	r.lines = r.lines[:0]
}

func (r *Room) isCurrent(s *Session) bool {
	cur, ok := r.sessions.Get(s.Username())
	return ok && cur == s
}

func (r *Room) summary() RoomSummary {
	s := RoomSummary{
		ID:       r.id,
		Mode:     modeName(r.state),
		Players:  r.sessions.Usernames(),
		Lines:    len(r.lines),
		HasWords: len(r.words) > 0,
	}
	if st, ok := r.state.(Skribbl); ok {
		s.Drawer = st.Round.Drawer()
		s.Scores = make(map[string]int)
		for _, username := range st.Round.Players() {
			ps, _ := st.Round.Player(username)
			s.Scores[username] = ps.Score
		}
	}
	return s
}
