package game

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	pingInterval      = 30 * time.Second
	maxUsernameLength = 32
)

type WebsocketConnection interface {
	Read() (Frame, error)
	Write(data []byte) error
	Ping() error
	Close()
}

type EventSubmitter interface {
	Submit(ctx context.Context, ev Event) error
}

// Player pumps one connection: frames in, session outbox out.
type Player struct {
	session     *Session
	room        EventSubmitter
	tickers     TickerCreator
	rateLimiter *rate.Limiter
	ctx         context.Context
	cancelCtx   context.CancelFunc
	leaveOnce   sync.Once
	logger      zerolog.Logger
}

func NewPlayer(session *Session, room EventSubmitter, tickers TickerCreator, logger zerolog.Logger) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		session:     session,
		room:        room,
		tickers:     tickers,
		rateLimiter: rate.NewLimiter(1, 5),
		ctx:         ctx,
		cancelCtx:   cancel,
		logger: logger.With().
			Str("username", session.Username()).
			Str("conn_id", session.ID().String()).
			Logger(),
	}
}

func (p *Player) Session() *Session {
	return p.session
}

// ReadUsername consumes the handshake frame. It must be plain text.
func ReadUsername(socket WebsocketConnection) (string, error) {
	frame, err := socket.Read()
	if err != nil {
		return "", err
	}
	if frame.Binary || !utf8.Valid(frame.Data) {
		return "", ErrInvalidUsername
	}
	username := strings.TrimSpace(string(frame.Data))
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
		return "", ErrInvalidUsername
	}
	return username, nil
}

func (p *Player) Join() error {
	return p.room.Submit(p.ctx, UserJoined{Session: p.session})
}

func (p *Player) ReadPump(socket WebsocketConnection) {
	defer p.leave()

	for {
		frame, err := socket.Read()
		if err != nil {
			p.logger.Debug().Err(err).Msg("read failed, leaving")
			return
		}

		msg, err := DecodeClientFrame(frame)
		if err != nil {
			p.logger.Warn().Err(err).Int("bytes", len(frame.Data)).Msg("dropping malformed frame")
			continue
		}

		if isRateLimited(msg) && !p.rateLimiter.Allow() {
			p.logger.Debug().Msg("rate limited")
			continue
		}

		if err := p.room.Submit(p.ctx, ClientEvent{Session: p.session, Message: msg}); err != nil {
			if !errors.Is(err, context.Canceled) {
				p.logger.Warn().Err(err).Msg("room refused event")
			}
			return
		}
	}
}

// chat and commands are throttled, drawing is not
func isRateLimited(msg ClientMessage) bool {
	switch msg.(type) {
	case ChatInput, KickPlayer:
		return true
	default:
		return false
	}
}

func (p *Player) WritePump(socket WebsocketConnection) {
	pings, stopPings := p.tickers.Create(pingInterval)
	defer stopPings()
	defer socket.Close()
	defer p.cancelCtx()

	for {
		select {
		case msg := <-p.session.Outbox():
			data, err := EncodeServerMessage(msg)
			if err != nil {
				p.logger.Error().Err(err).Str("msg_type", msg.kind()).Msg("failed to encode message")
				continue
			}
			if err := socket.Write(data); err != nil {
				p.logger.Debug().Err(err).Msg("write failed")
				p.session.Close()
				return
			}
		case <-pings:
			if err := socket.Ping(); err != nil {
				p.logger.Debug().Err(err).Msg("ping failed")
				p.session.Close()
				return
			}
		case <-p.session.Done():
			return
		case <-p.ctx.Done():
			return
		}
	}
}

// leave reports the disconnect exactly once, whichever pump notices first.
func (p *Player) leave() {
	p.leaveOnce.Do(func() {
		p.cancelCtx()
		p.session.Close()
		if err := p.room.Submit(context.Background(), UserLeft{Session: p.session}); err != nil {
			p.logger.Debug().Err(err).Msg("room gone before leave")
		}
	})
}
