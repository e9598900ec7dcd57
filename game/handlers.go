package game

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type RoomSummarizer interface {
	Summary(ctx context.Context) (RoomSummary, error)
}

type GameRoom interface {
	EventSubmitter
	RoomSummarizer
}

type GameHandler struct {
	room       GameRoom
	tickers    TickerCreator
	upgrader   websocket.Upgrader
	outboxSize int
	logger     zerolog.Logger
}

func NewGameHandler(room GameRoom, tickers TickerCreator, logger zerolog.Logger) *GameHandler {
	return &GameHandler{
		room:    room,
		tickers: tickers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are checked by the router middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		outboxSize: defaultOutboxSize,
		logger:     logger,
	}
}

// JoinRoomHandler upgrades the request, reads the username handshake and
// then runs the connection until it closes.
func (h *GameHandler) JoinRoomHandler(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	socket := NewWebsocketConnection(conn)
	socket.extendReadDeadline(handshakeTimeout)
	username, err := ReadUsername(socket)
	if err != nil {
		h.logger.Info().Err(err).Str("ip", ctx.ClientIP()).Msg("handshake failed")
		socket.CloseWithReason(ErrInvalidUsername.Error())
		return
	}
	socket.extendReadDeadline(pongWait)

	player := NewPlayer(NewSession(username, h.outboxSize), h.room, h.tickers, h.logger)
	if err := player.Join(); err != nil {
		h.logger.Error().Err(err).Str("username", username).Msg("room rejected join")
		socket.CloseWithReason(err.Error())
		return
	}

	go player.WritePump(socket)
	player.ReadPump(socket)
}

func (h *GameHandler) RoomSummaryHandler(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	summary, err := h.room.Summary(reqCtx)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrRoomStopped) {
			status = http.StatusServiceUnavailable
		}
		ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}
