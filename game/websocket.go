package game

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait         = time.Minute
	handshakeTimeout = 10 * time.Second
	writeWait        = 10 * time.Second
	maxFrameSize     = 64 * 1024
)

type websocketConnection struct {
	socket    *websocket.Conn
	closeOnce sync.Once
}

func (wc *websocketConnection) Write(data []byte) error {
	wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConnection) Ping() error {
	wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *websocketConnection) Read() (Frame, error) {
	mt, p, err := wc.socket.ReadMessage()
	if err != nil {
		return Frame{}, err
	}
	return Frame{Binary: mt == websocket.BinaryMessage, Data: p}, nil
}

func (wc *websocketConnection) Close() {
	wc.CloseWithReason("")
}

func (wc *websocketConnection) CloseWithReason(reason string) {
	wc.closeOnce.Do(func() {
		wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
		wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
		wc.socket.Close()
	})
}

func (wc *websocketConnection) extendReadDeadline(d time.Duration) {
	wc.socket.SetReadDeadline(time.Now().Add(d))
}

func NewWebsocketConnection(conn *websocket.Conn) *websocketConnection {
	conn.SetReadLimit(maxFrameSize)
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &websocketConnection{socket: conn}
}
