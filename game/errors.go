package game

import "errors"

var (
	ErrUserNotFound   = errors.New("user-not-found")
	ErrSendBufferFull = errors.New("send-buffer-full")
	ErrSessionClosed  = errors.New("session-closed")
)

var (
	ErrInvalidUsername = errors.New("invalid-username")
	ErrMalformedFrame  = errors.New("malformed-frame")
)

var (
	ErrEventSourceClosed = errors.New("event-source-closed")
	ErrRoomStopped       = errors.New("room-stopped")
)
