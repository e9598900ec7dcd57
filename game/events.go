package game

import "time"

// Event is anything the room actor consumes.
type Event interface {
	event()
}

type UserJoined struct {
	Session *Session
}

// UserLeft carries the session rather than the username so that a late
// disconnect of a replaced connection cannot evict its successor.
type UserLeft struct {
	Session *Session
}

type ClientEvent struct {
	Session *Session
	Message ClientMessage
}

type Tick struct {
	Now time.Time
}

type summaryRequest struct {
	reply chan RoomSummary
}

func (UserJoined) event()     {}
func (UserLeft) event()       {}
func (ClientEvent) event()    {}
func (Tick) event()           {}
func (summaryRequest) event() {}
