package game

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- WebsocketConnection ---

type MockWebsocketConnection struct {
	mock.Mock
}

func (m *MockWebsocketConnection) Close() {
	m.Called()
}

func (m *MockWebsocketConnection) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockWebsocketConnection) Read() (Frame, error) {
	args := m.Called()
	return args.Get(0).(Frame), args.Error(1)
}

func (m *MockWebsocketConnection) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- EventSubmitter ---

type MockEventSubmitter struct {
	mock.Mock
}

func (m *MockEventSubmitter) Submit(ctx context.Context, ev Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// recordingSubmitter keeps every event it is given.
type recordingSubmitter struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSubmitter) Submit(ctx context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingSubmitter) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}

// --- TickerCreator ---

type MockTickerCreator struct {
	mock.Mock
}

func (m *MockTickerCreator) Create(duration time.Duration) (<-chan time.Time, func()) {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time), func() {}
}

// manualTickers hands out a channel the test drives itself.
type manualTickers struct {
	ch chan time.Time
}

func newManualTickers() *manualTickers {
	return &manualTickers{ch: make(chan time.Time)}
}

func (m *manualTickers) Create(time.Duration) (<-chan time.Time, func()) {
	return m.ch, func() {}
}

// --- WordPicker ---

// cyclePicker hands out words in list order, wrapping around.
type cyclePicker struct {
	next int
}

func (c *cyclePicker) Pick(words []string, previous string) string {
	if len(words) == 0 {
		return ""
	}
	w := words[c.next%len(words)]
	c.next++
	return w
}

// --- clock ---

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// --- GameRoom ---

type MockGameRoom struct {
	mock.Mock
}

func (m *MockGameRoom) Submit(ctx context.Context, ev Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockGameRoom) Summary(ctx context.Context) (RoomSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(RoomSummary), args.Error(1)
}
