package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging session events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("t%-5d %-18s | %s", e.Tick, e.Type, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewConnectedEvent(url string) GameEvent {
	return GameEvent{
		Type:    EventConnected,
		Details: fmt.Sprintf("connected to %s", url),
	}
}

func NewConnectionRejectedEvent(reason string) GameEvent {
	return GameEvent{
		Type:    EventConnectionRejected,
		Details: fmt.Sprintf("connection rejected: %s", reason),
	}
}

func NewLobbyJoinedEvent(nickname string, players, slots int) GameEvent {
	return GameEvent{
		Type:    EventLobbyJoined,
		Player:  nickname,
		Details: fmt.Sprintf("%s joined lobby (%d/%d players)", nickname, players, slots),
	}
}

func NewGameStartedEvent() GameEvent {
	return GameEvent{
		Type:    EventGameStarted,
		Details: "game started",
	}
}

func NewSnapshotEvent(tick int, id string) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventSnapshot,
		Details: fmt.Sprintf("snapshot %s decoded", id),
	}
}

func NewActionSentEvent(tick int, action string) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventActionSent,
		Details: fmt.Sprintf("sent %s", action),
	}
}

func NewStaleSnapshotEvent(tick, lastTick int) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventStaleSnapshot,
		Details: fmt.Sprintf("dropped stale snapshot: tick %d after %d", tick, lastTick),
	}
}

func NewDecodeErrorEvent(tick int, err error) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventDecodeError,
		Details: err.Error(),
	}
}

func NewPongEvent(tick int) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventPong,
		Details: "pong",
	}
}

func NewGameEndedEvent(tick int, winner string) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventGameEnded,
		Player:  winner,
		Details: fmt.Sprintf("game ended, winner: %s", winner),
	}
}

func NewDisconnectedEvent(tick int, reason string) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventDisconnected,
		Details: fmt.Sprintf("disconnected: %s", reason),
	}
}
