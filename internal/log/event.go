package log

// EventType enumerates all observable client session events.
type EventType int

const (
	EventConnected EventType = iota
	EventConnectionRejected
	EventLobbyJoined
	EventGameStarted
	EventSnapshot
	EventActionSent
	EventStaleSnapshot
	EventDecodeError
	EventPong
	EventGameEnded
	EventDisconnected
)

func (e EventType) String() string {
	switch e {
	case EventConnected:
		return "Connected"
	case EventConnectionRejected:
		return "ConnectionRejected"
	case EventLobbyJoined:
		return "LobbyJoined"
	case EventGameStarted:
		return "GameStarted"
	case EventSnapshot:
		return "Snapshot"
	case EventActionSent:
		return "ActionSent"
	case EventStaleSnapshot:
		return "StaleSnapshot"
	case EventDecodeError:
		return "DecodeError"
	case EventPong:
		return "Pong"
	case EventGameEnded:
		return "GameEnded"
	case EventDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a client session.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Tick    int       // server tick the event belongs to (0 before the game starts)
	Type    EventType // event type
	Player  string    // acting player nickname (if applicable)
	Details string    // human-readable detail string
}
