package game

// The domain tree is built once per snapshot and never mutated afterwards.
// Optional values are pointer-backed with (T, bool) accessors; absence is
// never represented by a zero value.

// ServerSettings are the match parameters announced with the lobby.
type ServerSettings struct {
	GridDimension     int
	NumberOfPlayers   int
	Seed              int
	Ticks             int
	BroadcastInterval int
	EagerBroadcast    bool
}

// Player is one roster entry. Score, ping and regen ticks are only known
// in the contexts the server reveals them in.
type Player struct {
	id           string
	nickname     string
	color        uint32
	score        *int
	ping         *int
	ticksToRegen *int
}

func (p Player) ID() string       { return p.id }
func (p Player) Nickname() string { return p.nickname }
func (p Player) Color() uint32    { return p.color }

func (p Player) Score() (int, bool) {
	if p.score == nil {
		return 0, false
	}
	return *p.score, true
}

func (p Player) Ping() (int, bool) {
	if p.ping == nil {
		return 0, false
	}
	return *p.ping, true
}

// TicksToRegen reports the remaining respawn wait. Absent while the
// player's tank is alive.
func (p Player) TicksToRegen() (int, bool) {
	if p.ticksToRegen == nil {
		return 0, false
	}
	return *p.ticksToRegen, true
}

// ZoneState is a zone's resolved capture status. Only the fields that
// belong to Kind are present.
type ZoneState struct {
	kind           ZoneStatusKind
	playerID       *string
	capturedByID   *string
	retakenByID    *string
	remainingTicks *int
}

func (s ZoneState) Kind() ZoneStatusKind { return s.kind }

// PlayerID is the capturing or holding player, for being_captured and
// captured zones.
func (s ZoneState) PlayerID() (string, bool) {
	if s.playerID == nil {
		return "", false
	}
	return *s.playerID, true
}

// CapturedByID is the current holder of a contested or retaken zone.
func (s ZoneState) CapturedByID() (string, bool) {
	if s.capturedByID == nil {
		return "", false
	}
	return *s.capturedByID, true
}

// RetakenByID is the player taking a zone from its holder.
func (s ZoneState) RetakenByID() (string, bool) {
	if s.retakenByID == nil {
		return "", false
	}
	return *s.retakenByID, true
}

func (s ZoneState) RemainingTicks() (int, bool) {
	if s.remainingTicks == nil {
		return 0, false
	}
	return *s.remainingTicks, true
}

// Zone is a scoring rectangle on the map. Tiles inside a zone hold a
// pointer to the same Zone value that Map.Zones lists.
type Zone struct {
	X      int
	Y      int
	Width  int
	Height int
	Index  int
	Status ZoneState
}

// Contains reports whether the tile at (x, y) lies inside the zone.
func (z *Zone) Contains(x, y int) bool {
	return z.X <= x && x < z.X+z.Width && z.Y <= y && y < z.Y+z.Height
}

// Tile is one grid cell of a snapshot.
type Tile struct {
	occupant Occupant
	zone     *Zone
	visible  bool
}

// Occupant returns the tile's occupant, or nil for an empty tile.
func (t Tile) Occupant() Occupant { return t.occupant }

// Zone returns the zone the tile lies in, if any.
func (t Tile) Zone() (*Zone, bool) {
	if t.zone == nil {
		return nil, false
	}
	return t.zone, true
}

// Visible reports whether the tile is inside the receiving agent's field
// of view this tick.
func (t Tile) Visible() bool { return t.visible }

// Map is the square grid of a snapshot. Tiles is indexed [x][y].
type Map struct {
	Tiles [][]Tile
	Zones []*Zone
}

// Size returns the grid dimension.
func (m Map) Size() int { return len(m.Tiles) }

// LobbyData describes the match before it starts.
type LobbyData struct {
	PlayerID string
	Players  []Player
	Settings ServerSettings
}

// Agent is the receiving player's own roster entry plus their tank, when
// one is on the map. A dead agent keeps identity and score but has no tank.
type Agent struct {
	Player
	tank *Tank
}

// Tank returns the agent's tank. Absent while the agent is dead.
func (a *Agent) Tank() (*Tank, bool) {
	if a.tank == nil {
		return nil, false
	}
	return a.tank, true
}

// IsDead reports whether the agent currently has no tank on the map.
func (a *Agent) IsDead() bool { return a.tank == nil }

// GameState is one decoded snapshot. ID correlates the tick's response.
type GameState struct {
	ID      string
	Tick    int
	Players []Player
	Map     Map
	MyAgent *Agent
}

// GameResult is the final standing.
type GameResult struct {
	Players []Player
}

// Winner returns the player with the highest score. False on an empty
// result or when no score was revealed.
func (r GameResult) Winner() (Player, bool) {
	var best Player
	bestScore, found := -1, false
	for _, p := range r.Players {
		if s, ok := p.Score(); ok && s > bestScore {
			best, bestScore, found = p, s, true
		}
	}
	return best, found
}
