package game

import (
	"fmt"

	"tankbot/internal/protocol"
)

// DanglingReferenceError reports an id that should resolve against the
// snapshot's roster but does not. Fatal for the whole snapshot.
type DanglingReferenceError struct {
	ID string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("reference to unknown player %q", e.ID)
}

func buildPlayer(raw protocol.RawPlayer, path string) (Player, error) {
	if raw.Score != nil && *raw.Score < 0 {
		return Player{}, &protocol.MalformedFieldError{
			Path: path + ".score",
			Err:  fmt.Errorf("negative score %d", *raw.Score),
		}
	}
	if raw.Ping != nil && *raw.Ping < 0 {
		return Player{}, &protocol.MalformedFieldError{
			Path: path + ".ping",
			Err:  fmt.Errorf("negative ping %d", *raw.Ping),
		}
	}
	if raw.TicksToRegen != nil && *raw.TicksToRegen < 0 {
		return Player{}, &protocol.MalformedFieldError{
			Path: path + ".ticks_to_regen",
			Err:  fmt.Errorf("negative ticks_to_regen %d", *raw.TicksToRegen),
		}
	}
	return Player{
		id:           raw.ID,
		nickname:     raw.Nickname,
		color:        raw.Color,
		score:        raw.Score,
		ping:         raw.Ping,
		ticksToRegen: raw.TicksToRegen,
	}, nil
}

func buildPlayers(raws []protocol.RawPlayer) ([]Player, error) {
	players := make([]Player, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for i, raw := range raws {
		p, err := buildPlayer(raw, fmt.Sprintf("players[%d]", i))
		if err != nil {
			return nil, err
		}
		if seen[p.id] {
			return nil, &protocol.InvalidCombinationError{
				Reason: fmt.Sprintf("duplicate player id %q", p.id),
			}
		}
		seen[p.id] = true
		players = append(players, p)
	}
	return players, nil
}

func checkSettings(s protocol.ServerSettings) error {
	checks := []struct {
		name  string
		value int
	}{
		{"grid_dimension", s.GridDimension},
		{"number_of_players", s.NumberOfPlayers},
		{"seed", s.Seed},
		{"ticks", s.Ticks},
		{"broadcast_interval", s.BroadcastInterval},
	}
	for _, c := range checks {
		if c.value < 0 {
			return &protocol.MalformedFieldError{
				Path: "server_settings." + c.name,
				Err:  fmt.Errorf("negative value %d", c.value),
			}
		}
	}
	return nil
}

// BuildLobbyData validates a lobby payload and returns the typed lobby.
func BuildLobbyData(p *protocol.LobbyDataPayload) (*LobbyData, error) {
	if err := checkSettings(p.ServerSettings); err != nil {
		return nil, err
	}
	players, err := buildPlayers(p.Players)
	if err != nil {
		return nil, err
	}
	found := false
	for _, pl := range players {
		if pl.id == p.PlayerID {
			found = true
			break
		}
	}
	if !found {
		return nil, &DanglingReferenceError{ID: p.PlayerID}
	}
	return &LobbyData{
		PlayerID: p.PlayerID,
		Players:  players,
		Settings: ServerSettings(p.ServerSettings),
	}, nil
}

// BuildGameResult validates a game_end payload and returns the standings.
func BuildGameResult(p *protocol.GameEndPayload) (*GameResult, error) {
	players, err := buildPlayers(p.Players)
	if err != nil {
		return nil, err
	}
	return &GameResult{Players: players}, nil
}

func buildZones(raws []protocol.RawZone, size int) ([]*Zone, error) {
	zones := make([]*Zone, 0, len(raws))
	seen := make(map[int]bool, len(raws))
	for i, raw := range raws {
		path := fmt.Sprintf("map.zones[%d]", i)
		if raw.Width < 0 || raw.Height < 0 {
			return nil, &protocol.MalformedFieldError{
				Path: path,
				Err:  fmt.Errorf("negative extent %dx%d", raw.Width, raw.Height),
			}
		}
		if raw.X < 0 || raw.Y < 0 || raw.X+raw.Width > size || raw.Y+raw.Height > size {
			return nil, &protocol.MalformedFieldError{
				Path: path,
				Err:  fmt.Errorf("rect (%d,%d)+%dx%d exceeds %dx%d grid",
					raw.X, raw.Y, raw.Width, raw.Height, size, size),
			}
		}
		if seen[raw.Index] {
			return nil, &protocol.InvalidCombinationError{
				Reason: fmt.Sprintf("duplicate zone index %d", raw.Index),
			}
		}
		seen[raw.Index] = true
		zones = append(zones, &Zone{
			X:      raw.X,
			Y:      raw.Y,
			Width:  raw.Width,
			Height: raw.Height,
			Index:  raw.Index,
			Status: buildZoneState(raw.Status),
		})
	}
	return zones, nil
}

func buildZoneState(raw protocol.RawZoneStatus) ZoneState {
	var kind ZoneStatusKind
	switch raw.Tag {
	case protocol.TagNeutral:
		kind = ZoneNeutral
	case protocol.TagBeingCaptured:
		kind = ZoneBeingCaptured
	case protocol.TagCaptured:
		kind = ZoneCaptured
	case protocol.TagBeingContested:
		kind = ZoneBeingContested
	case protocol.TagBeingRetaken:
		kind = ZoneBeingRetaken
	}
	return ZoneState{
		kind:           kind,
		playerID:       raw.PlayerID,
		capturedByID:   raw.CapturedByID,
		retakenByID:    raw.RetakenByID,
		remainingTicks: raw.RemainingTicks,
	}
}

func buildOccupant(obj protocol.RawTileObject, path string) (Occupant, error) {
	switch obj.Type {
	case protocol.TagWall:
		return Wall{}, nil
	case protocol.TagBullet:
		var dir *Direction
		if obj.Bullet.Direction != nil {
			d := Direction(*obj.Bullet.Direction)
			dir = &d
		}
		return &Bullet{
			id:        obj.Bullet.ID,
			speed:     obj.Bullet.Speed,
			direction: dir,
		}, nil
	case protocol.TagTank:
		turret := obj.Tank.Turret
		if turret.BulletCount != nil && *turret.BulletCount < 0 {
			return nil, &protocol.MalformedFieldError{
				Path: path + ".payload.turret.bullet_count",
				Err:  fmt.Errorf("negative bullet_count %d", *turret.BulletCount),
			}
		}
		if turret.TicksToRegenBullet != nil && *turret.TicksToRegenBullet < 0 {
			return nil, &protocol.MalformedFieldError{
				Path: path + ".payload.turret.ticks_to_regen_bullet",
				Err:  fmt.Errorf("negative ticks_to_regen_bullet %d", *turret.TicksToRegenBullet),
			}
		}
		return &Tank{
			ownerID:   obj.Tank.OwnerID,
			direction: Direction(obj.Tank.Direction),
			turret: Turret{
				direction:          Direction(turret.Direction),
				bulletCount:        turret.BulletCount,
				ticksToRegenBullet: turret.TicksToRegenBullet,
			},
			health: obj.Tank.Health,
		}, nil
	}
	return nil, nil
}

// BuildGameState validates a game_state payload against the caller's id
// and assembles the snapshot. Structural checks run before referential
// ones; any failure discards the whole snapshot.
func BuildGameState(p *protocol.GameStatePayload, agentID string) (*GameState, error) {
	players, err := buildPlayers(p.Players)
	if err != nil {
		return nil, err
	}

	size := len(p.Map.Tiles)
	for x, row := range p.Map.Tiles {
		if len(row) != size {
			return nil, &protocol.InvalidCombinationError{
				Reason: fmt.Sprintf("tile grid is not square: row %d has %d tiles, expected %d",
					x, len(row), size),
			}
		}
	}

	if len(p.Map.Visibility) != size {
		return nil, &protocol.InvalidCombinationError{
			Reason: fmt.Sprintf("visibility has %d rows for a %dx%d grid",
				len(p.Map.Visibility), size, size),
		}
	}
	for x, row := range p.Map.Visibility {
		if len(row) != size {
			return nil, &protocol.InvalidCombinationError{
				Reason: fmt.Sprintf("visibility row %d has %d columns for a %dx%d grid",
					x, len(row), size, size),
			}
		}
	}

	zones, err := buildZones(p.Map.Zones, size)
	if err != nil {
		return nil, err
	}

	tiles := make([][]Tile, size)
	var tanks []*Tank
	bulletIDs := make(map[int]bool)
	for x := range p.Map.Tiles {
		tiles[x] = make([]Tile, size)
		for y, objs := range p.Map.Tiles[x] {
			var occupant Occupant
			for i, obj := range objs {
				o, err := buildOccupant(obj, fmt.Sprintf("map.tiles[%d][%d][%d]", x, y, i))
				if err != nil {
					return nil, err
				}
				if b, ok := o.(*Bullet); ok {
					if bulletIDs[b.id] {
						return nil, &protocol.InvalidCombinationError{
							Reason: fmt.Sprintf("duplicate bullet id %d", b.id),
						}
					}
					bulletIDs[b.id] = true
				}
				if t, ok := o.(*Tank); ok {
					tanks = append(tanks, t)
				}
				if i == 0 {
					occupant = o
				}
			}
			var zone *Zone
			for _, z := range zones {
				if z.Contains(x, y) {
					zone = z
					break
				}
			}
			tiles[x][y] = Tile{
				occupant: occupant,
				zone:     zone,
				visible:  p.Map.Visibility[x][y] == '1',
			}
		}
	}

	// Referential checks run only after the structure is sound.
	roster := make(map[string]bool, len(players))
	for _, pl := range players {
		roster[pl.id] = true
	}
	var agentTank *Tank
	for _, t := range tanks {
		if !roster[t.ownerID] {
			return nil, &DanglingReferenceError{ID: t.ownerID}
		}
		if t.ownerID == agentID {
			t.agent = true
			agentTank = t
		}
	}

	var agent *Agent
	for _, pl := range players {
		if pl.id == agentID {
			agent = &Agent{Player: pl, tank: agentTank}
			break
		}
	}
	if agent == nil {
		return nil, &DanglingReferenceError{ID: agentID}
	}

	return &GameState{
		ID:      p.ID,
		Tick:    p.Tick,
		Players: players,
		Map:     Map{Tiles: tiles, Zones: zones},
		MyAgent: agent,
	}, nil
}
