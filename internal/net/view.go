package net

import (
	"strings"

	"tankbot/internal/game"
)

// JSON views of a snapshot for the web spectator and the MCP surface.

// StateView is a snapshot from the receiving agent's perspective.
type StateView struct {
	ID      string       `json:"id"`
	Tick    int          `json:"tick"`
	Players []PlayerView `json:"players"`
	Grid    []string     `json:"grid"`
	Zones   []ZoneView   `json:"zones"`
	Agent   *AgentView   `json:"agent,omitempty"`
}

// PlayerView is one roster entry.
type PlayerView struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Color    uint32 `json:"color"`
	Score    *int   `json:"score,omitempty"`
	Ping     *int   `json:"ping,omitempty"`
}

// ZoneView is one scoring zone with its capture status.
type ZoneView struct {
	Index          int    `json:"index"`
	X              int    `json:"x"`
	Y              int    `json:"y"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Status         string `json:"status"`
	PlayerID       string `json:"player_id,omitempty"`
	CapturedByID   string `json:"captured_by_id,omitempty"`
	RetakenByID    string `json:"retaken_by_id,omitempty"`
	RemainingTicks *int   `json:"remaining_ticks,omitempty"`
}

// AgentView is the enriched view of the caller's own tank. Absent fields
// mean the agent is dead.
type AgentView struct {
	Dead               bool   `json:"dead"`
	Health             *int   `json:"health,omitempty"`
	Direction          string `json:"direction,omitempty"`
	TurretDirection    string `json:"turret_direction,omitempty"`
	BulletCount        *int   `json:"bullet_count,omitempty"`
	TicksToRegenBullet *int   `json:"ticks_to_regen_bullet,omitempty"`
	TicksToRegen       *int   `json:"ticks_to_regen,omitempty"`
}

// Grid legend: '#' wall, '*' bullet, 'T' enemy tank, '@' own tank,
// '.' visible floor, ' ' fog of war.
const (
	cellWall   = '#'
	cellBullet = '*'
	cellTank   = 'T'
	cellAgent  = '@'
	cellFloor  = '.'
	cellFog    = ' '
)

// BuildStateView flattens a snapshot for JSON transport. Grid rows are
// y-major so they print top to bottom.
func BuildStateView(state *game.GameState) *StateView {
	sv := &StateView{
		ID:   state.ID,
		Tick: state.Tick,
	}

	for _, p := range state.Players {
		pv := PlayerView{
			ID:       p.ID(),
			Nickname: p.Nickname(),
			Color:    p.Color(),
		}
		if s, ok := p.Score(); ok {
			pv.Score = &s
		}
		if ping, ok := p.Ping(); ok {
			pv.Ping = &ping
		}
		sv.Players = append(sv.Players, pv)
	}

	size := state.Map.Size()
	for y := 0; y < size; y++ {
		var row strings.Builder
		for x := 0; x < size; x++ {
			row.WriteRune(renderTile(state.Map.Tiles[x][y]))
		}
		sv.Grid = append(sv.Grid, row.String())
	}

	for _, z := range state.Map.Zones {
		zv := ZoneView{
			Index:  z.Index,
			X:      z.X,
			Y:      z.Y,
			Width:  z.Width,
			Height: z.Height,
			Status: z.Status.Kind().String(),
		}
		if id, ok := z.Status.PlayerID(); ok {
			zv.PlayerID = id
		}
		if id, ok := z.Status.CapturedByID(); ok {
			zv.CapturedByID = id
		}
		if id, ok := z.Status.RetakenByID(); ok {
			zv.RetakenByID = id
		}
		if t, ok := z.Status.RemainingTicks(); ok {
			zv.RemainingTicks = &t
		}
		sv.Zones = append(sv.Zones, zv)
	}

	if state.MyAgent != nil {
		sv.Agent = buildAgentView(state.MyAgent)
	}
	return sv
}

func buildAgentView(agent *game.Agent) *AgentView {
	av := &AgentView{Dead: agent.IsDead()}
	if t, ok := agent.TicksToRegen(); ok {
		av.TicksToRegen = &t
	}
	tank, ok := agent.Tank()
	if !ok {
		return av
	}
	view, ok := tank.Agent()
	if !ok {
		return av
	}
	av.Direction = view.Direction().String()
	av.TurretDirection = view.Turret().Direction().String()
	if h, ok := view.Health(); ok {
		av.Health = &h
	}
	if n, ok := view.Turret().BulletCount(); ok {
		av.BulletCount = &n
	}
	if n, ok := view.Turret().TicksToRegenBullet(); ok {
		av.TicksToRegenBullet = &n
	}
	return av
}

func renderTile(t game.Tile) rune {
	if !t.Visible() {
		return cellFog
	}
	switch occ := t.Occupant().(type) {
	case game.Wall:
		return cellWall
	case *game.Bullet:
		return cellBullet
	case *game.Tank:
		if occ.IsAgent() {
			return cellAgent
		}
		return cellTank
	}
	return cellFloor
}
