package game

import (
	"errors"
	"testing"

	"tankbot/internal/protocol"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func wallObj() protocol.RawTileObject {
	return protocol.RawTileObject{Type: protocol.TagWall, Wall: &protocol.RawWall{}}
}

func bulletObj(id int) protocol.RawTileObject {
	return protocol.RawTileObject{
		Type: protocol.TagBullet,
		Bullet: &protocol.RawBullet{
			ID:        id,
			Speed:     floatPtr(2),
			Direction: intPtr(2),
		},
	}
}

func tankObj(owner string, tank *protocol.RawTank) protocol.RawTileObject {
	if tank == nil {
		tank = &protocol.RawTank{
			OwnerID:   owner,
			Direction: 1,
			Turret:    protocol.RawTurret{Direction: 3},
		}
	}
	tank.OwnerID = owner
	return protocol.RawTileObject{Type: protocol.TagTank, Tank: tank}
}

func agentTankObj(owner string) protocol.RawTileObject {
	return tankObj(owner, &protocol.RawTank{
		Direction: 0,
		Turret: protocol.RawTurret{
			Direction:   2,
			BulletCount: intPtr(3),
		},
		Health: intPtr(100),
	})
}

// grid2Payload is the 2x2 scenario: wall at (0,0), bullet at (0,1),
// enemy tank at (1,0), the caller's tank at (1,1), and one zone covering
// the x=0 column.
func grid2Payload() *protocol.GameStatePayload {
	return &protocol.GameStatePayload{
		ID:   "s1",
		Tick: 1,
		Players: []protocol.RawPlayer{
			{ID: "p1", Nickname: "alice", Color: 0xFF0000FF, Score: intPtr(10)},
			{ID: "p2", Nickname: "bob", Color: 0xFFFF0000, Score: intPtr(5), Ping: intPtr(23)},
		},
		Map: protocol.RawMap{
			Tiles: [][][]protocol.RawTileObject{
				{{wallObj()}, {bulletObj(7)}},
				{{tankObj("p2", nil)}, {agentTankObj("p1")}},
			},
			Zones: []protocol.RawZone{
				{X: 0, Y: 0, Width: 1, Height: 2, Index: 0, Status: protocol.RawZoneStatus{
					Tag:            protocol.TagBeingCaptured,
					PlayerID:       strPtr("p2"),
					RemainingTicks: intPtr(40),
				}},
			},
			Visibility: []string{"11", "10"},
		},
	}
}

func TestBuildGameState_Grid2(t *testing.T) {
	state, err := BuildGameState(grid2Payload(), "p1")
	if err != nil {
		t.Fatalf("BuildGameState: %v", err)
	}

	if state.ID != "s1" || state.Tick != 1 {
		t.Errorf("id=%q tick=%d", state.ID, state.Tick)
	}
	if state.Map.Size() != 2 {
		t.Fatalf("size = %d", state.Map.Size())
	}

	if kind := state.Map.Tiles[0][0].Occupant().Kind(); kind != OccupantWall {
		t.Errorf("tile (0,0) kind = %v", kind)
	}
	bullet, ok := state.Map.Tiles[0][1].Occupant().(*Bullet)
	if !ok || bullet.ID() != 7 {
		t.Fatalf("tile (0,1) = %#v", state.Map.Tiles[0][1].Occupant())
	}
	if speed, ok := bullet.Speed(); !ok || speed != 2 {
		t.Errorf("bullet speed = %v %v", speed, ok)
	}

	enemy := state.Map.Tiles[1][0].Occupant().(*Tank)
	if enemy.OwnerID() != "p2" || enemy.IsAgent() {
		t.Errorf("enemy = %+v", enemy)
	}
	own := state.Map.Tiles[1][1].Occupant().(*Tank)
	if own.OwnerID() != "p1" || !own.IsAgent() {
		t.Errorf("own = %+v", own)
	}

	// The zone covers the x=0 column; tiles share the listed pointer.
	zone, ok := state.Map.Tiles[0][0].Zone()
	if !ok || zone != state.Map.Zones[0] {
		t.Error("tile (0,0) does not share the zone pointer")
	}
	if zone, ok := state.Map.Tiles[0][1].Zone(); !ok || zone != state.Map.Zones[0] {
		t.Error("tile (0,1) does not share the zone pointer")
	}
	if _, ok := state.Map.Tiles[1][0].Zone(); ok {
		t.Error("tile (1,0) is not in any zone")
	}
	if kind := state.Map.Zones[0].Status.Kind(); kind != ZoneBeingCaptured {
		t.Errorf("zone status = %v", kind)
	}

	if !state.Map.Tiles[1][0].Visible() {
		t.Error("tile (1,0) should be visible")
	}
	if state.Map.Tiles[1][1].Visible() {
		t.Error("tile (1,1) should be fogged")
	}

	agent := state.MyAgent
	if agent == nil || agent.ID() != "p1" || agent.IsDead() {
		t.Fatalf("agent = %+v", agent)
	}
	tank, ok := agent.Tank()
	if !ok || tank != own {
		t.Error("agent tank is not the marked tank")
	}
}

func TestBuildGameState_DanglingOwner(t *testing.T) {
	p := grid2Payload()
	p.Map.Tiles[1][0] = []protocol.RawTileObject{tankObj("ghost", nil)}

	_, err := BuildGameState(p, "p1")
	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("got %v, want DanglingReferenceError", err)
	}
	if dangling.ID != "ghost" {
		t.Errorf("id = %q", dangling.ID)
	}
}

// Every tile entry is validated, not just the one that becomes the
// occupant.
func TestBuildGameState_AllTileEntriesChecked(t *testing.T) {
	p := grid2Payload()
	p.Map.Tiles[0][0] = []protocol.RawTileObject{wallObj(), tankObj("ghost", nil)}

	_, err := BuildGameState(p, "p1")
	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("got %v, want DanglingReferenceError", err)
	}

	p = grid2Payload()
	p.Map.Tiles[0][0] = []protocol.RawTileObject{wallObj(), bulletObj(9)}
	state, err := BuildGameState(p, "p1")
	if err != nil {
		t.Fatalf("BuildGameState: %v", err)
	}
	if kind := state.Map.Tiles[0][0].Occupant().Kind(); kind != OccupantWall {
		t.Errorf("first entry should win, got %v", kind)
	}
}

func TestBuildGameState_AgentNotInRoster(t *testing.T) {
	p := grid2Payload()
	p.Map.Tiles[1][1] = nil

	_, err := BuildGameState(p, "px")
	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("got %v, want DanglingReferenceError", err)
	}
	if dangling.ID != "px" {
		t.Errorf("id = %q", dangling.ID)
	}
}

func TestBuildGameState_DuplicatePlayerID(t *testing.T) {
	p := grid2Payload()
	p.Players[1].ID = "p1"
	p.Map.Tiles[1][0] = nil

	_, err := BuildGameState(p, "p1")
	var combo *protocol.InvalidCombinationError
	if !errors.As(err, &combo) {
		t.Fatalf("got %v, want InvalidCombinationError", err)
	}
}

func TestBuildGameState_DuplicateZoneIndex(t *testing.T) {
	p := grid2Payload()
	p.Map.Zones = append(p.Map.Zones, protocol.RawZone{
		X: 1, Y: 0, Width: 1, Height: 1, Index: 0,
		Status: protocol.RawZoneStatus{Tag: protocol.TagNeutral},
	})

	_, err := BuildGameState(p, "p1")
	var combo *protocol.InvalidCombinationError
	if !errors.As(err, &combo) {
		t.Fatalf("got %v, want InvalidCombinationError", err)
	}
}

func TestBuildGameState_DuplicateBulletID(t *testing.T) {
	p := grid2Payload()
	p.Map.Tiles[1][0] = []protocol.RawTileObject{bulletObj(7)}

	_, err := BuildGameState(p, "p1")
	var combo *protocol.InvalidCombinationError
	if !errors.As(err, &combo) {
		t.Fatalf("got %v, want InvalidCombinationError", err)
	}
}

func TestBuildGameState_NonSquareGrid(t *testing.T) {
	p := grid2Payload()
	p.Map.Tiles = [][][]protocol.RawTileObject{
		{nil, nil, nil},
		{nil, nil, nil},
	}
	p.Map.Visibility = []string{"111", "111"}

	_, err := BuildGameState(p, "p1")
	var combo *protocol.InvalidCombinationError
	if !errors.As(err, &combo) {
		t.Fatalf("got %v, want InvalidCombinationError", err)
	}
}

func TestBuildGameState_ZoneOutOfBounds(t *testing.T) {
	p := grid2Payload()
	p.Map.Zones[0].Width = 3

	_, err := BuildGameState(p, "p1")
	var mf *protocol.MalformedFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("got %v, want MalformedFieldError", err)
	}
}

func TestBuildGameState_NegativeTurretOptionals(t *testing.T) {
	p := grid2Payload()
	p.Map.Tiles[1][1][0].Tank.Turret.BulletCount = intPtr(-3)

	_, err := BuildGameState(p, "p1")
	var mf *protocol.MalformedFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("got %v, want MalformedFieldError", err)
	}
	if mf.Path != "map.tiles[1][1][0].payload.turret.bullet_count" {
		t.Errorf("path = %q", mf.Path)
	}

	p = grid2Payload()
	p.Map.Tiles[1][1][0].Tank.Turret.TicksToRegenBullet = intPtr(-1)

	_, err = BuildGameState(p, "p1")
	if !errors.As(err, &mf) {
		t.Fatalf("got %v, want MalformedFieldError", err)
	}
	if mf.Path != "map.tiles[1][1][0].payload.turret.ticks_to_regen_bullet" {
		t.Errorf("path = %q", mf.Path)
	}
}

func TestBuildGameState_NegativeScore(t *testing.T) {
	p := grid2Payload()
	p.Players[0].Score = intPtr(-1)

	_, err := BuildGameState(p, "p1")
	var mf *protocol.MalformedFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("got %v, want MalformedFieldError", err)
	}
	if mf.Path != "players[0].score" {
		t.Errorf("path = %q", mf.Path)
	}
}

// A payload with both a structural defect and a dangling reference
// reports the structural one.
func TestBuildGameState_StructuralBeforeReferential(t *testing.T) {
	p := grid2Payload()
	p.Players[0].Score = intPtr(-1)
	p.Map.Tiles[1][0] = []protocol.RawTileObject{tankObj("ghost", nil)}

	_, err := BuildGameState(p, "p1")
	var mf *protocol.MalformedFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("got %v, want MalformedFieldError first", err)
	}
}

func TestBuildGameState_DeadAgent(t *testing.T) {
	p := grid2Payload()
	p.Map.Tiles[1][1] = nil
	p.Players[0].TicksToRegen = intPtr(30)

	state, err := BuildGameState(p, "p1")
	if err != nil {
		t.Fatalf("BuildGameState: %v", err)
	}
	agent := state.MyAgent
	if !agent.IsDead() {
		t.Fatal("agent should be dead")
	}
	if _, ok := agent.Tank(); ok {
		t.Error("dead agent has a tank")
	}
	if score, ok := agent.Score(); !ok || score != 10 {
		t.Errorf("dead agent lost identity: score = %d %v", score, ok)
	}
	if ticks, ok := agent.TicksToRegen(); !ok || ticks != 30 {
		t.Errorf("ticks_to_regen = %d %v", ticks, ok)
	}
}

func TestBuildLobbyData(t *testing.T) {
	payload := &protocol.LobbyDataPayload{
		PlayerID: "p1",
		Players: []protocol.RawPlayer{
			{ID: "p1", Nickname: "alice", Color: 255},
		},
		ServerSettings: protocol.ServerSettings{
			GridDimension: 24, NumberOfPlayers: 4, Seed: 42,
			Ticks: 3000, BroadcastInterval: 100,
		},
	}
	lobby, err := BuildLobbyData(payload)
	if err != nil {
		t.Fatalf("BuildLobbyData: %v", err)
	}
	if lobby.PlayerID != "p1" || lobby.Settings.GridDimension != 24 {
		t.Errorf("lobby = %+v", lobby)
	}

	payload.PlayerID = "px"
	_, err = BuildLobbyData(payload)
	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("got %v, want DanglingReferenceError", err)
	}

	payload.PlayerID = "p1"
	payload.ServerSettings.Ticks = -1
	_, err = BuildLobbyData(payload)
	var mf *protocol.MalformedFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("got %v, want MalformedFieldError", err)
	}

	payload.ServerSettings.Ticks = 3000
	payload.ServerSettings.Seed = -42
	_, err = BuildLobbyData(payload)
	if !errors.As(err, &mf) {
		t.Fatalf("got %v, want MalformedFieldError", err)
	}
	if mf.Path != "server_settings.seed" {
		t.Errorf("path = %q", mf.Path)
	}
}

func TestBuildGameResult(t *testing.T) {
	result, err := BuildGameResult(&protocol.GameEndPayload{
		Players: []protocol.RawPlayer{
			{ID: "p1", Nickname: "alice", Color: 1, Score: intPtr(10)},
			{ID: "p2", Nickname: "bob", Color: 2, Score: intPtr(25)},
		},
	})
	if err != nil {
		t.Fatalf("BuildGameResult: %v", err)
	}
	winner, ok := result.Winner()
	if !ok || winner.Nickname() != "bob" {
		t.Errorf("winner = %v %v", winner, ok)
	}
}
