package game

import "testing"

func TestOccupantKinds(t *testing.T) {
	var occ Occupant

	occ = Wall{}
	if occ.Kind() != OccupantWall {
		t.Errorf("wall kind = %v", occ.Kind())
	}
	occ = &Bullet{id: 1}
	if occ.Kind() != OccupantBullet {
		t.Errorf("bullet kind = %v", occ.Kind())
	}
	occ = &Tank{ownerID: "p1"}
	if occ.Kind() != OccupantTank {
		t.Errorf("tank kind = %v", occ.Kind())
	}
}

func TestBullet_OptionalAccessors(t *testing.T) {
	dir := DirectionDown
	full := &Bullet{id: 7, speed: floatPtr(2), direction: &dir}
	if speed, ok := full.Speed(); !ok || speed != 2 {
		t.Errorf("speed = %v %v", speed, ok)
	}
	if d, ok := full.Direction(); !ok || d != DirectionDown {
		t.Errorf("direction = %v %v", d, ok)
	}

	// A bullet outside the field of view carries only its id.
	bare := &Bullet{id: 8}
	if _, ok := bare.Speed(); ok {
		t.Error("absent speed reported present")
	}
	if _, ok := bare.Direction(); ok {
		t.Error("absent direction reported present")
	}
}

func TestTank_AgentNarrowing(t *testing.T) {
	state, err := BuildGameState(grid2Payload(), "p1")
	if err != nil {
		t.Fatalf("BuildGameState: %v", err)
	}

	enemy := state.Map.Tiles[1][0].Occupant().(*Tank)
	if _, ok := enemy.Agent(); ok {
		t.Fatal("enemy tank narrowed to agent view")
	}

	own := state.Map.Tiles[1][1].Occupant().(*Tank)
	view, ok := own.Agent()
	if !ok {
		t.Fatal("own tank did not narrow")
	}
	if health, ok := view.Health(); !ok || health != 100 {
		t.Errorf("health = %v %v", health, ok)
	}
	turret := view.Turret()
	if turret.Direction() != DirectionDown {
		t.Errorf("turret direction = %v", turret.Direction())
	}
	if n, ok := turret.BulletCount(); !ok || n != 3 {
		t.Errorf("bullet count = %v %v", n, ok)
	}
	if _, ok := turret.TicksToRegenBullet(); ok {
		t.Error("absent ticks_to_regen_bullet reported present")
	}
}

// Exactly one tank per snapshot carries the agent discriminant.
func TestTank_AgentExclusivity(t *testing.T) {
	state, err := BuildGameState(grid2Payload(), "p1")
	if err != nil {
		t.Fatalf("BuildGameState: %v", err)
	}
	agents := 0
	for x := range state.Map.Tiles {
		for y := range state.Map.Tiles[x] {
			if tank, ok := state.Map.Tiles[x][y].Occupant().(*Tank); ok && tank.IsAgent() {
				agents++
			}
		}
	}
	if agents != 1 {
		t.Errorf("%d tanks marked as agent", agents)
	}
}

func TestEnumStrings(t *testing.T) {
	if DirectionLeft.String() != "left" || DirectionUp.String() != "up" {
		t.Error("direction strings")
	}
	if MovementBackward.String() != "backward" {
		t.Error("movement strings")
	}
	if ZoneBeingRetaken.String() != "being retaken" {
		t.Error("zone status strings")
	}
	if OccupantBullet.String() != "bullet" {
		t.Error("occupant kind strings")
	}
}
