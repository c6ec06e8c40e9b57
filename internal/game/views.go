package game

// Occupant is the closed union of things a tile can hold: Wall, *Bullet
// or *Tank. Kind is an explicit discriminant; callers switch on it rather
// than probing types.
type Occupant interface {
	Kind() OccupantKind
}

// Wall is an impassable tile occupant. It carries no state.
type Wall struct{}

func (Wall) Kind() OccupantKind { return OccupantWall }

// Bullet is a projectile in flight. Speed and direction are only revealed
// for bullets inside the agent's field of view.
type Bullet struct {
	id        int
	speed     *float64
	direction *Direction
}

func (b *Bullet) Kind() OccupantKind { return OccupantBullet }

func (b *Bullet) ID() int { return b.id }

func (b *Bullet) Speed() (float64, bool) {
	if b.speed == nil {
		return 0, false
	}
	return *b.speed, true
}

func (b *Bullet) Direction() (Direction, bool) {
	if b.direction == nil {
		return 0, false
	}
	return *b.direction, true
}

// Turret is the generic view of a tank's turret.
type Turret struct {
	direction          Direction
	bulletCount        *int
	ticksToRegenBullet *int
}

func (t Turret) Direction() Direction { return t.direction }

// Tank is a tank on the map. The generic surface exposes only what every
// player sees of every tank; the enriched fields are reachable through
// Agent() on the one tank the builder marked as the caller's own.
type Tank struct {
	ownerID   string
	direction Direction
	turret    Turret
	health    *int
	agent     bool
}

func (t *Tank) Kind() OccupantKind { return OccupantTank }

func (t *Tank) OwnerID() string      { return t.ownerID }
func (t *Tank) Direction() Direction { return t.direction }
func (t *Tank) Turret() Turret       { return t.turret }

// IsAgent reports whether this is the receiving player's own tank. The
// flag is set by the builder from the caller's id, never inferred.
func (t *Tank) IsAgent() bool { return t.agent }

// Agent narrows the tank to its enriched view. The second return is false
// for every tank but the caller's own.
func (t *Tank) Agent() (AgentTank, bool) {
	if !t.agent {
		return AgentTank{}, false
	}
	return AgentTank{tank: t}, true
}

// AgentTank is the enriched view of the caller's own tank.
type AgentTank struct {
	tank *Tank
}

func (a AgentTank) OwnerID() string      { return a.tank.ownerID }
func (a AgentTank) Direction() Direction { return a.tank.direction }

func (a AgentTank) Health() (int, bool) {
	if a.tank.health == nil {
		return 0, false
	}
	return *a.tank.health, true
}

func (a AgentTank) Turret() AgentTurret {
	return AgentTurret{turret: a.tank.turret}
}

// AgentTurret is the enriched view of the caller's own turret.
type AgentTurret struct {
	turret Turret
}

func (t AgentTurret) Direction() Direction { return t.turret.direction }

func (t AgentTurret) BulletCount() (int, bool) {
	if t.turret.bulletCount == nil {
		return 0, false
	}
	return *t.turret.bulletCount, true
}

func (t AgentTurret) TicksToRegenBullet() (int, bool) {
	if t.turret.ticksToRegenBullet == nil {
		return 0, false
	}
	return *t.turret.ticksToRegenBullet, true
}
