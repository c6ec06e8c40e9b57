package game

// --- Enums ---

// Direction is a cardinal facing on the grid.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionRight
	DirectionDown
	DirectionLeft
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionRight:
		return "right"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	default:
		return "unknown"
	}
}

// MovementDirection is the axis a tank drives along, relative to its hull.
type MovementDirection int

const (
	MovementForward MovementDirection = iota
	MovementBackward
)

func (m MovementDirection) String() string {
	if m == MovementForward {
		return "forward"
	}
	return "backward"
}

// RotationDirection is a quarter turn of the hull or the turret.
type RotationDirection int

const (
	RotationLeft RotationDirection = iota
	RotationRight
)

func (r RotationDirection) String() string {
	if r == RotationLeft {
		return "left"
	}
	return "right"
}

// ZoneStatusKind is the capture state of a scoring zone.
type ZoneStatusKind int

const (
	ZoneNeutral ZoneStatusKind = iota
	ZoneBeingCaptured
	ZoneCaptured
	ZoneBeingContested
	ZoneBeingRetaken
)

func (z ZoneStatusKind) String() string {
	switch z {
	case ZoneNeutral:
		return "neutral"
	case ZoneBeingCaptured:
		return "being captured"
	case ZoneCaptured:
		return "captured"
	case ZoneBeingContested:
		return "being contested"
	case ZoneBeingRetaken:
		return "being retaken"
	default:
		return "unknown"
	}
}

// OccupantKind discriminates the members of the Occupant union.
type OccupantKind int

const (
	OccupantWall OccupantKind = iota
	OccupantBullet
	OccupantTank
)

func (k OccupantKind) String() string {
	switch k {
	case OccupantWall:
		return "wall"
	case OccupantBullet:
		return "bullet"
	case OccupantTank:
		return "tank"
	default:
		return "unknown"
	}
}
