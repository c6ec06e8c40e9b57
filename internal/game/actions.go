package game

import "tankbot/internal/protocol"

// ResponseAction is one tick's answer to a game_state. Encode produces
// the wire message bound to that snapshot's id.
type ResponseAction interface {
	Encode(gameStateID string) ([]byte, error)
}

// Movement drives the tank one tile forward or backward.
type Movement struct {
	Direction MovementDirection
}

func (m Movement) Encode(gameStateID string) ([]byte, error) {
	return protocol.EncodeMovement(gameStateID, int(m.Direction))
}

// Rotation turns the hull and/or the turret a quarter turn. A nil side
// does not rotate; leaving both nil is rejected at encode time.
type Rotation struct {
	Tank   *RotationDirection
	Turret *RotationDirection
}

func (r Rotation) Encode(gameStateID string) ([]byte, error) {
	var tank, turret *int
	if r.Tank != nil {
		v := int(*r.Tank)
		tank = &v
	}
	if r.Turret != nil {
		v := int(*r.Turret)
		turret = &v
	}
	return protocol.EncodeRotation(gameStateID, tank, turret)
}

// Shoot fires the turret.
type Shoot struct{}

func (Shoot) Encode(gameStateID string) ([]byte, error) {
	return protocol.EncodeShoot(gameStateID)
}

// Pass explicitly skips the tick.
type Pass struct{}

func (Pass) Encode(gameStateID string) ([]byte, error) {
	return protocol.EncodePass(gameStateID)
}

// RotationPtr is a convenience for building Rotation literals.
func RotationPtr(d RotationDirection) *RotationDirection { return &d }
