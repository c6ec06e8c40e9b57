package protocol

import "encoding/json"

// Outgoing payloads. Every game response carries the id of the game_state
// it answers; the server drops replies whose id is stale.

// MovementPayload drives the tank forward (0) or backward (1).
type MovementPayload struct {
	GameStateID string `json:"game_state_id"`
	Direction   int    `json:"direction"`
}

// RotationPayload rotates the hull and/or the turret a quarter turn,
// 0 left / 1 right. A side left nil is omitted from the wire.
type RotationPayload struct {
	GameStateID    string `json:"game_state_id"`
	TankRotation   *int   `json:"tank_rotation,omitempty"`
	TurretRotation *int   `json:"turret_rotation,omitempty"`
}

// ShootPayload fires the turret.
type ShootPayload struct {
	GameStateID string `json:"game_state_id"`
}

// PassPayload explicitly skips the tick.
type PassPayload struct {
	GameStateID string `json:"game_state_id"`
}

func encodeEnvelope(tag string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: tag, Payload: raw})
}

// EncodeMovement builds a movement message.
func EncodeMovement(gameStateID string, direction int) ([]byte, error) {
	if direction != 0 && direction != 1 {
		return nil, &InvalidCombinationError{
			Reason: "movement direction must be 0 (forward) or 1 (backward)",
		}
	}
	return encodeEnvelope(TagMovement, MovementPayload{
		GameStateID: gameStateID,
		Direction:   direction,
	})
}

// EncodeRotation builds a rotation message. At least one side must rotate;
// a rotation with neither is rejected before any bytes are produced.
func EncodeRotation(gameStateID string, tankRotation, turretRotation *int) ([]byte, error) {
	if tankRotation == nil && turretRotation == nil {
		return nil, &InvalidCombinationError{
			Reason: "rotation must rotate the tank, the turret, or both",
		}
	}
	for _, r := range []*int{tankRotation, turretRotation} {
		if r != nil && *r != 0 && *r != 1 {
			return nil, &InvalidCombinationError{
				Reason: "rotation direction must be 0 (left) or 1 (right)",
			}
		}
	}
	return encodeEnvelope(TagRotation, RotationPayload{
		GameStateID:    gameStateID,
		TankRotation:   tankRotation,
		TurretRotation: turretRotation,
	})
}

// EncodeShoot builds a shoot message.
func EncodeShoot(gameStateID string) ([]byte, error) {
	return encodeEnvelope(TagShoot, ShootPayload{GameStateID: gameStateID})
}

// EncodePass builds a pass message.
func EncodePass(gameStateID string) ([]byte, error) {
	return encodeEnvelope(TagPass, PassPayload{GameStateID: gameStateID})
}

// EncodePong builds the transport-level reply to a ping.
func EncodePong() ([]byte, error) {
	return json.Marshal(Envelope{Type: TagPong})
}
