package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func decodeEnvelope(t *testing.T, data []byte) (string, map[string]any) {
	t.Helper()
	var env struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return env.Type, env.Payload
}

func TestEncodeMovement(t *testing.T) {
	data, err := EncodeMovement("s1", 1)
	if err != nil {
		t.Fatalf("EncodeMovement: %v", err)
	}
	tag, payload := decodeEnvelope(t, data)
	if tag != TagMovement {
		t.Errorf("type = %q", tag)
	}
	if payload["game_state_id"] != "s1" || payload["direction"] != float64(1) {
		t.Errorf("payload = %v", payload)
	}
}

func TestEncodeMovement_BadDirection(t *testing.T) {
	_, err := EncodeMovement("s1", 2)
	var combo *InvalidCombinationError
	if !errors.As(err, &combo) {
		t.Fatalf("got %v, want InvalidCombinationError", err)
	}
}

func TestEncodeRotation_OneSided(t *testing.T) {
	left := 0
	data, err := EncodeRotation("s1", nil, &left)
	if err != nil {
		t.Fatalf("EncodeRotation: %v", err)
	}
	_, payload := decodeEnvelope(t, data)
	if payload["turret_rotation"] != float64(0) {
		t.Errorf("turret_rotation = %v", payload["turret_rotation"])
	}
	if _, present := payload["tank_rotation"]; present {
		t.Error("nil tank rotation was encoded")
	}
}

func TestEncodeRotation_Empty(t *testing.T) {
	_, err := EncodeRotation("s1", nil, nil)
	var combo *InvalidCombinationError
	if !errors.As(err, &combo) {
		t.Fatalf("got %v, want InvalidCombinationError", err)
	}
}

func TestEncodeRotation_BadDirection(t *testing.T) {
	bad := 3
	_, err := EncodeRotation("s1", &bad, nil)
	var combo *InvalidCombinationError
	if !errors.As(err, &combo) {
		t.Fatalf("got %v, want InvalidCombinationError", err)
	}
}

func TestEncodeShootAndPass(t *testing.T) {
	data, err := EncodeShoot("s9")
	if err != nil {
		t.Fatalf("EncodeShoot: %v", err)
	}
	tag, payload := decodeEnvelope(t, data)
	if tag != TagShoot || payload["game_state_id"] != "s9" {
		t.Errorf("shoot = %s %v", tag, payload)
	}

	data, err = EncodePass("s9")
	if err != nil {
		t.Fatalf("EncodePass: %v", err)
	}
	tag, payload = decodeEnvelope(t, data)
	if tag != TagPass || payload["game_state_id"] != "s9" {
		t.Errorf("pass = %s %v", tag, payload)
	}
}

func TestEncodePong(t *testing.T) {
	data, err := EncodePong()
	if err != nil {
		t.Fatalf("EncodePong: %v", err)
	}
	tag, payload := decodeEnvelope(t, data)
	if tag != TagPong {
		t.Errorf("type = %q", tag)
	}
	if payload != nil {
		t.Errorf("pong carried payload %v", payload)
	}
}
