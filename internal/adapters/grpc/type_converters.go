package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
)

// ToProtobufAction converts an action into its wire envelope as a Struct
func ToProtobufAction(a engine.Action) (*structpb.Struct, error) {
	raw, err := engine.EncodeAction(a)
	if err != nil {
		return nil, err
	}
	return jsonToStruct(raw)
}

// FromProtobufAction decodes and validates an action envelope
func FromProtobufAction(s *structpb.Struct) (engine.Action, error) {
	raw, err := structToJSON(s)
	if err != nil {
		return nil, err
	}
	return engine.DecodeAction(raw)
}

// ToProtobufState converts a game state into a Struct
func ToProtobufState(st *game.State) (*structpb.Struct, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return jsonToStruct(raw)
}

// FromProtobufState converts a Struct back into a game state
func FromProtobufState(s *structpb.Struct) (*game.State, error) {
	raw, err := structToJSON(s)
	if err != nil {
		return nil, err
	}
	var st game.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return &st, nil
}

func jsonToStruct(raw []byte) (*structpb.Struct, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode json object: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("failed to build struct: %w", err)
	}
	return s, nil
}

func structToJSON(s *structpb.Struct) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("empty message")
	}
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return nil, fmt.Errorf("failed to encode struct: %w", err)
	}
	return raw, nil
}
