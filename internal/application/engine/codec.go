package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Envelope is the wire form of an action: {"type": "...", "payload": {...}}
type Envelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type decoder func(raw json.RawMessage) (Action, error)

var validate = validator.New()

// decoders lists every action accepted over the wire. INITIALIZE is internal to the session.
var decoders = map[ActionType]decoder{
	ActionTick:              decodeAs[Tick],
	ActionGather:            decodeAs[Gather],
	ActionCraft:             decodeAs[Craft],
	ActionBuild:             decodeAs[Build],
	ActionEat:               decodeAs[Eat],
	ActionDrink:             decodeAs[Drink],
	ActionRest:              decodeAs[Rest],
	ActionSell:              decodeAs[Sell],
	ActionToggleLock:        decodeAs[ToggleLock],
	ActionAddXP:             decodeAs[AddXP],
	ActionLearnSkill:        decodeAs[LearnSkill],
	ActionPurchaseUpgrade:   decodeAs[PurchaseUpgrade],
	ActionStartBatch:        decodeAs[StartBatch],
	ActionFinishBatch:       decodeAs[FinishBatch],
	ActionBuildMachine:      decodeAs[BuildMachine],
	ActionFuelMachine:       decodeAs[FuelMachine],
	ActionConfigureMachine:  decodeAs[ConfigureMachine],
	ActionLoadMachine:       decodeAs[LoadMachine],
	ActionCollectMachine:    decodeAs[CollectMachine],
	ActionRemoveMachine:     decodeAs[RemoveMachine],
	ActionQueueDrone:        decodeAs[QueueDrone],
	ActionLaunchDrone:       decodeAs[LaunchDrone],
	ActionResolveDrone:      decodeAs[ResolveDrone],
	ActionPlant:             decodeAs[Plant],
	ActionHarvest:           decodeAs[Harvest],
	ActionTravel:            decodeAs[Travel],
	ActionExplore:           decodeAs[Explore],
	ActionNarrativeResolved: decodeAs[NarrativeResolved],
	ActionSetDisplayName:    decodeAs[SetDisplayName],
	ActionSetResting:        decodeAs[SetResting],
	ActionRespawn:           decodeAs[Respawn],
	ActionRefuelGenerator:   decodeAs[RefuelGenerator],
	ActionEquip:             decodeAs[Equip],
}

func decodeAs[T Action](raw json.RawMessage) (Action, error) {
	var a T
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return nil, fmt.Errorf("invalid payload: %w", err)
		}
	}
	if err := validate.Struct(a); err != nil {
		return nil, formatValidation(err)
	}
	return a, nil
}

func formatValidation(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(e.Field()), e.Tag()))
	}
	return fmt.Errorf("invalid payload: %s", strings.Join(msgs, ", "))
}

// DecodeAction parses an envelope into a typed action
func DecodeAction(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid action envelope: %w", err)
	}
	return env.Decode()
}

// Decode resolves the envelope payload into a typed action
func (e Envelope) Decode() (Action, error) {
	t := ActionType(strings.ToUpper(strings.TrimSpace(string(e.Type))))
	dec, ok := decoders[t]
	if !ok {
		return nil, fmt.Errorf("unsupported action type %q", e.Type)
	}
	return dec(e.Payload)
}

// EncodeAction renders an action as an envelope
func EncodeAction(a Action) ([]byte, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", a.Type(), err)
	}
	if bytes.Equal(payload, []byte("{}")) {
		payload = nil
	}
	return json.Marshal(Envelope{Type: a.Type(), Payload: payload})
}

// IsSystemAction reports whether an action type is reserved for timers and collaborators
func IsSystemAction(t ActionType) bool {
	return systemActions[t]
}

// WireActionTypes lists the action types DecodeAction accepts, sorted
func WireActionTypes() []ActionType {
	out := make([]ActionType, 0, len(decoders))
	for t := range decoders {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
