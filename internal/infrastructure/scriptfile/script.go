package scriptfile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
)

// Step waits After of simulated time, then applies Action
type Step struct {
	After  time.Duration
	Action engine.Action
}

// Script is an ordered list of player actions for an offline simulation
type Script struct {
	Steps []Step
	// Tail is simulated time to run after the last step
	Tail time.Duration
}

type document struct {
	Tail  time.Duration `yaml:"tail"`
	Steps []struct {
		After   time.Duration  `yaml:"after"`
		Action  string         `yaml:"action"`
		Payload map[string]any `yaml:"payload"`
	} `yaml:"steps"`
}

// Load reads a YAML script from path
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	script, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return script, nil
}

// Parse decodes a script. Every action goes through the wire codec, so system
// actions such as TICK are refused the same way a client would be.
func Parse(data []byte) (*Script, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if doc.Tail < 0 {
		return nil, fmt.Errorf("tail must not be negative")
	}

	script := &Script{Tail: doc.Tail, Steps: make([]Step, 0, len(doc.Steps))}
	for i, s := range doc.Steps {
		if s.After < 0 {
			return nil, fmt.Errorf("step %d: after must not be negative", i+1)
		}
		envelope := map[string]any{"type": s.Action}
		if len(s.Payload) > 0 {
			envelope["payload"] = s.Payload
		}
		raw, err := json.Marshal(envelope)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		action, err := engine.DecodeAction(raw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if engine.IsSystemAction(action.Type()) {
			return nil, fmt.Errorf("step %d: %s cannot be scripted", i+1, action.Type())
		}
		script.Steps = append(script.Steps, Step{After: s.After, Action: action})
	}
	return script, nil
}

// Duration is the total simulated time the script spans
func (s *Script) Duration() time.Duration {
	total := s.Tail
	for _, step := range s.Steps {
		total += step.After
	}
	return total
}
