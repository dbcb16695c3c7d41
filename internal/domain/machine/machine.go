package machine

import (
	"fmt"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// Type is the machine archetype
type Type string

const (
	TypeFuelBurner Type = "fuel_burner"
	TypeExtractor  Type = "extractor"
	TypeConverter  Type = "converter"
	TypeAssembler  Type = "assembler"
)

// ParseType validates a machine type name
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeFuelBurner, TypeExtractor, TypeConverter, TypeAssembler:
		return t, nil
	default:
		return "", shared.NewValidationError("machine_type", fmt.Sprintf("unknown machine type %q", s))
	}
}

// IsBurner reports whether the type feeds the grid rather than drawing from it
func (t Type) IsBurner() bool {
	return t == TypeFuelBurner
}

// Status is re-derived every tick from fuel, power, buffers and progress
type Status string

const (
	StatusIdle         Status = "idle"
	StatusRunning      Status = "running"
	StatusNoPower      Status = "no_power"
	StatusNoFuel       Status = "no_fuel"
	StatusInputStarved Status = "input_starved"
	StatusOutputFull   Status = "output_full"
)

// Statuses lists every status, used for metrics labelling
var Statuses = []Status{StatusIdle, StatusRunning, StatusNoPower, StatusNoFuel, StatusInputStarved, StatusOutputFull}

// Recipe is one processing cycle: Inputs are taken from the input buffer and Outputs
// are added to the output buffer once progress reaches Ticks.
type Recipe struct {
	Machine Type            `yaml:"machine"`
	Inputs  inventory.Costs `yaml:"inputs"`
	Outputs inventory.Costs `yaml:"outputs"`
	Ticks   float64         `yaml:"ticks"`
}

// Spec describes how a machine type is built
type Spec struct {
	Cost          inventory.Costs `yaml:"cost"`
	Requires      string          `yaml:"requires"`
	DefaultRecipe string          `yaml:"default_recipe"`
	XP            int             `yaml:"xp"`
}

// Machine is an automated production unit with buffered input and output
type Machine struct {
	ID           string              `json:"id"`
	Type         Type                `json:"type"`
	Status       Status              `json:"status"`
	Recipe       string              `json:"recipe,omitempty"`
	InputBuffer  inventory.Inventory `json:"input_buffer"`
	OutputBuffer inventory.Inventory `json:"output_buffer"`
	Progress     float64             `json:"progress"`
	FuelLevel    int                 `json:"fuel_level,omitempty"`
}

// New creates an idle machine with empty buffers
func New(id string, t Type, recipe string) Machine {
	status := StatusIdle
	if t.IsBurner() {
		status = StatusNoFuel
		recipe = ""
	}
	return Machine{
		ID:           id,
		Type:         t,
		Status:       status,
		Recipe:       recipe,
		InputBuffer:  inventory.New(),
		OutputBuffer: inventory.New(),
	}
}

// Clone returns a copy with independent buffers
func (m Machine) Clone() Machine {
	out := m
	out.InputBuffer = m.InputBuffer.Clone()
	out.OutputBuffer = m.OutputBuffer.Clone()
	return out
}

// Configure switches the active recipe and restarts the cycle
func (m *Machine) Configure(recipeID string, recipe Recipe) error {
	if m.Type.IsBurner() {
		return shared.NewInvalidStateError("fuel burners do not take a recipe")
	}
	if recipe.Machine != m.Type {
		return shared.NewInvalidStateError(fmt.Sprintf("recipe %s runs on %s, not %s", recipeID, recipe.Machine, m.Type))
	}
	m.Recipe = recipeID
	m.Progress = 0
	return nil
}

// Load moves up to qty units of resource into the input buffer, bounded by bufferCap.
// Returns the amount accepted.
func (m *Machine) Load(resource string, qty int, recipe Recipe, bufferCap int) (int, error) {
	if m.Type.IsBurner() {
		return 0, shared.NewInvalidStateError("fuel burners take fuel, not inputs")
	}
	if _, ok := recipe.Inputs[resource]; !ok {
		return 0, shared.NewInvalidStateError(fmt.Sprintf("%s is not an input of %s", resource, m.Recipe))
	}
	accepted := m.InputBuffer.Add(resource, qty, bufferCap)
	if accepted == 0 {
		return 0, shared.NewSlotUnavailableError(fmt.Sprintf("input buffer for %s is full", resource))
	}
	return accepted, nil
}

// AddFuel tops up a burner, bounded by fuelCap. Returns the amount accepted.
func (m *Machine) AddFuel(qty, fuelCap int) (int, error) {
	if !m.Type.IsBurner() {
		return 0, shared.NewInvalidStateError(fmt.Sprintf("%s does not burn fuel", m.Type))
	}
	accepted := min(max(qty, 0), max(fuelCap-m.FuelLevel, 0))
	if accepted == 0 {
		return 0, shared.NewSlotUnavailableError("fuel tank is full")
	}
	m.FuelLevel += accepted
	return accepted, nil
}

// Collect empties the output buffer and returns its contents
func (m *Machine) Collect() inventory.Inventory {
	out := m.OutputBuffer
	m.OutputBuffer = inventory.New()
	if m.Status == StatusOutputFull {
		m.Status = StatusIdle
	}
	return out
}

// Teardown empties both buffers for a removal refund. Burner fuel is not refundable.
func (m *Machine) Teardown() inventory.Inventory {
	refund := m.InputBuffer.Clone()
	for k, v := range m.OutputBuffer {
		refund[k] += v
	}
	m.InputBuffer = inventory.New()
	m.OutputBuffer = inventory.New()
	m.FuelLevel = 0
	m.Progress = 0
	return refund
}

// Normalize repairs a machine decoded from an external snapshot
func (m *Machine) Normalize() {
	if m.InputBuffer == nil {
		m.InputBuffer = inventory.New()
	}
	if m.OutputBuffer == nil {
		m.OutputBuffer = inventory.New()
	}
	m.FuelLevel = max(m.FuelLevel, 0)
	m.Progress = max(m.Progress, 0)
	if m.Status == "" {
		m.Status = StatusIdle
	}
}
