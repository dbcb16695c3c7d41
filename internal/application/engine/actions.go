package engine

import (
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/machine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/narrative"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
)

// MaxActionAmount bounds the multiplier of any batch, craft or transfer action
const MaxActionAmount = 1000

// ActionType names a transition
type ActionType string

const (
	ActionInitialize        ActionType = "INITIALIZE"
	ActionTick              ActionType = "TICK"
	ActionGather            ActionType = "GATHER"
	ActionCraft             ActionType = "CRAFT"
	ActionBuild             ActionType = "BUILD"
	ActionEat               ActionType = "EAT"
	ActionDrink             ActionType = "DRINK"
	ActionRest              ActionType = "REST"
	ActionSell              ActionType = "SELL"
	ActionToggleLock        ActionType = "TOGGLE_LOCK"
	ActionAddXP             ActionType = "ADD_XP"
	ActionLearnSkill        ActionType = "LEARN_SKILL"
	ActionPurchaseUpgrade   ActionType = "PURCHASE_UPGRADE"
	ActionStartBatch        ActionType = "START_BATCH"
	ActionFinishBatch       ActionType = "FINISH_BATCH"
	ActionBuildMachine      ActionType = "BUILD_MACHINE"
	ActionFuelMachine       ActionType = "FUEL_MACHINE"
	ActionConfigureMachine  ActionType = "CONFIGURE_MACHINE"
	ActionLoadMachine       ActionType = "LOAD_MACHINE"
	ActionCollectMachine    ActionType = "COLLECT_MACHINE"
	ActionRemoveMachine     ActionType = "REMOVE_MACHINE"
	ActionQueueDrone        ActionType = "QUEUE_DRONE"
	ActionLaunchDrone       ActionType = "LAUNCH_DRONE"
	ActionResolveDrone      ActionType = "RESOLVE_DRONE"
	ActionPlant             ActionType = "PLANT"
	ActionHarvest           ActionType = "HARVEST"
	ActionTravel            ActionType = "TRAVEL"
	ActionExplore           ActionType = "EXPLORE"
	ActionNarrativeResolved ActionType = "NARRATIVE_RESOLVED"
	ActionSetDisplayName    ActionType = "SET_DISPLAY_NAME"
	ActionSetResting        ActionType = "SET_RESTING"
	ActionRespawn           ActionType = "RESPAWN"
	ActionRefuelGenerator   ActionType = "REFUEL_GENERATOR"
	ActionEquip             ActionType = "EQUIP"
)

// Action is a discrete message dispatched into the core
type Action interface {
	Type() ActionType
}

// Initialize adopts a persisted snapshot, or builds defaults when Snapshot is nil,
// then runs offline reconciliation.
type Initialize struct {
	PlayerID string      `json:"player_id" validate:"required"`
	Snapshot *game.State `json:"snapshot,omitempty"`
}

type Tick struct{}

type Gather struct {
	Resource string `json:"resource" validate:"required"`
}

type Craft struct {
	Recipe string `json:"recipe" validate:"required"`
	Amount int    `json:"amount" validate:"gte=0,lte=1000"`
}

type Build struct {
	Structure string `json:"structure" validate:"required"`
}

type Eat struct {
	Item string `json:"item" validate:"required"`
}

type Drink struct {
	Item string `json:"item" validate:"required"`
}

type Rest struct{}

type Sell struct {
	Item   string `json:"item" validate:"required"`
	Amount int    `json:"amount" validate:"gte=0,lte=1000"`
}

type ToggleLock struct {
	Item string `json:"item" validate:"required"`
}

type AddXP struct {
	Amount int `json:"amount" validate:"gt=0"`
}

type LearnSkill struct {
	Skill string `json:"skill" validate:"required"`
}

type PurchaseUpgrade struct {
	Kind string `json:"kind" validate:"required"`
}

type StartBatch struct {
	Family production.Family `json:"family" validate:"required"`
	Amount int               `json:"amount" validate:"gt=0,lte=1000"`
}

// FinishBatch is dispatched by the batch timer; it is ignored when the head batch is not due
type FinishBatch struct {
	Family production.Family `json:"family" validate:"required"`
}

type BuildMachine struct {
	MachineType machine.Type `json:"machine_type" validate:"required"`
}

type FuelMachine struct {
	MachineID string `json:"machine_id" validate:"required"`
	Resource  string `json:"resource" validate:"required"`
	Amount    int    `json:"amount" validate:"gt=0,lte=1000"`
}

type ConfigureMachine struct {
	MachineID string `json:"machine_id" validate:"required"`
	Recipe    string `json:"recipe" validate:"required"`
}

type LoadMachine struct {
	MachineID string `json:"machine_id" validate:"required"`
	Resource  string `json:"resource" validate:"required"`
	Amount    int    `json:"amount" validate:"gt=0,lte=1000"`
}

type CollectMachine struct {
	MachineID string `json:"machine_id" validate:"required"`
}

type RemoveMachine struct {
	MachineID string `json:"machine_id" validate:"required"`
}

type QueueDrone struct {
	Amount int `json:"amount" validate:"gt=0,lte=1000"`
}

type LaunchDrone struct{}

type ResolveDrone struct{}

type Plant struct {
	Plot int    `json:"plot" validate:"gte=0"`
	Seed string `json:"seed" validate:"required"`
}

type Harvest struct {
	Plot int `json:"plot" validate:"gte=0"`
}

type Travel struct {
	Location string `json:"location" validate:"required"`
}

type Explore struct{}

// NarrativeResolved carries a generated (or fallback) encounter back into the state
type NarrativeResolved struct {
	Location  string             `json:"location"`
	Encounter narrative.Response `json:"encounter"`
}

type SetDisplayName struct {
	Name string `json:"name" validate:"required,max=32"`
}

// SetResting is dispatched by the idle detector and by explicit player choice
type SetResting struct {
	Resting bool `json:"resting"`
}

type Respawn struct{}

type RefuelGenerator struct {
	Resource string `json:"resource" validate:"required"`
	Amount   int    `json:"amount" validate:"gt=0,lte=1000"`
}

type Equip struct {
	Slot string `json:"slot" validate:"required"`
	Item string `json:"item"`
}

func (Initialize) Type() ActionType        { return ActionInitialize }
func (Tick) Type() ActionType              { return ActionTick }
func (Gather) Type() ActionType            { return ActionGather }
func (Craft) Type() ActionType             { return ActionCraft }
func (Build) Type() ActionType             { return ActionBuild }
func (Eat) Type() ActionType               { return ActionEat }
func (Drink) Type() ActionType             { return ActionDrink }
func (Rest) Type() ActionType              { return ActionRest }
func (Sell) Type() ActionType              { return ActionSell }
func (ToggleLock) Type() ActionType        { return ActionToggleLock }
func (AddXP) Type() ActionType             { return ActionAddXP }
func (LearnSkill) Type() ActionType        { return ActionLearnSkill }
func (PurchaseUpgrade) Type() ActionType   { return ActionPurchaseUpgrade }
func (StartBatch) Type() ActionType        { return ActionStartBatch }
func (FinishBatch) Type() ActionType       { return ActionFinishBatch }
func (BuildMachine) Type() ActionType      { return ActionBuildMachine }
func (FuelMachine) Type() ActionType       { return ActionFuelMachine }
func (ConfigureMachine) Type() ActionType  { return ActionConfigureMachine }
func (LoadMachine) Type() ActionType       { return ActionLoadMachine }
func (CollectMachine) Type() ActionType    { return ActionCollectMachine }
func (RemoveMachine) Type() ActionType     { return ActionRemoveMachine }
func (QueueDrone) Type() ActionType        { return ActionQueueDrone }
func (LaunchDrone) Type() ActionType       { return ActionLaunchDrone }
func (ResolveDrone) Type() ActionType      { return ActionResolveDrone }
func (Plant) Type() ActionType             { return ActionPlant }
func (Harvest) Type() ActionType           { return ActionHarvest }
func (Travel) Type() ActionType            { return ActionTravel }
func (Explore) Type() ActionType           { return ActionExplore }
func (NarrativeResolved) Type() ActionType { return ActionNarrativeResolved }
func (SetDisplayName) Type() ActionType    { return ActionSetDisplayName }
func (SetResting) Type() ActionType        { return ActionSetResting }
func (Respawn) Type() ActionType           { return ActionRespawn }
func (RefuelGenerator) Type() ActionType   { return ActionRefuelGenerator }
func (Equip) Type() ActionType             { return ActionEquip }

// system actions come from timers and collaborators rather than the player;
// they never clear the resting flag and are accepted while dead
var systemActions = map[ActionType]bool{
	ActionInitialize:        true,
	ActionTick:              true,
	ActionFinishBatch:       true,
	ActionNarrativeResolved: true,
	ActionSetResting:        true,
}

// allowedWhenDead are player actions that still make sense in the death state
var allowedWhenDead = map[ActionType]bool{
	ActionRespawn:        true,
	ActionSetDisplayName: true,
	ActionToggleLock:     true,
}
