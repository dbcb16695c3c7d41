package setup

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/catalogfile"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/config"
)

// NewCore builds the transition core from the engine config section.
//
// A non-zero RNGSeed makes the core fully reproducible: the roller and the
// machine id source are both derived from it.
func NewCore(cfg config.EngineConfig) (*engine.Core, error) {
	cat, err := catalogfile.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	opts := engine.DefaultOptions()
	if cfg.TickPeriod > 0 {
		opts.TickPeriod = cfg.TickPeriod
	}
	if cfg.OfflineMinTicks > 0 {
		opts.OfflineMinTicks = cfg.OfflineMinTicks
	}
	if cfg.NarrativeChance != nil {
		opts.NarrativeChance = *cfg.NarrativeChance
	}

	if cfg.RNGSeed == 0 {
		return engine.NewCore(cat, nil, opts), nil
	}
	core := engine.NewCore(cat, rand.New(rand.NewPCG(cfg.RNGSeed, cfg.RNGSeed>>1)), opts)
	ids := rand.New(rand.NewPCG(cfg.RNGSeed>>1, cfg.RNGSeed))
	core.SetIDGenerator(func(machineType string) string {
		prefix := strings.ReplaceAll(strings.ToLower(machineType), "_", "-")
		return fmt.Sprintf("%s-%08x", prefix, ids.Uint32())
	})
	return core, nil
}
