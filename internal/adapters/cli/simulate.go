package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/setup"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/config"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/logging"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/scriptfile"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		scriptPath string
		duration   time.Duration
		seed       uint64
		resume     bool
		save       bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a session offline on simulated time",
		Long: `Run the game without the daemon. Time is simulated, so hours pass instantly;
batch timers and ticks fire exactly as the daemon would fire them.

A script is a YAML file of steps:

  tail: 1m
  steps:
    - action: gather
      payload: { resource: scrap }
    - after: 10s
      action: start_batch
      payload: { family: charcoal, amount: 2 }

Examples:
  wasteland simulate --duration 10m
  wasteland simulate --script run.yaml --seed 7
  wasteland simulate --resume --duration 1h --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if save && !resume {
				return errors.New("--save requires --resume")
			}
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if seed != 0 {
				cfg.Engine.RNGSeed = seed
			}

			script := &scriptfile.Script{}
			if scriptPath != "" {
				if script, err = scriptfile.Load(scriptPath); err != nil {
					return err
				}
			}
			script.Tail += duration

			logger, err := logging.New(config.LoggingConfig{Level: "warn", Format: "console", Output: "stderr"})
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runSimulation(cmd, cfg, script, resume, save, asJSON, logger)
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "YAML script of actions")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Extra simulated time after the script")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "RNG seed (overrides engine.rng_seed)")
	cmd.Flags().BoolVar(&resume, "resume", false, "Start from the saved game instead of a new one")
	cmd.Flags().BoolVar(&save, "save", false, "Write the result back to the database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the final state document")

	return cmd
}

func runSimulation(cmd *cobra.Command, cfg *config.Config, script *scriptfile.Script, resume, save, asJSON bool, logger *zap.Logger) error {
	ctx := logging.WithLogger(context.Background(), logger)
	core, err := setup.NewCore(cfg.Engine)
	if err != nil {
		return err
	}

	var store game.SnapshotStore
	if resume {
		st, err := openSnapshotStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		store = st
		if !save {
			store = readOnlyStore{st}
		}
	}

	clock := shared.NewMockClock(time.Now())
	opts := []session.Option{session.WithLogger(logger)}
	if save {
		opts = append(opts, session.WithAutosaver(session.NewAutosaver(store, cfg.Engine.SaveInterval, logger)))
	}
	sim := session.NewSimulator(core, clock, store, cfg.Engine.TickPeriod, opts...)

	player := resolvePlayer(cfg)
	if _, err := sim.Start(ctx, player); err != nil {
		return err
	}
	start := sim.Now()

	rejected := 0
	for _, step := range script.Steps {
		sim.Advance(ctx, step.After)
		if res := sim.Dispatch(ctx, step.Action); res.Err != nil {
			rejected++
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s rejected: %v\n", step.Action.Type(), res.Err)
		}
	}
	sim.Advance(ctx, script.Tail)

	if err := sim.Close(ctx); err != nil {
		return fmt.Errorf("failed to save simulated game: %w", err)
	}

	st := sim.Dispatcher().State()
	if asJSON {
		fmt.Fprintln(cmd.OutOrStdout(), prettyPrint(st))
		return nil
	}
	f := NewStateFormatter(!noColor, sim.Now())
	fmt.Fprintf(cmd.OutOrStdout(), "Simulated %s: %d steps, %d rejected\n\n",
		sim.Now().Sub(start), len(script.Steps), rejected)
	fmt.Fprint(cmd.OutOrStdout(), f.Format(st))
	fmt.Fprintln(cmd.OutOrStdout(), "\nLog:")
	fmt.Fprint(cmd.OutOrStdout(), f.FormatLog(st, 10))
	return nil
}
