package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Wasteland Automata configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (WASTELAND_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default player) are stored in ~/.wasteland/user.json

Examples:
  wasteland config show
  wasteland config set-player ash
  wasteland config clear-player`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetPlayerCommand())
	cmd.AddCommand(newConfigClearPlayerCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "Wasteland Automata Configuration")
			fmt.Fprintln(out, "================================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			if userCfg.DefaultPlayerID != "" {
				fmt.Fprintf(out, "  Default Player:   %s\n", userCfg.DefaultPlayerID)
			} else {
				fmt.Fprintf(out, "  Default Player:   (not set, using %s)\n", cfg.Engine.PlayerID)
			}

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(out, "  Host:             %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
			}

			fmt.Fprintln(out, "\nEngine:")
			fmt.Fprintf(out, "  Tick Period:      %s\n", cfg.Engine.TickPeriod)
			fmt.Fprintf(out, "  Save Interval:    %s\n", cfg.Engine.SaveInterval)
			fmt.Fprintf(out, "  Idle Timeout:     %s\n", cfg.Engine.IdleTimeout)
			if cfg.Engine.RNGSeed != 0 {
				fmt.Fprintf(out, "  RNG Seed:         %d\n", cfg.Engine.RNGSeed)
			}
			if cfg.Engine.CatalogPath != "" {
				fmt.Fprintf(out, "  Catalog:          %s\n", cfg.Engine.CatalogPath)
			}

			fmt.Fprintln(out, "\nNarrative:")
			fmt.Fprintf(out, "  Enabled:          %v\n", cfg.Narrative.Enabled)
			fmt.Fprintf(out, "  Model:            %s\n", cfg.Narrative.Model)
			fmt.Fprintf(out, "  Rate Limit:       %d req/min\n", cfg.Narrative.RequestsPerMinute)

			fmt.Fprintln(out, "\nCache:")
			fmt.Fprintf(out, "  Enabled:          %v\n", cfg.Cache.Enabled)
			if cfg.Cache.Enabled {
				fmt.Fprintf(out, "  Redis:            %s (ttl %s)\n", cfg.Cache.RedisAddr, cfg.Cache.TTL)
			}

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  Socket Path:      %s\n", cfg.Server.SocketPath)
			fmt.Fprintf(out, "  Websocket:        %s\n", orDisabled(cfg.Server.WSAddr))
			fmt.Fprintf(out, "  PID File:         %s\n", cfg.Daemon.PIDFile)
			if cfg.Metrics.Enabled {
				fmt.Fprintf(out, "  Metrics:          %s%s\n", cfg.Metrics.Addr, cfg.Metrics.Path)
			}

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

func newConfigSetPlayerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-player <player-id>",
		Short: "Set default player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidatePlayerID(args[0]); err != nil {
				return err
			}
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultPlayer(args[0]); err != nil {
				return fmt.Errorf("failed to set default player: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default player set successfully")
			fmt.Fprintf(cmd.OutOrStdout(), "  Player: %s\n", args[0])
			fmt.Fprintln(cmd.OutOrStdout(), "\nOverride with the --player flag.")
			return nil
		},
	}
}

func newConfigClearPlayerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-player",
		Short: "Clear default player setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultPlayer(""); err != nil {
				return fmt.Errorf("failed to clear default player: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default player cleared")
			return nil
		},
	}
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func orDisabled(s string) string {
	if s == "" {
		return "(disabled)"
	}
	return s
}
