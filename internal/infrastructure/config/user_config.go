package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents user preferences stored in ~/.wasteland/user.json
type UserConfig struct {
	// Player used by the CLI when --player is not given
	DefaultPlayerID string `json:"default_player_id,omitempty"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler rooted at ~/.wasteland
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".wasteland"))
}

// NewUserConfigHandlerAt creates a handler storing user.json inside dir
func NewUserConfigHandlerAt(dir string) (*UserConfigHandler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &UserConfigHandler{configPath: filepath.Join(dir, "user.json")}, nil
}

// Load reads the user config from disk; a missing file yields an empty config
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	return &cfg, nil
}

// Save writes the user config to disk
func (h *UserConfigHandler) Save(cfg *UserConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}
	if err := os.WriteFile(h.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

// SetDefaultPlayer remembers the player id for later commands
func (h *UserConfigHandler) SetDefaultPlayer(playerID string) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}
	cfg.DefaultPlayerID = playerID
	return h.Save(cfg)
}

// ResolvePlayer returns explicit when set, then the stored default, then fallback
func (h *UserConfigHandler) ResolvePlayer(explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if cfg, err := h.Load(); err == nil && cfg.DefaultPlayerID != "" {
		return cfg.DefaultPlayerID
	}
	return fallback
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
