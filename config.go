package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"mview/internal/keymap"
	"mview/internal/render"
)

// Window size constants
const (
	defaultWidth  = 800
	defaultHeight = 600
	minWidth      = 400
	minHeight     = 300
)

const configFileName = ".mview.json"

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth     int                 `json:"window_width"`
	WindowHeight    int                 `json:"window_height"`
	Fullscreen      bool                `json:"fullscreen"`
	HelpFontSize    float64             `json:"help_font_size"`
	SortMethod      int                 `json:"sort_method"`
	RenderCacheSize int                 `json:"render_cache_size"`
	CacheSize       int                 `json:"cache_size"`
	PreloadEnabled  bool                `json:"preload_enabled"`
	PreloadCount    int                 `json:"preload_count"`
	Keybindings     map[string][]string `json:"keybindings"`
	Mousebindings   map[string][]string `json:"mousebindings"`
	MouseSettings   MouseSettings       `json:"mouse_settings"`
}

func defaultConfig() Config {
	return Config{
		WindowWidth:     defaultWidth,
		WindowHeight:    defaultHeight,
		HelpFontSize:    24.0,
		SortMethod:      SortNatural,
		RenderCacheSize: render.DefaultCacheSize,
		CacheSize:       16,
		PreloadEnabled:  true,
		PreloadCount:    4,
		Keybindings:     keymap.DefaultBindings(),
		Mousebindings:   GetDefaultMousebindings(),
		MouseSettings:   GetDefaultMouseSettings(),
	}
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "mview.json"
	}
	return filepath.Join(homeDir, configFileName)
}

// configLock returns the lock guarding configPath against concurrent
// writers, such as a second viewer saving its window size on exit.
func configLock(configPath string) *flock.Flock {
	return flock.New(configPath + ".lock")
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	result := ConfigLoadResult{
		Config:   defaultConfig(),
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := readConfigFile(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: Failed to read config file %s: %v", configPath, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("Unreadable config file: %v", err))
		}
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}
	return parseConfig(data, configPath)
}

func readConfigFile(configPath string) ([]byte, error) {
	fl := configLock(configPath)
	if err := fl.RLock(); err != nil {
		debugLog("config lock unavailable, reading unlocked: %v", err)
		return os.ReadFile(configPath)
	}
	defer fl.Unlock()
	return os.ReadFile(configPath)
}

// parseConfig decodes data over the defaults and repairs invalid values.
func parseConfig(data []byte, configPath string) ConfigLoadResult {
	config := defaultConfig()
	result := ConfigLoadResult{
		Config:   config,
		Warnings: []string{},
		Status:   "OK",
	}

	if err := json.Unmarshal(data, &config); err != nil {
		// Invalid config file - log warning and use defaults
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	// Validate minimum size
	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	// Validate help font size (minimum 12px for readability)
	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = 24.0
	}

	if config.SortMethod < SortNatural || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortNatural
	}

	// Rendered frames are cheap to recompute, so only guard against nonsense.
	if config.RenderCacheSize < 1 {
		config.RenderCacheSize = render.DefaultCacheSize
	} else if config.RenderCacheSize > 1024 {
		config.RenderCacheSize = 1024
	}

	// Validate cache size (minimum 1, maximum 64)
	if config.CacheSize < 1 {
		config.CacheSize = 16
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}

	// Validate preload count (minimum 1, maximum 16)
	if config.PreloadCount < 1 {
		config.PreloadCount = 4
	} else if config.PreloadCount > 16 {
		config.PreloadCount = 16
	}

	if config.MouseSettings.DoubleClickTime <= 0 {
		config.MouseSettings.DoubleClickTime = GetDefaultMouseSettings().DoubleClickTime
	}
	if config.MouseSettings.WheelSensitivity <= 0 {
		config.MouseSettings.WheelSensitivity = GetDefaultMouseSettings().WheelSensitivity
	}

	// Fill in missing keybindings with defaults, then validate the result
	if config.Keybindings == nil {
		config.Keybindings = keymap.DefaultBindings()
	} else {
		for action, keys := range keymap.DefaultBindings() {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = keys
			}
		}
		if err := keymap.Validate(config.Keybindings); err != nil {
			log.Printf("Warning: Invalid keybindings detected, using defaults: %v", err)
			config.Keybindings = keymap.DefaultBindings()
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
		}
	}

	if config.Mousebindings == nil {
		config.Mousebindings = GetDefaultMousebindings()
	} else {
		for action, buttons := range GetDefaultMousebindings() {
			if _, exists := config.Mousebindings[action]; !exists {
				config.Mousebindings[action] = buttons
			}
		}
		if err := validateMousebindings(config.Mousebindings); err != nil {
			log.Printf("Warning: Invalid mousebindings detected, using defaults: %v", err)
			config.Mousebindings = GetDefaultMousebindings()
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Mousebinding errors: %v", err))
		}
	}

	result.Config = config
	return result
}

func saveConfig(config Config) {
	if err := saveConfigToPath(config, getConfigPath()); err != nil {
		log.Printf("Error: %v", err)
	}
}

// saveConfigToPath writes config as indented JSON while holding the
// config lock.
func saveConfigToPath(config Config, configPath string) error {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		log.Printf("Warning: Not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
		return nil
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fl := configLock(configPath)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("failed to lock config %s: %w", configPath, err)
	}
	defer fl.Unlock()

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", configPath, err)
	}
	return nil
}
