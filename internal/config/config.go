package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"refract/internal/domain"
	"refract/internal/eventbus"
)

// FileName is the config file looked up in the target directory
const FileName = ".refract.toml"

// Config represents the application configuration
type Config struct {
	Version    int        `toml:"version"`
	Entries    []Entry    `toml:"entries"`
	UISettings UISettings `toml:"ui"`
}

// Entry represents a configured command entry
type Entry struct {
	Name        string   `toml:"name"`
	Command     string   `toml:"command"`
	Dir         string   `toml:"dir,omitempty"`
	Tags        []string `toml:"tags,omitempty"`
	Description string   `toml:"description,omitempty"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	CaseSensitiveFilter bool `toml:"case_sensitive_filter"`
	StrictFilter        bool `toml:"strict_filter"`
	ShowTimings         bool `toml:"show_timings"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service rooted at dir
func NewConfigService(dir string) ConfigService {
	return &configService{
		filePath: filepath.Join(dir, FileName),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(dir string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(dir).(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration, falling back to the default config when
// no file exists yet
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cs.publishLoaded(cfg)
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}

	cs.publishLoaded(cfg)
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DomainEntries converts configured entries to domain entries
func (c *Config) DomainEntries() []domain.Entry {
	entries := make([]domain.Entry, len(c.Entries))
	for i, e := range c.Entries {
		entries[i] = domain.Entry{
			Name:        e.Name,
			Command:     e.Command,
			Dir:         e.Dir,
			Tags:        e.Tags,
			Description: e.Description,
		}
	}
	return entries
}

func (cs *configService) publishLoaded(cfg *Config) {
	if cs.bus == nil {
		return
	}
	cs.bus.Publish(eventbus.ConfigLoadedEvent{
		Path:    cs.filePath,
		Entries: cfg.DomainEntries(),
	})
}

// DefaultConfig returns the default configuration with a few starter entries
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Entries: []Entry{
			{
				Name:        "git status",
				Command:     "git status --short --branch",
				Tags:        []string{"git"},
				Description: "Working tree summary",
			},
			{
				Name:        "git log",
				Command:     "git log --oneline -20",
				Tags:        []string{"git"},
				Description: "Recent commits",
			},
			{
				Name:        "disk usage",
				Command:     "du -sh .",
				Tags:        []string{"fs"},
				Description: "Size of the current directory",
			},
		},
		UISettings: UISettings{
			ShowTimings: true,
		},
	}
}
