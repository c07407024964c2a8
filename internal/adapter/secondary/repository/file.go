package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"namaz-cli/internal/domain"
)

// EnvPrefix is the prefix of environment overrides, e.g. NAMAZ_CITY or NAMAZ_MQTT_BROKER.
const EnvPrefix = "NAMAZ"

// FileRepository implements domain.ConfigRepository using a JSON file.
// Reads go through viper so environment variables can override the file;
// writes only contain what the user saved.
// This is a secondary adapter.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a new file-based settings repository.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &FileRepository{path: path}, nil
}

// Path returns the settings file location.
func (f *FileRepository) Path() string {
	return f.path
}

type persistedMQTT struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	Broker      string `json:"broker" mapstructure:"broker"`
	TopicPrefix string `json:"topic_prefix" mapstructure:"topic_prefix"`
	ClientID    string `json:"client_id,omitempty" mapstructure:"client_id"`
	Username    string `json:"username,omitempty" mapstructure:"username"`
	Password    string `json:"password,omitempty" mapstructure:"password"`
}

// persistedData represents the JSON structure on disk.
type persistedData struct {
	City            string        `json:"city" mapstructure:"city"`
	Country         string        `json:"country" mapstructure:"country"`
	Method          int           `json:"method" mapstructure:"method"`
	Language        string        `json:"language" mapstructure:"language"`
	Font            string        `json:"font" mapstructure:"font"`
	Theme           string        `json:"theme" mapstructure:"theme"`
	RefreshInterval string        `json:"refresh_interval" mapstructure:"refresh_interval"`
	APIBaseURL      string        `json:"api_base_url" mapstructure:"api_base_url"`
	CachePath       string        `json:"cache_path,omitempty" mapstructure:"cache_path"`
	MQTT            persistedMQTT `json:"mqtt" mapstructure:"mqtt"`
}

func (f *FileRepository) newViper() *viper.Viper {
	d := domain.DefaultSettings()
	v := viper.New()
	v.SetConfigFile(f.path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("city", "")
	v.SetDefault("country", "")
	v.SetDefault("method", d.Method)
	v.SetDefault("language", d.Language)
	v.SetDefault("font", d.Font)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("refresh_interval", d.RefreshInterval.String())
	v.SetDefault("api_base_url", d.APIBaseURL)
	v.SetDefault("cache_path", "")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", d.MQTT.Broker)
	v.SetDefault("mqtt.topic_prefix", d.MQTT.TopicPrefix)
	v.SetDefault("mqtt.client_id", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	return v
}

// Load reads the settings from disk, applying defaults and NAMAZ_* overrides.
// A missing file yields defaults, which are not yet configured.
func (f *FileRepository) Load() (domain.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := f.newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return domain.Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var persisted persistedData
	if err := v.Unmarshal(&persisted); err != nil {
		return domain.Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}

	settings := domain.Settings{
		City:       persisted.City,
		Country:    persisted.Country,
		Method:     persisted.Method,
		Language:   strings.ToLower(persisted.Language),
		Font:       persisted.Font,
		Theme:      persisted.Theme,
		APIBaseURL: persisted.APIBaseURL,
		CachePath:  persisted.CachePath,
		MQTT: domain.MQTTSettings{
			Enabled:     persisted.MQTT.Enabled,
			Broker:      persisted.MQTT.Broker,
			TopicPrefix: persisted.MQTT.TopicPrefix,
			ClientID:    persisted.MQTT.ClientID,
			Username:    persisted.MQTT.Username,
			Password:    persisted.MQTT.Password,
		},
	}

	interval, err := time.ParseDuration(persisted.RefreshInterval)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("refresh_interval %q: %w", persisted.RefreshInterval, err)
	}
	settings.RefreshInterval = interval

	// Apply defaults if necessary
	if settings.Method <= 0 {
		settings.Method = domain.DefaultMethod
	}
	if settings.CachePath == "" {
		settings.CachePath = filepath.Join(filepath.Dir(f.path), "timings.db")
	}

	return settings, nil
}

// Save persists the settings to disk.
func (f *FileRepository) Save(settings domain.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	persisted := persistedData{
		City:            strings.TrimSpace(settings.City),
		Country:         strings.TrimSpace(settings.Country),
		Method:          settings.Method,
		Language:        settings.Language,
		Font:            settings.Font,
		Theme:           settings.Theme,
		RefreshInterval: settings.RefreshInterval.String(),
		APIBaseURL:      settings.APIBaseURL,
		CachePath:       settings.CachePath,
		MQTT: persistedMQTT{
			Enabled:     settings.MQTT.Enabled,
			Broker:      settings.MQTT.Broker,
			TopicPrefix: settings.MQTT.TopicPrefix,
			ClientID:    settings.MQTT.ClientID,
			Username:    settings.MQTT.Username,
			Password:    settings.MQTT.Password,
		},
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}

// Reset deletes the settings file so the next run starts first-run setup.
func (f *FileRepository) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove config: %w", err)
	}
	return nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "namaz", "config.json")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "namaz-config.json")
}
