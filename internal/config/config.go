package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for steadfast.
type Config struct {
	DeviceID      string             `toml:"device_id"`
	BaseDir       string             `toml:"base_dir"`
	LogDir        string             `toml:"log_dir"`
	Timezone      string             `toml:"timezone,omitempty"` // IANA name; empty means the system zone
	Profile       ProfileConfig      `toml:"profile"`
	Store         StoreConfig        `toml:"store"`
	Notifications NotificationConfig `toml:"notifications"`
}

// ProfileConfig holds the user's personalization.
type ProfileConfig struct {
	FocusAreas []string `toml:"focus_areas"` // health, worry, panic, sleep, grief, general
	// UseFocusAreas selects the anchor of the day from the focus-area packs
	// instead of the curated anchor list.
	UseFocusAreas bool `toml:"use_focus_areas"`
}

// StoreConfig represents configuration for the shared key-value medium.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "memory", "filesystem", "sqlite" or "s3"

	// Filesystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`

	// SQLite-specific fields (only used when Type == "sqlite")
	SQLitePath string `toml:"sqlite_path,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	Encryption EncryptionConfig `toml:"encryption"`
}

// EncryptionConfig holds paths to the age key pair used to seal stored values.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default) or "age"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NotificationConfig controls the daily anchor notification and check-ins.
type NotificationConfig struct {
	Enabled        bool   `toml:"enabled"`
	AnchorHour     int    `toml:"anchor_hour"`
	AnchorMinute   int    `toml:"anchor_minute"`
	MorningEnabled bool   `toml:"morning_enabled"`
	Morning        string `toml:"morning"` // "HH:MM"
	MiddayEnabled  bool   `toml:"midday_enabled"`
	Midday         string `toml:"midday"`
	EveningEnabled bool   `toml:"evening_enabled"`
	Evening        string `toml:"evening"`
}

// DefaultNotifications mirrors the app's out-of-the-box schedule.
func DefaultNotifications() NotificationConfig {
	return NotificationConfig{
		Enabled:        true,
		AnchorHour:     11,
		AnchorMinute:   0,
		MorningEnabled: true,
		Morning:        "08:00",
		MiddayEnabled:  true,
		Midday:         "13:00",
		EveningEnabled: true,
		Evening:        "21:00",
	}
}

// NewConfig creates a new Config with the provided values and defaults
// rooted at baseDir.
func NewConfig(deviceID, baseDir string) *Config {
	return &Config{
		DeviceID: deviceID,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		Profile: ProfileConfig{
			FocusAreas: []string{"health", "worry"},
		},
		Store: StoreConfig{
			Type:   "filesystem",
			FSRoot: filepath.Join(baseDir, "shared"),
			Encryption: EncryptionConfig{
				Type:           "none",
				PublicKeyPath:  filepath.Join(baseDir, "keys", "steadfast.pub"),
				PrivateKeyPath: filepath.Join(baseDir, "keys", "steadfast.key"),
			},
		},
		Notifications: DefaultNotifications(),
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := Config{Notifications: DefaultNotifications()}
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
