package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Manager handles profile loading and caching
type Manager struct {
	configDir      string
	defaultProfile *Profile
	profiles       map[string]*Profile
	mu             sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		profiles:  make(map[string]*Profile),
	}

	if err := m.loadDefaultProfile(); err != nil {
		return nil, fmt.Errorf("failed to load default profile: %w", err)
	}

	return m, nil
}

// LoadConfig loads a profile by name
func (m *Manager) LoadConfig(name string) (*Profile, error) {
	m.mu.RLock()
	if profile, exists := m.profiles[name]; exists {
		m.mu.RUnlock()
		return profile, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if profile, exists := m.profiles[name]; exists {
		return profile, nil
	}

	profile, err := ReadProfile(filepath.Join(m.configDir, fileName(name)))
	if err != nil {
		return nil, err
	}

	m.profiles[name] = profile
	return profile, nil
}

// ReadProfile reads and validates a single profile file.
func ReadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &profile, nil
}

// ListConfigs returns information about all available profiles
func (m *Manager) ListConfigs() ([]*ProfileInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var infos []*ProfileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		profile, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid profiles
			continue
		}

		infos = append(infos, &ProfileInfo{
			Filename:    entry.Name(),
			ConfigID:    name,
			Name:        profile.Name,
			Description: profile.Description,
			Generator:   string(profile.Strategy()),
		})
	}

	return infos, nil
}

// GetDefault returns the default profile
func (m *Manager) GetDefault() *Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultProfile
}

// SetDefault sets the default profile by name
func (m *Manager) SetDefault(name string) error {
	profile, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultProfile = profile
	return nil
}

// RefreshCache drops every cached profile and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.profiles = make(map[string]*Profile)
	m.mu.Unlock()

	return m.loadDefaultProfile()
}

// Count returns the number of cached profiles
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}

// loadDefaultProfile prefers classic.json, then the first valid profile, then DefaultProfile.
func (m *Manager) loadDefaultProfile() error {
	profile, err := m.LoadConfig("classic")
	if err != nil {
		infos, listErr := m.ListConfigs()
		if listErr != nil || len(infos) == 0 {
			m.setDefault(DefaultProfile())
			return nil
		}

		profile, err = m.LoadConfig(infos[0].ConfigID)
		if err != nil {
			m.setDefault(DefaultProfile())
			return nil
		}
	}

	m.setDefault(profile)
	return nil
}

func (m *Manager) setDefault(p *Profile) {
	m.mu.Lock()
	m.defaultProfile = p
	m.mu.Unlock()
}

// SaveConfig saves a profile to disk
func (m *Manager) SaveConfig(name string, profile *Profile) error {
	if err := ValidateProfile(profile); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, fileName(name))
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.profiles[strings.TrimSuffix(name, ".json")] = profile
	m.mu.Unlock()

	return nil
}

func fileName(name string) string {
	if strings.HasSuffix(name, ".json") {
		return name
	}
	return name + ".json"
}
