package sport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// configExtensions are tried in order when resolving a sport id to a file.
var configExtensions = []string{".yaml", ".yml", ".json"}

// ErrConfigNotFound is returned when no file exists for a sport id.
var ErrConfigNotFound = errors.New("sport config not found")

// Loader reads sport configs from a directory and caches the validated
// result per sport id.
type Loader struct {
	baseDir string

	mu    sync.RWMutex
	cache map[string]*Config
}

// NewLoader creates a loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		baseDir: baseDir,
		cache:   make(map[string]*Config),
	}
}

// Path returns the first existing config file for sportID.
func (l *Loader) Path(sportID string) (string, error) {
	for _, ext := range configExtensions {
		p := filepath.Join(l.baseDir, sportID+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrConfigNotFound, sportID, l.baseDir)
}

// Load returns the validated config for sportID. Callers get their own copy.
func (l *Loader) Load(sportID string) (*Config, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[sportID]; ok {
		l.mu.RUnlock()
		return cfg.Clone(), nil
	}
	l.mu.RUnlock()

	path, err := l.Path(sportID)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if cfg.ID == "" {
		cfg.ID = sportID
	}

	l.mu.Lock()
	l.cache[sportID] = cfg
	l.mu.Unlock()

	return cfg.Clone(), nil
}

// LoadFile reads, decodes and validates a single config file.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sport config: %w", err)
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML or JSON document and validates it. Documents
// whose first token is '{' are treated as JSON.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &cfg); err != nil {
			return nil, fmt.Errorf("decode sport config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode sport config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
