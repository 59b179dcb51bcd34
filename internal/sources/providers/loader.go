package providers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of providers.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new provider catalog loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the providers.yaml file. Values may reference
// environment variables (${MARKS_GITHUB_CLIENT_ID}) so client IDs can
// stay out of the file itself.
func (l *Loader) Load() (Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read providers file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse providers yaml: %w", err)
	}

	return config, nil
}
