package providers

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Mapper converts provider config entries to domain providers
type Mapper struct{}

// NewMapper creates a new provider mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map converts a Config to domain.AuthProvider entries. Entries
// without a name or client_id are skipped; duplicated names keep the
// first occurrence. An entirely empty catalog is an error: a
// configured providers file is expected to offer at least one way in.
func (m *Mapper) Map(config Config) ([]domain.AuthProvider, error) {
	providers := make([]domain.AuthProvider, 0, len(config.Providers))
	seen := make(map[string]bool, len(config.Providers))

	for _, entry := range config.Providers {
		name := strings.ToLower(strings.TrimSpace(entry.Name))
		clientID := strings.TrimSpace(entry.ClientID)

		if name == "" || clientID == "" {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		providers = append(providers, domain.AuthProvider{
			Name:     name,
			ClientID: clientID,
			Scope:    strings.TrimSpace(entry.Scope),
		})
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no valid providers found in config")
	}

	return providers, nil
}
