package providers

// ProviderEntry represents a single provider entry in the YAML
type ProviderEntry struct {
	Name     string `yaml:"name"`
	ClientID string `yaml:"client_id"`
	Scope    string `yaml:"scope"`
}

// Config is the root structure for providers.yaml:
//
//	providers:
//	  - name: github
//	    client_id: ${MARKS_GITHUB_CLIENT_ID}
//	    scope: read:user
type Config struct {
	Providers []ProviderEntry `yaml:"providers"`
}
