package domain

// AuthProvider describes one configured sign-in provider offered to
// the user (ex: github, google). Loaded from providers.yaml.
type AuthProvider struct {
	Name     string
	ClientID string
	Scope    string
}
