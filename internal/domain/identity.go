package domain

// Identity is an authenticated principal owning a private bookmark
// collection. The ID is the opaque subject assigned by the auth
// backend; Email is a display label only and never used for scoping.
type Identity struct {
	ID    string
	Email string
}

// Same reports whether both identities refer to the same principal.
// Either side may be nil (signed out).
func (i *Identity) Same(other *Identity) bool {
	if i == nil || other == nil {
		return i == nil && other == nil
	}
	return i.ID == other.ID
}
