package redis

const (
	// KeyPrefixSession is the prefix for session keys
	KeyPrefixSession = "marks:session:"
	// KeySessionToken is the key holding the persisted session token
	KeySessionToken = KeyPrefixSession + "current"
)

// SessionTokenKey returns the Redis key for the persisted session
// token. The daemon serves a single user, so there is exactly one.
func SessionTokenKey() string {
	return KeySessionToken
}
