package anchor

// KeyValue is the persistence medium shared between the app process and its
// companion surfaces (widget, notification scheduler, watch).
// Implementations must make a completed Set visible atomically to readers in
// other processes: a reader sees either the old value or the new one, never a
// partial write.
type KeyValue interface {
	// Get returns the value stored under key.
	// Returns nil, nil if the key has never been set or was removed.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error

	// Close releases any resources held by the medium.
	Close() error
}
