package encryption

import (
	"fmt"

	"steadfast/internal/config"
	"steadfast/internal/kv"
)

// NewSealerFromConfig returns the sealer for the configured type, or nil when
// values are stored unencrypted.
func NewSealerFromConfig(cfg config.EncryptionConfig, passphrase string) (kv.Sealer, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "age":
		s := NewAgeSealer(cfg, passphrase)
		if !s.IsConfigured() {
			return nil, fmt.Errorf("age keys not found at %s (run `steadfast config keygen`)", cfg.PrivateKeyPath)
		}
		return s, nil
	case "test":
		return TestSealer{}, nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
