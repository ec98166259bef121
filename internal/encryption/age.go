package encryption

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"

	"steadfast/internal/config"
	"steadfast/internal/kv"
)

// AgeSealer seals stored values with filippo.io/age using an X25519 key pair.
// The public key is stored in plaintext. The private key is either stored in
// plaintext (no passphrase, so a widget process can open values unattended)
// or encrypted with a passphrase using age's scrypt recipient.
type AgeSealer struct {
	publicKeyPath  string
	privateKeyPath string
	passphrase     string

	recipient age.Recipient
	identity  age.Identity
}

var _ kv.Sealer = (*AgeSealer)(nil)

// NewAgeSealer creates an AgeSealer from configuration. passphrase unlocks
// the private key and may be empty for an unencrypted key file.
func NewAgeSealer(cfg config.EncryptionConfig, passphrase string) *AgeSealer {
	return &AgeSealer{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
		passphrase:     passphrase,
	}
}

// Setup generates a new X25519 key pair and writes both key files.
// With an empty passphrase the private key is written unencrypted.
func (s *AgeSealer) Setup(passphrase string) error {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	for _, p := range []string{s.publicKeyPath, s.privateKeyPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
	}

	if err := os.WriteFile(s.publicKeyPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	privFile, err := os.OpenFile(s.privateKeyPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating private key file: %w", err)
	}
	defer privFile.Close()

	if passphrase == "" {
		if _, err := io.WriteString(privFile, identity.String()+"\n"); err != nil {
			return fmt.Errorf("writing private key: %w", err)
		}
	} else {
		recipient, err := age.NewScryptRecipient(passphrase)
		if err != nil {
			return fmt.Errorf("creating scrypt recipient: %w", err)
		}
		w, err := age.Encrypt(privFile, recipient)
		if err != nil {
			return fmt.Errorf("creating encrypted writer: %w", err)
		}
		if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
			return fmt.Errorf("writing encrypted private key: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("finalizing encrypted private key: %w", err)
		}
	}

	s.recipient = identity.Recipient()
	s.identity = identity
	s.passphrase = passphrase
	return nil
}

// IsConfigured returns true if both key files exist.
func (s *AgeSealer) IsConfigured() bool {
	if _, err := os.Stat(s.publicKeyPath); err != nil {
		return false
	}
	if _, err := os.Stat(s.privateKeyPath); err != nil {
		return false
	}
	return true
}

// NeedsPassphrase reports whether the private key file is passphrase
// protected. A missing file needs none.
func (s *AgeSealer) NeedsPassphrase() bool {
	privData, err := os.ReadFile(s.privateKeyPath)
	if err != nil {
		return false
	}
	return !isPlainIdentity(privData)
}

func isPlainIdentity(data []byte) bool {
	return strings.HasPrefix(strings.TrimSpace(string(data)), "AGE-SECRET-KEY-")
}

// Seal encrypts plaintext to the public key.
func (s *AgeSealer) Seal(plaintext []byte) ([]byte, error) {
	recipient, err := s.loadRecipient()
	if err != nil {
		return nil, fmt.Errorf("loading public key: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypting data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return buf.Bytes(), nil
}

// Open decrypts ciphertext produced by Seal.
func (s *AgeSealer) Open(ciphertext []byte) ([]byte, error) {
	identity, err := s.loadIdentity()
	if err != nil {
		return nil, fmt.Errorf("loading private key: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("creating decrypted reader: %w", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decrypting data: %w", err)
	}
	return plain, nil
}

func (s *AgeSealer) loadRecipient() (age.Recipient, error) {
	if s.recipient != nil {
		return s.recipient, nil
	}
	pubData, err := os.ReadFile(s.publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}

	recipients, err := age.ParseRecipients(bytes.NewReader(pubData))
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients found in public key file")
	}

	s.recipient = recipients[0]
	return s.recipient, nil
}

func (s *AgeSealer) loadIdentity() (age.Identity, error) {
	if s.identity != nil {
		return s.identity, nil
	}
	privData, err := os.ReadFile(s.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key file: %w", err)
	}

	keyData := privData
	if !isPlainIdentity(privData) {
		scrypt, err := age.NewScryptIdentity(s.passphrase)
		if err != nil {
			return nil, fmt.Errorf("creating scrypt identity: %w", err)
		}
		r, err := age.Decrypt(bytes.NewReader(privData), scrypt)
		if err != nil {
			return nil, fmt.Errorf("decrypting private key: %w", err)
		}
		if keyData, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("reading decrypted private key: %w", err)
		}
	}

	identities, err := age.ParseIdentities(bytes.NewReader(keyData))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found in private key")
	}

	s.identity = identities[0]
	return s.identity, nil
}
