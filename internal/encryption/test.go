package encryption

import (
	"bytes"
	"fmt"

	"steadfast/internal/kv"
)

// testHeader is prepended by TestSealer so sealed output differs from the
// plaintext while staying deterministic and reversible.
var testHeader = []byte("SFSEAL\x00\x00")

// TestSealer is a deterministic, non-cryptographic sealer for tests.
type TestSealer struct{}

var _ kv.Sealer = TestSealer{}

func (TestSealer) Seal(plaintext []byte) ([]byte, error) {
	return append(append([]byte{}, testHeader...), plaintext...), nil
}

func (TestSealer) Open(ciphertext []byte) ([]byte, error) {
	if !bytes.HasPrefix(ciphertext, testHeader) {
		return nil, fmt.Errorf("invalid test seal header")
	}
	return append([]byte{}, ciphertext[len(testHeader):]...), nil
}
