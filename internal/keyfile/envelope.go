package keyfile

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/statmix/paillier/pkg/paillier"
)

// Envelope is the on-disk form of a ciphertext: the value itself, tagged
// with the fingerprint of the public key it was encrypted under so that
// values produced under different keys are never combined.
type Envelope struct {
	Fingerprint []byte
	C           *paillier.Ciphertext
}

// WriteCiphertext stores ct at path, tagged with the fingerprint of pk.
func WriteCiphertext(path string, pk *paillier.PublicKey, ct *paillier.Ciphertext) error {
	data, err := cbor.Marshal(Envelope{Fingerprint: pk.Fingerprint(), C: ct})
	if err != nil {
		return fmt.Errorf("failed to encode ciphertext: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadCiphertext loads the ciphertext at path and checks it against pk,
// rejecting values produced under a different key.
func ReadCiphertext(path string, pk *paillier.PublicKey) (*paillier.Ciphertext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	env := Envelope{}
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext at %s: %w", path, err)
	}
	if !bytes.Equal(env.Fingerprint, pk.Fingerprint()) {
		return nil, fmt.Errorf("ciphertext at %s was not produced under this key", path)
	}
	if err := pk.ValidateCiphertexts(env.C); err != nil {
		return nil, fmt.Errorf("ciphertext at %s: %w", path, err)
	}
	return env.C, nil
}
