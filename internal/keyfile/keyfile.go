// Package keyfile reads and writes Paillier keys and ciphertexts on disk.
//
// Public keys and plain secret keys are stored as PEM. A secret key can
// additionally be sealed under a passphrase, in which case the PEM block
// holds salt ‖ nonce ‖ box, with the key derived by Argon2id.
package keyfile

import (
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/statmix/paillier/pkg/paillier"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	pemTypeEncryptedSecretKey = "PAILLIER ENCRYPTED PRIVATE KEY"
)

// deriveKey stretches a passphrase into a secretbox key.
func deriveKey(passphrase, salt []byte) *[keySize]byte {
	derived := argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
	key := new([keySize]byte)
	copy(key[:], derived)
	return key
}

// SavePublicKey writes pk as PEM, creating the parent directory if needed.
func SavePublicKey(path string, pk *paillier.PublicKey) error {
	data, err := pk.EncodePEM()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for public key at %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPublicKey reads a PEM public key from path.
func LoadPublicKey(path string) (*paillier.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return paillier.DecodePublicKeyPEM(data)
}

// SaveSecretKey writes sk as PEM, sealed under passphrase when one is given,
// creating the parent directory if needed.
func SaveSecretKey(path string, sk *paillier.SecretKey, passphrase []byte) error {
	data, err := sk.EncodePEM()
	if err != nil {
		return err
	}
	if len(passphrase) > 0 {
		if data, err = sealSecretKey(data, passphrase); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for secret key at %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0600)
}

// LoadSecretKey reads a PEM secret key from path, opening the passphrase
// seal when the file carries one.
func LoadSecretKey(path string, passphrase []byte) (*paillier.SecretKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block containing secret key at %s", path)
	}
	if block.Type != pemTypeEncryptedSecretKey {
		return paillier.DecodeSecretKeyPEM(data)
	}
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("secret key at %s is encrypted, a passphrase is required", path)
	}
	plaintext, err := openSecretKey(block.Bytes, passphrase)
	if err != nil {
		return nil, err
	}
	return paillier.DecodeSecretKeyPEM(plaintext)
}

func sealSecretKey(plaintext, passphrase []byte) ([]byte, error) {
	var salt [saltSize]byte
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return nil, fmt.Errorf("failed to sample salt: %w", err)
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to sample nonce: %w", err)
	}
	key := deriveKey(passphrase, salt[:])

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, key)
	return pem.EncodeToMemory(&pem.Block{
		Type:  pemTypeEncryptedSecretKey,
		Bytes: append(salt[:], sealed...),
	}), nil
}

func openSecretKey(sealed, passphrase []byte) ([]byte, error) {
	if len(sealed) < saltSize+nonceSize {
		return nil, errors.New("encrypted secret key payload is truncated")
	}
	var salt [saltSize]byte
	copy(salt[:], sealed[:saltSize])
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[saltSize:saltSize+nonceSize])
	key := deriveKey(passphrase, salt[:])

	plaintext, ok := secretbox.Open(nil, sealed[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, errors.New("failed to decrypt secret key: wrong passphrase or corrupted file")
	}
	return plaintext, nil
}
