// Package paillier implements the Paillier cryptosystem, an additively
// homomorphic public-key encryption scheme.
//
// Given ciphertexts Enc(a) and Enc(b), anyone holding the public key can
// compute Enc(a+b) and Enc(k·a), without learning a or b. Plaintexts are
// signed integers in ±⌊N/2⌋ for a public modulus N.
//
// The implementation fixes the generator g = 1 + N, which turns the
// encryption exponentiation (1+N)^m into the multiplication 1 + m·N
// (mod N²), and uses the Chinese Remainder Theorem for all exponentiations
// whenever the factorization of the modulus is known.
package paillier

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/cronokirby/saferith"

	"github.com/statmix/paillier/pkg/pool"
)

// Cryptosystem bundles a key pair with a source of randomness, and checks
// every operand against the key before operating on it.
//
// A Cryptosystem built from a public key alone encrypts and evaluates, but
// cannot decrypt. The zero value is not usable; use Generate, FromPublicKey
// or FromSecretKey.
type Cryptosystem struct {
	pk *PublicKey
	sk *SecretKey
	// source yields the random bytes consumed by Encrypt and Randomize.
	source io.Reader
}

// Generate creates a Cryptosystem over a fresh modulus of the given bit
// size. If source is nil, crypto/rand is used. The pool may be nil, in
// which case the prime search runs on a single goroutine.
func Generate(source io.Reader, pl *pool.Pool, bits int) (*Cryptosystem, error) {
	if source == nil {
		source = rand.Reader
	}
	sk, err := NewSecretKey(source, pl, bits)
	if err != nil {
		return nil, err
	}
	return &Cryptosystem{
		pk:     sk.PublicKey,
		sk:     sk,
		source: source,
	}, nil
}

// FromPublicKey creates an encrypt-only Cryptosystem around pk. If source
// is nil, crypto/rand is used.
func FromPublicKey(source io.Reader, pk *PublicKey) (*Cryptosystem, error) {
	if pk == nil {
		return nil, ErrKeyNil
	}
	if source == nil {
		source = rand.Reader
	}
	return &Cryptosystem{
		pk:     pk,
		source: source,
	}, nil
}

// FromSecretKey creates a full Cryptosystem around sk. If source is nil,
// crypto/rand is used.
func FromSecretKey(source io.Reader, sk *SecretKey) (*Cryptosystem, error) {
	if sk == nil {
		return nil, ErrKeyNil
	}
	if source == nil {
		source = rand.Reader
	}
	return &Cryptosystem{
		pk:     sk.PublicKey,
		sk:     sk,
		source: source,
	}, nil
}

// Encrypt returns a fresh encryption of m.
//
// It returns an error unless -⌊N/2⌋ < m < ⌊N/2⌋.
func (cs *Cryptosystem) Encrypt(m *saferith.Int) (*Ciphertext, error) {
	ct, _, err := cs.pk.Enc(cs.source, m)
	return ct, err
}

// Decrypt returns the plaintext of ct. It fails with ErrCannotDecrypt when
// the Cryptosystem was built from a public key alone.
func (cs *Cryptosystem) Decrypt(ct *Ciphertext) (*saferith.Int, error) {
	if cs.sk == nil {
		return nil, ErrCannotDecrypt
	}
	return cs.sk.Dec(ct)
}

// Add returns an encryption of the sum of the plaintexts of a and b. The
// arguments are left untouched.
func (cs *Cryptosystem) Add(a, b *Ciphertext) (*Ciphertext, error) {
	if err := cs.pk.ValidateCiphertexts(a, b); err != nil {
		return nil, err
	}
	return a.Clone().Add(cs.pk, b), nil
}

// Mul returns an encryption of k times the plaintext of ct. The argument is
// left untouched.
func (cs *Cryptosystem) Mul(ct *Ciphertext, k *saferith.Int) (*Ciphertext, error) {
	if err := cs.pk.ValidateCiphertexts(ct); err != nil {
		return nil, err
	}
	if err := cs.pk.ValidateMessages(k); err != nil {
		return nil, err
	}
	return ct.Clone().Mul(cs.pk, k), nil
}

// Randomize re-randomizes ct, producing an unlinkable ciphertext with the
// same plaintext. The argument is left untouched.
func (cs *Cryptosystem) Randomize(ct *Ciphertext) (*Ciphertext, error) {
	if err := cs.pk.ValidateCiphertexts(ct); err != nil {
		return nil, err
	}
	out := ct.Clone()
	out.Randomize(cs.source, cs.pk, nil)
	return out, nil
}

// PublicKey returns the public key of this Cryptosystem.
func (cs *Cryptosystem) PublicKey() *PublicKey {
	return cs.pk
}

// SecretKey returns the secret key of this Cryptosystem, with ok false when
// it holds none.
func (cs *Cryptosystem) SecretKey() (sk *SecretKey, ok bool) {
	return cs.sk, cs.sk != nil
}

// CanDecrypt reports whether this Cryptosystem holds a secret key.
func (cs *Cryptosystem) CanDecrypt() bool {
	return cs.sk != nil
}

// BitSize returns the bit length of the modulus.
func (cs *Cryptosystem) BitSize() int {
	return cs.pk.BitSize()
}

func (cs *Cryptosystem) String() string {
	if cs.sk == nil {
		return fmt.Sprintf("Paillier-%d cryptosystem (encrypt-only)", cs.pk.BitSize())
	}
	return fmt.Sprintf("Paillier-%d cryptosystem", cs.pk.BitSize())
}

// Describe returns a multi-line description of the keys held by this
// Cryptosystem, intended for diagnostics. The output of a full Cryptosystem
// contains the secret decryption pair.
func (cs *Cryptosystem) Describe() string {
	var b strings.Builder
	b.WriteString(cs.String())
	fmt.Fprintf(&b, "\n  modulus N   = %s", cs.pk.nNat.Big())
	fmt.Fprintf(&b, "\n  fingerprint = %x", cs.pk.Fingerprint())
	if cs.sk != nil {
		fmt.Fprintf(&b, "\n  lambda      = %s", cs.sk.lambda.Big())
		fmt.Fprintf(&b, "\n  mu          = %s", cs.sk.mu.Big())
	}
	return b.String()
}
