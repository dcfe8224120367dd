// Package test holds fixtures shared by tests across the module.
package test

import (
	"io"

	"github.com/cronokirby/saferith"

	"github.com/statmix/paillier/internal/hash"
)

// PaillierPrimes returns a fixed pair of primes for tests that need a secret
// key without paying for prime generation.
//
// The pair satisfies the key generation conditions: the primes are distinct,
// and their product shares no factor with (p-1)(q-1). Their bit lengths
// differ on purpose, 61 and 89, so nothing downstream can get away with
// assuming both halves of a modulus are the same size.
func PaillierPrimes() (p, q *saferith.Nat) {
	// The Mersenne primes 2⁶¹-1 and 2⁸⁹-1.
	p, _ = new(saferith.Nat).SetHex("1FFFFFFFFFFFFFFF")
	q, _ = new(saferith.Nat).SetHex("1FFFFFFFFFFFFFFFFFFFFFF")
	return
}

// Rand returns a deterministic stream of bytes derived from seed, usable
// wherever an io.Reader is expected to provide randomness.
func Rand(seed string) io.Reader {
	h := hash.New()
	_ = h.WriteAny([]byte(seed))
	return h.Digest()
}
