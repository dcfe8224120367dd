package paillier

import (
	"io"

	"github.com/cronokirby/saferith"
)

// Ciphertext represents an integer of the form (1+N·m)ρᴺ (mod N²), hiding
// the plaintext m.
type Ciphertext struct {
	c *saferith.Nat
}

// Add sets ct to the homomorphic sum ct ⊕ otherCt.
//
// ct •= otherCt (mod N²).
//
// Both operands are assumed valid under pk; untrusted ciphertexts should go
// through pk.ValidateCiphertexts first.
func (ct *Ciphertext) Add(pk *PublicKey, otherCt *Ciphertext) *Ciphertext {
	if otherCt == nil {
		return ct
	}
	ct.c.ModMul(ct.c, otherCt.c, pk.nSquared.Modulus)
	return ct
}

// Mul sets ct to the homomorphic scaling k ⊙ ct.
//
// ct = ctᵏ (mod N²), with k mapped onto [0, N) first.
func (ct *Ciphertext) Mul(pk *PublicKey, k *saferith.Int) *Ciphertext {
	if k == nil {
		return ct
	}
	kHat := k.Mod(pk.n.Modulus)
	ct.c = pk.nSquared.Exp(ct.c, kHat)
	return ct
}

// Randomize multiplies the ciphertext's nonce by a newly generated one.
//
// ct •= nonceᴺ (mod N²), for a nonce either given or drawn from rand when
// nil. The nonce update is returned.
func (ct *Ciphertext) Randomize(rand io.Reader, pk *PublicKey, nonce *saferith.Nat) *saferith.Nat {
	if nonce == nil {
		nonce = pk.Nonce(rand)
	}
	// tmp = nonceᴺ (mod N²)
	tmp := pk.nSquared.Exp(nonce, pk.nNat)
	ct.c.ModMul(ct.c, tmp, pk.nSquared.Modulus)
	return nonce
}

// Equal checks whether ct ≡ otherCt (mod N²).
func (ct *Ciphertext) Equal(otherCt *Ciphertext) bool {
	return ct.c.Eq(otherCt.c) == 1
}

// Clone returns a deep copy of ct.
func (ct *Ciphertext) Clone() *Ciphertext {
	c := new(saferith.Nat).SetNat(ct.c)
	return &Ciphertext{c: c}
}

// Nat returns a copy of the integer underlying ct.
func (ct *Ciphertext) Nat() *saferith.Nat {
	return new(saferith.Nat).SetNat(ct.c)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (ct *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	if ct == nil {
		return 0, io.ErrUnexpectedEOF
	}
	buf := ct.c.Bytes()
	n, err := w.Write(buf)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Ciphertext) Domain() string {
	return "Paillier Ciphertext"
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	return ct.c.MarshalBinary()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	ct.c = new(saferith.Nat)
	return ct.c.UnmarshalBinary(data)
}
