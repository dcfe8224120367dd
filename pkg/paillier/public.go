package paillier

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"

	"github.com/statmix/paillier/internal/hash"
	"github.com/statmix/paillier/internal/params"
	"github.com/statmix/paillier/pkg/math/arith"
	"github.com/statmix/paillier/pkg/math/sample"
)

// PublicKey is a Paillier public key. It is represented by a modulus N.
type PublicKey struct {
	// n = p⋅q
	n *arith.Modulus
	// nSquared = n²
	nSquared *arith.Modulus

	// These values are cached out of convenience, and performance.
	// nNat = n
	nNat *saferith.Nat
	// nPlusOne = n + 1
	nPlusOne *saferith.Nat
	// nHalf = ⌊n/2⌋, the exclusive bound on the message magnitude
	nHalf *saferith.Nat
	// bits is the bit length of n
	bits int
}

// NewPublicKey returns an initialized paillier.PublicKey and caches N, N²,
// N+1 and ⌊N/2⌋.
func NewPublicKey(n *saferith.Nat) *PublicKey {
	oneNat := new(saferith.Nat).SetUint64(1)
	nMod := arith.ModulusFromNat(n)
	nNat := nMod.Nat()
	nSquaredNat := new(saferith.Nat).Mul(nNat, nNat, -1)
	nSquared := arith.ModulusFromNat(nSquaredNat)
	nPlusOne := new(saferith.Nat).Add(nNat, oneNat, -1)
	// Tightening is fine, since n is public.
	nPlusOne.Resize(nPlusOne.TrueLen())
	nHalf := new(saferith.Nat).Rsh(nNat, 1, -1)

	return &PublicKey{
		n:        nMod,
		nSquared: nSquared,
		nNat:     nNat,
		nPlusOne: nPlusOne,
		nHalf:    nHalf,
		bits:     nMod.BitLen(),
	}
}

// ValidateN performs basic checks to make sure the modulus is valid:
// - n is non-nil and odd.
// - the bit length of n is within the supported range.
func ValidateN(n *saferith.Nat) error {
	if n == nil {
		return ErrModulusNil
	}
	if n.Byte(0)&1 != 1 {
		return ErrModulusEven
	}
	bits := n.TrueLen()
	if bits < params.MinModulusBits {
		return fmt.Errorf("have: %d, need at least %d: %w", bits, params.MinModulusBits, ErrBitSizeTooSmall)
	}
	if bits > params.MaxModulusBits {
		return fmt.Errorf("have: %d, need at most %d: %w", bits, params.MaxModulusBits, ErrBitSizeTooLarge)
	}
	return nil
}

// N is the public modulus making up this key.
func (pk *PublicKey) N() *saferith.Modulus {
	return pk.n.Modulus
}

// BitSize returns the bit length of the modulus N.
func (pk *PublicKey) BitSize() int {
	return pk.bits
}

// Enc returns the encryption of m under the public key pk, drawing a fresh
// nonce from rand. The nonce used to encrypt is also returned.
//
// The message m must be in the range ±⌊N/2⌋, both bounds excluded.
//
// ct = (1+N·m)ρᴺ (mod N²).
func (pk *PublicKey) Enc(rand io.Reader, m *saferith.Int) (*Ciphertext, *saferith.Nat, error) {
	if err := pk.ValidateMessages(m); err != nil {
		return nil, nil, err
	}
	nonce := pk.Nonce(rand)
	ct, err := pk.EncWithNonce(m, nonce)
	if err != nil {
		return nil, nil, err
	}
	return ct, nonce, nil
}

// EncWithNonce returns the encryption of m under the public key pk, using
// the given nonce.
//
// The message m must be in the range ±⌊N/2⌋, both bounds excluded, and the
// nonce must be a unit modulo N.
//
// ct = (1+N·m)ρᴺ (mod N²).
func (pk *PublicKey) EncWithNonce(m *saferith.Int, nonce *saferith.Nat) (*Ciphertext, error) {
	if err := pk.ValidateMessages(m); err != nil {
		return nil, err
	}
	if err := pk.ValidateNonces(nonce); err != nil {
		return nil, err
	}

	oneNat := new(saferith.Nat).SetUint64(1)
	nSquared := pk.nSquared.Modulus

	// m̂ = m (mod N), so negative messages wrap around to [⌊N/2⌋+1, N-1]
	mHat := m.Mod(pk.n.Modulus)
	// c = 1 + N·m̂ (mod N²)
	c := new(saferith.Nat).ModMul(mHat, pk.nNat, nSquared)
	c.ModAdd(c, oneNat, nSquared)
	// ρᴺ (mod N²)
	rhoN := pk.nSquared.Exp(nonce, pk.nNat)
	// ct = (1+N·m̂)·ρᴺ (mod N²)
	c.ModMul(c, rhoN, nSquared)
	return &Ciphertext{c: c}, nil
}

// Nonce samples a suitable nonce ρ for encryption.
// ρ ∈ ℤₙˣ.
func (pk *PublicKey) Nonce(rand io.Reader) *saferith.Nat {
	return sample.UnitModN(rand, pk.n.Modulus, pk.bits)
}

// Equal returns true if pk ≡ other.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.nNat.Eq(other.nNat) == 1
}

// ValidateMessages checks that each message lies in the signed message
// space, strictly between -⌊N/2⌋ and ⌊N/2⌋.
func (pk *PublicKey) ValidateMessages(ms ...*saferith.Int) error {
	for _, m := range ms {
		if m == nil {
			return ErrNilOperand
		}
		_, _, lt := m.Abs().Cmp(pk.nHalf)
		if lt != 1 {
			return &DomainError{Class: ClassZN, Value: intToBig(m)}
		}
	}
	return nil
}

// ValidateNonces checks that each nonce is a unit modulo N.
// ρ ∈ [1, N-1] AND gcd(ρ, N) = 1.
func (pk *PublicKey) ValidateNonces(nonces ...*saferith.Nat) error {
	for _, nonce := range nonces {
		if nonce == nil {
			return ErrNilOperand
		}
		_, _, lt := nonce.CmpMod(pk.n.Modulus)
		if lt != 1 || nonce.IsUnit(pk.n.Modulus) != 1 {
			return &DomainError{Class: ClassUnitsModN, Value: nonce.Big()}
		}
	}
	return nil
}

// ValidateCiphertexts checks that each ciphertext is in the correct range
// and coprime to N².
// ct ∈ [1, N²-1] AND gcd(ct, N²) = 1.
func (pk *PublicKey) ValidateCiphertexts(cts ...*Ciphertext) error {
	for _, ct := range cts {
		if ct == nil || ct.c == nil {
			return ErrNilOperand
		}
		_, _, lt := ct.c.CmpMod(pk.nSquared.Modulus)
		if lt != 1 || ct.c.IsUnit(pk.nSquared.Modulus) != 1 {
			return &DomainError{Class: ClassUnitsModNSquared, Value: ct.c.Big()}
		}
	}
	return nil
}

// Fingerprint returns a short digest binding the modulus of this key.
func (pk *PublicKey) Fingerprint() []byte {
	h := hash.New()
	_ = h.WriteAny(pk)
	return h.Sum()
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (pk *PublicKey) WriteTo(w io.Writer) (int64, error) {
	if pk == nil {
		return 0, io.ErrUnexpectedEOF
	}
	buf := pk.n.Bytes()
	n, err := w.Write(buf)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (PublicKey) Domain() string {
	return "Paillier PublicKey"
}

// Modulus returns an arith.Modulus for N which may allow for accelerated exponentiation when this
// public key was generated from a secret key.
func (pk *PublicKey) Modulus() *arith.Modulus {
	return pk.n
}

// ModulusSquared returns an arith.Modulus for N² which may allow for accelerated exponentiation when this
// public key was generated from a secret key.
func (pk *PublicKey) ModulusSquared() *arith.Modulus {
	return pk.nSquared
}
