package paillier

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/statmix/paillier/internal/params"
)

var (
	ErrBitSizeOdd      = errors.New("modulus bit size must be even")
	ErrBitSizeTooSmall = errors.New("modulus bit size is too small")
	ErrBitSizeTooLarge = errors.New("modulus bit size is too large")

	ErrModulusNil  = errors.New("modulus N is nil")
	ErrModulusEven = errors.New("modulus N is even")

	ErrPrimeNil     = errors.New("prime is nil")
	ErrNotPrime     = errors.New("supposed prime factor is not prime")
	ErrPrimesEqual  = errors.New("prime factors are equal")
	ErrWrongFactors = errors.New("prime factors do not multiply to N")
	ErrNoMu         = errors.New("no decryption parameter mu exists for these factors")
	ErrWrongMu      = errors.New("mu is not the inverse of L((N+1)^lambda) modulo N")

	ErrKeyNil     = errors.New("key is nil")
	ErrNilOperand = errors.New("operand is nil")

	ErrCannotDecrypt = errors.New("the cryptosystem holds no secret key")
)

// validateBitSize checks the modulus size requested from key generation.
func validateBitSize(bits int) error {
	switch {
	case bits%2 != 0:
		return fmt.Errorf("bit size %d: %w", bits, ErrBitSizeOdd)
	case bits < params.MinModulusBits:
		return fmt.Errorf("bit size %d, need at least %d: %w", bits, params.MinModulusBits, ErrBitSizeTooSmall)
	case bits > params.MaxModulusBits:
		return fmt.Errorf("bit size %d, need at most %d: %w", bits, params.MaxModulusBits, ErrBitSizeTooLarge)
	default:
		return nil
	}
}

// ResidueClass identifies the set an argument was expected to be a member of.
type ResidueClass int

const (
	// ClassZN is the signed message space, integers strictly between ±⌊N/2⌋.
	ClassZN ResidueClass = iota + 1
	// ClassUnitsModN is ℤₙˣ, the nonce space.
	ClassUnitsModN
	// ClassUnitsModNSquared is ℤₙ²ˣ, the ciphertext space.
	ClassUnitsModNSquared
)

func (c ResidueClass) String() string {
	switch c {
	case ClassZN:
		return "ℤₙ"
	case ClassUnitsModN:
		return "ℤₙˣ"
	case ClassUnitsModNSquared:
		return "ℤₙ²ˣ"
	default:
		return fmt.Sprintf("ResidueClass(%d)", int(c))
	}
}

// A DomainError reports an argument lying outside the residue class an
// operation requires it in.
type DomainError struct {
	Class ResidueClass
	Value *big.Int
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%v is not an element of %v", e.Value, e.Class)
}

// intToBig converts a signed saferith value for error reporting.
func intToBig(x *saferith.Int) *big.Int {
	out := x.Abs().Big()
	if x.IsNegative() == 1 {
		out.Neg(out)
	}
	return out
}
