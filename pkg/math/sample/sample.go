package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			break
		}
	}
	return out
}

// UnitModN returns a u ∈ ℤₙˣ.
//
// Draws are bits wide and rejected until one lands in [1, n) coprime to n.
// With bits equal to the bit length of n, a draw is accepted after a couple
// of attempts on average; the iteration cap only guards against a broken
// randomness source.
func UnitModN(rand io.Reader, n *saferith.Modulus, bits int) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (bits+7)/8)
	lastBits := bits % 8
	if lastBits == 0 {
		lastBits = 8
	}
	for i := 0; i < maxIterations; i++ {
		mustReadBits(rand, buf)
		buf[0] &= byte(int(1<<lastBits) - 1)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 && out.IsUnit(n) == 1 {
			return out
		}
	}
	panic(ErrMaxIterations)
}

// Signed returns an integer in the range ± 2ᵇⁱᵗˢ, but with constant-time properties.
func Signed(rand io.Reader, bits int) *saferith.Int {
	buf := make([]byte, bits/8+1)
	mustReadBits(rand, buf)
	neg := saferith.Choice(buf[0] & 1)
	buf = buf[1:]
	out := new(saferith.Int).SetBytes(buf)
	out.Neg(neg)
	return out
}
