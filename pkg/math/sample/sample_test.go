package sample

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"

	"github.com/statmix/paillier/internal/params"
	"github.com/statmix/paillier/pkg/pool"
)

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	x := ModN(rand.Reader, n)
	_, _, lt := x.CmpMod(n)
	if lt != 1 {
		t.Errorf("ModN generated a number >= %v: %v", n, x)
	}
}

func TestUnitModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 32; i++ {
		u := UnitModN(rand.Reader, n, n.BitLen())
		if u.IsUnit(n) != 1 {
			t.Errorf("UnitModN generated a non-unit: %v", u)
		}
		_, _, lt := u.CmpMod(n)
		if lt != 1 {
			t.Errorf("UnitModN generated a number >= %v: %v", n, u)
		}
	}
}

func TestSigned(t *testing.T) {
	sawNeg, sawPos := false, false
	bound := new(big.Int).Lsh(big.NewInt(1), 64)
	for i := 0; i < 64; i++ {
		x := Signed(rand.Reader, 64)
		if x.Abs().Big().Cmp(bound) > 0 {
			t.Errorf("Signed generated a number out of range: %v", x)
		}
		if x.IsNegative() == 1 {
			sawNeg = true
		} else {
			sawPos = true
		}
	}
	if !sawNeg || !sawPos {
		t.Error("Signed kept the same sign over 64 draws")
	}
}

func TestTryPrime(t *testing.T) {
	// Both sides of the directCheckBits split.
	for _, bits := range []int{4, 16, 32, 64, 128} {
		var p *big.Int
		for p == nil {
			p = tryPrime(rand.Reader, bits)
		}
		if p.BitLen() != bits {
			t.Errorf("tryPrime(%d) generated a %d bit number: %v", bits, p.BitLen(), p)
		}
		if !p.ProbablyPrime(params.PrimalityIterations) {
			t.Errorf("tryPrime(%d) generated a composite: %v", bits, p)
		}
	}
}

func TestPaillier(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	p, q := Paillier(rand.Reader, pl, 64)
	pBig, qBig := p.Big(), q.Big()
	if pBig.BitLen() != 32 || qBig.BitLen() != 32 {
		t.Errorf("Paillier generated primes of %d and %d bits, wanted 32", pBig.BitLen(), qBig.BitLen())
	}
	if !pBig.ProbablyPrime(params.PrimalityIterations) || !qBig.ProbablyPrime(params.PrimalityIterations) {
		t.Errorf("Paillier generated a composite factor: %v, %v", pBig, qBig)
	}
	if pBig.Cmp(qBig) == 0 {
		t.Errorf("Paillier generated equal primes: %v", pBig)
	}
	n := new(big.Int).Mul(pBig, qBig)
	if n.BitLen() != 64 {
		t.Errorf("Paillier generated a %d bit modulus: %v", n.BitLen(), n)
	}
	one := big.NewInt(1)
	phi := new(big.Int).Mul(new(big.Int).Sub(pBig, one), new(big.Int).Sub(qBig, one))
	if new(big.Int).GCD(nil, nil, n, phi).Cmp(one) != 0 {
		t.Errorf("Paillier generated a modulus sharing a factor with its totient: %v", n)
	}
}

func TestPaillierSmallest(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	// 11 and 13 are the only 4 bit primes, so the smallest modulus is forced.
	p, q := Paillier(rand.Reader, pl, 8)
	n := new(big.Int).Mul(p.Big(), q.Big())
	if n.Uint64() != 143 {
		t.Errorf("expected the modulus 143, got %v", n)
	}
}

// This exists to save the results of functions we want to benchmark, to avoid
// having them optimized away.
var resultNat *saferith.Nat

func BenchmarkPaillier(b *testing.B) {
	pl := pool.NewPool(0)
	defer pl.TearDown()
	for i := 0; i < b.N; i++ {
		resultNat, _ = Paillier(rand.Reader, pl, 256)
	}
}

func BenchmarkModN(b *testing.B) {
	b.StopTimer()
	nBytes := make([]byte, params.DefaultModulusBytes)
	_, _ = rand.Read(nBytes)
	n := saferith.ModulusFromBytes(nBytes)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		resultNat = ModN(rand.Reader, n)
	}
}
