package arith

import (
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	p, q                       *saferith.Nat
	n, nSquared                *saferith.Modulus
	mFast, mSlow               *Modulus
	mSquaredFast, mSquaredSlow *Modulus
)

func init() {
	p, _ = new(saferith.Nat).SetHex("D08769E92F80F7FDFB85EC02AFFDAED0FDE2782070757F191DCDC4D108110AC1E31C07FC253B5F7B91C5D9F203AA0572D3F2062A3D2904C535C6ACCA7D5674E1C2640720E762C72B66931F483C2D910908CF02EA6723A0CBBB1016CA696C38FEAC59B31E40584C8141889A11F7A38F5B17811D11F42CD15B8470F11C6183802B")
	q, _ = new(saferith.Nat).SetHex("C21239C3484FC3C8409F40A9A22FABFFE26CA10C27506E3E017C2EC8C4B98D7A6D30DED0686869884BE9BAD27F5241B7313F73D19E9E4B384FABF9554B5BB4D517CBAC0268420C63D545612C9ADABEEDF20F94244E7F8F2080B0C675AC98D97C580D43375F999B1AC127EC580B89B2D302EF33DD5FD8474A241B0398F6088CA7")
	nNat := new(saferith.Nat).Mul(p, q, -1)
	n = saferith.ModulusFromNat(nNat)
	mFast = ModulusFromFactors(p, q)
	mSlow = ModulusFromN(n)

	pSquared := new(saferith.Nat).Mul(p, p, -1)
	qSquared := new(saferith.Nat).Mul(q, q, -1)
	nSquaredNat := new(saferith.Nat).Mul(pSquared, qSquared, -1)
	nSquared = saferith.ModulusFromNat(nSquaredNat)
	mSquaredFast = ModulusFromFactors(pSquared, qSquared)
	mSquaredSlow = ModulusFromN(nSquared)
}

func sampleNat(r *mrand.Rand, m *saferith.Modulus) *saferith.Nat {
	buf := make([]byte, (m.BitLen()+7)/8)
	r.Read(buf)
	out := new(saferith.Nat).SetBytes(buf)
	return out.Mod(out, m)
}

func TestModulusExp(t *testing.T) {
	r := mrand.New(mrand.NewSource(0))
	require.True(t, mFast.Nat().Eq(mSlow.Nat()) == 1, "both moduli should wrap the same n")

	for _, tc := range []struct {
		name       string
		fast, slow *Modulus
	}{
		{"n", mFast, mSlow},
		{"nSquared", mSquaredFast, mSquaredSlow},
	} {
		t.Run(tc.name, func(t *testing.T) {
			x := sampleNat(r, tc.slow.Modulus)
			e := sampleNat(r, tc.slow.Modulus)

			yExpected := new(saferith.Nat).Exp(x, e, tc.slow.Modulus)
			yFast := tc.fast.Exp(x, e)
			ySlow := tc.slow.Exp(x, e)
			assert.True(t, yExpected.Eq(yFast) == 1, "accelerated exponentiation should match")
			assert.True(t, yExpected.Eq(ySlow) == 1, "plain exponentiation should match")
		})
	}
}

func TestModulusExpI(t *testing.T) {
	r := mrand.New(mrand.NewSource(1))
	x := sampleNat(r, n)
	e := sampleNat(r, n)
	eNeg := new(saferith.Int).SetNat(e).Neg(1)

	yExpected := new(saferith.Nat).ExpI(x, eNeg, n)
	yFast := mFast.ExpI(x, eNeg)
	ySlow := mSlow.ExpI(x, eNeg)
	assert.True(t, yExpected.Eq(yFast) == 1, "negative exponentiation with acceleration should match")
	assert.True(t, yExpected.Eq(ySlow) == 1, "negative exponentiation without acceleration should match")

	ePos := new(saferith.Int).SetNat(e)
	yExpected = new(saferith.Nat).ExpI(x, ePos, n)
	assert.True(t, yExpected.Eq(mFast.ExpI(x, ePos)) == 1, "positive ExpI should match Exp")
}

func BenchmarkExp(b *testing.B) {
	r := mrand.New(mrand.NewSource(0))
	x := sampleNat(r, nSquared)
	e := sampleNat(r, n)
	for _, tc := range []struct {
		name string
		m    *Modulus
	}{
		{"fastSquared", mSquaredFast},
		{"slowSquared", mSquaredSlow},
	} {
		b.Run(tc.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				tc.m.Exp(x, e)
			}
		})
	}
}
