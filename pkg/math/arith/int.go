package arith

import "math/big"

var one = big.NewInt(1)

// IsCoprime returns true if gcd(a,b) = 1.
func IsCoprime(a, b *big.Int) bool {
	var gcd big.Int
	if gcd.GCD(nil, nil, a, b).Cmp(one) == 0 {
		return true
	}
	return false
}

// Lcm returns the least common multiple of a and b.
//
// Both arguments must be positive. Runs in variable time, so it should only
// see values already public or still being generated.
func Lcm(a, b *big.Int) *big.Int {
	var gcd, out big.Int
	gcd.GCD(nil, nil, a, b)
	out.Mul(a, b)
	return out.Div(&out, &gcd)
}
