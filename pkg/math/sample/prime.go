package sample

import (
	"io"
	"math"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"

	"github.com/statmix/paillier/internal/params"
	"github.com/statmix/paillier/pkg/math/arith"
	"github.com/statmix/paillier/pkg/pool"
)

// primes generates an array containing all the odd prime numbers < below
func primes(below uint32) []uint32 {
	sieve := make([]bool, below)
	// Initially, all numbers starting from 2 are considered prime
	for i := 2; i < len(sieve); i++ {
		sieve[i] = true
	}
	// Now, we remove the multiples of every prime number we encounter
	for p := 2; p*p < len(sieve); p++ {
		if !sieve[p] {
			continue
		}
		// p itself is prime, so we don't want to exclude it, but every multiple
		// of p, starting from 2 * p isn't, so we exclude those
		for i := p << 1; i < len(sieve); i += p {
			sieve[i] = false
		}
	}
	// It is believed that there are approximately N / log N primes below N, so this
	// bounds is a decent estimate of our output size
	nF := float64(below)
	out := make([]uint32, 0, int(nF/math.Log(nF)))
	for p := uint32(3); p < below; p++ {
		if sieve[p] {
			out = append(out, p)
		}
	}

	return out
}

// The number of candidates to check after our initial guess
const sieveSize = 1 << 18

// The upper bound on the prime numbers used for sieving
const primeBound = 1 << 20

// Candidates at or below this bit size skip the sieve, because the trial
// primes themselves reach 2²⁰ and would eliminate a small candidate equal to
// one of them. A Miller-Rabin check on numbers this small is cheap anyway.
const directCheckBits = 32

// We want to avoid calculating our prime numbers multiple times, but we also
// don't want to waste time sieving them before they're needed. Using sync.Once
// lets us initialize this array of primes only once, the first time we need them.
var thePrimes []uint32
var initPrimes sync.Once

// We use a large buffer for sieving, but we would like to reuse these buffers
// to avoid allocating a bunch of them.
var sievePool = sync.Pool{
	New: func() interface{} {
		sieve := make([]bool, sieveSize)
		return &sieve
	},
}

// tryPrime makes a single attempt at finding a probable prime with exactly
// the requested bit length, returning nil when the attempt fails.
func tryPrime(rand io.Reader, bits int) *big.Int {
	if bits < 2 {
		return nil
	}

	bytes := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(rand, bytes); err != nil {
		return nil
	}

	// The number of significant bits in the first byte of our number
	lastBits := bits % 8
	if lastBits == 0 {
		lastBits = 8
	}
	// Truncate to the requested size, then set the top bit so the candidate
	// has exactly that many bits. The product of two such primes can still
	// fall one bit short of the doubled size; the pair search rejects those.
	bytes[0] &= byte(int(1<<lastBits) - 1)
	bytes[0] |= 1 << (lastBits - 1)
	// Only odd numbers can be prime at the sizes we sample.
	bytes[len(bytes)-1] |= 1

	base := new(big.Int).SetBytes(bytes)

	if bits <= directCheckBits {
		if !base.ProbablyPrime(params.PrimalityIterations) {
			return nil
		}
		return base
	}

	initPrimes.Do(func() {
		thePrimes = primes(primeBound)
	})

	// sieve checks the candidacy of base, base+1, base+2, etc.
	sievePtr := sievePool.Get().(*[]bool)
	sieve := *sievePtr
	defer sievePool.Put(sievePtr)
	for i := 0; i < len(sieve); i++ {
		sieve[i] = true
	}
	// base is odd, so odd deltas give even candidates
	for i := 1; i < len(sieve); i += 2 {
		sieve[i] = false
	}
	// sieve out multiples of the trial primes
	remainder := new(big.Int)
	for _, prime := range thePrimes {
		remainder.SetUint64(uint64(prime))
		remainder.Mod(base, remainder)
		r := int(remainder.Uint64())
		primeInt := int(prime)
		firstMultiple := primeInt - r
		if r == 0 {
			firstMultiple = 0
		}
		for i := firstMultiple; i < len(sieve); i += primeInt {
			sieve[i] = false
		}
	}

	p := new(big.Int)
	for delta := 0; delta < len(sieve); delta++ {
		if !sieve[delta] {
			continue
		}
		p.SetUint64(uint64(delta))
		p.Add(p, base)
		if p.BitLen() > bits {
			return nil
		}
		if !p.ProbablyPrime(params.PrimalityIterations) {
			continue
		}
		return p
	}

	return nil
}

// searchPrime races the pool's workers over candidates until one finds a
// probable prime of exactly the given bit length.
func searchPrime(rand io.Reader, pl *pool.Pool, bits int) *big.Int {
	results := pl.Search(1, func() interface{} {
		p := tryPrime(rand, bits)
		// You have to do this, because of how Go handles nil.
		if p == nil {
			return nil
		}
		return p
	})
	return results[0].(*big.Int)
}

// Paillier samples the prime pair for a Paillier key with a modulus of the
// given total bit size.
//
// Both primes have exactly bits/2 bits. q is resampled until q ≠ p and
// gcd(pq, (p-1)(q-1)) = 1, and the whole pair is rejected until the product
// has exactly the requested bit length, since multiplying two half-size
// primes can fall one bit short.
//
// Every rejection has a bounded failure probability, so termination is
// probabilistic but effectively guaranteed; no iteration cap is imposed on
// the pair selection.
func Paillier(rand io.Reader, pl *pool.Pool, bits int) (p, q *saferith.Nat) {
	reader := pool.NewLockedReader(rand)
	primeBits := bits / 2

	one := big.NewInt(1)
	pMinus1, qMinus1 := new(big.Int), new(big.Int)
	n, phi := new(big.Int), new(big.Int)
	for {
		pBig := searchPrime(reader, pl, primeBits)
		var qBig *big.Int
		for {
			qBig = searchPrime(reader, pl, primeBits)
			if qBig.Cmp(pBig) == 0 {
				continue
			}
			pMinus1.Sub(pBig, one)
			qMinus1.Sub(qBig, one)
			n.Mul(pBig, qBig)
			phi.Mul(pMinus1, qMinus1)
			if !arith.IsCoprime(n, phi) {
				continue
			}
			break
		}
		if n.BitLen() == bits {
			p = new(saferith.Nat).SetBig(pBig, primeBits)
			q = new(saferith.Nat).SetBig(qBig, primeBits)
			return
		}
	}
}
