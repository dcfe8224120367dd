package paillier

import (
	"io"

	"github.com/cronokirby/saferith"

	"github.com/statmix/paillier/internal/params"
	"github.com/statmix/paillier/pkg/math/arith"
	"github.com/statmix/paillier/pkg/math/sample"
	"github.com/statmix/paillier/pkg/pool"
)

// SecretKey is the secret key corresponding to a public Paillier key.
//
// A public key is a modulus N, and the secret key contains the decryption
// pair λ = lcm(p-1, q-1) and μ = L((N+1)^λ mod N²)⁻¹ mod N, for the primes
// p and q making up N. The factorization itself is kept when available, to
// accelerate exponentiation and to recover encryption nonces.
type SecretKey struct {
	*PublicKey
	// p, q such that N = p⋅q. Nil on keys rebuilt without their factorization.
	p, q *saferith.Nat
	// lambda = λ = lcm(p-1, q-1)
	lambda *saferith.Nat
	// mu = μ = L((N+1)^λ mod N²)⁻¹ mod N
	mu *saferith.Nat
}

// P returns the first of the two factors composing this key, or nil if the
// factorization is not available.
func (sk *SecretKey) P() *saferith.Nat {
	return sk.p
}

// Q returns the second of the two factors composing this key, or nil if the
// factorization is not available.
func (sk *SecretKey) Q() *saferith.Nat {
	return sk.q
}

// Lambda returns λ = lcm(p-1, q-1), the Carmichael function of N.
func (sk *SecretKey) Lambda() *saferith.Nat {
	return sk.lambda
}

// Mu returns μ, the multiplier applied after the L function during decryption.
func (sk *SecretKey) Mu() *saferith.Nat {
	return sk.mu
}

// KeyGen generates a new PublicKey and its associated SecretKey.
func KeyGen(rand io.Reader, pl *pool.Pool, bits int) (*PublicKey, *SecretKey, error) {
	sk, err := NewSecretKey(rand, pl, bits)
	if err != nil {
		return nil, nil, err
	}
	return sk.PublicKey, sk, nil
}

// NewSecretKey samples a prime pair suitable for a modulus of the given bit
// size, and returns the initialized SecretKey.
func NewSecretKey(rand io.Reader, pl *pool.Pool, bits int) (*SecretKey, error) {
	if err := validateBitSize(bits); err != nil {
		return nil, err
	}
	return NewSecretKeyFromPrimes(sample.Paillier(rand, pl, bits))
}

// NewSecretKeyFromPrimes builds the key with modulus N = P⋅Q. Assumes that
// P and Q are prime.
//
// It fails with ErrNoMu when N shares a factor with (P-1)(Q-1), since no
// decryption parameter exists for such a pair.
func NewSecretKeyFromPrimes(P, Q *saferith.Nat) (*SecretKey, error) {
	if P == nil || Q == nil {
		return nil, ErrPrimeNil
	}
	if P.Eq(Q) == 1 {
		return nil, ErrPrimesEqual
	}
	oneNat := new(saferith.Nat).SetUint64(1)

	n := arith.ModulusFromFactors(P, Q)
	nNat := n.Nat()
	nPlusOne := new(saferith.Nat).Add(nNat, oneNat, -1)
	// Tightening is fine, since n is public.
	nPlusOne.Resize(nPlusOne.TrueLen())
	nHalf := new(saferith.Nat).Rsh(nNat, 1, -1)

	pMinus1 := new(saferith.Nat).Sub(P, oneNat, -1)
	qMinus1 := new(saferith.Nat).Sub(Q, oneNat, -1)
	// λ = lcm(p-1, q-1)
	lambdaBig := arith.Lcm(pMinus1.Big(), qMinus1.Big())
	lambda := new(saferith.Nat).SetBig(lambdaBig, lambdaBig.BitLen())

	pSquared := pMinus1.Mul(P, P, -1)
	qSquared := qMinus1.Mul(Q, Q, -1)
	nSquared := arith.ModulusFromFactors(pSquared, qSquared)

	// μ = L((N+1)^λ mod N²)⁻¹ mod N, with L(u) = (u-1)/N
	u := nSquared.Exp(nPlusOne, lambda)
	u.Sub(u, oneNat, -1)
	u.Div(u, n.Modulus, -1)
	if u.IsUnit(n.Modulus) != 1 {
		return nil, ErrNoMu
	}
	mu := new(saferith.Nat).ModInverse(u, n.Modulus)

	return &SecretKey{
		PublicKey: &PublicKey{
			n:        n,
			nSquared: nSquared,
			nNat:     nNat,
			nPlusOne: nPlusOne,
			nHalf:    nHalf,
			bits:     n.BitLen(),
		},
		p:      P,
		q:      Q,
		lambda: lambda,
		mu:     mu,
	}, nil
}

// NewSecretKeyFromN rebuilds a SecretKey from the modulus N and the
// decryption pair λ, μ, without the prime factorization. The key decrypts
// as usual, but exponentiations lose the CRT shortcut.
func NewSecretKeyFromN(n, lambda, mu *saferith.Nat) (*SecretKey, error) {
	if err := ValidateN(n); err != nil {
		return nil, err
	}
	if lambda == nil || mu == nil {
		return nil, ErrNilOperand
	}
	pk := NewPublicKey(n)

	// μ must invert L((N+1)^λ mod N²) modulo N
	oneNat := new(saferith.Nat).SetUint64(1)
	u := pk.nSquared.Exp(pk.nPlusOne, lambda)
	u.Sub(u, oneNat, -1)
	u.Div(u, pk.n.Modulus, -1)
	u.ModMul(u, mu, pk.n.Modulus)
	if u.Eq(oneNat) != 1 {
		return nil, ErrWrongMu
	}

	return &SecretKey{
		PublicKey: pk,
		lambda:    lambda,
		mu:        mu,
	}, nil
}

// Dec decrypts ct and returns the plaintext m ∈ ±⌊N/2⌋.
//
// m = L(ct^λ mod N²)·μ (mod N), with residues at or above ⌊N/2⌋ mapped back
// to negative values.
//
// It returns an error if gcd(ct, N²) != 1 or if ct is not in [1, N²-1].
func (sk *SecretKey) Dec(ct *Ciphertext) (*saferith.Int, error) {
	if err := sk.PublicKey.ValidateCiphertexts(ct); err != nil {
		return nil, err
	}
	oneNat := new(saferith.Nat).SetUint64(1)
	n := sk.PublicKey.n.Modulus

	// result = ct^λ (mod N²)
	result := sk.PublicKey.nSquared.Exp(ct.c, sk.lambda)
	// result = ct^λ - 1
	result.Sub(result, oneNat, -1)
	// result = [(ct^λ - 1)/N]
	result.Div(result, n, -1)
	// result = [(ct^λ - 1)/N] • μ (mod N)
	result.ModMul(result, sk.mu, n)

	// map the residue back onto ±⌊N/2⌋
	gt, eq, _ := result.Cmp(sk.PublicKey.nHalf)
	isNeg := gt | eq
	negated := new(saferith.Nat).ModNeg(result, n)
	result.CondAssign(isNeg, negated)
	return new(saferith.Int).SetNat(result).Neg(isNeg), nil
}

// DecWithNonce returns the plaintext of ct, as well as the nonce it was
// encrypted with.
func (sk *SecretKey) DecWithNonce(ct *Ciphertext) (*saferith.Int, *saferith.Nat, error) {
	m, err := sk.Dec(ct)
	if err != nil {
		return nil, nil, err
	}
	mNeg := new(saferith.Int).SetInt(m).Neg(1)

	// x = ct·(N+1)⁻ᵐ (mod N)
	x := sk.n.ExpI(sk.nPlusOne, mNeg)
	x.ModMul(x, ct.c, sk.n.Modulus)

	// nonce = x^(N⁻¹ mod λ) (mod N)
	nInverse := new(saferith.Nat).ModInverse(sk.nNat, saferith.ModulusFromNat(sk.lambda))
	nonce := sk.n.Exp(x, nInverse)
	return m, nonce, nil
}

// ValidatePrime checks whether p is a suitable prime factor for a Paillier key.
func ValidatePrime(p *saferith.Nat) error {
	if p == nil {
		return ErrPrimeNil
	}
	if !p.Big().ProbablyPrime(params.PrimalityIterations) {
		return ErrNotPrime
	}
	return nil
}
