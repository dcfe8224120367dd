package paillier

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/statmix/paillier/internal/test"
	"github.com/statmix/paillier/pkg/pool"
)

var (
	paillierPublic *PublicKey
	paillierSecret *SecretKey
)

func init() {
	var err error
	paillierSecret, err = NewSecretKeyFromPrimes(test.PaillierPrimes())
	if err != nil {
		panic(err)
	}
	paillierPublic = paillierSecret.PublicKey
}

func TestKeyGenBitSize(t *testing.T) {
	tests := []struct {
		bits int
		want error
	}{
		{4, ErrBitSizeTooSmall},
		{7, ErrBitSizeOdd},
		{9, ErrBitSizeOdd},
		{9000, ErrBitSizeTooLarge},
	}
	for _, tc := range tests {
		_, _, err := KeyGen(rand.Reader, nil, tc.bits)
		require.ErrorIs(t, err, tc.want, "bit size %d", tc.bits)
	}
}

func TestKeyGenExactSize(t *testing.T) {
	for _, bits := range []int{8, 16, 64} {
		pk, sk, err := KeyGen(rand.Reader, nil, bits)
		require.NoError(t, err)
		require.Equal(t, bits, pk.BitSize(), "modulus should have exactly %d bits", bits)
		require.Equal(t, bits, sk.nNat.Big().BitLen())
	}
}

func TestNewSecretKeyFromPrimesEqual(t *testing.T) {
	p, _ := test.PaillierPrimes()
	_, err := NewSecretKeyFromPrimes(p, p)
	require.ErrorIs(t, err, ErrPrimesEqual)
}

func TestEncProbabilistic(t *testing.T) {
	m := new(saferith.Int).SetUint64(42)
	ct1, _, err := paillierPublic.Enc(rand.Reader, m)
	require.NoError(t, err)
	ct2, _, err := paillierPublic.Enc(rand.Reader, m)
	require.NoError(t, err)
	assert.False(t, ct1.Equal(ct2), "fresh encryptions should differ")

	nonce := paillierPublic.Nonce(rand.Reader)
	ct3, err := paillierPublic.EncWithNonce(m, nonce)
	require.NoError(t, err)
	ct4, err := paillierPublic.EncWithNonce(m, nonce)
	require.NoError(t, err)
	assert.True(t, ct3.Equal(ct4), "same nonce should give the same ciphertext")
}

func TestEncDeterministicSource(t *testing.T) {
	m := new(saferith.Int).SetUint64(7)
	ct1, nonce1, err := paillierPublic.Enc(test.Rand("seed"), m)
	require.NoError(t, err)
	ct2, nonce2, err := paillierPublic.Enc(test.Rand("seed"), m)
	require.NoError(t, err)
	assert.Equal(t, saferith.Choice(1), nonce1.Eq(nonce2))
	assert.True(t, ct1.Equal(ct2))
}

func TestEncMessageTooLarge(t *testing.T) {
	halfN := new(saferith.Int).SetNat(paillierPublic.nHalf)
	_, _, err := paillierPublic.Enc(rand.Reader, halfN)
	require.Error(t, err, "encrypting ⌊N/2⌋ should fail")
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, ClassZN, domainErr.Class)

	// one below the bound is still fine
	oneNat := new(saferith.Nat).SetUint64(1)
	edge := new(saferith.Int).SetNat(new(saferith.Nat).Sub(paillierPublic.nHalf, oneNat, -1))
	_, _, err = paillierPublic.Enc(rand.Reader, edge)
	require.NoError(t, err)

	// and so is its negation
	_, _, err = paillierPublic.Enc(rand.Reader, edge.Neg(1))
	require.NoError(t, err)
}

func TestDecWithNonce(t *testing.T) {
	m := new(saferith.Int).SetUint64(99).Neg(1)
	nonce := paillierPublic.Nonce(rand.Reader)
	ct, err := paillierPublic.EncWithNonce(m, nonce)
	require.NoError(t, err)

	dec, gotNonce, err := paillierSecret.DecWithNonce(ct)
	require.NoError(t, err)
	require.Equal(t, 0, intToBig(dec).Cmp(big.NewInt(-99)))
	assert.Equal(t, saferith.Choice(1), gotNonce.Eq(nonce), "recovered nonce should match")
}

func TestSecretKeyFromN(t *testing.T) {
	sk, err := NewSecretKeyFromN(paillierSecret.nNat, paillierSecret.lambda, paillierSecret.mu)
	require.NoError(t, err)
	require.Nil(t, sk.P())
	require.Nil(t, sk.Q())

	m := new(saferith.Int).SetUint64(31337)
	ct, _, err := sk.Enc(rand.Reader, m)
	require.NoError(t, err)
	dec, err := sk.Dec(ct)
	require.NoError(t, err)
	require.Equal(t, 0, intToBig(dec).Cmp(big.NewInt(31337)))

	oneNat := new(saferith.Nat).SetUint64(1)
	badMu := new(saferith.Nat).ModAdd(paillierSecret.mu, oneNat, paillierSecret.n.Modulus)
	_, err = NewSecretKeyFromN(paillierSecret.nNat, paillierSecret.lambda, badMu)
	require.ErrorIs(t, err, ErrWrongMu)
}

func TestCryptosystem64(t *testing.T) {
	cs, err := Generate(rand.Reader, nil, 64)
	require.NoError(t, err)
	require.Equal(t, 64, cs.BitSize())
	require.True(t, cs.CanDecrypt())

	five := new(saferith.Int).SetUint64(5)
	seven := new(saferith.Int).SetUint64(7)
	three := new(saferith.Int).SetUint64(3)
	minusThree := new(saferith.Int).SetUint64(3).Neg(1)

	ctFive, err := cs.Encrypt(five)
	require.NoError(t, err)
	dec, err := cs.Decrypt(ctFive)
	require.NoError(t, err)
	require.Equal(t, 0, intToBig(dec).Cmp(big.NewInt(5)))

	ctMinusThree, err := cs.Encrypt(minusThree)
	require.NoError(t, err)
	dec, err = cs.Decrypt(ctMinusThree)
	require.NoError(t, err)
	require.Equal(t, 0, intToBig(dec).Cmp(big.NewInt(-3)))

	ctSeven, err := cs.Encrypt(seven)
	require.NoError(t, err)
	sum, err := cs.Add(ctFive, ctSeven)
	require.NoError(t, err)
	dec, err = cs.Decrypt(sum)
	require.NoError(t, err)
	require.Equal(t, 0, intToBig(dec).Cmp(big.NewInt(12)))

	prod, err := cs.Mul(ctFive, three)
	require.NoError(t, err)
	dec, err = cs.Decrypt(prod)
	require.NoError(t, err)
	require.Equal(t, 0, intToBig(dec).Cmp(big.NewInt(15)))
}

func TestCryptosystemEncryptOnly(t *testing.T) {
	cs, err := FromPublicKey(rand.Reader, paillierPublic)
	require.NoError(t, err)
	require.False(t, cs.CanDecrypt())
	_, ok := cs.SecretKey()
	require.False(t, ok)

	m := new(saferith.Int).SetUint64(17)
	ct, err := cs.Encrypt(m)
	require.NoError(t, err)

	_, err = cs.Decrypt(ct)
	require.ErrorIs(t, err, ErrCannotDecrypt)

	full, err := FromSecretKey(rand.Reader, paillierSecret)
	require.NoError(t, err)
	dec, err := full.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, 0, intToBig(dec).Cmp(big.NewInt(17)))
}

func TestCryptosystemNilKeys(t *testing.T) {
	_, err := FromPublicKey(rand.Reader, nil)
	require.ErrorIs(t, err, ErrKeyNil)
	_, err = FromSecretKey(rand.Reader, nil)
	require.ErrorIs(t, err, ErrKeyNil)
}

func TestCryptosystemRandomize(t *testing.T) {
	cs, err := FromSecretKey(rand.Reader, paillierSecret)
	require.NoError(t, err)

	m := new(saferith.Int).SetUint64(1234)
	ct, err := cs.Encrypt(m)
	require.NoError(t, err)

	randomized, err := cs.Randomize(ct)
	require.NoError(t, err)
	assert.False(t, ct.Equal(randomized), "rerandomization should change the ciphertext")

	dec, err := cs.Decrypt(randomized)
	require.NoError(t, err)
	require.Equal(t, 0, intToBig(dec).Cmp(big.NewInt(1234)))
}

func TestGenerateWithPool(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	cs, err := Generate(rand.Reader, pl, 128)
	require.NoError(t, err)
	require.Equal(t, 128, cs.BitSize())

	m := new(saferith.Int).SetUint64(8)
	ct, err := cs.Encrypt(m)
	require.NoError(t, err)
	dec, err := cs.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, 0, intToBig(dec).Cmp(big.NewInt(8)))
}

func TestConcurrentUse(t *testing.T) {
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		i := i
		g.Go(func() error {
			m := new(saferith.Int).SetUint64(uint64(i))
			ct, _, err := paillierPublic.Enc(rand.Reader, m)
			if err != nil {
				return err
			}
			dec, err := paillierSecret.Dec(ct)
			if err != nil {
				return err
			}
			if intToBig(dec).Cmp(big.NewInt(int64(i))) != 0 {
				return fmt.Errorf("got %v, want %d", intToBig(dec), i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestDescribe(t *testing.T) {
	cs, err := FromSecretKey(rand.Reader, paillierSecret)
	require.NoError(t, err)
	desc := cs.Describe()
	assert.Contains(t, desc, "Paillier-150 cryptosystem")
	assert.Contains(t, desc, "modulus N")
	assert.Contains(t, desc, "fingerprint")
	assert.Contains(t, desc, "lambda")

	encOnly, err := FromPublicKey(rand.Reader, paillierPublic)
	require.NoError(t, err)
	desc = encOnly.Describe()
	assert.Contains(t, desc, "(encrypt-only)")
	assert.NotContains(t, desc, "lambda")
}

func BenchmarkEnc(b *testing.B) {
	b.StopTimer()
	m := new(saferith.Int).SetUint64(513)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = paillierPublic.Enc(rand.Reader, m)
	}
}

func BenchmarkDec(b *testing.B) {
	b.StopTimer()
	m := new(saferith.Int).SetUint64(513)
	ct, _, _ := paillierPublic.Enc(rand.Reader, m)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_, _ = paillierSecret.Dec(ct)
	}
}
