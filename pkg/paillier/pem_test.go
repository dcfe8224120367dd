package paillier

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKey_PEM(t *testing.T) {
	data, err := paillierPublic.EncodePEM()
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN PAILLIER PUBLIC KEY")

	pk2, err := DecodePublicKeyPEM(data)
	require.NoError(t, err)
	assert.True(t, paillierPublic.Equal(pk2), "different pk after decode")
}

func TestSecretKey_PEM(t *testing.T) {
	data, err := paillierSecret.EncodePEM()
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN PAILLIER PRIVATE KEY")

	sk2, err := DecodeSecretKeyPEM(data)
	require.NoError(t, err)
	require.NotNil(t, sk2.P())
	require.NotNil(t, sk2.Q())
	assert.True(t, paillierPublic.Equal(sk2.PublicKey), "different pk after decode")

	m := new(saferith.Int).SetUint64(271828)
	ct, _, err := paillierPublic.Enc(rand.Reader, m)
	require.NoError(t, err)
	dec, err := sk2.Dec(ct)
	require.NoError(t, err)
	require.Equal(t, 0, intToBig(dec).Cmp(big.NewInt(271828)))
}

func TestSecretKey_PEMNoFactors(t *testing.T) {
	sk, err := NewSecretKeyFromN(paillierSecret.nNat, paillierSecret.lambda, paillierSecret.mu)
	require.NoError(t, err)

	data, err := sk.EncodePEM()
	require.NoError(t, err)

	sk2, err := DecodeSecretKeyPEM(data)
	require.NoError(t, err)
	require.Nil(t, sk2.P())
	require.Nil(t, sk2.Q())
	assert.Equal(t, saferith.Choice(1), sk.lambda.Eq(sk2.lambda))
}

func TestDecodePEMInvalid(t *testing.T) {
	_, err := DecodePublicKeyPEM([]byte("garbage"))
	assert.ErrorContains(t, err, "no PEM block")

	secretData, err := paillierSecret.EncodePEM()
	require.NoError(t, err)
	_, err = DecodePublicKeyPEM(secretData)
	assert.ErrorContains(t, err, "unexpected PEM type")

	publicData, err := paillierPublic.EncodePEM()
	require.NoError(t, err)
	_, err = DecodeSecretKeyPEM(publicData)
	assert.ErrorContains(t, err, "unexpected PEM type")
}
