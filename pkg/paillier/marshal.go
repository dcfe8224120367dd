package paillier

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
)

var _ encoding.BinaryMarshaler = (*PublicKey)(nil)
var _ encoding.BinaryUnmarshaler = (*PublicKey)(nil)
var _ encoding.BinaryMarshaler = (*SecretKey)(nil)
var _ encoding.BinaryUnmarshaler = (*SecretKey)(nil)
var _ json.Marshaler = (*PublicKey)(nil)
var _ json.Unmarshaler = (*PublicKey)(nil)
var _ json.Marshaler = (*SecretKey)(nil)
var _ json.Unmarshaler = (*SecretKey)(nil)

type publicKeyMarshal struct {
	N *saferith.Modulus
}

type secretKeyMarshal struct {
	N      *saferith.Modulus
	Lambda *saferith.Nat
	Mu     *saferith.Nat
	P      *saferith.Nat
	Q      *saferith.Nat
}

// MarshalBinary encodes the public key as CBOR.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(publicKeyMarshal{N: pk.n.Modulus})
}

// UnmarshalBinary decodes a CBOR public key, rejecting moduli that could not
// have been produced by key generation.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	deserialized := publicKeyMarshal{}
	if err := cbor.Unmarshal(data, &deserialized); err != nil {
		return fmt.Errorf("paillier: public key: %w", err)
	}
	if deserialized.N == nil {
		return fmt.Errorf("paillier: public key: %w", ErrModulusNil)
	}
	n := deserialized.N.Nat()
	if err := ValidateN(n); err != nil {
		return fmt.Errorf("paillier: public key: %w", err)
	}
	*pk = *NewPublicKey(n)
	return nil
}

// MarshalBinary encodes the secret key as CBOR, including the prime factors
// when the key holds them.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(secretKeyMarshal{
		N:      sk.n.Modulus,
		Lambda: sk.lambda,
		Mu:     sk.mu,
		P:      sk.p,
		Q:      sk.q,
	})
}

// UnmarshalBinary decodes a CBOR secret key. When the encoding carries the
// prime factors, the key is rebuilt from them and every stored field is
// checked against the recomputed one; otherwise the decryption pair itself
// is verified against the modulus.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	deserialized := secretKeyMarshal{}
	if err := cbor.Unmarshal(data, &deserialized); err != nil {
		return fmt.Errorf("paillier: secret key: %w", err)
	}
	var nNat *saferith.Nat
	if deserialized.N != nil {
		nNat = deserialized.N.Nat()
	}
	rebuilt, err := rebuildSecretKey(nNat, deserialized.Lambda, deserialized.Mu, deserialized.P, deserialized.Q)
	if err != nil {
		return fmt.Errorf("paillier: secret key: %w", err)
	}
	*sk = *rebuilt
	return nil
}

// rebuildSecretKey reconstructs a secret key from stored fields. Derived
// values are always recomputed; the stored copies only serve as a
// consistency check.
func rebuildSecretKey(nNat, lambda, mu, p, q *saferith.Nat) (*SecretKey, error) {
	if p == nil && q == nil {
		if nNat == nil {
			return nil, ErrModulusNil
		}
		return NewSecretKeyFromN(nNat, lambda, mu)
	}
	if err := ValidatePrime(p); err != nil {
		return nil, fmt.Errorf("prime P: %w", err)
	}
	if err := ValidatePrime(q); err != nil {
		return nil, fmt.Errorf("prime Q: %w", err)
	}
	sk, err := NewSecretKeyFromPrimes(p, q)
	if err != nil {
		return nil, err
	}
	if nNat != nil && sk.nNat.Eq(nNat) != 1 {
		return nil, ErrWrongFactors
	}
	if lambda != nil && sk.lambda.Eq(lambda) != 1 {
		return nil, errors.New("stored lambda disagrees with the factors")
	}
	if mu != nil && sk.mu.Eq(mu) != 1 {
		return nil, errors.New("stored mu disagrees with the factors")
	}
	return sk, nil
}

type jsonPublicKey struct {
	N string `json:"n"`
}

type jsonSecretKey struct {
	N      string `json:"n"`
	Lambda string `json:"lambda"`
	Mu     string `json:"mu"`
	P      string `json:"p,omitempty"`
	Q      string `json:"q,omitempty"`
}

// MarshalJSON encodes the public key with the modulus as a decimal string.
func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPublicKey{N: pk.nNat.Big().String()})
}

// UnmarshalJSON decodes a JSON public key, applying the same checks as
// UnmarshalBinary.
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	deserialized := jsonPublicKey{}
	if err := json.Unmarshal(data, &deserialized); err != nil {
		return fmt.Errorf("paillier: public key: %w", err)
	}
	n, err := natFromDecimal(deserialized.N)
	if err != nil {
		return fmt.Errorf("paillier: public key: %w", err)
	}
	if err := ValidateN(n); err != nil {
		return fmt.Errorf("paillier: public key: %w", err)
	}
	*pk = *NewPublicKey(n)
	return nil
}

// MarshalJSON encodes the secret key with all fields as decimal strings,
// omitting the primes when the key does not hold them.
func (sk SecretKey) MarshalJSON() ([]byte, error) {
	out := jsonSecretKey{
		N:      sk.nNat.Big().String(),
		Lambda: sk.lambda.Big().String(),
		Mu:     sk.mu.Big().String(),
	}
	if sk.p != nil && sk.q != nil {
		out.P = sk.p.Big().String()
		out.Q = sk.q.Big().String()
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a JSON secret key, applying the same checks as
// UnmarshalBinary.
func (sk *SecretKey) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	deserialized := jsonSecretKey{}
	if err := json.Unmarshal(data, &deserialized); err != nil {
		return fmt.Errorf("paillier: secret key: %w", err)
	}
	fields := [5]*saferith.Nat{}
	for i, s := range [5]string{deserialized.N, deserialized.Lambda, deserialized.Mu, deserialized.P, deserialized.Q} {
		nat, err := natFromDecimal(s)
		if err != nil {
			return fmt.Errorf("paillier: secret key: %w", err)
		}
		fields[i] = nat
	}
	rebuilt, err := rebuildSecretKey(fields[0], fields[1], fields[2], fields[3], fields[4])
	if err != nil {
		return fmt.Errorf("paillier: secret key: %w", err)
	}
	*sk = *rebuilt
	return nil
}

// natFromDecimal parses a non-negative decimal string, mapping "" to nil.
func natFromDecimal(s string) (*saferith.Nat, error) {
	if s == "" {
		return nil, nil
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal value %q", s)
	}
	if b.Sign() < 0 {
		return nil, fmt.Errorf("negative value %q", s)
	}
	return new(saferith.Nat).SetBig(b, b.BitLen()), nil
}
