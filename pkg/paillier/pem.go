package paillier

import (
	"encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
)

const (
	pemTypePublicKey = "PAILLIER PUBLIC KEY"
	pemTypeSecretKey = "PAILLIER PRIVATE KEY"
)

type publicKeyASN struct {
	N []byte
}

type secretKeyASN struct {
	N      []byte
	Lambda []byte
	Mu     []byte
	P      []byte `asn1:"optional,omitempty"`
	Q      []byte `asn1:"optional,omitempty"`
}

// EncodePEM encodes the public key as an ASN.1 structure wrapped in a
// "PAILLIER PUBLIC KEY" PEM block.
func (pk *PublicKey) EncodePEM() ([]byte, error) {
	der, err := asn1.Marshal(publicKeyASN{N: pk.nNat.Bytes()})
	if err != nil {
		return nil, fmt.Errorf("paillier: public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der}), nil
}

// EncodePEM encodes the secret key as an ASN.1 structure wrapped in a
// "PAILLIER PRIVATE KEY" PEM block. The prime factors are included when the
// key holds them.
func (sk *SecretKey) EncodePEM() ([]byte, error) {
	encoded := secretKeyASN{
		N:      sk.nNat.Bytes(),
		Lambda: sk.lambda.Bytes(),
		Mu:     sk.mu.Bytes(),
	}
	if sk.p != nil && sk.q != nil {
		encoded.P = sk.p.Bytes()
		encoded.Q = sk.q.Bytes()
	}
	der, err := asn1.Marshal(encoded)
	if err != nil {
		return nil, fmt.Errorf("paillier: secret key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypeSecretKey, Bytes: der}), nil
}

// DecodePublicKeyPEM decodes the first PEM block in data as a public key.
func DecodePublicKeyPEM(data []byte) (*PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("paillier: no PEM block found")
	}
	if block.Type != pemTypePublicKey {
		return nil, fmt.Errorf("paillier: unexpected PEM type %q", block.Type)
	}
	decoded := publicKeyASN{}
	rest, err := asn1.Unmarshal(block.Bytes, &decoded)
	if err != nil {
		return nil, fmt.Errorf("paillier: public key: %w", err)
	}
	if len(rest) != 0 {
		return nil, errors.New("paillier: public key: trailing data after ASN.1 structure")
	}
	n := new(saferith.Nat).SetBytes(decoded.N)
	if err := ValidateN(n); err != nil {
		return nil, fmt.Errorf("paillier: public key: %w", err)
	}
	return NewPublicKey(n), nil
}

// DecodeSecretKeyPEM decodes the first PEM block in data as a secret key,
// applying the same checks as UnmarshalBinary.
func DecodeSecretKeyPEM(data []byte) (*SecretKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("paillier: no PEM block found")
	}
	if block.Type != pemTypeSecretKey {
		return nil, fmt.Errorf("paillier: unexpected PEM type %q", block.Type)
	}
	decoded := secretKeyASN{}
	rest, err := asn1.Unmarshal(block.Bytes, &decoded)
	if err != nil {
		return nil, fmt.Errorf("paillier: secret key: %w", err)
	}
	if len(rest) != 0 {
		return nil, errors.New("paillier: secret key: trailing data after ASN.1 structure")
	}
	toNat := func(b []byte) *saferith.Nat {
		if len(b) == 0 {
			return nil
		}
		return new(saferith.Nat).SetBytes(b)
	}
	sk, err := rebuildSecretKey(toNat(decoded.N), toNat(decoded.Lambda), toNat(decoded.Mu), toNat(decoded.P), toNat(decoded.Q))
	if err != nil {
		return nil, fmt.Errorf("paillier: secret key: %w", err)
	}
	return sk, nil
}
