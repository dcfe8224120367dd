package paillier_test

import (
	"fmt"

	"github.com/cronokirby/saferith"

	"github.com/statmix/paillier/pkg/paillier"
)

// Encrypt two values, add the ciphertexts, and decrypt the sum.
func Example() {
	cs, err := paillier.Generate(nil, nil, 256)
	if err != nil {
		panic(err)
	}

	ct5, err := cs.Encrypt(new(saferith.Int).SetUint64(5))
	if err != nil {
		panic(err)
	}
	ct7, err := cs.Encrypt(new(saferith.Int).SetUint64(7))
	if err != nil {
		panic(err)
	}

	sum, err := cs.Add(ct5, ct7)
	if err != nil {
		panic(err)
	}
	m, err := cs.Decrypt(sum)
	if err != nil {
		panic(err)
	}
	fmt.Println(m.Abs().Big())
	// Output: 12
}
