// A small demonstration of counting on encrypted data: every voter casts an
// encrypted +1 or -1 ballot, the ballots are summed without ever being
// decrypted, and only the key holder opens the final count.
package main

import (
	"fmt"
	mrand "math/rand"

	"github.com/cronokirby/saferith"

	"github.com/statmix/paillier/pkg/paillier"
	"github.com/statmix/paillier/pkg/pool"
)

func main() {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	cs, err := paillier.Generate(nil, pl, 1024)
	if err != nil {
		panic(err)
	}
	fmt.Println(cs)

	// the counting authority only ever sees the public key
	counter, err := paillier.FromPublicKey(nil, cs.PublicKey())
	if err != nil {
		panic(err)
	}

	votes := make([]int, 100)
	expected := 0
	for i := range votes {
		votes[i] = 1
		if mrand.Intn(2) == 0 {
			votes[i] = -1
		}
		expected += votes[i]
	}

	// every voter encrypts their own ballot, on the shared worker pool here
	ballots := pl.Parallelize(len(votes), func(i int) interface{} {
		vote := new(saferith.Int).SetUint64(1)
		if votes[i] < 0 {
			vote.Neg(1)
		}
		ballot, err := counter.Encrypt(vote)
		if err != nil {
			panic(err)
		}
		return ballot
	})

	tally := ballots[0].(*paillier.Ciphertext)
	for _, b := range ballots[1:] {
		if tally, err = counter.Add(tally, b.(*paillier.Ciphertext)); err != nil {
			panic(err)
		}
	}

	result, err := cs.Decrypt(tally)
	if err != nil {
		panic(err)
	}
	fmt.Printf("expected %d, decrypted %s\n", expected, format(result))
}

func format(m *saferith.Int) string {
	out := m.Abs().Big()
	if m.IsNegative() == 1 {
		out.Neg(out)
	}
	return out.String()
}
