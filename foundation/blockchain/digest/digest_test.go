package digest_test

import (
	"testing"

	"github.com/hadcoin/ledger/foundation/blockchain/digest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Hash(t *testing.T) {
	type value struct {
		A string `json:"a"`
		B int    `json:"b"`
	}

	t.Log("Given the need to produce stable digests.")
	{
		t.Logf("\tTest 0:\tWhen hashing equal values.")
		{
			h1 := digest.Hash(value{A: "x", B: 1})
			h2 := digest.Hash(value{A: "x", B: 1})
			if h1 != h2 {
				t.Fatalf("\t%s\tTest 0:\tShould get the same digest: %s != %s", failed, h1, h2)
			}
			t.Logf("\t%s\tTest 0:\tShould get the same digest.", success)

			if len(h1) != digest.Size {
				t.Fatalf("\t%s\tTest 0:\tShould get a %d character digest, got %d.", failed, digest.Size, len(h1))
			}
			t.Logf("\t%s\tTest 0:\tShould get a %d character digest.", success, digest.Size)
		}

		t.Logf("\tTest 1:\tWhen hashing different values.")
		{
			h1 := digest.Hash(value{A: "x", B: 1})
			h2 := digest.Hash(value{A: "x", B: 2})
			if h1 == h2 {
				t.Fatalf("\t%s\tTest 1:\tShould get different digests.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould get different digests.", success)
		}

		t.Logf("\tTest 2:\tWhen hashing maps built in a different order.")
		{
			m1 := map[string]int{"b": 2, "a": 1}
			m2 := map[string]int{"a": 1, "b": 2}
			if digest.Hash(m1) != digest.Hash(m2) {
				t.Fatalf("\t%s\tTest 2:\tShould get the same digest.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould get the same digest.", success)
		}
	}
}

func Test_Sum(t *testing.T) {
	const exp = "0000c00870f23a23ae80377298491b091db400d575be0efbde5b310f2f763ed1"

	got := digest.Sum([]byte("284088"))
	if got != exp {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should get the known sha256 digest.")
	}
}
