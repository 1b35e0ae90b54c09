// Package digest provides the hashing support used to link blocks together
// and to evaluate the proof of work puzzle.
package digest

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// Size is the number of hex characters in a digest string.
const Size = sha256.Size * 2

// Hash returns the hex encoded sha256 digest for the value. The value is
// serialized as JSON first. Struct fields are written in declaration order
// and map keys are sorted, so callers that need a canonical form declare
// their fields in lexicographic key order.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {

		// Every type hashed by the ledger is plain data. A value that
		// can't be marshaled is a programming error.
		panic("digest: unable to marshal value: " + err.Error())
	}

	return Sum(data)
}

// Sum returns the hex encoded sha256 digest for the raw bytes.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}
