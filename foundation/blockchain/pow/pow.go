// Package pow implements the proof of work puzzle used to rate limit the
// creation of new blocks.
package pow

import (
	"context"
	"math/big"
	"strings"

	"github.com/hadcoin/ledger/foundation/blockchain/digest"
)

// Difficulty is the number of leading zero hex characters a puzzle digest
// must have to be considered solved.
const Difficulty = 4

// checkEvery is how many candidates are tried between checks for a
// cancelled context.
const checkEvery = 10_000

var prefix = strings.Repeat("0", Difficulty)

// EventHandler defines a function that is called to report on the
// progress of a search.
type EventHandler func(v string, args ...any)

// Puzzle returns the digest for the candidate relative to the previous
// proof. The digest is taken over the decimal string of
// candidate^2 - previous^2, computed without overflow.
func Puzzle(candidate int64, previous int64) string {
	c := big.NewInt(candidate)
	c.Mul(c, c)

	p := big.NewInt(previous)
	p.Mul(p, p)

	return digest.Sum([]byte(c.Sub(c, p).String()))
}

// IsValid reports whether the candidate solves the puzzle relative to
// the previous proof.
func IsValid(candidate int64, previous int64) bool {
	return isSolved(Puzzle(candidate, previous))
}

// Search finds the smallest positive proof that solves the puzzle relative
// to the previous proof. The search starts at 1 and moves up by 1 so the
// result is the same for every caller with the same previous proof. The
// search can be cancelled through the context.
func Search(ctx context.Context, previous int64, ev EventHandler) (int64, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("pow: Search: started: prevProof[%d]", previous)
	defer ev("pow: Search: completed: prevProof[%d]", previous)

	// The squares are updated incrementally so each attempt only costs
	// a couple of additions and one hash.
	prevSq := new(big.Int).Mul(big.NewInt(previous), big.NewInt(previous))
	candSq := big.NewInt(1)
	step := big.NewInt(3)
	two := big.NewInt(2)
	diff := new(big.Int)

	for candidate := int64(1); ; candidate++ {
		if candidate%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				ev("pow: Search: CANCELLED: attempts[%d]", candidate)
				return 0, err
			}
		}

		diff.Sub(candSq, prevSq)
		if isSolved(digest.Sum([]byte(diff.String()))) {
			ev("pow: Search: SOLVED: proof[%d]", candidate)
			return candidate, nil
		}

		// (n+1)^2 = n^2 + 2n + 1
		candSq.Add(candSq, step)
		step.Add(step, two)
	}
}

// isSolved checks the digest has the required number of leading zeros.
func isSolved(hash string) bool {
	if len(hash) != digest.Size {
		return false
	}

	return hash[:Difficulty] == prefix
}
