package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/hadcoin/ledger/foundation/blockchain/digest"
	"github.com/hadcoin/ledger/foundation/blockchain/pow"
)

// Genesis values used to seed every chain.
const (
	GenesisProof        int64 = 1
	GenesisPreviousHash       = "0"
)

// ErrEmptyChain is returned when a chain with no blocks is validated.
var ErrEmptyChain = errors.New("chain has no blocks")

// =============================================================================

// Block represents a group of transactions linked to the block before it.
// Fields are declared in lexicographic key order so the JSON form used for
// hashing is canonical.
type Block struct {
	Index        uint64 `json:"index"`         // Position in the chain starting at 1.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block, "0" for genesis.
	Proof        int64  `json:"proof"`         // Solves the puzzle against the previous block's proof.
	Timestamp    string `json:"timestamp"`     // RFC3339 time the block was created.
	Transactions []Tx   `json:"transactions"`  // Transactions drained from the mempool.
}

// NewBlock constructs a block stamped with the current time.
func NewBlock(index uint64, proof int64, previousHash string, trans []Tx) Block {
	if trans == nil {
		trans = []Tx{}
	}

	return Block{
		Index:        index,
		PreviousHash: previousHash,
		Proof:        proof,
		Timestamp:    time.Now().UTC().Format(time.RFC3339Nano),
		Transactions: trans,
	}
}

// Hash returns the unique hash for the block.
func (b Block) Hash() string {
	return digest.Hash(b)
}

// ValidateBlock checks the block correctly extends the previous block.
func (b Block) ValidateBlock(previousBlock Block) error {
	if hash := previousBlock.Hash(); b.PreviousHash != hash {
		return fmt.Errorf("block %d: previous hash doesn't match parent, got %s, exp %s", b.Index, b.PreviousHash, hash)
	}

	if !pow.IsValid(b.Proof, previousBlock.Proof) {
		return fmt.Errorf("block %d: proof %d does not solve the puzzle for parent proof %d", b.Index, b.Proof, previousBlock.Proof)
	}

	return nil
}

// clone returns a copy that shares no memory with the original.
func (b Block) clone() Block {
	trans := make([]Tx, len(b.Transactions))
	copy(trans, b.Transactions)
	b.Transactions = trans

	return b
}

// =============================================================================

// ValidateChain walks the chain from the second block on and checks each
// block against the one before it. The first failure is returned.
func ValidateChain(blocks []Block) error {
	if len(blocks) == 0 {
		return ErrEmptyChain
	}

	previousBlock := blocks[0]
	for _, block := range blocks[1:] {
		if err := block.ValidateBlock(previousBlock); err != nil {
			return err
		}
		previousBlock = block
	}

	return nil
}

// IsChainValid reports whether the chain passes validation.
func IsChainValid(blocks []Block) bool {
	return ValidateChain(blocks) == nil
}
