// Package database handles all the lower level support for maintaining the
// blockchain in memory.
package database

import (
	"fmt"
	"sync"
)

// EventHandler defines a function that is called when events
// occur in the processing of the chain.
type EventHandler func(v string, args ...any)

// Database manages the ordered set of blocks. Blocks are only ever added
// to the end of the chain or the chain is replaced as a whole.
type Database struct {
	mu        sync.RWMutex
	blocks    []Block
	evHandler EventHandler
}

// New constructs a new database seeded with the genesis block.
func New(evHandler EventHandler) *Database {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	db := Database{
		evHandler: ev,
	}

	genesis := db.Append(GenesisProof, GenesisPreviousHash, nil)
	ev("database: New: genesis: hash[%s]", genesis.Hash())

	return &db
}

// Append constructs the next block in the chain and adds it to the end.
func (db *Database) Append(proof int64, previousHash string, trans []Tx) Block {
	db.mu.Lock()
	defer db.mu.Unlock()

	block := NewBlock(uint64(len(db.blocks))+1, proof, previousHash, trans)
	db.blocks = append(db.blocks, block)

	db.evHandler("database: Append: blk[%d]: proof[%d]: trans[%d]", block.Index, block.Proof, len(block.Transactions))

	return block.clone()
}

// Replace swaps the current chain for the specified chain. The new chain
// must be longer than the current one.
func (db *Database) Replace(blocks []Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(blocks) <= len(db.blocks) {
		return fmt.Errorf("replacement chain is not longer, got %d, have %d", len(blocks), len(db.blocks))
	}

	chain := make([]Block, len(blocks))
	for i, block := range blocks {
		chain[i] = block.clone()
	}
	db.blocks = chain

	db.evHandler("database: Replace: length[%d]", len(chain))

	return nil
}

// LatestBlock returns the last block in the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.blocks) == 0 {
		panic("database: chain has no genesis block")
	}

	return db.blocks[len(db.blocks)-1].clone()
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.blocks)
}

// Copy returns a copy of the full chain.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	for i, block := range db.blocks {
		blocks[i] = block.clone()
	}

	return blocks
}
