package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hadcoin/ledger/foundation/blockchain/database"
	"github.com/hadcoin/ledger/foundation/blockchain/pow"
)

// ErrStaleProof is returned when a proof was found for a block that is no
// longer the latest block in the chain.
var ErrStaleProof = errors.New("proof was found for a stale block")

// maxStaleAttempts is the number of times mining restarts when the chain
// changes underneath a search.
const maxStaleAttempts = 3

// =============================================================================

// MineNewBlock solves the proof of work puzzle against the latest block and
// adds the new block to the chain with every transaction in the mempool.
// The search can be cancelled through the context.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	for attempt := 1; attempt <= maxStaleAttempts; attempt++ {
		prevBlock := s.RetrieveLatestBlock()

		s.evHandler("state: MineNewBlock: MINING: perform POW: attempt[%d]: prevBlk[%d]", attempt, prevBlock.Index)

		proof, err := pow.Search(ctx, prevBlock.Proof, pow.EventHandler(s.evHandler))
		if err != nil {
			return database.Block{}, err
		}

		// Just check one more time we were not cancelled.
		if ctx.Err() != nil {
			return database.Block{}, ctx.Err()
		}

		block, err := s.commitBlock(proof, prevBlock.Hash())
		if err != nil {
			if errors.Is(err, ErrStaleProof) {
				s.evHandler("state: MineNewBlock: MINING: WARNING: %s", err)
				continue
			}
			return database.Block{}, err
		}

		return block, nil
	}

	return database.Block{}, ErrStaleProof
}

// CreateBlock adds a new block to the chain with the specified proof and
// previous hash. Every transaction in the mempool is moved into the block.
func (s *State) CreateBlock(proof int64, previousHash string) database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createBlock(proof, previousHash)
}

// =============================================================================

// commitBlock creates the block only if the previous hash still matches the
// latest block. The check and the append happen under the same lock.
func (s *State) commitBlock(proof int64, previousHash string) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hash := s.db.LatestBlock().Hash(); hash != previousHash {
		return database.Block{}, fmt.Errorf("%w: latest[%s]", ErrStaleProof, hash)
	}

	return s.createBlock(proof, previousHash), nil
}

// createBlock must be called while holding the write lock.
func (s *State) createBlock(proof int64, previousHash string) database.Block {
	trans := s.mempool.Drain()

	block := s.db.Append(proof, previousHash, trans)
	s.blockEvent(block)

	return block
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"block":%s}`, block.Hash(), string(blockJSON))
}
