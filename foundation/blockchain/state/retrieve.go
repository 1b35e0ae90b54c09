package state

import (
	"github.com/hadcoin/ledger/foundation/blockchain/database"
	"github.com/hadcoin/ledger/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveNodeID returns the unique id for this node.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.LatestBlock()
}

// RetrieveChain returns a copy of the full chain.
func (s *State) RetrieveChain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.Copy()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveStatus returns the status of this node for peers and operators.
func (s *State) RetrieveStatus() peer.PeerStatus {
	s.mu.RLock()
	latestBlock := s.db.LatestBlock()
	length := s.db.Length()
	s.mu.RUnlock()

	return peer.PeerStatus{
		NodeID:           s.nodeID,
		LatestBlockHash:  latestBlock.Hash(),
		LatestBlockIndex: latestBlock.Index,
		Length:           length,
		KnownPeers:       s.knownPeers.CopyInfo(),
	}
}

// =============================================================================

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.Length()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryChainValid validates the full local chain and returns the chain
// length that was checked along with the result.
func (s *State) QueryChainValid() (int, bool) {
	blocks := s.RetrieveChain()

	if err := database.ValidateChain(blocks); err != nil {
		s.evHandler("state: QueryChainValid: INVALID: %s", err)
		return len(blocks), false
	}

	return len(blocks), true
}
