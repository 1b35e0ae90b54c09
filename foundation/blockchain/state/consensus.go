package state

import (
	"context"
	"sync"

	"github.com/hadcoin/ledger/foundation/blockchain/database"
	"github.com/hadcoin/ledger/foundation/blockchain/peer"
)

// peerChain is what was learned from a single peer during a resolution.
type peerChain struct {
	blocks []database.Block
	length int
	err    error
}

// Resolve asks every known peer for its chain and replaces the local chain
// with the longest valid chain found, if that chain is longer than the
// local one. It reports true if the local chain was replaced. Peers that
// can't be reached or that return a bad response are skipped.
func (s *State) Resolve(ctx context.Context) (bool, error) {
	if !s.enableConsensus {
		return false, ErrNoConsensusSupport
	}

	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	maxLength := s.QueryChainLength()

	// Fetch every chain at the same time. The results are evaluated in
	// peer order below so the outcome doesn't depend on response timing.
	peers := s.RetrieveKnownPeers()
	results := make([]peerChain, len(peers))

	var wg sync.WaitGroup
	wg.Add(len(peers))

	for i, pr := range peers {
		go func(i int, pr peer.Peer) {
			defer wg.Done()

			blocks, length, err := s.NetRequestPeerChain(ctx, pr)
			results[i] = peerChain{blocks: blocks, length: length, err: err}
		}(i, pr)
	}

	wg.Wait()

	var longest []database.Block
	for i, pr := range peers {
		result := results[i]

		if result.err != nil {
			s.evHandler("state: Resolve: peer-node[%s]: skipped: ERROR: %s", pr, result.err)
			s.knownPeers.SetStatus(pr, peer.StatusUnreachable)
			continue
		}
		s.knownPeers.SetStatus(pr, peer.StatusHealthy)

		if result.length != len(result.blocks) {
			s.evHandler("state: Resolve: peer-node[%s]: skipped: reported length[%d] chain length[%d]", pr, result.length, len(result.blocks))
			continue
		}

		if result.length <= maxLength {
			continue
		}

		if err := database.ValidateChain(result.blocks); err != nil {
			s.evHandler("state: Resolve: peer-node[%s]: skipped: invalid chain: %s", pr, err)
			continue
		}

		s.evHandler("state: Resolve: peer-node[%s]: candidate: length[%d]", pr, result.length)

		maxLength = result.length
		longest = result.blocks
	}

	if longest == nil {
		return false, nil
	}

	replaced, err := s.replaceChain(longest)
	if err != nil || !replaced {
		return false, err
	}

	// Any search running against the old chain is now pointless.
	if s.Worker != nil {
		s.Worker.SignalCancelMining()
	}

	return true, nil
}

// replaceChain swaps the local chain for the candidate. The local chain may
// have grown while peers were being asked, so the length is checked again
// under the lock.
func (s *State) replaceChain(blocks []database.Block) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(blocks) <= s.db.Length() {
		s.evHandler("state: replaceChain: candidate is no longer longer: candidate[%d] local[%d]", len(blocks), s.db.Length())
		return false, nil
	}

	if err := s.db.Replace(blocks); err != nil {
		return false, err
	}

	s.evHandler(`viewer: chain: {"length":%d,"hash":%q}`, len(blocks), blocks[len(blocks)-1].Hash())

	return true, nil
}
