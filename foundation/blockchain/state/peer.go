package state

import "github.com/hadcoin/ledger/foundation/blockchain/peer"

// AddKnownPeer parses the address and adds the peer to the set of known
// peers. It reports false if the peer was already known.
func (s *State) AddKnownPeer(address string) (bool, error) {
	if !s.enableConsensus {
		return false, ErrNoConsensusSupport
	}

	pr, err := peer.Parse(address)
	if err != nil {
		return false, err
	}

	added := s.knownPeers.Add(pr)
	if added {
		s.evHandler("state: AddKnownPeer: adding peer-node %s", pr)
	}

	return added, nil
}
