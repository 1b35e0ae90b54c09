package state

import "github.com/hadcoin/ledger/foundation/blockchain/database"

// AddTransaction adds a new transaction to the mempool and returns the
// index of the block it will be included in.
func (s *State) AddTransaction(tx database.Tx) (uint64, error) {
	if !s.enableTransactions {
		return 0, ErrNoTransactionSupport
	}

	// Holding the read lock keeps block creation from draining the pool
	// between reading the latest index and adding the transaction.
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := s.db.LatestBlock().Index + 1
	n := s.mempool.Add(tx)

	s.evHandler("state: AddTransaction: tx[%s]: blk[%d]: mempool[%d]", tx, index, n)

	return index, nil
}
