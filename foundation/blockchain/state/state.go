// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/hadcoin/ledger/foundation/blockchain/database"
	"github.com/hadcoin/ledger/foundation/blockchain/mempool"
	"github.com/hadcoin/ledger/foundation/blockchain/peer"
)

// Set of errors returned when a capability is switched off for the node.
var (
	ErrNoTransactionSupport = errors.New("transactions are not enabled on this node")
	ErrNoConsensusSupport   = errors.New("consensus is not enabled on this node")
)

// defaultPeerTimeout is used when the configuration doesn't provide a
// timeout for requests made to peers.
const defaultPeerTimeout = 10 * time.Second

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and background consensus.
type Worker interface {
	Shutdown()
	Mine(ctx context.Context) (database.Block, error)
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	NodeID             string
	Host               string
	EnableTransactions bool
	EnableConsensus    bool
	KnownPeers         *peer.PeerSet
	PeerTimeout        time.Duration
	EvHandler          EventHandler
}

// State manages the blockchain. The mutex serializes block creation and
// chain replacement so the mempool drain and the append happen together.
type State struct {
	mu sync.RWMutex

	nodeID             string
	host               string
	enableTransactions bool
	enableConsensus    bool
	evHandler          EventHandler

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool
	db         *database.Database
	client     *http.Client

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	timeout := cfg.PeerTimeout
	if timeout <= 0 {
		timeout = defaultPeerTimeout
	}

	// The chain is seeded with the genesis block when the database
	// is constructed.
	db := database.New(database.EventHandler(ev))

	state := State{
		nodeID:             cfg.NodeID,
		host:               cfg.Host,
		enableTransactions: cfg.EnableTransactions,
		enableConsensus:    cfg.EnableConsensus,
		evHandler:          ev,

		knownPeers: knownPeers,
		mempool:    mempool.New(),
		db:         db,
		client:     &http.Client{Timeout: timeout},
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// IsTransactionsEnabled reports if the node accepts transactions.
func (s *State) IsTransactionsEnabled() bool {
	return s.enableTransactions
}

// IsConsensusEnabled reports if the node accepts peers and resolves
// its chain against them.
func (s *State) IsConsensusEnabled() bool {
	return s.enableConsensus
}
