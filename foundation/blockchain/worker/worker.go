// Package worker implements mining and background consensus for the
// blockchain.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hadcoin/ledger/foundation/blockchain/database"
	"github.com/hadcoin/ledger/foundation/blockchain/state"
)

// ErrShutdown is returned when a request is made of a worker that is
// shutting down.
var ErrShutdown = errors.New("worker is shutting down")

// =============================================================================

// mineRequest asks the mining G to produce the next block.
type mineRequest struct {
	ctx    context.Context
	result chan mineResult
}

// mineResult is the outcome of a mining request.
type mineResult struct {
	block database.Block
	err   error
}

// Worker manages the POW workflows for the blockchain.
type Worker struct {
	state          *state.State
	wg             sync.WaitGroup
	ticker         *time.Ticker
	shut           chan struct{}
	shutOnce       sync.Once
	mineRequests   chan mineRequest
	cancelMining   chan bool
	resolveTimeout time.Duration
	evHandler      state.EventHandler
}

// Config represents the settings for the background operations. A zero
// ConsensusInterval turns off background resolution.
type Config struct {
	ConsensusInterval time.Duration
	ResolveTimeout    time.Duration
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config, evHandler state.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	w := Worker{
		state:          st,
		shut:           make(chan struct{}),
		mineRequests:   make(chan mineRequest),
		cancelMining:   make(chan bool, 1),
		resolveTimeout: cfg.ResolveTimeout,
		evHandler:      evHandler,
	}

	if w.resolveTimeout <= 0 {
		w.resolveTimeout = time.Minute
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
	}

	if cfg.ConsensusInterval > 0 && st.IsConsensusEnabled() {
		w.ticker = time.NewTicker(cfg.ConsensusInterval)
		operations = append(operations, w.consensusOperations)
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.shutOnce.Do(func() {
		w.evHandler("worker: shutdown: started")
		defer w.evHandler("worker: shutdown: completed")

		if w.ticker != nil {
			w.evHandler("worker: shutdown: stop ticker")
			w.ticker.Stop()
		}

		w.evHandler("worker: shutdown: terminate goroutines")
		close(w.shut)
		w.wg.Wait()
	})
}

// Mine hands a mining request to the mining G and waits for the new block.
// Only one search runs at a time. If the context is cancelled the caller
// stops waiting and the search for this request is cancelled as well.
func (w *Worker) Mine(ctx context.Context) (database.Block, error) {
	req := mineRequest{
		ctx:    ctx,
		result: make(chan mineResult, 1),
	}

	select {
	case w.mineRequests <- req:
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	case <-w.shut:
		return database.Block{}, ErrShutdown
	}

	select {
	case res := <-req.result:
		return res.block, res.err
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	}
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop the current search. If there is already a signal pending in the
// channel, just return since the search will be cancelled.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
