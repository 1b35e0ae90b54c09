package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hadcoin/ledger/foundation/blockchain/database"
)

// maxRestarts is the number of times a single request will restart its
// search after the chain was replaced underneath it.
const maxRestarts = 3

// errRestart is used internally when a search is cancelled because the
// chain changed and the request should be retried.
var errRestart = errors.New("chain changed, restart mining")

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case req := <-w.mineRequests:
			if w.isShutdown() {
				req.result <- mineResult{err: ErrShutdown}
				continue
			}

			block, err := w.runMiningOperation(req.ctx)
			req.result <- mineResult{block: block, err: err}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation keeps searching for a block until one is added to the
// chain, the request is cancelled, or the worker shuts down.
func (w *Worker) runMiningOperation(reqCtx context.Context) (database.Block, error) {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	for attempt := 0; attempt <= maxRestarts; attempt++ {
		block, err := w.mineOnce(reqCtx)
		if errors.Is(err, errRestart) {
			w.evHandler("worker: runMiningOperation: MINING: restarting: attempt[%d]", attempt+1)
			continue
		}
		return block, err
	}

	return database.Block{}, errRestart
}

// mineOnce performs a single cancellable search for the next block.
func (w *Worker) mineOnce(reqCtx context.Context) (database.Block, error) {

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(reqCtx)
	defer cancel()

	var restart bool
	var shutdown bool

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
			restart = true
		case <-w.shut:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: shutdown")
			shutdown = true
		case <-ctx.Done():
		}
	}()

	var block database.Block
	var err error

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		block, err = w.state.MineNewBlock(ctx)
		duration := time.Since(t)

		w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)
	}()

	// Wait for both G's to terminate.
	wg.Wait()

	switch {
	case err == nil:
		w.evHandler("worker: runMiningOperation: MINING: SOLVED: blk[%d]", block.Index)
		return block, nil

	case shutdown:
		return database.Block{}, ErrShutdown

	case restart && reqCtx.Err() == nil:
		return database.Block{}, errRestart

	default:
		w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		return database.Block{}, err
	}
}
