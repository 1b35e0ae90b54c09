package worker

import "context"

// consensusOperations periodically resolves the chain against the peers.
func (w *Worker) consensusOperations() {
	w.evHandler("worker: consensusOperations: G started")
	defer w.evHandler("worker: consensusOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runConsensusOperation()
			}
		case <-w.shut:
			w.evHandler("worker: consensusOperations: received shut signal")
			return
		}
	}
}

// runConsensusOperation performs a single resolution.
func (w *Worker) runConsensusOperation() {
	w.evHandler("worker: runConsensusOperation: started")
	defer w.evHandler("worker: runConsensusOperation: completed")

	ctx, cancel := context.WithTimeout(context.Background(), w.resolveTimeout)
	defer cancel()

	// Stop waiting on peers if a shutdown is signaled.
	go func() {
		select {
		case <-w.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	replaced, err := w.state.Resolve(ctx)
	if err != nil {
		w.evHandler("worker: runConsensusOperation: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runConsensusOperation: replaced[%t]", replaced)
}
