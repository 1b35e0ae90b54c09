// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hadcoin/ledger/business/sys/validate"
	"github.com/hadcoin/ledger/business/web/errs"
	"github.com/hadcoin/ledger/foundation/blockchain/database"
	"github.com/hadcoin/ledger/foundation/blockchain/peer"
	"github.com/hadcoin/ledger/foundation/blockchain/state"
	"github.com/hadcoin/ledger/foundation/events"
	"github.com/hadcoin/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// MineBlock solves the next proof of work and adds a new block to the chain
// with all the transactions in the mempool.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.Worker.Mine(ctx)
	if err != nil {
		return fmt.Errorf("mining block: %w", err)
	}

	h.Log.Infow("mine block", "traceid", web.GetTraceID(ctx), "index", block.Index, "proof", block.Proof, "trans", len(block.Transactions))

	resp := minedBlock{
		Message: "mining block success!",
		Block:   block,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// IsValid validates the full local chain.
func (h Handlers) IsValid(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	length, valid := h.State.QueryChainValid()

	resp := chainValid{
		Message:      "checking chain success!",
		Length:       length,
		IsChainValid: valid,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AddTransaction adds a new transaction to the mempool.
func (h Handlers) AddTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nt newTx
	if err := web.Decode(r, &nt); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(nt); err != nil {
		return err
	}

	tx := database.NewTx(*nt.Sender, *nt.Receiver, *nt.Amount)

	index, err := h.State.AddTransaction(tx)
	if err != nil {
		if errors.Is(err, state.ErrNoTransactionSupport) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	h.Log.Infow("add tran", "traceid", web.GetTraceID(ctx), "sender", tx.Sender, "receiver", tx.Receiver, "amount", tx.Amount, "index", index)

	resp := txAdded{
		Message: fmt.Sprintf("This transaction will be added to block %d", index),
		Index:   index,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Mempool returns the set of transactions waiting for the next block.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// ConnectNode registers the specified addresses as peers.
func (h Handlers) ConnectNode(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var cn connectNodes
	if err := web.Decode(r, &cn); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(cn); err != nil {
		return err
	}

	for _, address := range cn.Nodes {
		added, err := h.State.AddKnownPeer(address)
		if err != nil {
			switch {
			case errors.Is(err, peer.ErrInvalidAddress):
				return errs.NewTrusted(err, http.StatusBadRequest)
			case errors.Is(err, state.ErrNoConsensusSupport):
				return errs.NewTrusted(err, http.StatusNotFound)
			}
			return err
		}

		h.Log.Infow("connect node", "traceid", web.GetTraceID(ctx), "address", address, "added", added)
	}

	peers := h.State.RetrieveKnownPeers()
	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}

	resp := nodesConnected{
		Message:    "All the nodes are now connected. The blockchain now contains the following nodes:",
		TotalNodes: hosts,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ReplaceChain runs a consensus resolution against the known peers.
func (h Handlers) ReplaceChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.State.Resolve(ctx)
	if err != nil {
		if errors.Is(err, state.ErrNoConsensusSupport) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	h.Log.Infow("replace chain", "traceid", web.GetTraceID(ctx), "replaced", replaced)

	message := "The node has the longest chain, nothing was replaced."
	if replaced {
		message = "The chain was replaced by the longest valid chain."
	}

	resp := chainReplaced{
		Message:      message,
		Chain:        h.State.RetrieveChain(),
		IsChainValid: replaced,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the blockchain.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting to receive events and send them into the web socket.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
