package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hadcoin/ledger/foundation/blockchain/database"
	"github.com/hadcoin/ledger/foundation/blockchain/peer"
)

const baseURL = "http://%s/v1"

// ChainResponse is the document a node returns when asked for its chain.
type ChainResponse struct {
	Message string           `json:"message,omitempty"`
	Chain   []database.Block `json:"chain"`
	Length  int              `json:"length"`
}

// NetRequestPeerChain asks the peer for its full chain and the length it
// reports for that chain.
func (s *State) NetRequestPeerChain(ctx context.Context, pr peer.Peer) ([]database.Block, int, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr)

	url := fmt.Sprintf("%s/get_chain", fmt.Sprintf(baseURL, pr.Host))

	var resp ChainResponse
	if err := s.send(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, 0, err
	}

	s.evHandler("state: NetRequestPeerChain: peer-node[%s]: length[%d]: blocks[%d]", pr, resp.Length, len(resp.Chain))

	return resp.Chain, resp.Length, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func (s *State) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader

	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}

	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %w", resp.StatusCode, errors.New(string(msg)))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
