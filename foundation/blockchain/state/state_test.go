package state_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hadcoin/ledger/foundation/blockchain/database"
	"github.com/hadcoin/ledger/foundation/blockchain/peer"
	"github.com/hadcoin/ledger/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newState(t *testing.T, transactions bool, consensus bool) *state.State {
	st, err := state.New(state.Config{
		NodeID:             "test-node",
		Host:               "localhost:8080",
		EnableTransactions: transactions,
		EnableConsensus:    consensus,
		KnownPeers:         peer.NewPeerSet(),
		EvHandler:          func(v string, args ...any) { t.Logf(v, args...) },
	})
	ifErrFailNow(t, err)

	return st
}

func mineN(t *testing.T, st *state.State, n int) {
	for i := 0; i < n; i++ {
		_, err := st.MineNewBlock(context.Background())
		ifErrFailNow(t, err)
	}
}

// chainServer serves the chain the way a node does for its peers.
func chainServer(blocks []database.Block, length int) *httptest.Server {
	f := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/get_chain" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(state.ChainResponse{Chain: blocks, Length: length})
	}

	return httptest.NewServer(http.HandlerFunc(f))
}

// =============================================================================

func Test_MineAndValidate(t *testing.T) {
	t.Log("Given the need to mine blocks and transactions.")
	{
		st := newState(t, true, false)

		t.Logf("\tTest 0:\tWhen starting a new node.")
		{
			if n := st.QueryChainLength(); n != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould have only the genesis block, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 0:\tShould have only the genesis block.", success)

			if _, valid := st.QueryChainValid(); !valid {
				t.Fatalf("\t%s\tTest 0:\tShould have a valid chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have a valid chain.", success)
		}

		t.Logf("\tTest 1:\tWhen mining three blocks.")
		{
			mineN(t, st, 3)

			length, valid := st.QueryChainValid()
			if length != 4 || !valid {
				t.Fatalf("\t%s\tTest 1:\tShould have 4 valid blocks, got %d valid[%t].", failed, length, valid)
			}
			t.Logf("\t%s\tTest 1:\tShould have 4 valid blocks.", success)
		}

		t.Logf("\tTest 2:\tWhen submitting a transaction.")
		{
			tx := database.NewTx("A", "B", 5)

			index, err := st.AddTransaction(tx)
			ifErrFailNow(t, err)

			if index != 5 {
				t.Fatalf("\t%s\tTest 2:\tShould target block 5, got %d.", failed, index)
			}
			t.Logf("\t%s\tTest 2:\tShould target block 5.", success)

			if n := st.QueryMempoolLength(); n != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould have one transaction in the mempool, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 2:\tShould have one transaction in the mempool.", success)

			block, err := st.MineNewBlock(context.Background())
			ifErrFailNow(t, err)

			if len(block.Transactions) != 1 || block.Transactions[0] != tx {
				t.Fatalf("\t%s\tTest 2:\tShould include only the transaction, got %v.", failed, block.Transactions)
			}
			t.Logf("\t%s\tTest 2:\tShould include only the transaction.", success)

			if n := st.QueryMempoolLength(); n != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould have an empty mempool, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 2:\tShould have an empty mempool.", success)
		}

		t.Logf("\tTest 3:\tWhen corrupting block 2's proof.")
		{
			blocks := st.RetrieveChain()
			blocks[1].Proof = 1

			if database.IsChainValid(blocks) {
				t.Fatalf("\t%s\tTest 3:\tShould detect the invalid chain.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould detect the invalid chain.", success)
		}
	}
}

func Test_PoolDrain(t *testing.T) {
	const k = 5

	st := newState(t, true, false)

	for i := 0; i < k; i++ {
		_, err := st.AddTransaction(database.NewTx("A", "B", float64(i)))
		ifErrFailNow(t, err)
	}

	prev := st.RetrieveLatestBlock()
	block := st.CreateBlock(533, prev.Hash())

	if len(block.Transactions) != k {
		t.Fatalf("Should have %d transactions in the block, got %d.", k, len(block.Transactions))
	}

	for i, tx := range block.Transactions {
		if tx.Amount != float64(i) {
			t.Fatalf("Should keep the submission order, got %v at %d.", tx.Amount, i)
		}
	}

	if st.QueryMempoolLength() != 0 {
		t.Fatal("Should have an empty mempool after creating a block.")
	}

	if _, valid := st.QueryChainValid(); !valid {
		t.Fatal("Should have a valid chain.")
	}
}

func Test_Disabled(t *testing.T) {
	st := newState(t, false, false)

	if _, err := st.AddTransaction(database.NewTx("A", "B", 1)); !errors.Is(err, state.ErrNoTransactionSupport) {
		t.Fatalf("Should reject transactions, got %v.", err)
	}

	if _, err := st.AddKnownPeer("localhost:5001"); !errors.Is(err, state.ErrNoConsensusSupport) {
		t.Fatalf("Should reject peers, got %v.", err)
	}

	if _, err := st.Resolve(context.Background()); !errors.Is(err, state.ErrNoConsensusSupport) {
		t.Fatalf("Should reject resolution, got %v.", err)
	}

	block, err := st.MineNewBlock(context.Background())
	ifErrFailNow(t, err)

	if block.Transactions == nil || len(block.Transactions) != 0 {
		t.Fatalf("Should mine a block with an empty transaction list, got %v.", block.Transactions)
	}
}

func Test_Resolve(t *testing.T) {
	t.Log("Given the need to adopt the longest valid chain.")
	{
		// A valid chain of 3 blocks.
		good := newState(t, true, false)
		mineN(t, good, 2)
		goodChain := good.RetrieveChain()

		// A chain of 4 blocks where a middle block was changed.
		bad := newState(t, true, false)
		mineN(t, bad, 3)
		badChain := bad.RetrieveChain()
		badChain[1].Timestamp = "2000-01-01T00:00:00Z"

		srvGood := chainServer(goodChain, len(goodChain))
		defer srvGood.Close()

		srvBad := chainServer(badChain, len(badChain))
		defer srvBad.Close()

		srvLiar := chainServer(goodChain[:2], 10)
		defer srvLiar.Close()

		srvError := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srvError.Close()

		srvDown := chainServer(goodChain, len(goodChain))
		downURL := srvDown.URL
		srvDown.Close()

		local := newState(t, true, true)
		for _, address := range []string{srvGood.URL, srvBad.URL, srvLiar.URL, srvError.URL, downURL} {
			_, err := local.AddKnownPeer(address)
			ifErrFailNow(t, err)
		}

		t.Logf("\tTest 0:\tWhen peers have a longer valid chain.")
		{
			replaced, err := local.Resolve(context.Background())
			ifErrFailNow(t, err)

			if !replaced {
				t.Fatalf("\t%s\tTest 0:\tShould replace the chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould replace the chain.", success)

			if local.QueryChainLength() != len(goodChain) {
				t.Fatalf("\t%s\tTest 0:\tShould have %d blocks, got %d.", failed, len(goodChain), local.QueryChainLength())
			}
			t.Logf("\t%s\tTest 0:\tShould have the valid chain's length.", success)

			if local.RetrieveLatestBlock().Hash() != goodChain[len(goodChain)-1].Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould have the valid chain's tip.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have the valid chain's tip.", success)

			statuses := make(map[string]peer.Status)
			for _, info := range local.RetrieveStatus().KnownPeers {
				statuses[info.Host] = info.Status
			}

			down, _ := peer.Parse(downURL)
			if statuses[down.Host] != peer.StatusUnreachable {
				t.Fatalf("\t%s\tTest 0:\tShould mark the stopped peer unreachable, got %s.", failed, statuses[down.Host])
			}
			t.Logf("\t%s\tTest 0:\tShould mark the stopped peer unreachable.", success)

			good, _ := peer.Parse(srvGood.URL)
			if statuses[good.Host] != peer.StatusHealthy {
				t.Fatalf("\t%s\tTest 0:\tShould mark the good peer healthy, got %s.", failed, statuses[good.Host])
			}
			t.Logf("\t%s\tTest 0:\tShould mark the good peer healthy.", success)

			if len(statuses) != 5 {
				t.Fatalf("\t%s\tTest 0:\tShould keep every peer, got %d.", failed, len(statuses))
			}
			t.Logf("\t%s\tTest 0:\tShould keep every peer.", success)
		}

		t.Logf("\tTest 1:\tWhen no peer has a longer chain.")
		{
			replaced, err := local.Resolve(context.Background())
			ifErrFailNow(t, err)

			if replaced {
				t.Fatalf("\t%s\tTest 1:\tShould not replace the chain.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould not replace the chain.", success)

			if local.QueryChainLength() != len(goodChain) {
				t.Fatalf("\t%s\tTest 1:\tShould keep the same length.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould keep the same length.", success)
		}
	}
}

func Test_ResolveNeverShrinks(t *testing.T) {
	short := newState(t, true, false)
	mineN(t, short, 1)
	shortChain := short.RetrieveChain()

	srv := chainServer(shortChain, len(shortChain))
	defer srv.Close()

	local := newState(t, true, true)
	mineN(t, local, 3)

	_, err := local.AddKnownPeer(srv.URL)
	ifErrFailNow(t, err)

	replaced, err := local.Resolve(context.Background())
	ifErrFailNow(t, err)

	if replaced || local.QueryChainLength() != 4 {
		t.Fatalf("Should keep the longer local chain, replaced[%t] length[%d].", replaced, local.QueryChainLength())
	}
}

func Test_PeerDedup(t *testing.T) {
	st := newState(t, false, true)

	added, err := st.AddKnownPeer("http://127.0.0.1:5001")
	ifErrFailNow(t, err)
	if !added {
		t.Fatal("Should add a new peer.")
	}

	added, err = st.AddKnownPeer("127.0.0.1:5001/")
	ifErrFailNow(t, err)
	if added {
		t.Fatal("Should not add the same peer twice.")
	}

	if n := len(st.RetrieveKnownPeers()); n != 1 {
		t.Fatalf("Should have one peer, got %d.", n)
	}

	if _, err := st.AddKnownPeer("http://"); !errors.Is(err, peer.ErrInvalidAddress) {
		t.Fatalf("Should reject an address without a host, got %v.", err)
	}
}
