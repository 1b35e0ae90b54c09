package database_test

import (
	"context"
	"testing"

	"github.com/hadcoin/ledger/foundation/blockchain/database"
	"github.com/hadcoin/ledger/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// mine appends n blocks to the database using real proofs.
func mine(t *testing.T, db *database.Database, n int) {
	for i := 0; i < n; i++ {
		prev := db.LatestBlock()

		proof, err := pow.Search(context.Background(), prev.Proof, nil)
		if err != nil {
			t.Fatalf("Should be able to find a proof: %v", err)
		}

		db.Append(proof, prev.Hash(), []database.Tx{database.NewTx("A", "B", float64(i))})
	}
}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to seed a new chain.")
	{
		t.Logf("\tTest 0:\tWhen constructing a database.")
		{
			db := database.New(nil)

			if db.Length() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould have one block, got %d.", failed, db.Length())
			}
			t.Logf("\t%s\tTest 0:\tShould have one block.", success)

			genesis := db.LatestBlock()
			if genesis.Index != 1 || genesis.Proof != database.GenesisProof || genesis.PreviousHash != database.GenesisPreviousHash {
				t.Fatalf("\t%s\tTest 0:\tShould get the genesis values, got %+v.", failed, genesis)
			}
			t.Logf("\t%s\tTest 0:\tShould get the genesis values.", success)

			if !database.IsChainValid(db.Copy()) {
				t.Fatalf("\t%s\tTest 0:\tShould be a valid chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be a valid chain.", success)
		}
	}
}

func Test_Growth(t *testing.T) {
	const n = 3

	db := database.New(nil)
	mine(t, db, n)

	blocks := db.Copy()
	if len(blocks) != n+1 {
		t.Fatalf("Should have %d blocks, got %d.", n+1, len(blocks))
	}

	for i, block := range blocks {
		if block.Index != uint64(i+1) {
			t.Fatalf("Block at position %d should have index %d, got %d.", i, i+1, block.Index)
		}
	}

	if err := database.ValidateChain(blocks); err != nil {
		t.Fatalf("Should be a valid chain: %v", err)
	}

	exp := []int64{1, 533, 45293, 21391}
	for i, block := range blocks {
		if block.Proof != exp[i] {
			t.Fatalf("Block %d should have proof %d, got %d.", block.Index, exp[i], block.Proof)
		}
	}
}

func Test_Tamper(t *testing.T) {
	type table struct {
		name   string
		mutate func(blocks []database.Block)
	}

	tt := []table{
		{name: "previous_hash", mutate: func(b []database.Block) { b[2].PreviousHash = "0" }},
		{name: "proof", mutate: func(b []database.Block) { b[1].Proof++ }},
		{name: "index", mutate: func(b []database.Block) { b[1].Index = 10 }},
		{name: "timestamp", mutate: func(b []database.Block) { b[0].Timestamp = "2000-01-01T00:00:00Z" }},
		{name: "transaction", mutate: func(b []database.Block) { b[1].Transactions[0].Amount = 1000 }},
		{name: "drop_transaction", mutate: func(b []database.Block) { b[2].Transactions = []database.Tx{} }},
	}

	db := database.New(nil)
	mine(t, db, 3)

	t.Log("Given the need to detect a tampered chain.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen changing the %s of a block.", testID, tst.name)
			{
				f := func(t *testing.T) {
					blocks := db.Copy()
					tst.mutate(blocks)

					if database.IsChainValid(blocks) {
						t.Fatalf("\t%s\tTest %d:\tShould detect the change.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould detect the change.", success, testID)

					if !database.IsChainValid(db.Copy()) {
						t.Fatalf("\t%s\tTest %d:\tShould not change the stored chain.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not change the stored chain.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Replace(t *testing.T) {
	db := database.New(nil)

	other := database.New(nil)
	mine(t, other, 2)

	if err := db.Replace(db.Copy()); err == nil {
		t.Fatal("Should not replace with a chain of the same length.")
	}

	if err := db.Replace(other.Copy()); err != nil {
		t.Fatalf("Should replace with a longer chain: %v", err)
	}

	if db.Length() != 3 {
		t.Fatalf("Should have 3 blocks, got %d.", db.Length())
	}

	if db.LatestBlock().Hash() != other.LatestBlock().Hash() {
		t.Fatal("Should have the same tip as the replacement chain.")
	}
}

func Test_ValidateEmpty(t *testing.T) {
	if database.IsChainValid(nil) {
		t.Fatal("Should not accept an empty chain.")
	}
}
