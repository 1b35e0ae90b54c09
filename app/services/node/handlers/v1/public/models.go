package public

import "github.com/hadcoin/ledger/foundation/blockchain/database"

// newTx is the document submitted to add a transaction. Pointers are used
// so a zero amount can be told apart from a missing one.
type newTx struct {
	Sender   *string  `json:"sender" validate:"required"`
	Receiver *string  `json:"receiver" validate:"required"`
	Amount   *float64 `json:"amount" validate:"required"`
}

// connectNodes is the document submitted to register peers.
type connectNodes struct {
	Nodes []string `json:"nodes" validate:"required,min=1,dive,required"`
}

type minedBlock struct {
	Message string `json:"message"`
	database.Block
}

type chainValid struct {
	Message      string `json:"message"`
	Length       int    `json:"length"`
	IsChainValid bool   `json:"is_chain_valid"`
}

type txAdded struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

type nodesConnected struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type chainReplaced struct {
	Message      string           `json:"message"`
	Chain        []database.Block `json:"chain"`
	IsChainValid bool             `json:"is_chain_valid"`
}
