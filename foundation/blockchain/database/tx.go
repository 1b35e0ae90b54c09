package database

import "fmt"

// Tx is a transfer of value between two parties that is waiting for or has
// been included in a block. Fields are declared in lexicographic key order
// so the JSON form used for hashing is canonical.
type Tx struct {
	Amount   float64 `json:"amount"`
	Receiver string  `json:"receiver"`
	Sender   string  `json:"sender"`
}

// NewTx constructs a new transaction.
func NewTx(sender string, receiver string, amount float64) Tx {
	return Tx{
		Amount:   amount,
		Receiver: receiver,
		Sender:   sender,
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.Sender, tx.Receiver, tx.Amount)
}
