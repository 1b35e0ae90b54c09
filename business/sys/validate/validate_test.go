package validate_test

import (
	"testing"

	"github.com/hadcoin/ledger/business/sys/validate"
)

type newTx struct {
	Sender   *string  `json:"sender" validate:"required"`
	Receiver *string  `json:"receiver" validate:"required"`
	Amount   *float64 `json:"amount" validate:"required"`
}

func Test_Check(t *testing.T) {
	a, b, zero := "A", "B", 0.0

	if err := validate.Check(newTx{Sender: &a, Receiver: &b, Amount: &zero}); err != nil {
		t.Fatalf("Should accept a zero amount that is present: %v", err)
	}

	err := validate.Check(newTx{Sender: &a})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("Should get field errors, got %v.", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if _, exists := fields["receiver"]; !exists {
		t.Fatalf("Should report the receiver by its json name, got %v.", fields)
	}
	if _, exists := fields["amount"]; !exists {
		t.Fatalf("Should report the amount by its json name, got %v.", fields)
	}
	if len(fields) != 2 {
		t.Fatalf("Should report two fields, got %v.", fields)
	}
}
