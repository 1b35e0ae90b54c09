package events_test

import (
	"testing"

	"github.com/hadcoin/ledger/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan out messages to registered receivers.")
	{
		evts := events.New()

		ch1 := evts.Acquire("one")
		ch2 := evts.Acquire("two")

		if again := evts.Acquire("one"); again != ch1 {
			t.Fatalf("\t%s\tShould get back the same channel for the same id.", failed)
		}
		t.Logf("\t%s\tShould get back the same channel for the same id.", success)

		evts.Send("viewer: block: 2")

		for i, ch := range []chan string{ch1, ch2} {
			if got := <-ch; got != "viewer: block: 2" {
				t.Fatalf("\t%s\tShould receive the message on channel %d : %q", failed, i, got)
			}
		}
		t.Logf("\t%s\tShould receive the message on every channel.", success)

		if err := evts.Release("one"); err != nil {
			t.Fatalf("\t%s\tShould be able to release a channel : %s", failed, err)
		}
		if _, open := <-ch1; open {
			t.Fatalf("\t%s\tShould close a released channel.", failed)
		}
		t.Logf("\t%s\tShould close a released channel.", success)

		if err := evts.Release("one"); err == nil {
			t.Fatalf("\t%s\tShould fail to release an unknown id.", failed)
		}
		t.Logf("\t%s\tShould fail to release an unknown id.", success)

		evts.Shutdown()
		if _, open := <-ch2; open || evts.Len() != 0 {
			t.Fatalf("\t%s\tShould close every channel on shutdown.", failed)
		}
		t.Logf("\t%s\tShould close every channel on shutdown.", success)
	}
}

func Test_SendDoesNotBlock(t *testing.T) {
	t.Log("Given the need to never block the sender on a slow receiver.")
	{
		evts := events.New()
		ch := evts.Acquire("slow")

		for i := 0; i < 500; i++ {
			evts.Send("message")
		}

		if len(ch) != cap(ch) {
			t.Fatalf("\t%s\tShould fill the buffer and drop the rest : %d/%d", failed, len(ch), cap(ch))
		}
		t.Logf("\t%s\tShould fill the buffer and drop the rest.", success)
	}
}
