package bollywood

import "testing"

func TestMailboxEnqueueTryPopFIFO(t *testing.T) {
	mb := NewMailbox()
	for i := 0; i < 3; i++ {
		success, unblocked, closed := mb.Enqueue(MailboxElement{Payload: i})
		if !success || closed {
			t.Fatalf("enqueue %d should succeed on an open mailbox", i)
		}
		if unblocked {
			t.Fatalf("enqueue %d should not report unblockedReader without a prior TryBlock", i)
		}
	}
	for i := 0; i < 3; i++ {
		e, ok := mb.TryPop()
		if !ok {
			t.Fatalf("expected element %d", i)
		}
		if e.Payload.(int) != i {
			t.Fatalf("expected FIFO order, got %v at position %d", e.Payload, i)
		}
	}
	if _, ok := mb.TryPop(); ok {
		t.Fatalf("expected empty mailbox after draining")
	}
}

func TestMailboxTryBlockSucceedsOnlyWhenEmpty(t *testing.T) {
	mb := NewMailbox()
	if !mb.TryBlock() {
		t.Fatalf("TryBlock should succeed on an empty mailbox")
	}

	mb2 := NewMailbox()
	mb2.Enqueue(MailboxElement{Payload: 1})
	if mb2.TryBlock() {
		t.Fatalf("TryBlock must fail when the queue is non-empty")
	}
}

func TestMailboxUnblockedReaderEdge(t *testing.T) {
	mb := NewMailbox()
	if !mb.TryBlock() {
		t.Fatalf("TryBlock should succeed on an empty mailbox")
	}
	_, unblocked, _ := mb.Enqueue(MailboxElement{Payload: "wake"})
	if !unblocked {
		t.Fatalf("the enqueue that follows a successful TryBlock must report unblockedReader")
	}
	// A second enqueue, with no intervening TryBlock, must not repeat the edge.
	_, unblocked2, _ := mb.Enqueue(MailboxElement{Payload: "again"})
	if unblocked2 {
		t.Fatalf("unblockedReader must only fire once per TryBlock")
	}
}

func TestMailboxCloseBouncesInFlight(t *testing.T) {
	mb := NewMailbox()
	mb.Enqueue(MailboxElement{Payload: "a"})
	mb.Enqueue(MailboxElement{Payload: "b"})

	var bounced []Message
	mb.Close(func(e MailboxElement) {
		bounced = append(bounced, e.Payload)
	})

	if len(bounced) != 2 {
		t.Fatalf("expected both in-flight elements bounced, got %d", len(bounced))
	}
	if !mb.IsClosed() {
		t.Fatalf("mailbox should report closed after Close")
	}
	success, _, closed := mb.Enqueue(MailboxElement{Payload: "c"})
	if success || !closed {
		t.Fatalf("enqueue on a closed mailbox must fail with queueClosed=true")
	}
}

func TestMailboxCloseIsIdempotent(t *testing.T) {
	mb := NewMailbox()
	mb.Enqueue(MailboxElement{Payload: 1})
	calls := 0
	mb.Close(func(MailboxElement) { calls++ })
	mb.Close(func(MailboxElement) { calls++ })
	if calls != 1 {
		t.Fatalf("Close must only bounce in-flight elements once, got %d calls", calls)
	}
}

func TestMailboxDrainAll(t *testing.T) {
	mb := NewMailbox()
	mb.Enqueue(MailboxElement{Payload: 1})
	mb.Enqueue(MailboxElement{Payload: 2})
	batch := mb.drainAll()
	if len(batch) != 2 {
		t.Fatalf("expected 2 drained elements, got %d", len(batch))
	}
	if _, ok := mb.TryPop(); ok {
		t.Fatalf("drainAll should leave the mailbox empty")
	}
	if empty := mb.drainAll(); empty != nil {
		t.Fatalf("draining an empty mailbox should return nil")
	}
}
