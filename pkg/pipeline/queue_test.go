package pipeline

import (
	"testing"
	"time"
)

func TestQueueDropOldestPreservesNewestInOrder(t *testing.T) {
	q := New[int](2)

	if outcome := q.Send(1); outcome != Sent {
		t.Fatalf("expected Sent, got %v", outcome)
	}
	if outcome := q.Send(2); outcome != Sent {
		t.Fatalf("expected Sent, got %v", outcome)
	}
	if outcome := q.Send(3); outcome != DroppedOldest {
		t.Fatalf("expected DroppedOldest, got %v", outcome)
	}

	first, outcome := q.Recv()
	if outcome != Ok || first != 2 {
		t.Fatalf("expected Ok/2, got %v/%d", outcome, first)
	}
	second, outcome := q.Recv()
	if outcome != Ok || second != 3 {
		t.Fatalf("expected Ok/3, got %v/%d", outcome, second)
	}
}

func TestQueueSendAfterCloseReportsDisconnected(t *testing.T) {
	q := New[int](1)
	q.Close()
	if outcome := q.Send(1); outcome != Disconnected {
		t.Fatalf("expected Disconnected, got %v", outcome)
	}
}

func TestQueueRecvDrainsBeforeDisconnected(t *testing.T) {
	q := New[int](2)
	q.Send(1)
	q.Close()

	item, outcome := q.Recv()
	if outcome != Ok || item != 1 {
		t.Fatalf("expected to drain buffered item before disconnect, got %v/%d", outcome, item)
	}
	_, outcome = q.Recv()
	if outcome != RecvDisconnected {
		t.Fatalf("expected Disconnected once drained, got %v", outcome)
	}
}

func TestQueueRecvTimeoutExpires(t *testing.T) {
	q := New[int](2)
	start := time.Now()
	_, outcome := q.RecvTimeout(20 * time.Millisecond)
	if outcome != Timeout {
		t.Fatalf("expected Timeout, got %v", outcome)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatalf("returned before timeout elapsed")
	}
}

func TestQueueRecvTimeoutReceivesSentItem(t *testing.T) {
	q := New[int](2)
	done := make(chan struct{})
	go func() {
		time.Sleep(5 * time.Millisecond)
		q.Send(42)
		close(done)
	}()

	item, outcome := q.RecvTimeout(500 * time.Millisecond)
	<-done
	if outcome != Ok || item != 42 {
		t.Fatalf("expected Ok/42, got %v/%d", outcome, item)
	}
}

func TestQueueRecvTimeoutDisconnected(t *testing.T) {
	q := New[int](2)
	q.Close()
	_, outcome := q.RecvTimeout(50 * time.Millisecond)
	if outcome != RecvDisconnected {
		t.Fatalf("expected Disconnected, got %v", outcome)
	}
}
