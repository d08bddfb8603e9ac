package sessions

import (
	"context"
	"testing"
	"time"
)

func TestTrackerRegisterUnregister(t *testing.T) {
	tr := NewTracker()
	if tr.Count() != 0 {
		t.Fatalf("Count = %d, want 0", tr.Count())
	}

	un1 := tr.Register("a", Handle{})
	un2 := tr.Register("b", Handle{})
	if tr.Count() != 2 {
		t.Fatalf("Count = %d, want 2", tr.Count())
	}

	un1()
	un1() // idempotent
	if tr.Count() != 1 {
		t.Fatalf("Count = %d, want 1", tr.Count())
	}
	un2()
	if tr.Count() != 0 {
		t.Fatalf("Count = %d, want 0", tr.Count())
	}
}

func TestTrackerDuplicateIDReplaces(t *testing.T) {
	tr := NewTracker()
	oldCanceled := false
	tr.Register("dup", Handle{Cancel: func() { oldCanceled = true }})
	un := tr.Register("dup", Handle{})

	if tr.Count() != 1 {
		t.Fatalf("Count = %d, want 1", tr.Count())
	}
	if oldCanceled {
		t.Error("replacement should not invoke the old cancel")
	}
	un()
	if tr.Count() != 0 {
		t.Fatalf("Count = %d, want 0", tr.Count())
	}
}

func TestTrackerWarnAndCancelAll(t *testing.T) {
	tr := NewTracker()
	var warned []string
	canceled := 0

	tr.Register("a", Handle{
		Warn:   func(msg string) error { warned = append(warned, "a:"+msg); return nil },
		Cancel: func() { canceled++ },
	})
	tr.Register("b", Handle{
		Cancel: func() { canceled++ },
	})

	if sent := tr.WarnAll("shutting down"); sent != 1 {
		t.Errorf("WarnAll = %d, want 1", sent)
	}
	if len(warned) != 1 || warned[0] != "a:shutting down" {
		t.Errorf("warned = %v", warned)
	}
	if got := tr.CancelAll(); got != 2 {
		t.Errorf("CancelAll = %d, want 2", got)
	}
	if canceled != 2 {
		t.Errorf("canceled = %d, want 2", canceled)
	}
}

func TestTrackerWait(t *testing.T) {
	tr := NewTracker()
	un := tr.Register("a", Handle{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if tr.Wait(ctx) {
		t.Error("Wait should time out while a session is registered")
	}

	un()
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	if !tr.Wait(ctx2) {
		t.Error("Wait should drain after unregister")
	}
}

func TestTrackerNilSafe(t *testing.T) {
	var tr *Tracker
	un := tr.Register("a", Handle{})
	un()
	if tr.Count() != 0 || tr.WarnAll("x") != 0 || tr.CancelAll() != 0 || !tr.Wait(nil) {
		t.Error("nil tracker should be a no-op")
	}
}
