package interview

import (
	"sync"
	"testing"
)

func TestManagerSerializesConcurrentTurns(t *testing.T) {
	m := NewManager()
	iv := New(mustConfig(t, "fever"))
	iv.Start()
	id := m.Add(iv)

	// Confirm, then hammer the duration slot from many goroutines. With
	// turns serialized, exactly one fills the slot and the rest re-ask or
	// advance; the shared state must stay consistent throughout.
	if ok := m.With(id, func(iv *Interview) { iv.ProcessTurn("yes") }); !ok {
		t.Fatal("interview not found after Add")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.With(id, func(iv *Interview) {
				iv.ProcessTurn("2 days")
			})
		}()
	}
	wg.Wait()

	var st State
	m.With(id, func(iv *Interview) { st = iv.State() })
	if st.Slots["duration_days"] != "2" {
		t.Fatalf("duration slot = %q, want 2", st.Slots["duration_days"])
	}
}

func TestManagerUnknownID(t *testing.T) {
	m := NewManager()
	if m.With("missing", func(iv *Interview) {}) {
		t.Fatal("unknown id should return false")
	}
}
