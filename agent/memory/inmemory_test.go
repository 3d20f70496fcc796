package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

func TestInMemoryStoreUnknownUserIsEmpty(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore()
	got, err := store.Lookup(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil log, got %#v", got)
	}
}

func TestInMemoryStoreAppendKeepsOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()

	for _, q := range []string{"first", "second", "first"} {
		if err := store.Append(ctx, "alice", contractx.Record{Query: q, Output: "out-" + q}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := store.Lookup(ctx, "alice")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, want := range []string{"first", "second", "first"} {
		if got[i].Query != want || got[i].Output != "out-"+want {
			t.Fatalf("record %d = %+v", i, got[i])
		}
		if got[i].ID == "" || got[i].CreatedAt.IsZero() {
			t.Fatalf("record %d not stamped: %+v", i, got[i])
		}
	}
	if got[0].ID == got[2].ID {
		t.Fatal("duplicate queries must still be distinct records")
	}
}

func TestInMemoryStoreUsersAreIsolatedAndCaseSensitive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()

	_ = store.Append(ctx, "alice", contractx.Record{Query: "q"})

	upper, _ := store.Lookup(ctx, "Alice")
	if len(upper) != 0 {
		t.Fatalf("user identity must be case-sensitive, got %d records", len(upper))
	}
	bob, _ := store.Lookup(ctx, "bob")
	if len(bob) != 0 {
		t.Fatalf("bob should have no records, got %d", len(bob))
	}
}

func TestInMemoryStoreLookupReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()
	_ = store.Append(ctx, "alice", contractx.Record{Query: "q", Output: "o"})

	got, _ := store.Lookup(ctx, "alice")
	got[0].Output = "mutated"

	again, _ := store.Lookup(ctx, "alice")
	if again[0].Output != "o" {
		t.Fatalf("stored record mutated through lookup: %q", again[0].Output)
	}
}

func TestInMemoryStoreConcurrentAppends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()

	const n = 64
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Append(ctx, "alice", contractx.Record{Query: fmt.Sprintf("q%d", i)})
		}()
	}
	wg.Wait()

	got, _ := store.Lookup(ctx, "alice")
	if len(got) != n {
		t.Fatalf("lost updates: expected %d records, got %d", n, len(got))
	}
}

func TestInMemoryStoreReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()
	_ = store.Append(ctx, "alice", contractx.Record{Query: "q"})

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	got, _ := store.Lookup(ctx, "alice")
	if len(got) != 0 {
		t.Fatalf("expected empty log after reset, got %d", len(got))
	}
}
