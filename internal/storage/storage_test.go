package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	// Mirror Go 1.24's t.Context: the context must be cancelled before
	// Close runs, or the datastore's autosave goroutine never exits.
	ctx, cancel := context.WithCancel(context.Background())
	s, err := New(ctx, filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		cancel()
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		s.Close()
	})
	return s
}

func TestOptInIdempotent(t *testing.T) {
	s := newTestStorage(t)

	if s.IsOptedIn("100") {
		t.Fatal("fresh store should have no opt-ins")
	}
	if err := s.OptIn("100"); err != nil {
		t.Fatalf("opt in: %v", err)
	}
	if err := s.OptIn("100"); err != nil {
		t.Fatalf("repeat opt in: %v", err)
	}
	if !s.IsOptedIn("100") {
		t.Error("user should be opted in")
	}
	if got := len(s.readSet(optinKey)); got != 1 {
		t.Errorf("opt-in set has %d entries, want 1", got)
	}

	// A single opt-out must fully remove the user even after repeated opt-ins.
	if err := s.OptOut("100"); err != nil {
		t.Fatalf("opt out: %v", err)
	}
	if s.IsOptedIn("100") {
		t.Error("user should be opted out")
	}
}

func TestOptOutAbsentIsNoop(t *testing.T) {
	s := newTestStorage(t)

	if err := s.OptIn("200"); err != nil {
		t.Fatalf("opt in: %v", err)
	}
	if err := s.OptOut("999"); err != nil {
		t.Fatalf("opt out absent: %v", err)
	}
	if !s.IsOptedIn("200") {
		t.Error("unrelated opt-in lost")
	}
}

func TestRemoveLeavesStoredSetIntact(t *testing.T) {
	s := newTestStorage(t)

	for _, id := range []string{"1", "2", "3"} {
		if err := s.OptIn(id); err != nil {
			t.Fatalf("opt in %s: %v", id, err)
		}
	}

	// Hold the decoded set across a removal; the removal must compact a
	// fresh slice, never the one a reader already has.
	before := s.readSet(optinKey)
	if err := s.OptOut("2"); err != nil {
		t.Fatalf("opt out: %v", err)
	}
	if len(before) != 3 || before[0] != "1" || before[1] != "2" || before[2] != "3" {
		t.Errorf("previously read set was mutated: %v", before)
	}
	after := s.readSet(optinKey)
	if len(after) != 2 || after[0] != "1" || after[1] != "3" {
		t.Errorf("set after removal = %v, want [1 3]", after)
	}
}

func TestBlacklistIndependentOfOptin(t *testing.T) {
	s := newTestStorage(t)

	if err := s.Blacklist("300"); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if !s.IsBlacklisted("300") {
		t.Error("user should be blacklisted")
	}
	if s.IsOptedIn("300") {
		t.Error("blacklisting must not touch the opt-in set")
	}
	if err := s.Unblacklist("300"); err != nil {
		t.Fatalf("unblacklist: %v", err)
	}
	if s.IsBlacklisted("300") {
		t.Error("user should no longer be blacklisted")
	}
}

func TestSetsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s, err := New(ctx, path)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	if err := s.OptIn("400"); err != nil {
		t.Fatalf("opt in: %v", err)
	}
	cancel()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ctx2, cancel2 := context.WithCancel(context.Background())
	reopened, err := New(ctx2, path)
	if err != nil {
		cancel2()
		t.Fatalf("reopen storage: %v", err)
	}
	defer func() {
		cancel2()
		reopened.Close()
	}()
	if !reopened.IsOptedIn("400") {
		t.Error("opt-in lost across reopen")
	}
}
