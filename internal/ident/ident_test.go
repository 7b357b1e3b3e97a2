package ident

import (
	"strings"
	"sync"
	"testing"
)

func TestUUIDPrefixAndUniqueness(t *testing.T) {
	gen := NewUUID()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.NewID("idea")
		if !strings.HasPrefix(id, "idea_") {
			t.Fatalf("expected idea_ prefix, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSequenceDeterministic(t *testing.T) {
	gen := NewSequence()
	if id := gen.NewID("tx"); id != "tx_1" {
		t.Fatalf("expected tx_1, got %q", id)
	}
	if id := gen.NewID("tx"); id != "tx_2" {
		t.Fatalf("expected tx_2, got %q", id)
	}
}

func TestSequenceConcurrentUnique(t *testing.T) {
	gen := NewSequence()

	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- gen.NewID("x")
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
