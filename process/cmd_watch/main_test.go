package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestPairID(t *testing.T) {
	cases := []struct {
		name     string
		id, side string
		ok       bool
	}{
		{"42_front.jpg", "42", "front", true},
		{"42_back.png", "42", "back", true},
		{"card-7_front.webp", "card-7", "front", true},
		{"frontal.jpg", "", "", false},
		{"42.jpg", "", "", false},
	}
	for _, c := range cases {
		id, side, ok := pairID(c.name)
		if id != c.id || side != c.side || ok != c.ok {
			t.Fatalf("pairID(%q) = %q,%q,%v want %q,%q,%v",
				c.name, id, side, ok, c.id, c.side, c.ok)
		}
	}
}

func TestCompletePairs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1_front.jpg")
	touch(t, dir, "1_back.jpg")
	touch(t, dir, "2_front.jpg") // missing back
	touch(t, dir, "3_back.png")  // missing front
	touch(t, dir, "notes.txt")   // unsupported

	got := completePairs(dir)
	if !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("completePairs = %v", got)
	}
}

func TestStartWorkersDrainOnClose(t *testing.T) {
	dir := t.TempDir()
	ids := make(chan string, 4)
	wg := startWorkers(nil, dir, dir, 2, ids)

	// ids without files on disk are skipped before the pipeline is touched
	ids <- "missing"
	ids <- "also-missing"
	close(ids)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("workers did not drain after channel close")
	}
}
