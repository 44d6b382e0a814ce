package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(dir, zap.NewNop()), dir
}

func TestSaveThenListRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec := Recommendation{
		CustomerID: "7",
		EmpID:      "E1",
		Response:   "Call the customer.",
		Created:    "2023-09-03T10:00:00",
	}
	saved, err := s.Save(ctx, rec)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved != rec {
		t.Fatalf("Save() = %+v, want input unchanged %+v", saved, rec)
	}

	results, err := s.ListByEmployee(ctx, "E1")
	if err != nil {
		t.Fatalf("ListByEmployee() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0] != rec {
		t.Fatalf("results[0] = %+v, want %+v", results[0], rec)
	}
}

func TestListFiltersByEmployeeAndSortsDescending(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	recs := []Recommendation{
		{CustomerID: "1", EmpID: "E1", Response: "a", Created: "2023-01-01T00:00:00"},
		{CustomerID: "2", EmpID: "E2", Response: "b", Created: "2023-05-01T00:00:00"},
		{CustomerID: "3", EmpID: "E1", Response: "c", Created: "2023-03-01T00:00:00"},
		{CustomerID: "4", EmpID: "E1", Response: "d", Created: ""},
	}
	for _, r := range recs {
		if _, err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save(%+v) error = %v", r, err)
		}
	}

	results, err := s.ListByEmployee(ctx, "E1")
	if err != nil {
		t.Fatalf("ListByEmployee() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	wantOrder := []string{"3", "1", "4"}
	for i, want := range wantOrder {
		if results[i].CustomerID != want {
			t.Fatalf("results[%d].CustomerID = %q, want %q (order %+v)", i, results[i].CustomerID, want, results)
		}
	}
}

func TestListEmptyStore(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "never-created"), zap.NewNop())
	results, err := s.ListByEmployee(context.Background(), "E1")
	if err != nil {
		t.Fatalf("ListByEmployee() error = %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0", len(results))
	}
}

func TestListSkipsCorruptRecords(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, Recommendation{EmpID: "E1", Created: "2023-01-01T00:00:00"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "response_garbage.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	results, err := s.ListByEmployee(ctx, "E1")
	if err != nil {
		t.Fatalf("ListByEmployee() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1 (corrupt record must be skipped, not fatal)", len(results))
	}
}

func TestSaveKeysAreUniqueWithinOneSecond(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	rec := Recommendation{EmpID: "E1", Created: "2023-09-03T10:00:00"}
	for i := 0; i < 3; i++ {
		if _, err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	count := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "response_20230903_100000_") {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("stored files = %d, want 3 distinct keys for the same second", count)
	}
}
