package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/talgya/planetgen/internal/persistence"
)

func TestRecordLedger_Verify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")
	r := persistence.Run{Seed: 42, ConfigHash: "abc", Digest: "d1", Plates: 17, GridSize: 41}

	if _, err := recordLedger(path, r, true); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := recordLedger(path, r, true); err != nil {
		t.Fatalf("matching run: %v", err)
	}
	changed := r
	changed.Digest = "d2"
	if _, err := recordLedger(path, changed, true); !errors.Is(err, errMismatch) {
		t.Fatalf("changed digest: got %v want mismatch", err)
	}
	if _, err := recordLedger(path, changed, false); err != nil {
		t.Fatalf("unverified run: %v", err)
	}

	db, err := persistence.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	runs, err := db.Runs(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs want 3; a mismatched run must not be recorded", len(runs))
	}
}

func TestRecordLedger_DirectoryError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := recordLedger(filepath.Join(blocker, "sub", "ledger.db"), persistence.Run{}, false)
	if err == nil || !strings.Contains(err.Error(), "ledger directory") {
		t.Fatalf("got err %v want directory error", err)
	}
}
