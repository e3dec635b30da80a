package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-jelly/internal/multiplayer"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save some solves
	_, err = store.SaveSolve("01-first-push", 5, 30*time.Second)
	if err != nil {
		t.Fatalf("SaveSolve() failed: %v", err)
	}

	_, err = store.SaveSolve("01-first-push", 2, 45*time.Second)
	if err != nil {
		t.Fatalf("SaveSolve() failed: %v", err)
	}

	_, err = store.SaveSolve("01-first-push", 9, 10*time.Second)
	if err != nil {
		t.Fatalf("SaveSolve() failed: %v", err)
	}

	// Different level
	_, err = store.SaveSolve("02-drop-in", 4, time.Minute)
	if err != nil {
		t.Fatalf("SaveSolve() failed: %v", err)
	}

	// Retrieve best solves for the first level
	solves, err := store.BestSolves("01-first-push", 10)
	if err != nil {
		t.Fatalf("BestSolves() failed: %v", err)
	}

	if len(solves) != 3 {
		t.Errorf("Expected 3 solves, got %d", len(solves))
	}

	// Should be sorted by fewest moves
	if solves[0].Moves != 2 {
		t.Errorf("Expected best solve to be 2 moves, got %d", solves[0].Moves)
	}
	if solves[1].Moves != 5 {
		t.Errorf("Expected second solve to be 5 moves, got %d", solves[1].Moves)
	}
	if solves[2].Moves != 9 {
		t.Errorf("Expected third solve to be 9 moves, got %d", solves[2].Moves)
	}

	if solves[0].Duration != 45*time.Second {
		t.Errorf("Expected best solve duration 45s, got %v", solves[0].Duration)
	}

	// Retrieve solves for the other level
	otherSolves, err := store.BestSolves("02-drop-in", 10)
	if err != nil {
		t.Fatalf("BestSolves() failed: %v", err)
	}

	if len(otherSolves) != 1 {
		t.Errorf("Expected 1 solve for 02-drop-in, got %d", len(otherSolves))
	}
}

func TestStoreBestSolvesTiebreak(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Same move count, different durations
	store.SaveSolve("lvl", 3, 90*time.Second)
	store.SaveSolve("lvl", 3, 20*time.Second)

	solves, err := store.BestSolves("lvl", 10)
	if err != nil {
		t.Fatalf("BestSolves() failed: %v", err)
	}
	if len(solves) != 2 {
		t.Fatalf("Expected 2 solves, got %d", len(solves))
	}
	if solves[0].Duration != 20*time.Second {
		t.Errorf("Faster solve should rank first on equal moves, got %v", solves[0].Duration)
	}
}

func TestStoreBestSolvesLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save 5 solves
	for i := 0; i < 5; i++ {
		store.SaveSolve("lvl", (i+1)*2, time.Second)
	}

	// Request only top 3
	solves, err := store.BestSolves("lvl", 3)
	if err != nil {
		t.Fatalf("BestSolves() failed: %v", err)
	}

	if len(solves) != 3 {
		t.Errorf("Expected 3 solves with limit, got %d", len(solves))
	}

	// Should be 2, 4, 6 (fewest moves first)
	if solves[0].Moves != 2 || solves[1].Moves != 4 || solves[2].Moves != 6 {
		t.Errorf("Solves not in expected order: %v", solves)
	}
}

func TestStoreBestMoves(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// No solves yet
	best, err := store.BestMoves("lvl")
	if err != nil {
		t.Fatalf("BestMoves() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected best of 0 for unsolved level, got %d", best)
	}

	// Add solves
	store.SaveSolve("lvl", 7, time.Second)
	store.SaveSolve("lvl", 3, time.Second)
	store.SaveSolve("lvl", 5, time.Second)

	best, err = store.BestMoves("lvl")
	if err != nil {
		t.Fatalf("BestMoves() failed: %v", err)
	}
	if best != 3 {
		t.Errorf("Expected best of 3 moves, got %d", best)
	}
}

func TestStoreClearSolves(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveSolve("a", 3, time.Second)
	store.SaveSolve("a", 4, time.Second)
	store.SaveSolve("b", 5, time.Second)

	// Clear only level a
	err = store.ClearSolves("a")
	if err != nil {
		t.Fatalf("ClearSolves() failed: %v", err)
	}

	// Level a should be empty
	aSolves, _ := store.BestSolves("a", 10)
	if len(aSolves) != 0 {
		t.Errorf("Expected 0 solves for a after clear, got %d", len(aSolves))
	}

	// Level b should still have solves
	bSolves, _ := store.BestSolves("b", 10)
	if len(bSolves) != 1 {
		t.Errorf("Level b solves should not be affected by clearing a")
	}
}

func TestStoreAllSolves(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Add many solves
	for i := 0; i < 20; i++ {
		store.SaveSolve("lvl", i+1, time.Second)
	}

	solves, err := store.AllSolves("lvl")
	if err != nil {
		t.Fatalf("AllSolves() failed: %v", err)
	}

	if len(solves) != 20 {
		t.Errorf("Expected 20 solves, got %d", len(solves))
	}
}

func TestStoreSolutionCache(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Nothing cached yet
	entry, err := store.CachedSolution("lvl", "key-a")
	if err != nil {
		t.Fatalf("CachedSolution() failed: %v", err)
	}
	if entry != nil {
		t.Errorf("Expected no cached solution, got %+v", entry)
	}

	// Cache a result
	err = store.SaveSolution("lvl", "key-a", "0R 1L", 42, true)
	if err != nil {
		t.Fatalf("SaveSolution() failed: %v", err)
	}

	entry, err = store.CachedSolution("lvl", "key-a")
	if err != nil {
		t.Fatalf("CachedSolution() failed: %v", err)
	}
	if entry == nil {
		t.Fatal("Expected cached solution, got nil")
	}
	if entry.Path != "0R 1L" {
		t.Errorf("Path = %q, expected %q", entry.Path, "0R 1L")
	}
	if entry.Explored != 42 {
		t.Errorf("Explored = %d, expected 42", entry.Explored)
	}
	if !entry.Solvable {
		t.Error("Entry should be marked solvable")
	}

	// Different state key misses
	entry, err = store.CachedSolution("lvl", "key-b")
	if err != nil {
		t.Fatalf("CachedSolution() failed: %v", err)
	}
	if entry != nil {
		t.Error("Different state key should not hit the cache")
	}

	// Replacing the same position updates in place
	err = store.SaveSolution("lvl", "key-a", "0R", 50, true)
	if err != nil {
		t.Fatalf("SaveSolution() replace failed: %v", err)
	}
	entry, _ = store.CachedSolution("lvl", "key-a")
	if entry == nil || entry.Path != "0R" || entry.Explored != 50 {
		t.Errorf("Replaced entry = %+v, expected path 0R explored 50", entry)
	}
}

func TestStoreSolutionCacheUnsolvable(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	err = store.SaveSolution("lvl", "stuck", "", 120, false)
	if err != nil {
		t.Fatalf("SaveSolution() failed: %v", err)
	}

	entry, err := store.CachedSolution("lvl", "stuck")
	if err != nil {
		t.Fatalf("CachedSolution() failed: %v", err)
	}
	if entry == nil {
		t.Fatal("Expected cached verdict, got nil")
	}
	if entry.Solvable {
		t.Error("Entry should be marked unsolvable")
	}
	if entry.Path != "" {
		t.Errorf("Unsolvable entry should have empty path, got %q", entry.Path)
	}

	// ClearSolutions drops it
	if err := store.ClearSolutions("lvl"); err != nil {
		t.Fatalf("ClearSolutions() failed: %v", err)
	}
	entry, _ = store.CachedSolution("lvl", "stuck")
	if entry != nil {
		t.Error("Cache should be empty after ClearSolutions")
	}
}

func TestStoreRaceMatches(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	result := RaceMatchResult{
		MatchID:        "match-ABCDEF-1",
		LevelID:        "05-ferry",
		Player1Session: "sess-1",
		Player2Session: "sess-2",
		Moves1:         2,
		Moves2:         5,
		WinnerSession:  "sess-1",
		EndReason:      "Level solved",
		Duration:       33,
	}

	_, err = store.SaveRaceMatch(result)
	if err != nil {
		t.Fatalf("SaveRaceMatch() failed: %v", err)
	}

	got, err := store.RaceMatchByID("match-ABCDEF-1")
	if err != nil {
		t.Fatalf("RaceMatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected stored match, got nil")
	}
	if got.LevelID != "05-ferry" || got.Moves1 != 2 || got.Moves2 != 5 {
		t.Errorf("Stored match mismatch: %+v", got)
	}
	if got.WinnerSession != "sess-1" {
		t.Errorf("WinnerSession = %q, expected sess-1", got.WinnerSession)
	}

	// Unknown match returns nil without error
	missing, err := store.RaceMatchByID("nope")
	if err != nil {
		t.Fatalf("RaceMatchByID() failed: %v", err)
	}
	if missing != nil {
		t.Error("Unknown match should return nil")
	}

	// History queries see the match from both sides
	for _, sess := range []string{"sess-1", "sess-2"} {
		history, err := store.PlayerRaceHistory(sess, 10)
		if err != nil {
			t.Fatalf("PlayerRaceHistory(%s) failed: %v", sess, err)
		}
		if len(history) != 1 {
			t.Errorf("Expected 1 match in history for %s, got %d", sess, len(history))
		}
	}

	recent, err := store.RecentRaceMatches(10)
	if err != nil {
		t.Fatalf("RecentRaceMatches() failed: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("Expected 1 recent match, got %d", len(recent))
	}
}

func TestStoreSaveMatchResultAdapter(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	err = store.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:        "match-XYZZY-9",
		LevelID:        "03-over-the-block",
		Player1Session: "h",
		Player2Session: "j",
		Moves1:         4,
		Moves2:         6,
		WinnerSession:  "h",
		EndReason:      "Level solved",
		DurationSecs:   12,
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	got, err := store.RaceMatchByID("match-XYZZY-9")
	if err != nil {
		t.Fatalf("RaceMatchByID() failed: %v", err)
	}
	if got == nil || got.Moves1 != 4 || got.Moves2 != 6 {
		t.Errorf("Adapter did not persist the result: %+v", got)
	}
}

func TestStoreLevelStats(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveSolve("lvl", 10, time.Second)
	store.SaveSolve("lvl", 4, time.Second)
	store.SaveSolve("lvl", 7, time.Second)
	store.SaveSolve("other", 2, time.Second)

	stats, err := store.GetLevelStats("lvl")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if stats.SolveCount != 3 {
		t.Errorf("SolveCount = %d, expected 3", stats.SolveCount)
	}
	if stats.BestMoves != 4 {
		t.Errorf("BestMoves = %d, expected 4", stats.BestMoves)
	}
	if stats.AvgMoves != 7.0 {
		t.Errorf("AvgMoves = %f, expected 7.0", stats.AvgMoves)
	}

	all, err := store.GetAllLevelStats()
	if err != nil {
		t.Fatalf("GetAllLevelStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected stats for 2 levels, got %d", len(all))
	}
	if all["other"] == nil || all["other"].BestMoves != 2 {
		t.Errorf("Stats for other level wrong: %+v", all["other"])
	}
}

func TestStoreNestedPath(t *testing.T) {
	// Verify nested directories are created for the database file
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
