package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{12, 5, 35} {
		if _, err := store.SaveScore("classic", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("pyramid", 16); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("classic", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	want := []int{35, 12, 5}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
		if scores[i].LevelID != "classic" {
			t.Errorf("scores[%d] level = %q, want classic", i, scores[i].LevelID)
		}
	}

	other, err := store.TopScores("pyramid", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("Expected 1 pyramid score, got %d", len(other))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		store.SaveScore("classic", (i+1)*5)
	}

	scores, err := store.TopScores("classic", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 25 || scores[1].Score != 20 || scores[2].Score != 15 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("classic")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty level, got %d", high)
	}

	store.SaveScore("classic", 10)
	store.SaveScore("classic", 35)
	store.SaveScore("classic", 20)

	high, err = store.HighScore("classic")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 35 {
		t.Errorf("Expected high score of 35, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("classic", 10)
	store.SaveRun(RunRecord{LevelID: "classic", Score: 10, Outcome: OutcomeGameOver})
	store.SaveScore("pyramid", 3)

	if err := store.ClearScores("classic"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("classic", 10); len(scores) != 0 {
		t.Errorf("Expected 0 classic scores after clear, got %d", len(scores))
	}
	if runs, _ := store.RecentRuns("classic", 10); len(runs) != 0 {
		t.Errorf("Expected 0 classic runs after clear, got %d", len(runs))
	}
	if scores, _ := store.TopScores("pyramid", 10); len(scores) != 1 {
		t.Error("Pyramid scores should not be affected by clearing classic")
	}
}

func TestStoreRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{LevelID: "classic", Score: 7, TotalBricks: 35, Outcome: OutcomeGameOver, Duration: 40, Ticks: 2400},
		{LevelID: "classic", Score: 35, TotalBricks: 35, Outcome: OutcomeLevelWon, Duration: 95, Ticks: 5700},
		{LevelID: "single", Score: 1, TotalBricks: 1, Outcome: OutcomeLevelWon, Duration: 3, Ticks: 180},
	}
	var lastID int64
	for _, r := range runs {
		id, err := store.SaveRun(r)
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		lastID = id
	}

	got, err := store.RunByID(lastID)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil || got.LevelID != "single" || got.Outcome != OutcomeLevelWon || got.Ticks != 180 {
		t.Errorf("RunByID() = %+v", got)
	}

	missing, err := store.RunByID(9999)
	if err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %v, %v; want nil, nil", missing, err)
	}

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 3 || all[0].LevelID != "single" {
		t.Errorf("RecentRuns(all) = %+v, want 3 runs newest first", all)
	}

	classic, err := store.RecentRuns("classic", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(classic) != 2 || classic[0].Score != 35 {
		t.Errorf("RecentRuns(classic) = %+v", classic)
	}
}

func TestStoreRejectsUnknownOutcome(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveRun(RunRecord{LevelID: "classic", Outcome: "exploded"}); err == nil {
		t.Error("SaveRun() should reject an unknown outcome")
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{LevelID: "classic", Score: 10, Outcome: OutcomeGameOver})
	store.SaveRun(RunRecord{LevelID: "classic", Score: 35, Outcome: OutcomeLevelWon})
	store.SaveRun(RunRecord{LevelID: "pyramid", Score: 4, Outcome: OutcomeQuit})

	stats, err := store.GetLevelStats("classic")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.Wins != 1 || stats.HighScore != 35 {
		t.Errorf("classic stats = %+v", stats)
	}
	if stats.AvgScore != 22.5 {
		t.Errorf("AvgScore = %v, want 22.5", stats.AvgScore)
	}

	empty, err := store.GetLevelStats("checker")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	all, err := store.GetAllLevelStats()
	if err != nil {
		t.Fatalf("GetAllLevelStats() failed: %v", err)
	}
	if len(all) != 2 || all["pyramid"].Wins != 0 {
		t.Errorf("GetAllLevelStats() = %v", all)
	}
}

func TestStoreNestedPath(t *testing.T) {
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
