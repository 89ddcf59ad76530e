package store

import (
	"errors"
	"reflect"
	"testing"

	"github.com/chessweb/chess-backend/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func TestSaveAndLoadGame(t *testing.T) {
	st := openTestStore(t)

	game := model.NewGame()
	game.SetAI(false, model.Black)
	if result := game.MakeMove(model.Position{Row: 6, Col: 4}, model.Position{Row: 4, Col: 4}, ""); !result.Success {
		t.Fatalf("setup move failed: %s", result.Message)
	}
	snap := game.Snapshot()

	if err := st.SaveGame(snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := st.LoadGame(snap.GameID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(snap, loaded) {
		t.Errorf("loaded snapshot differs from saved")
	}

	// the loaded snapshot resumes as a playable game
	resumed, err := model.FromSnapshot(loaded)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if result := resumed.MakeMove(model.Position{Row: 1, Col: 4}, model.Position{Row: 3, Col: 4}, ""); !result.Success {
		t.Errorf("resumed game rejected a legal move: %s", result.Message)
	}
}

func TestSaveGameRequiresID(t *testing.T) {
	st := openTestStore(t)
	if err := st.SaveGame(model.Snapshot{}); err == nil {
		t.Errorf("snapshot without id must be rejected")
	}
}

func TestLoadGameNotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.LoadGame("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteGame(t *testing.T) {
	st := openTestStore(t)
	snap := model.NewGame().Snapshot()

	if err := st.SaveGame(snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.DeleteGame(snap.GameID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.LoadGame(snap.GameID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted game should be gone, got %v", err)
	}

	if err := st.DeleteGame("missing"); err != nil {
		t.Errorf("deleting a missing game is not an error, got %v", err)
	}
}

func TestListGames(t *testing.T) {
	st := openTestStore(t)

	first := model.NewGame()
	second := model.NewGame()
	second.Resign(model.White)

	for _, g := range []*model.Game{first, second} {
		if err := st.SaveGame(g.Snapshot()); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	summaries, err := st.ListGames()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("want 2 summaries, got %d", len(summaries))
	}

	byID := map[string]GameSummary{}
	for _, s := range summaries {
		byID[s.GameID] = s
	}
	if s, ok := byID[first.ID()]; !ok || s.GameOver {
		t.Errorf("first game should be listed as ongoing, got %+v", s)
	}
	finished, ok := byID[second.ID()]
	if !ok || !finished.GameOver {
		t.Fatalf("second game should be listed as finished, got %+v", finished)
	}
	if finished.Winner == nil || *finished.Winner != model.Black {
		t.Errorf("resigned game lists black as winner, got %v", finished.Winner)
	}
	if finished.FinishedAt == nil {
		t.Errorf("finished game carries its finish time")
	}
}

func TestRecordResultAndStats(t *testing.T) {
	st := openTestStore(t)

	stats, err := st.LoadStats()
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if *stats != (Stats{}) {
		t.Errorf("fresh store should report empty stats, got %+v", stats)
	}

	whiteWin := model.NewGame()
	whiteWin.Resign(model.Black)
	blackWin := model.NewGame()
	blackWin.Resign(model.White)
	draw := model.NewGame()
	draw.Resign(model.White)
	drawSnap := draw.Snapshot()
	drawSnap.Winner = nil

	for _, snap := range []model.Snapshot{whiteWin.Snapshot(), blackWin.Snapshot(), drawSnap} {
		if err := st.RecordResult(snap); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	stats, err = st.LoadStats()
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	want := Stats{GamesPlayed: 3, WhiteWins: 1, BlackWins: 1, Draws: 1}
	if *stats != want {
		t.Errorf("want %+v, got %+v", want, *stats)
	}
}

func TestRecordResultRejectsUnfinished(t *testing.T) {
	st := openTestStore(t)
	if err := st.RecordResult(model.NewGame().Snapshot()); err == nil {
		t.Errorf("unfinished game must be rejected")
	}
}
