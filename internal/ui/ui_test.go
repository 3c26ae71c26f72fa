package ui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pscicluna/obsplan/internal/astro"
	"github.com/pscicluna/obsplan/internal/backup"
	"github.com/pscicluna/obsplan/internal/state"
)

// fakeRanker returns a fixed list of targets and records the modes it saw.
type fakeRanker struct {
	mu    sync.Mutex
	names []string
	err   error
	modes []backup.TwilightMode
}

func (f *fakeRanker) rank(mode backup.TwilightMode) (*state.Ranking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modes = append(f.modes, mode)
	if f.err != nil {
		return nil, f.err
	}
	opts := backup.DefaultOptions()
	opts.Twilight = mode
	scores := make([]backup.Score, len(f.names))
	for i, n := range f.names {
		scores[i] = backup.Score{
			Target:      astro.Target{Name: n, Coord: astro.Equatorial{RADeg: float64(10 * i), DecDeg: 20}},
			BestAirmass: 1.05 + 0.2*float64(i),
			FracGood:    1 - 0.1*float64(i),
			BestTime:    time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC),
		}
	}
	return &state.Ranking{RunID: "run", Start: time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC), Options: opts, Scores: scores}, nil
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func newTestModel(f *fakeRanker) Model {
	mgr := state.NewManager(state.DefaultConfig())
	m := New(mgr, f.rank, "irtf", backup.TwilightCivil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

// doneMsg runs a rank command and returns its result.
func doneMsg(t *testing.T, cmd tea.Cmd) rankDoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a rank command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		if len(batch) != 1 {
			t.Fatalf("expected a single command, got %d", len(batch))
		}
		msg = batch[0]()
	}
	done, ok := msg.(rankDoneMsg)
	if !ok {
		t.Fatalf("expected rankDoneMsg, got %T", msg)
	}
	return done
}

// rankOnce runs the command returned for a key and feeds the result back.
func rankOnce(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	updated, _ := m.Update(doneMsg(t, cmd))
	return updated.(Model)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(&fakeRanker{})

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_Rerank(t *testing.T) {
	f := &fakeRanker{names: []string{"HD 1", "HD 2"}}
	m := newTestModel(f)

	updated, cmd := m.Update(keyMsg("r"))
	m = updated.(Model)
	if !m.ranking {
		t.Error("model should be ranking after r")
	}

	m = rankOnce(t, m, cmd)
	if m.ranking {
		t.Error("model should be idle after the run completes")
	}
	if !m.state.HasData() {
		t.Fatal("state should hold the ranking")
	}

	view := m.View()
	for _, want := range []string{"HD 1", "HD 2", "Recent Changes", "entered at #1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_RerankWhileBusy(t *testing.T) {
	f := &fakeRanker{names: []string{"A"}}
	m := newTestModel(f)

	updated, cmd := m.Update(keyMsg("r"))
	m = updated.(Model)

	updated, _ = m.Update(keyMsg("r"))
	m = updated.(Model)
	if !m.pending {
		t.Error("second r should mark a pending run")
	}

	updated, next := m.Update(doneMsg(t, cmd))
	m = updated.(Model)
	if !m.ranking || m.pending {
		t.Error("pending run should start once the first completes")
	}
	doneMsg(t, next)

	if len(f.modes) != 2 {
		t.Errorf("ranker called %d times, want 2", len(f.modes))
	}
}

func TestModel_TwilightCycle(t *testing.T) {
	f := &fakeRanker{names: []string{"A"}}
	m := newTestModel(f)

	want := []backup.TwilightMode{backup.TwilightNautical, backup.TwilightNone, backup.TwilightCivil}
	for _, mode := range want {
		updated, cmd := m.Update(keyMsg("t"))
		m = updated.(Model)
		if m.Mode() != mode {
			t.Fatalf("Mode() = %s, want %s", m.Mode(), mode)
		}
		m = rankOnce(t, m, cmd)
	}

	if len(f.modes) != 3 {
		t.Fatalf("ranker called %d times, want 3", len(f.modes))
	}
	for i, mode := range want {
		if f.modes[i] != mode {
			t.Errorf("run %d used %s, want %s", i, f.modes[i], mode)
		}
	}
	if !strings.Contains(m.View(), "twilight civil") {
		t.Error("header should show the active twilight mode")
	}
}

func TestModel_RankError(t *testing.T) {
	f := &fakeRanker{err: errors.New("ephemeris offline")}
	m := newTestModel(f)

	_, cmd := m.Update(keyMsg("r"))
	m = rankOnce(t, m, cmd)

	if !strings.Contains(m.View(), "ephemeris offline") {
		t.Error("view should show the ranking error")
	}
}

func TestModel_StaleRefreshIgnored(t *testing.T) {
	f := &fakeRanker{names: []string{"A"}}
	m := newTestModel(f)

	_, cmd := m.Update(keyMsg("r"))
	m = rankOnce(t, m, cmd)

	// The completed run advanced the generation; an older tick is stale.
	updated, _ := m.Update(RefreshMsg{gen: m.gen - 1})
	m = updated.(Model)
	if m.ranking {
		t.Error("stale refresh should not start a run")
	}

	updated, _ = m.Update(RefreshMsg{gen: m.gen})
	if !updated.(Model).ranking {
		t.Error("current refresh should start a run")
	}
}

func TestModel_BoardShowsRecentEvents(t *testing.T) {
	var names []string
	for i := 1; i <= maxBoardEvents+2; i++ {
		names = append(names, "HD "+string(rune('A'+i-1)))
	}
	m := newTestModel(&fakeRanker{names: names})

	updated, cmd := m.Update(keyMsg("r"))
	m = rankOnce(t, updated.(Model), cmd)

	if got := len(m.board.events); got != maxBoardEvents {
		t.Fatalf("board lists %d events, want %d", got, maxBoardEvents)
	}
	if last := m.board.events[len(m.board.events)-1]; last.Target != names[len(names)-1] {
		t.Errorf("newest event target = %s, want %s", last.Target, names[len(names)-1])
	}
}

func TestBoard_Cursor(t *testing.T) {
	f := &fakeRanker{names: []string{"A", "B", "C"}}
	r, _ := f.rank(backup.TwilightCivil)
	mgr := state.NewManager(state.DefaultConfig())
	mgr.Update(r, 0, nil)

	b := NewBoardModel().UpdateData(mgr.Snapshot(), nil)
	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyDown})

	s, ok := b.Selected()
	if !ok || s.Target.Name != "C" {
		t.Errorf("Selected() = %q, want C", s.Target.Name)
	}

	// A shorter ranking pulls the cursor back in range.
	f.names = []string{"A"}
	r, _ = f.rank(backup.TwilightCivil)
	mgr.Update(r, 0, nil)
	b = b.UpdateData(mgr.Snapshot(), nil)
	if s, _ := b.Selected(); s.Target.Name != "A" {
		t.Errorf("Selected() after shrink = %q, want A", s.Target.Name)
	}
}

func TestBoard_FractionBar(t *testing.T) {
	b := BoardModel{}
	tests := []struct {
		frac       float64
		wantFilled int
	}{
		{0, 0}, {0.5, 10}, {1, 20}, {1.5, 20},
	}
	for _, tt := range tests {
		bar := b.renderFractionBar(tt.frac, 20)
		if got := strings.Count(bar, "█"); got != tt.wantFilled {
			t.Errorf("frac %.1f: filled = %d, want %d", tt.frac, got, tt.wantFilled)
		}
	}
}

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		e    state.Event
		want string
	}{
		{state.Event{Type: state.EventBackupAdded, Target: "A", NewRank: 2}, "+ A entered at #2"},
		{state.Event{Type: state.EventBackupDropped, Target: "B", OldRank: 4}, "- B dropped from #4"},
		{state.Event{Type: state.EventBackupMoved, Target: "C", OldRank: 3, NewRank: 1}, "↑ C #3 → #1"},
		{state.Event{Type: state.EventBackupMoved, Target: "D", OldRank: 1, NewRank: 2}, "↓ D #1 → #2"},
	}
	for _, tt := range tests {
		if got := FormatEvent(tt.e); got != tt.want {
			t.Errorf("FormatEvent(%+v) = %q, want %q", tt.e, got, tt.want)
		}
	}
}
