package scoring

import (
	"sort"
)

// ScoreHistory is the in-process log of finished rounds, kept per
// difficulty. It is not persisted.
type ScoreHistory struct {
	entries map[string][]ScoreHistoryEntry
}

// ScoreHistoryEntry is one finished round.
type ScoreHistoryEntry struct {
	Difficulty string
	Won        bool
	Moves      int
	TimeSec    int
	Improved   bool
}

// NewScoreHistory returns an empty history.
func NewScoreHistory() *ScoreHistory {
	return &ScoreHistory{entries: map[string][]ScoreHistoryEntry{}}
}

// Add appends an entry.
func (sh *ScoreHistory) Add(e ScoreHistoryEntry) {
	sh.entries[e.Difficulty] = append(sh.entries[e.Difficulty], e)
}

// Attempts returns how many rounds of a difficulty have finished.
func (sh *ScoreHistory) Attempts(difficulty string) int {
	return len(sh.entries[difficulty])
}

// Wins returns how many rounds of a difficulty were won.
func (sh *ScoreHistory) Wins(difficulty string) int {
	n := 0
	for _, e := range sh.entries[difficulty] {
		if e.Won {
			n++
		}
	}
	return n
}

// GetNBest returns up to n won entries for a difficulty, best first.
func (sh *ScoreHistory) GetNBest(difficulty string, n int) []ScoreHistoryEntry {
	var won []ScoreHistoryEntry
	for _, e := range sh.entries[difficulty] {
		if e.Won {
			won = append(won, e)
		}
	}

	sort.SliceStable(won, func(i, j int) bool {
		a := Record{Moves: won[i].Moves, TimeSec: won[i].TimeSec}
		b := Record{Moves: won[j].Moves, TimeSec: won[j].TimeSec}
		return a.Beats(b)
	})

	if len(won) < n {
		return won
	}
	return won[:n]
}
