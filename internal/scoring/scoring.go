package scoring

import (
	"encoding/json"
	"fmt"
)

// StorageKey is the single key under which all best results are kept.
const StorageKey = "memory.best.v1"

// Record is the best result for one difficulty.
type Record struct {
	Moves   int `json:"moves"`
	TimeSec int `json:"timeSec"`
}

// Beats reports whether r is strictly better than other: faster wins,
// and on equal time fewer moves wins.
func (r Record) Beats(other Record) bool {
	if r.TimeSec != other.TimeSec {
		return r.TimeSec < other.TimeSec
	}
	return r.Moves < other.Moves
}

// Scoring keeps the best result per difficulty in a key-value storage.
type Scoring struct {
	storage Storage
}

// InitScoring creates a score store on top of the given storage.
func InitScoring(storage Storage) *Scoring {
	return &Scoring{storage: storage}
}

// Best returns the stored record for a difficulty, if any.
func (s *Scoring) Best(difficulty string) (Record, bool) {
	rec, ok := s.loadAll()[difficulty]
	return rec, ok
}

// All returns every stored record.
func (s *Scoring) All() map[string]Record {
	return s.loadAll()
}

// Submit stores the result if it beats the current record and reports
// whether it did. The store is left untouched otherwise. An error is
// returned only when an improved record could not be written.
func (s *Scoring) Submit(difficulty string, moves, elapsedSeconds int) (bool, error) {
	all := s.loadAll()
	candidate := Record{Moves: moves, TimeSec: elapsedSeconds}
	if prev, ok := all[difficulty]; ok && !candidate.Beats(prev) {
		return false, nil
	}

	all[difficulty] = candidate
	data, err := json.Marshal(all)
	if err != nil {
		return true, fmt.Errorf("could not encode records: %w", err)
	}
	if err := s.storage.Put(StorageKey, data); err != nil {
		return true, fmt.Errorf("could not save records: %w", err)
	}
	return true, nil
}

// loadAll reads the stored mapping. Missing, unreadable or corrupt data
// all read as an empty mapping.
func (s *Scoring) loadAll() map[string]Record {
	all := map[string]Record{}
	data, err := s.storage.Get(StorageKey)
	if err != nil || len(data) == 0 {
		return all
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return map[string]Record{}
	}
	if all == nil {
		// payload was literally "null"
		return map[string]Record{}
	}
	return all
}
