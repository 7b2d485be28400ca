package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidPairs      = errors.New("pair count must be at least 1")
	ErrGridMismatch      = errors.New("grid size does not match card count")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// DefaultAssetPattern is where card faces live, relative to the asset root.
const DefaultAssetPattern = "assets/{difficulty}/{key}.png"

// Profile is the static configuration of one difficulty tier.
type Profile struct {
	ID           string
	Label        string
	Pairs        int
	Cols         int
	Rows         int    // 0 derives rows from Pairs and Cols
	AssetPattern string // {difficulty} and {key} are substituted
	TimeLimit    int    // seconds; 0 means no limit (count-up clock)
}

// Options adjust the profiles a session plays with.
type Options struct {
	TimerLimit int // -1 keep profile limits, 0 off, >0 seconds for every profile
	Seed       int64
}

// DefaultProfiles returns the built-in difficulty tiers.
func DefaultProfiles() []Profile {
	return []Profile{
		{ID: "easy", Label: "Easy", Pairs: 6, Cols: 3, Rows: 4, AssetPattern: DefaultAssetPattern, TimeLimit: 60},
		{ID: "medium", Label: "Medium", Pairs: 8, Cols: 4, Rows: 4, AssetPattern: DefaultAssetPattern, TimeLimit: 90},
		{ID: "hard", Label: "Hard", Pairs: 12, Cols: 6, Rows: 4, AssetPattern: DefaultAssetPattern, TimeLimit: 120},
	}
}

// ApplyOptions returns a copy of profiles with the timer override applied.
func ApplyOptions(profiles []Profile, opts Options) []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	if opts.TimerLimit < 0 {
		return out
	}
	for i := range out {
		out[i].TimeLimit = opts.TimerLimit
	}
	return out
}

// FindProfile looks a profile up by ID.
func FindProfile(profiles []Profile, id string) (Profile, error) {
	for _, p := range profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, id)
}

// Validate checks the pair count and grid shape.
func (p Profile) Validate() error {
	if p.Pairs < 1 {
		return fmt.Errorf("profile %q: %w (got %d)", p.ID, ErrInvalidPairs, p.Pairs)
	}
	if p.Rows > 0 && p.Cols > 0 && p.Rows*p.Cols != 2*p.Pairs {
		return fmt.Errorf("profile %q: %w (%dx%d for %d cards)", p.ID, ErrGridMismatch, p.Cols, p.Rows, 2*p.Pairs)
	}
	if p.TimeLimit < 0 {
		return fmt.Errorf("profile %q: negative time limit %d", p.ID, p.TimeLimit)
	}
	return nil
}

// Timed reports whether rounds of this profile count down.
func (p Profile) Timed() bool {
	return p.TimeLimit > 0
}

// Columns returns the grid width, defaulting to a near-square layout.
func (p Profile) Columns() int {
	if p.Cols > 0 {
		return p.Cols
	}
	n := 2 * p.Pairs
	c := 1
	for c*c < n {
		c++
	}
	return c
}

// GridRows returns the number of grid rows.
func (p Profile) GridRows() int {
	if p.Rows > 0 {
		return p.Rows
	}
	c := p.Columns()
	return (2*p.Pairs + c - 1) / c
}

// Asset resolves the face asset for a pairing key.
func (p Profile) Asset(key int) string {
	pattern := p.AssetPattern
	if pattern == "" {
		pattern = DefaultAssetPattern
	}
	r := strings.NewReplacer("{difficulty}", p.ID, "{key}", strconv.Itoa(key))
	return r.Replace(pattern)
}
