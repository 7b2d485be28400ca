package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lucas-eduardo-abreu/memory-game/internal/clock"
	"github.com/lucas-eduardo-abreu/memory-game/internal/game"
	"github.com/lucas-eduardo-abreu/memory-game/internal/scoring"
	"github.com/lucas-eduardo-abreu/memory-game/internal/state"
)

// frameInterval is how often the scheduler is advanced to wall time.
const frameInterval = 50 * time.Millisecond

const timeBarWidth = 30

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // time running out, losses
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // matches, wins
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // HUD
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Width(5).
			Align(lipgloss.Center)
)

// faces are the glyphs drawn for card keys 1..len(faces).
const faces = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

type LocalState struct {
	Session *game.Session
	Keys    KeyMap
	Help    help.Model

	cursor   int
	menuPos  int
	notice   string
	reported *game.Result
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func initialModel(sess *game.Session) *LocalState {
	return &LocalState{
		Session: sess,
		Keys:    Keys,
		Help:    help.New(),
	}
}

func (s *LocalState) Init() tea.Cmd {
	return tickCmd()
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		s.Session.Advance(time.Time(msg))
		s.reportResult()
		return s, tickCmd()
	case tea.WindowSizeMsg:
		s.Help.Width = msg.Width
	case tea.KeyMsg:
		if key.Matches(msg, s.Keys.Quit) {
			return s, tea.Quit
		}
		s.notice = ""
		switch s.Session.Screen() {
		case state.Start:
			s.updateStart(msg)
		case state.Select:
			s.updateSelect(msg)
		case state.Playing:
			s.updatePlaying(msg)
		case state.Won, state.Lost:
			s.updateResult(msg)
		}
	}
	return s, nil
}

func (s *LocalState) updateStart(msg tea.KeyMsg) {
	if key.Matches(msg, s.Keys.Select) {
		s.Session.Begin()
	}
}

func (s *LocalState) updateSelect(msg tea.KeyMsg) {
	profiles := s.Session.Profiles
	switch {
	case key.Matches(msg, s.Keys.Up):
		if s.menuPos > 0 {
			s.menuPos--
		}
	case key.Matches(msg, s.Keys.Down):
		if s.menuPos < len(profiles)-1 {
			s.menuPos++
		}
	case key.Matches(msg, s.Keys.Number):
		n, _ := strconv.Atoi(msg.String())
		if n >= 1 && n <= len(profiles) {
			s.menuPos = n - 1
			s.choose(profiles[n-1].ID)
		}
	case key.Matches(msg, s.Keys.Select):
		s.choose(profiles[s.menuPos].ID)
	case key.Matches(msg, s.Keys.Exit):
		s.Session.Back()
	}
}

func (s *LocalState) choose(id string) {
	if err := s.Session.Choose(id); err != nil {
		s.notice = err.Error()
		return
	}
	s.cursor = 0
}

func (s *LocalState) updatePlaying(msg tea.KeyMsg) {
	r := s.Session.Round()
	if r == nil {
		return
	}
	cols := r.Profile().Columns()
	total := len(r.Cards())

	switch {
	case key.Matches(msg, s.Keys.Left):
		if s.cursor%cols > 0 {
			s.cursor--
		}
	case key.Matches(msg, s.Keys.Right):
		if s.cursor%cols < cols-1 && s.cursor+1 < total {
			s.cursor++
		}
	case key.Matches(msg, s.Keys.Up):
		if s.cursor-cols >= 0 {
			s.cursor -= cols
		}
	case key.Matches(msg, s.Keys.Down):
		if s.cursor+cols < total {
			s.cursor += cols
		}
	case key.Matches(msg, s.Keys.Select):
		s.Session.Select(s.cursor)
	case key.Matches(msg, s.Keys.Hint):
		s.Session.Hint()
	case key.Matches(msg, s.Keys.Pause):
		s.Session.TogglePause()
	case key.Matches(msg, s.Keys.Exit):
		s.Session.Exit()
	}
}

func (s *LocalState) updateResult(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, s.Keys.Again), key.Matches(msg, s.Keys.Select):
		if s.Session.PlayAgain() {
			s.cursor = 0
		}
	case key.Matches(msg, s.Keys.Menu), key.Matches(msg, s.Keys.Exit):
		s.Session.Menu()
	}
}

// reportResult logs a failed record write once per finished round.
func (s *LocalState) reportResult() {
	res := s.Session.LastResult()
	if res == nil || res == s.reported {
		return
	}
	s.reported = res
	if res.SaveErr != nil {
		log.Printf("score for %s not saved: %v", res.Difficulty, res.SaveErr)
	}
}

func (s *LocalState) View() string {
	screen := s.Session.Screen()
	var b strings.Builder
	b.WriteString(boldStyle.Render(screen.Title()))
	b.WriteString("\n\n")

	switch screen {
	case state.Start:
		b.WriteString(s.renderStart())
	case state.Select:
		b.WriteString(s.renderSelect())
	case state.Playing:
		b.WriteString(s.renderPlaying())
	case state.Won, state.Lost:
		b.WriteString(s.renderResult())
	}

	if s.notice != "" {
		b.WriteString("\n" + redStyle.Render(s.notice) + "\n")
	}
	b.WriteString("\n" + s.Help.View(s.Keys.HelpFor(screen)) + "\n")
	return b.String()
}

func (s *LocalState) renderStart() string {
	return "Find every pair of matching cards.\nPress enter to begin.\n"
}

func (s *LocalState) renderSelect() string {
	var b strings.Builder
	for i, p := range s.Session.Profiles {
		limit := "untimed"
		if p.Timed() {
			limit = clock.Format(p.TimeLimit)
		}
		line := fmt.Sprintf("%d. %-8s %2d pairs  %dx%d  %s", i+1, p.Label, p.Pairs, p.Columns(), p.GridRows(), limit)
		if best, ok := s.Session.Scoring.Best(p.ID); ok {
			line += dimStyle.Render(fmt.Sprintf("  best %s in %d moves", clock.Format(best.TimeSec), best.Moves))
		}
		if i == s.menuPos {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (s *LocalState) renderPlaying() string {
	r := s.Session.Round()
	if r == nil {
		return ""
	}
	p := r.Profile()
	c := r.Clock()

	status := fmt.Sprintf("%s | TIME: %s | MOVES: %d | PAIRS: %d/%d",
		p.Label, clock.Format(c.Display()), r.Moves(), r.FoundPairs(), p.Pairs)
	if r.HintUsed() {
		status += " | HINT: used"
	} else {
		status += " | HINT: ready"
	}

	var b strings.Builder
	b.WriteString(scoreStyle.Render(status) + "\n")
	if c.Mode() == clock.CountDown {
		b.WriteString(renderTimeBar(c.Fraction()) + "\n")
	}
	b.WriteString(s.renderBoard(r))

	if card, ok := r.Card(s.cursor); ok && card.Face != game.Hidden {
		b.WriteString(dimStyle.Render(p.Asset(card.Key)) + "\n")
	}
	if r.Paused() {
		b.WriteString(boldStyle.Render("PAUSED") + " press p to resume\n")
	}
	return b.String()
}

func (s *LocalState) renderBoard(r *game.Round) string {
	cols := r.Profile().Columns()
	cards := r.Cards()

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		var cells []string
		for _, card := range cards[start:end] {
			cells = append(cells, s.renderCard(card, r.Paused()))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func (s *LocalState) renderCard(card game.Card, paused bool) string {
	style := cardStyle
	label := "?"
	switch card.Face {
	case game.Revealed:
		label = face(card.Key)
		style = style.Foreground(lipgloss.Color("11"))
	case game.Matched:
		label = face(card.Key)
		style = style.Foreground(lipgloss.Color("10"))
	}
	if paused {
		label = " "
	}
	if card.Index == s.cursor {
		style = style.BorderForeground(lipgloss.Color("12")).Bold(true)
	}
	return style.Render(label)
}

func face(key int) string {
	if key >= 1 && key <= len(faces) {
		return string(faces[key-1])
	}
	return strconv.Itoa(key)
}

// renderTimeBar draws the remaining fraction, red once a third or less is left.
func renderTimeBar(frac float64) string {
	filled := int(frac*timeBarWidth + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", timeBarWidth-filled)
	if frac <= 1.0/3.0 {
		return redStyle.Render(bar)
	}
	return greenStyle.Render(bar)
}

func (s *LocalState) renderResult() string {
	res := s.Session.LastResult()
	if res == nil {
		return ""
	}
	var b strings.Builder
	summary := fmt.Sprintf("%d moves in %s", res.Moves, clock.Format(res.TimeSec))
	if res.Won {
		b.WriteString(greenStyle.Render("All pairs found! "+summary) + "\n")
		switch {
		case res.Improved && res.HadPrevious:
			b.WriteString(fmt.Sprintf("New record! Previous best: %d moves in %s\n", res.Previous.Moves, clock.Format(res.Previous.TimeSec)))
		case res.Improved:
			b.WriteString("New record!\n")
		case res.HadPrevious:
			b.WriteString(fmt.Sprintf("Best: %d moves in %s\n", res.Previous.Moves, clock.Format(res.Previous.TimeSec)))
		}
		if res.SaveErr != nil {
			b.WriteString(redStyle.Render("The record could not be saved.") + "\n")
		}
	} else {
		b.WriteString(redStyle.Render("Time's up! "+summary) + "\n")
	}

	h := s.Session.History
	b.WriteString(fmt.Sprintf("\nAttempt: %d | Wins: %d\n", h.Attempts(res.Difficulty), h.Wins(res.Difficulty)))
	if top := h.GetNBest(res.Difficulty, 3); len(top) > 0 {
		b.WriteString("Best this session:\n")
		for _, e := range top {
			b.WriteString(fmt.Sprintf("  * %d moves in %s\n", e.Moves, clock.Format(e.TimeSec)))
		}
	}
	return b.String()
}

type timerFlag int

func (t *timerFlag) String() string {
	if *t == -1 {
		return "auto"
	}
	return clock.Format(int(*t))
}

func (t *timerFlag) Set(s string) error {
	if s == "true" {
		*t = -1 // profile limits
		return nil
	}
	if s == "false" {
		*t = 0
		return nil
	}
	v, err := game.ParseSeconds(s)
	if err != nil || v < 0 {
		return fmt.Errorf("invalid timer format: %s (use 'MM:SS' or seconds)", s)
	}
	*t = timerFlag(v)
	return nil
}

func (t *timerFlag) IsBoolFlag() bool { return true }

type strictIntFlag int

func (i *strictIntFlag) String() string {
	return fmt.Sprint(int(*i))
}

func (i *strictIntFlag) Set(s string) error {
	if s == "true" {
		return fmt.Errorf("value required (format: -flag=value)")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*i = strictIntFlag(v)
	return nil
}

func (i *strictIntFlag) IsBoolFlag() bool { return true }

type storeFlag string

func (f *storeFlag) String() string { return string(*f) }

func (f *storeFlag) Set(s string) error {
	switch s {
	case "json", "sqlite":
		*f = storeFlag(s)
		return nil
	}
	return fmt.Errorf("unknown store %q (use json or sqlite)", s)
}

// openStorage returns the record backend and a function that releases it.
func openStorage(kind storeFlag, path string) (scoring.Storage, func() error, error) {
	if kind == "sqlite" {
		st, err := scoring.NewSQLiteStorage(path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
	st, err := scoring.NewJSONFileStorage(path)
	if err != nil {
		return nil, nil, err
	}
	return st, func() error { return nil }, nil
}

func main() {
	var tFlag timerFlag = -1
	var noTimer bool
	var difficulty string
	var profilesPath string
	var store storeFlag = "json"
	var scoresPath string
	var seed strictIntFlag

	flag.Var(&tFlag, "timer", "Override every time limit (e.g. 30 or 1:30)")
	flag.Var(&tFlag, "t", "Override every time limit (shorthand)")

	flag.BoolVar(&noTimer, "notimer", false, "Play without time limits")
	flag.BoolVar(&noTimer, "nt", false, "Play without time limits (shorthand)")

	flag.StringVar(&difficulty, "difficulty", "", "Start a round of this difficulty right away")
	flag.StringVar(&difficulty, "d", "", "Start a round of this difficulty right away (shorthand)")

	flag.StringVar(&profilesPath, "profiles", "", "Load difficulty profiles from a file or directory")
	flag.StringVar(&profilesPath, "p", "", "Load difficulty profiles from a file or directory (shorthand)")

	flag.Var(&store, "store", "Record backend: json or sqlite")
	flag.StringVar(&scoresPath, "scores", "", "Path of the record file")
	flag.Var(&seed, "seed", "Seed for deck shuffles")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "    -t, --timer[=value]     Override every time limit (e.g. 30 or 1:30)\n")
		fmt.Fprintf(os.Stderr, "   -nt, --notimer           Play without time limits\n")
		fmt.Fprintf(os.Stderr, "    -d, --difficulty=ID     Start a round of this difficulty right away\n")
		fmt.Fprintf(os.Stderr, "    -p, --profiles=PATH     Load difficulty profiles from a file or directory\n")
		fmt.Fprintf(os.Stderr, "        --store=json|sqlite Record backend (default json)\n")
		fmt.Fprintf(os.Stderr, "        --scores=PATH       Path of the record file\n")
		fmt.Fprintf(os.Stderr, "        --seed=N            Seed for deck shuffles\n")
		fmt.Fprintf(os.Stderr, "    -h, --help              Show this help message\n")
	}

	flag.Parse()

	if path := os.Getenv("MEMORY_GAME_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "memory-game")
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	profiles := game.DefaultProfiles()
	if profilesPath != "" {
		loaded, err := game.LoadProfiles([]string{profilesPath})
		if err != nil {
			fmt.Printf("Error loading profiles: %v\n", err)
			os.Exit(1)
		}
		profiles = loaded
	}

	timerLimit := int(tFlag)
	if noTimer {
		timerLimit = 0
	}
	opts := game.Options{TimerLimit: timerLimit, Seed: int64(seed)}

	storage, closeStorage, err := openStorage(store, scoresPath)
	if err != nil {
		fmt.Printf("Error opening score storage: %v\n", err)
		os.Exit(1)
	}
	defer closeStorage()

	sess, err := game.NewSession(profiles, opts, scoring.InitScoring(storage), time.Now())
	if err != nil {
		fmt.Printf("Error initializing session: %v\n", err)
		os.Exit(1)
	}
	if difficulty != "" {
		if err := sess.Choose(difficulty); err != nil {
			fmt.Printf("Error starting round: %v\n", err)
			os.Exit(1)
		}
	}

	p := tea.NewProgram(initialModel(sess))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error starting the program: %v\n", err)
	}
}
