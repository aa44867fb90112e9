package goals

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/FocuswithJustin/JuniperPractice/core/errors"
	"github.com/FocuswithJustin/JuniperPractice/internal/validation"
)

// DefaultThresholds are the scores at which levels 1 through 4 begin.
var DefaultThresholds = []int{0, 100, 300, 600}

const playerRecord = "Player"

// Player is the person earning points.
type Player struct {
	Name  string
	Score int
}

// Level returns the player level for score: one plus the number of
// thresholds after the first that score has reached.
func Level(score int, thresholds []int) int {
	level := 1
	for _, t := range thresholds[min(1, len(thresholds)):] {
		if score >= t {
			level++
		}
	}
	return level
}

// Manager owns a player and their goals.
type Manager struct {
	Player Player
	Goals  []Goal

	thresholds []int
}

// NewManager returns a manager for a new player. Nil thresholds select
// DefaultThresholds.
func NewManager(player string, thresholds []int) *Manager {
	if thresholds == nil {
		thresholds = DefaultThresholds
	}
	return &Manager{Player: Player{Name: player}, thresholds: thresholds}
}

// Level returns the player's current level.
func (m *Manager) Level() int {
	return Level(m.Player.Score, m.thresholds)
}

// PlayerInfo renders the player line.
func (m *Manager) PlayerInfo() string {
	return fmt.Sprintf("Player: %s, Score: %d points, Level: %d", m.Player.Name, m.Player.Score, m.Level())
}

// Add validates and appends a goal.
func (m *Manager) Add(g Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	m.Goals = append(m.Goals, g)
	return nil
}

// RecordEvent records the goal at index and adds the points earned to the
// player's score.
func (m *Manager) RecordEvent(index int) (Goal, int, error) {
	if index < 0 || index >= len(m.Goals) {
		return Goal{}, 0, errors.NewValidation("goal", fmt.Sprintf("no goal %d", index+1))
	}
	earned := m.Goals[index].Record()
	m.Player.Score += earned
	return m.Goals[index], earned, nil
}

// Encode writes the player row followed by one row per goal.
func (m *Manager) Encode(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{playerRecord, m.Player.Name, strconv.Itoa(m.Player.Score)}); err != nil {
		return err
	}
	for _, g := range m.Goals {
		if err := cw.Write(g.fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads rows written by Encode, or goal rows alone. It returns the
// saved player, if any, and the goals with their recorded state.
func Decode(r io.Reader) (*Player, []Goal, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var player *Player
	var goals []Goal
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := cr.FieldPos(0)

		if rec[0] == playerRecord {
			p, err := decodePlayer(rec)
			if err != nil {
				return nil, nil, &errors.ParseError{Format: "goals", Line: line, Message: err.Error(), Err: err}
			}
			player = &p
			continue
		}

		g, err := decodeGoal(rec)
		if err != nil {
			return nil, nil, &errors.ParseError{Format: "goals", Line: line, Message: err.Error(), Err: err}
		}
		goals = append(goals, g)
	}
	return player, goals, nil
}

func decodePlayer(rec []string) (Player, error) {
	if len(rec) != 3 {
		return Player{}, fmt.Errorf("player row has %d fields, want 3", len(rec))
	}
	score, err := strconv.Atoi(rec[2])
	if err != nil {
		return Player{}, fmt.Errorf("score: %w", err)
	}
	return Player{Name: rec[1], Score: score}, nil
}

func decodeGoal(rec []string) (Goal, error) {
	kind, err := ParseKind(rec[0])
	if err != nil {
		return Goal{}, err
	}

	want := map[Kind]int{Simple: 5, Eternal: 4, Checklist: 7, Negative: 4}[kind]
	// Simple goals saved without their state are still accepted.
	if len(rec) != want && !(kind == Simple && len(rec) == 4) {
		return Goal{}, fmt.Errorf("%s row has %d fields, want %d", kind, len(rec), want)
	}

	points, err := strconv.Atoi(rec[3])
	if err != nil {
		return Goal{}, fmt.Errorf("points: %w", err)
	}
	g := Goal{Kind: kind, Name: rec[1], Description: rec[2], Points: points}

	switch kind {
	case Simple:
		if len(rec) == 5 {
			if g.Complete, err = strconv.ParseBool(rec[4]); err != nil {
				return Goal{}, fmt.Errorf("complete: %w", err)
			}
		}
	case Checklist:
		counts := make([]int, 3)
		for i, field := range rec[4:7] {
			if counts[i], err = strconv.Atoi(field); err != nil {
				return Goal{}, fmt.Errorf("field %d: %w", i+5, err)
			}
		}
		g.Done, g.Target, g.Bonus = counts[0], counts[1], counts[2]
	}
	return g, g.Validate()
}

// Save writes the player and goals to path, replacing the file.
func (m *Manager) Save(path string) error {
	if err := validation.ValidatePath(path); err != nil {
		return &errors.ValidationError{Field: "filename", Value: path, Message: err.Error(), Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	if err := m.Encode(f); err != nil {
		f.Close()
		return errors.NewIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("close", path, err)
	}
	return nil
}

// Load appends the goals saved at path. A saved player row restores the
// player's name and score. It returns the number of goals read.
func (m *Manager) Load(path string) (int, error) {
	if err := validation.ValidatePath(path); err != nil {
		return 0, &errors.ValidationError{Field: "filename", Value: path, Message: err.Error(), Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NewNotFound("goals file", path)
		}
		return 0, errors.NewIO("open", path, err)
	}
	defer f.Close()

	player, goals, err := Decode(f)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return 0, pe
		}
		return 0, &errors.ParseError{Format: "goals", Path: path, Message: err.Error(), Err: err}
	}

	if player != nil {
		m.Player = *player
	}
	m.Goals = append(m.Goals, goals...)
	return len(goals), nil
}
