// Package goals implements the goal tracker: goals earn points when
// recorded, and the player's level rises with their score.
package goals

import (
	"fmt"
	"strconv"

	"github.com/FocuswithJustin/JuniperPractice/core/errors"
)

// Kind selects a goal's recording rules.
type Kind int

const (
	Simple    Kind = iota + 1 // completes on the first record
	Eternal                   // earns points on every record
	Checklist                 // completes after Target records, with a bonus
	Negative                  // deducts points on every record
)

var kindNames = map[Kind]string{
	Simple:    "SimpleGoal",
	Eternal:   "EternalGoal",
	Checklist: "ChecklistGoal",
	Negative:  "NegativeGoal",
}

// String returns the name used in saved files.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a saved kind name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown goal kind %q", errors.ErrInvalidInput, s)
}

// Goal is one goal of any kind. Complete applies to Simple goals; Done,
// Target and Bonus apply to Checklist goals.
type Goal struct {
	Kind        Kind
	Name        string
	Description string
	Points      int

	Complete bool

	Done   int
	Target int
	Bonus  int
}

// NewSimple returns a goal that is finished after one record.
func NewSimple(name, description string, points int) Goal {
	return Goal{Kind: Simple, Name: name, Description: description, Points: points}
}

// NewEternal returns a goal that is never finished.
func NewEternal(name, description string, points int) Goal {
	return Goal{Kind: Eternal, Name: name, Description: description, Points: points}
}

// NewChecklist returns a goal finished after target records, paying bonus
// on the last one.
func NewChecklist(name, description string, points, target, bonus int) Goal {
	return Goal{Kind: Checklist, Name: name, Description: description, Points: points, Target: target, Bonus: bonus}
}

// NewNegative returns a goal that costs points each time it is recorded.
func NewNegative(name, description string, points int) Goal {
	return Goal{Kind: Negative, Name: name, Description: description, Points: points}
}

// Record registers one accomplishment and returns the points it earned,
// which are negative for Negative goals.
func (g *Goal) Record() int {
	switch g.Kind {
	case Simple:
		if g.Complete {
			return 0
		}
		g.Complete = true
		return g.Points
	case Eternal:
		return g.Points
	case Checklist:
		if g.Done >= g.Target {
			return 0
		}
		g.Done++
		if g.Done == g.Target {
			return g.Points + g.Bonus
		}
		return g.Points
	case Negative:
		return -g.Points
	}
	return 0
}

// IsComplete reports whether the goal can earn nothing more.
func (g Goal) IsComplete() bool {
	switch g.Kind {
	case Simple:
		return g.Complete
	case Checklist:
		return g.Done >= g.Target
	}
	return false
}

// Details renders the goal for the goal list.
func (g Goal) Details() string {
	mark := " "
	if g.IsComplete() {
		mark = "X"
	}
	s := fmt.Sprintf("[%s] %s: %s", mark, g.Name, g.Description)
	if g.Kind == Checklist {
		s += fmt.Sprintf(" (%d/%d)", g.Done, g.Target)
	}
	return s
}

// Validate rejects goals that cannot be recorded sensibly.
func (g Goal) Validate() error {
	if _, ok := kindNames[g.Kind]; !ok {
		return errors.NewValidation("kind", g.Kind.String())
	}
	if g.Name == "" {
		return errors.NewValidation("name", "must not be empty")
	}
	if g.Points < 0 {
		return errors.NewValidation("points", "must not be negative")
	}
	if g.Kind == Checklist {
		if g.Target < 1 {
			return errors.NewValidation("target", "must be positive")
		}
		if g.Done < 0 || g.Done > g.Target {
			return errors.NewValidation("done", fmt.Sprintf("must be between 0 and %d", g.Target))
		}
		if g.Bonus < 0 {
			return errors.NewValidation("bonus", "must not be negative")
		}
	}
	return nil
}

// fields returns the saved record for the goal.
func (g Goal) fields() []string {
	rec := []string{g.Kind.String(), g.Name, g.Description, strconv.Itoa(g.Points)}
	switch g.Kind {
	case Simple:
		rec = append(rec, formatBool(g.Complete))
	case Checklist:
		rec = append(rec, strconv.Itoa(g.Done), strconv.Itoa(g.Target), strconv.Itoa(g.Bonus))
	}
	return rec
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
