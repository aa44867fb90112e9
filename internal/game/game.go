// Package game drives a scripture memorization session over the console.
//
// Each round hides a few words, quizzes them in display order until every
// guess is right, hides more, then quizzes every hidden word. The game ends
// when the user types quit, input runs out, or no visible word is left.
package game

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperPractice/core/errors"
	"github.com/FocuswithJustin/JuniperPractice/core/scripture"
	"github.com/FocuswithJustin/JuniperPractice/internal/console"
	"github.com/FocuswithJustin/JuniperPractice/internal/formats"
	"github.com/FocuswithJustin/JuniperPractice/internal/logging"
	"github.com/FocuswithJustin/JuniperPractice/internal/progress"
)

// Console messages.
const (
	MsgPressEnter = "Press Enter to hide words or type 'quit' to exit."
	MsgAllHidden  = "All words are hidden. Well done!"
	MsgCorrect    = "Correct!"
	MsgWrong      = "Wrong answer. Try again."
	MsgNoPassages = "No scriptures found in the file."
	quitCommand   = "quit"
)

// ErrNoPassages is returned by Select when the source holds no passage.
var ErrNoPassages = errors.New(MsgNoPassages)

// errQuit ends the game from inside a quiz.
var errQuit = errors.New("quit")

// Config controls hiding and screen handling.
type Config struct {
	InitialHide  int  // words hidden when a round starts
	EscalateHide int  // words hidden after the first quiz of a round
	ClearScreen  bool // clear the terminal before each display
}

// DefaultConfig returns the standard hide counts with screen clearing on.
func DefaultConfig() Config {
	return Config{InitialHide: 4, EscalateHide: 5, ClearScreen: true}
}

// Recorder stores finished games.
type Recorder interface {
	Record(ctx context.Context, r progress.Result) error
}

// Summary describes a finished game.
type Summary struct {
	Reference    string
	Rounds       int
	WordsGuessed int
	Mistakes     int
	Completed    bool // every word was hidden
	Quit         bool
}

// Game runs one session on one console.
type Game struct {
	session  *scripture.Session
	console  *console.Console
	cfg      Config
	recorder Recorder
	now      func() time.Time

	summary Summary
}

// Option configures a Game.
type Option func(*Game)

// WithRecorder records the result when the game ends.
func WithRecorder(r Recorder) Option {
	return func(g *Game) {
		g.recorder = r
	}
}

// WithClock replaces time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		g.now = now
	}
}

// New returns a game over session.
func New(session *scripture.Session, c *console.Console, cfg Config, opts ...Option) *Game {
	g := &Game{
		session: session,
		console: c,
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Play runs the game until it ends and returns what happened. A cancelled
// context stops the game and is returned as the error.
func (g *Game) Play(ctx context.Context) (Summary, error) {
	ref := g.session.Reference().String()
	g.summary = Summary{Reference: ref}
	started := g.now()

	err := g.run(ctx)
	switch {
	case errors.Is(err, errQuit):
		g.summary.Quit = true
		err = nil
	case err != nil && ctx.Err() != nil:
		g.summary.Quit = true
	}

	if g.recorder != nil {
		result := progress.NewResult(g.session.Fingerprint(), ref, started)
		result.FinishedAt = g.now()
		result.Rounds = g.summary.Rounds
		result.WordsGuessed = g.summary.WordsGuessed
		result.Mistakes = g.summary.Mistakes
		result.Completed = g.summary.Completed
		result.Quit = g.summary.Quit
		if rerr := g.recorder.Record(context.WithoutCancel(ctx), result); rerr != nil {
			logging.WarnContext(ctx, "failed to record practice result", "reference", ref, "error", rerr)
		}
	}
	return g.summary, err
}

func (g *Game) run(ctx context.Context) error {
	if err := g.display(false); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := g.console.Prompt(MsgPressEnter)
		if err != nil {
			return g.inputErr(err)
		}
		if strings.TrimSpace(line) == quitCommand {
			return errQuit
		}

		picked, err := g.session.HideRandomWords(g.cfg.InitialHide)
		if errors.Is(err, scripture.ErrAllHidden) {
			g.console.Println(MsgAllHidden)
			g.summary.Completed = true
			return nil
		}
		if err != nil {
			return err
		}

		if err := g.display(true); err != nil {
			return err
		}
		if err := g.quiz(ctx, picked); err != nil {
			return err
		}

		// Escalation may find nothing left to hide; the full quiz still runs.
		if _, err := g.session.RemoveMoreWords(g.cfg.EscalateHide); err != nil && !errors.Is(err, scripture.ErrAllHidden) {
			return err
		}
		g.session.ResetHiddenIndices()

		if err := g.display(true); err != nil {
			return err
		}
		if err := g.quiz(ctx, g.session.HiddenIndices()); err != nil {
			return err
		}

		g.summary.Rounds++
		logging.RoundCompleted(ctx, g.summary.Reference, g.summary.Rounds,
			g.session.HiddenCount(), g.session.Len(), "mistakes", g.summary.Mistakes)
	}
}

// display clears the screen when configured and shows the passage, then
// the missing-word list when missing is set.
func (g *Game) display(missing bool) error {
	if g.cfg.ClearScreen {
		g.console.Clear()
	}
	if err := g.session.Display(g.console.Out()); err != nil {
		return err
	}
	if missing {
		return g.session.DisplayMissingWordPositions(g.console.Out())
	}
	return nil
}

// quiz asks for each index in display order until the guess is right.
func (g *Game) quiz(ctx context.Context, indices []int) error {
	for _, index := range g.session.SortByPosition(indices) {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			g.console.Printf("What is word number %d?\n", g.session.WordPosition(index))
			guess, err := g.console.ReadLine()
			if err != nil {
				return g.inputErr(err)
			}

			if g.session.CheckGuess(strings.TrimSpace(guess), index) {
				g.console.Println(MsgCorrect)
				g.summary.WordsGuessed++
				break
			}
			g.console.Println(MsgWrong)
			g.summary.Mistakes++
		}
	}
	return nil
}

// inputErr treats closed input as the user quitting.
func (g *Game) inputErr(err error) error {
	if errors.Is(err, console.ErrClosed) {
		return errQuit
	}
	return err
}

// Select returns the passage of src with the given reference, or a random
// passage when reference is empty.
func Select(src *formats.Result, reference string, intN func(int) int) (formats.Passage, error) {
	if src == nil || len(src.Passages) == 0 {
		return formats.Passage{}, ErrNoPassages
	}

	if reference == "" {
		if intN == nil {
			intN = rand.IntN
		}
		return src.Passages[intN(len(src.Passages))], nil
	}

	ref, err := scripture.ParseReference(reference)
	if err != nil {
		return formats.Passage{}, &errors.ValidationError{Field: "reference", Value: reference, Message: err.Error(), Err: err}
	}
	p, ok := src.Lookup(ref)
	if !ok {
		return formats.Passage{}, errors.NewNotFound("passage", ref.String())
	}
	return p, nil
}
