package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	coreerrors "github.com/FocuswithJustin/JuniperPractice/core/errors"
	"github.com/FocuswithJustin/JuniperPractice/core/scripture"
	"github.com/FocuswithJustin/JuniperPractice/core/sqlite"
	"github.com/FocuswithJustin/JuniperPractice/internal/console"
	"github.com/FocuswithJustin/JuniperPractice/internal/formats"
	"github.com/FocuswithJustin/JuniperPractice/internal/formats/pipe"
	"github.com/FocuswithJustin/JuniperPractice/internal/game"
	"github.com/FocuswithJustin/JuniperPractice/internal/goals"
	"github.com/FocuswithJustin/JuniperPractice/internal/journal"
	"github.com/FocuswithJustin/JuniperPractice/internal/logging"
	"github.com/FocuswithJustin/JuniperPractice/internal/mindfulness"
	"github.com/FocuswithJustin/JuniperPractice/internal/progress"
	"github.com/FocuswithJustin/JuniperPractice/internal/videos"
)

// PlayCmd runs the memorizer on one passage.
type PlayCmd struct {
	Source    string `arg:"" optional:"" help:"Scripture source: pipe text or OSIS XML, optionally xz or gzip compressed" type:"path"`
	Reference string `short:"r" help:"Practice this passage (e.g. \"John 3:16\") instead of a random one"`
	Seed      uint64 `help:"Seed for reproducible passage choice and word hiding (0 is random)"`
	Initial   int    `help:"Words hidden when a round starts (default from config)"`
	Escalate  int    `help:"Words hidden after the first quiz of a round (default from config)"`
	NoClear   bool   `name:"no-clear" help:"Do not clear the screen between displays"`
	NoHistory bool   `name:"no-history" help:"Do not record this session"`
}

func (c *PlayCmd) Run(a *app) error {
	res, err := loadSource(a, c.Source)
	if err != nil {
		return err
	}

	var intN func(int) int
	var opts []scripture.Option
	if c.Seed != 0 {
		rng := rand.New(rand.NewPCG(c.Seed, c.Seed))
		intN = rng.IntN
		opts = append(opts, scripture.WithSeed(c.Seed))
	}

	passage, err := game.Select(res, c.Reference, intN)
	if errors.Is(err, game.ErrNoPassages) {
		a.console.Println(game.MsgNoPassages)
		return nil
	}
	if err != nil {
		return err
	}

	cfg := game.Config{
		InitialHide:  firstPositive(c.Initial, a.cfg.Scripture.InitialHide),
		EscalateHide: firstPositive(c.Escalate, a.cfg.Scripture.EscalateHide),
		ClearScreen:  a.cfg.Scripture.ClearScreen && !c.NoClear,
	}

	var store *progress.Store
	var gameOpts []game.Option
	if a.cfg.Scripture.History && !c.NoHistory {
		store, err = progress.Open(a.ctx, a.dbPath)
		if err != nil {
			logging.WarnContext(a.ctx, "practice history unavailable", "path", a.dbPath, "error", err)
		} else {
			defer store.Close()
			gameOpts = append(gameOpts, game.WithRecorder(store))
		}
	}

	session := scripture.NewSession(passage.Reference, passage.Text, opts...)
	summary, err := game.New(session, a.console, cfg, gameOpts...).Play(a.ctx)
	logging.InfoContext(a.ctx, "practice finished",
		"reference", summary.Reference,
		"rounds", summary.Rounds,
		"guessed", summary.WordsGuessed,
		"mistakes", summary.Mistakes,
		"completed", summary.Completed)
	if err != nil || store == nil {
		return err
	}

	st, err := store.Stats(a.ctx, session.Fingerprint())
	if err != nil {
		logging.WarnContext(a.ctx, "practice stats unavailable", "path", store.Path(), "error", err)
		return nil
	}
	return progress.WriteStats(a.console.Out(), summary.Reference, st, time.Now())
}

// ListCmd prints every passage of a source in the pipe format.
type ListCmd struct {
	Source string `arg:"" optional:"" help:"Scripture source file" type:"path"`
}

func (c *ListCmd) Run(a *app) error {
	res, err := loadSource(a, c.Source)
	if err != nil {
		return err
	}
	return pipe.Encode(a.console.Out(), res.Passages)
}

// HistoryCmd prints recent practice results, or the summary of one passage.
type HistoryCmd struct {
	Source    string `arg:"" optional:"" help:"Scripture source holding --reference" type:"path"`
	Reference string `short:"r" help:"Summarize this passage (e.g. \"John 11:35\") instead of listing sessions"`
	Limit     int    `short:"n" default:"10" help:"Number of sessions to show"`
}

func (c *HistoryCmd) Run(a *app) error {
	var passage formats.Passage
	if c.Reference != "" {
		res, err := loadSource(a, c.Source)
		if err != nil {
			return err
		}
		if passage, err = game.Select(res, c.Reference, nil); err != nil {
			return err
		}
	}

	store, err := progress.OpenReadOnly(a.ctx, a.dbPath)
	if errors.Is(err, coreerrors.ErrNotFound) {
		if c.Reference != "" {
			return progress.WriteStats(a.console.Out(), passage.Reference.String(), progress.Stats{BestMistakes: -1}, time.Now())
		}
		return progress.WriteHistory(a.console.Out(), nil, time.Now())
	}
	if err != nil {
		return err
	}
	defer store.Close()
	logging.DebugContext(a.ctx, "reading practice history", "path", store.Path())

	if c.Reference != "" {
		fingerprint := scripture.NewSession(passage.Reference, passage.Text).Fingerprint()
		st, err := store.Stats(a.ctx, fingerprint)
		if err != nil {
			return err
		}
		return progress.WriteStats(a.console.Out(), passage.Reference.String(), st, time.Now())
	}

	results, err := store.Recent(a.ctx, c.Limit)
	if err != nil {
		return err
	}
	return progress.WriteHistory(a.console.Out(), results, time.Now())
}

// JournalCmd runs the journal menu.
type JournalCmd struct{}

func (c *JournalCmd) Run(a *app) error {
	return journal.Run(a.ctx, journal.New(a.cfg.Journal.Prompts), a.console)
}

// GoalsCmd runs the goal tracker menu.
type GoalsCmd struct {
	Player string `short:"p" help:"Player name (asked for when omitted)"`
}

func (c *GoalsCmd) Run(a *app) error {
	name := c.Player
	if name == "" {
		var err error
		name, err = goals.AskPlayer(a.console)
		if errors.Is(err, console.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return goals.Run(a.ctx, goals.NewManager(name, a.cfg.Goals.LevelThresholds), a.console)
}

// MindfulnessCmd runs the activity menu.
type MindfulnessCmd struct{}

func (c *MindfulnessCmd) Run(a *app) error {
	prompts := mindfulness.Prompts{
		Reflection: a.cfg.Mindfulness.ReflectionPrompts,
		Questions:  a.cfg.Mindfulness.ReflectionQuestions,
		Listing:    a.cfg.Mindfulness.ListingPrompts,
	}
	return mindfulness.Run(a.ctx, mindfulness.New(a.console, prompts))
}

// VideosCmd displays a video catalog.
type VideosCmd struct {
	Catalog string `help:"YAML video catalog (default: built-in sample)" type:"path"`
}

func (c *VideosCmd) Run(a *app) error {
	path := c.Catalog
	if path == "" {
		path = a.cfg.Videos.Catalog
	}
	catalog, err := videos.Load(path)
	if err != nil {
		return err
	}
	return catalog.Display(a.console.Out())
}

// ConfigCmd writes the effective configuration, defaults included, so it
// can be edited and passed back with --config.
type ConfigCmd struct {
	Output string `arg:"" help:"YAML file to write" type:"path"`
}

func (c *ConfigCmd) Run(a *app) error {
	if err := a.cfg.Save(c.Output); err != nil {
		return err
	}
	logging.FileSaved(a.ctx, "config", c.Output, 1)
	a.console.Printf("Configuration written to %s.\n", c.Output)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	info := sqlite.GetInfo()
	a.console.Printf("practice version %s (sqlite: %s, %s)\n", version, info.DriverType, info.Package)
	return nil
}

// loadSource loads path, or the configured source when path is empty, and
// logs every malformed entry.
func loadSource(a *app, path string) (*formats.Result, error) {
	if path == "" {
		path = a.cfg.Scripture.Source
	}

	res, err := formats.Load(a.ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading scriptures: %w", err)
	}

	for _, p := range res.Problems {
		logging.SourceProblem(a.ctx, path, p.Line, p)
	}
	logging.SourceLoaded(a.ctx, path, res.Format, len(res.Passages), len(res.Problems))
	return res, nil
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
