// Command practice runs the scripture memorizer and the other practice
// programs: journal, goal tracker, mindfulness activities and video catalog.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/JuniperPractice/internal/config"
	"github.com/FocuswithJustin/JuniperPractice/internal/console"
	"github.com/FocuswithJustin/JuniperPractice/internal/logging"

	// Register the built-in scripture source handlers
	_ "github.com/FocuswithJustin/JuniperPractice/internal/embedded"
)

const version = "0.1.0"

// CLI defines the command-line interface for practice.
type CLI struct {
	Globals

	Scripture   ScriptureGroup `cmd:"" help:"Memorize scripture passages"`
	Journal     JournalCmd     `cmd:"" help:"Write and review journal entries"`
	Goals       GoalsCmd       `cmd:"" help:"Track goals and earn points"`
	Mindfulness MindfulnessCmd `cmd:"" help:"Breathing, reflection, listing and meditation activities"`
	Videos      VideosCmd      `cmd:"" help:"Show the video catalog"`
	InitConfig  ConfigCmd      `cmd:"" name:"init-config" help:"Write the effective configuration to a file"`
	Version     VersionCmd     `cmd:"" help:"Print version information"`
}

// Globals are flags shared by every command.
type Globals struct {
	Config    string `name:"config" env:"PRACTICE_CONFIG" help:"YAML configuration file" type:"path"`
	LogLevel  string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level (${enum})"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log format (${enum})"`
	DB        string `name:"db" env:"PRACTICE_DB" help:"Practice history database" type:"path"`
}

// ScriptureGroup contains the memorizer commands.
type ScriptureGroup struct {
	Play    PlayCmd    `cmd:"" default:"withargs" help:"Practice a passage"`
	List    ListCmd    `cmd:"" help:"List the passages in a source"`
	History HistoryCmd `cmd:"" help:"Show recent practice sessions"`
}

// app carries what every command needs.
type app struct {
	ctx     context.Context
	cfg     *config.Config
	console *console.Console
	dbPath  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("practice"),
		kong.Description("Juniper Practice - scripture memorization and study habits"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = execute(ctx, &cli, kctx, console.Stdio())
	kctx.FatalIfErrorf(err)
}

// execute configures logging and configuration, then runs the selected
// command against con.
func execute(ctx context.Context, cli *CLI, kctx *kong.Context, con *console.Console) error {
	level, err := logging.ParseLevel(cli.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cli.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format, kctx.Stderr)

	ctx = logging.WithSessionID(ctx, uuid.NewString())

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}

	return kctx.Run(&app{
		ctx:     ctx,
		cfg:     cfg,
		console: con,
		dbPath:  cli.dbPath(),
	})
}

// dbPath returns the history database path, defaulting to the user's
// configuration directory.
func (g *Globals) dbPath() string {
	if g.DB != "" {
		return g.DB
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "practice-history.db"
	}
	return filepath.Join(dir, "juniper-practice", "history.db")
}
