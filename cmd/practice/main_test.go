package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperPractice/internal/console"
	"github.com/FocuswithJustin/JuniperPractice/internal/game"
)

// run parses args and executes the command with input on stdin, returning
// everything written to the console.
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return runReader(t, strings.NewReader(input), args...)
}

func runReader(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()

	var cli CLI
	var stdout, stderr bytes.Buffer
	parser, err := kong.New(&cli,
		kong.Name("practice"),
		kong.Exit(func(int) { t.Fatalf("unexpected exit for %v", args) }),
		kong.Writers(&stdout, &stderr),
	)
	if err != nil {
		t.Fatalf("kong.New() error: %v", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%v) error: %v", args, err)
	}

	var out bytes.Buffer
	err = execute(context.Background(), &cli, kctx, console.New(in, &out))
	return out.String(), err
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scripture.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "practice version "+version) {
		t.Errorf("version output = %q", out)
	}
}

func TestVideosSample(t *testing.T) {
	out, err := run(t, "", "videos")
	if err != nil {
		t.Fatalf("videos error: %v", err)
	}
	if !strings.Contains(out, "Title: C# Basics Tutorial\n") {
		t.Errorf("videos output missing sample title:\n%s", out)
	}
}

func TestScriptureList(t *testing.T) {
	src := writeSource(t, "# favourites\nJohn 11:35|Jesus wept.\nnot a passage\nProverbs 3:5-6|Trust in the Lord\n")
	out, err := run(t, "", "scripture", "list", src)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	want := "John 11:35|Jesus wept.\nProverbs 3:5-6|Trust in the Lord\n"
	if out != want {
		t.Errorf("list output = %q, want %q", out, want)
	}
}

func TestScriptureListMissingSource(t *testing.T) {
	_, err := run(t, "", "scripture", "list", filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected an error for a missing source")
	}
}

func TestPlayQuitWithoutHistory(t *testing.T) {
	src := writeSource(t, "John 11:35|Jesus wept.\n")
	out, err := run(t, "quit\n", "scripture", "play", src, "--no-history", "--no-clear", "--seed", "3")
	if err != nil {
		t.Fatalf("play error: %v", err)
	}
	if !strings.Contains(out, "John 11:35\nJesus wept.\n") {
		t.Errorf("play output missing passage:\n%s", out)
	}
	if !strings.Contains(out, game.MsgPressEnter) {
		t.Errorf("play output missing prompt:\n%s", out)
	}
}

func TestPlayEmptySource(t *testing.T) {
	src := writeSource(t, "# nothing yet\n")
	out, err := run(t, "", "scripture", "play", src, "--no-history")
	if err != nil {
		t.Fatalf("play error: %v", err)
	}
	if got := strings.TrimSpace(out); got != game.MsgNoPassages {
		t.Errorf("play output = %q, want %q", got, game.MsgNoPassages)
	}
}

func TestPlayUnknownReference(t *testing.T) {
	src := writeSource(t, "John 11:35|Jesus wept.\n")
	if _, err := run(t, "", "scripture", "play", src, "-r", "John 3:16", "--no-history"); err == nil {
		t.Fatal("expected an error for a reference not in the source")
	}
}

func TestPlayRecordsHistory(t *testing.T) {
	src := writeSource(t, "John 11:35|Jesus wept.\n")
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := run(t, "", "--db", db, "scripture", "history")
	if err != nil {
		t.Fatalf("history error: %v", err)
	}
	if got := strings.TrimSpace(out); got != "No practice sessions recorded." {
		t.Errorf("empty history = %q", got)
	}
	if _, err := os.Stat(db); !os.IsNotExist(err) {
		t.Errorf("history created the database: %v", err)
	}

	out, err = run(t, "quit\n", "--db", db, "scripture", "play", src, "--no-clear")
	if err != nil {
		t.Fatalf("play error: %v", err)
	}
	if want := "John 11:35: practiced 1 time, completed 0, none completed, last"; !strings.Contains(out, want) {
		t.Errorf("play output missing %q:\n%s", want, out)
	}

	out, err = run(t, "", "--db", db, "scripture", "history")
	if err != nil {
		t.Fatalf("history error: %v", err)
	}
	if !strings.Contains(out, "John 11:35") || !strings.Contains(out, "stopped") {
		t.Errorf("history output = %q", out)
	}

	out, err = run(t, "", "--db", db, "scripture", "history", src, "-r", "John 11:35")
	if err != nil {
		t.Fatalf("history -r error: %v", err)
	}
	if !strings.HasPrefix(out, "John 11:35: practiced 1 time, completed 0") {
		t.Errorf("history -r output = %q", out)
	}
}

func TestHistoryReferenceWithoutDatabase(t *testing.T) {
	src := writeSource(t, "John 11:35|Jesus wept.\n")
	db := filepath.Join(t.TempDir(), "history.db")
	out, err := run(t, "", "--db", db, "scripture", "history", src, "-r", "John 11:35")
	if err != nil {
		t.Fatalf("history -r error: %v", err)
	}
	if got := strings.TrimSpace(out); got != "John 11:35: not practiced yet." {
		t.Errorf("history -r output = %q", got)
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "practice.yaml")
	out, err := run(t, "", "init-config", path)
	if err != nil {
		t.Fatalf("init-config error: %v", err)
	}
	if want := "Configuration written to " + path + ".\n"; out != want {
		t.Errorf("init-config output = %q, want %q", out, want)
	}

	// The written file is a valid configuration in its own right.
	if _, err := run(t, "", "--config", path, "version"); err != nil {
		t.Fatalf("loading the written config: %v", err)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestGoalsAskPlayerErrors(t *testing.T) {
	if _, err := run(t, "", "goals"); err != nil {
		t.Errorf("goals with closed input error = %v, want nil", err)
	}

	readErr := errors.New("terminal gone")
	if _, err := runReader(t, failingReader{readErr}, "goals"); !errors.Is(err, readErr) {
		t.Errorf("goals with failing input error = %v, want %v", err, readErr)
	}
}

func TestJournalExit(t *testing.T) {
	if _, err := run(t, "5\n", "journal"); err != nil {
		t.Fatalf("journal error: %v", err)
	}
}

func TestGoalsPlayerInfo(t *testing.T) {
	out, err := run(t, "1\n7\n", "goals", "--player", "Ruth")
	if err != nil {
		t.Fatalf("goals error: %v", err)
	}
	if !strings.Contains(out, "Player: Ruth, Score: 0 points, Level: 1") {
		t.Errorf("goals output missing player info:\n%s", out)
	}
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "practice.yaml")
	if err := os.WriteFile(path, []byte("scripture:\n  initial_hide: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "", "--config", path, "version"); err == nil {
		t.Fatal("expected a validation error for initial_hide 0")
	}
}
