// Package progress keeps the scripture practice history in SQLite.
package progress

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/JuniperPractice/core/digest"
	"github.com/FocuswithJustin/JuniperPractice/core/errors"
	"github.com/FocuswithJustin/JuniperPractice/core/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS results (
	id            TEXT PRIMARY KEY,
	fingerprint   TEXT NOT NULL,
	reference     TEXT NOT NULL,
	rounds        INTEGER NOT NULL,
	words_guessed INTEGER NOT NULL,
	mistakes      INTEGER NOT NULL,
	completed     INTEGER NOT NULL,
	quit          INTEGER NOT NULL,
	started_at    INTEGER NOT NULL,
	finished_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS results_fingerprint ON results (fingerprint);
CREATE INDEX IF NOT EXISTS results_finished ON results (finished_at);`

const resultColumns = `id, fingerprint, reference, rounds, words_guessed, mistakes, completed, quit, started_at, finished_at`

// Result is one finished practice session.
type Result struct {
	ID           string
	Fingerprint  string
	Reference    string
	Rounds       int
	WordsGuessed int
	Mistakes     int
	Completed    bool // every word ended up hidden
	Quit         bool // the user typed quit or closed input
	StartedAt    time.Time
	FinishedAt   time.Time
}

// NewResult starts a result for the passage with a fresh id.
func NewResult(fingerprint, reference string, started time.Time) Result {
	return Result{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		Reference:   reference,
		StartedAt:   started,
	}
}

// Validate checks the fields the store relies on.
func (r Result) Validate() error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return &errors.ValidationError{Field: "id", Value: r.ID, Message: "not a UUID", Err: err}
	}
	if !digest.Valid(r.Fingerprint) {
		return &errors.ValidationError{Field: "fingerprint", Value: r.Fingerprint, Message: "not a passage fingerprint"}
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return errors.NewValidation("finished_at", "before started_at")
	}
	return nil
}

// Stats summarizes the history of one passage.
type Stats struct {
	Fingerprint   string
	Sessions      int
	Completed     int
	BestMistakes  int // fewest wrong guesses in a completed session, -1 when none
	LastPracticed time.Time
}

// Store is the practice history database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlite.OpenFile(ctx, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.NewIO("create schema", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// OpenReadOnly opens an existing history database for reading. A missing
// file is a *errors.NotFoundError.
func OpenReadOnly(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("practice history", path)
		}
		return nil, errors.NewIO("stat", path, err)
	}

	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewIO("open", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished result.
func (s *Store) Record(ctx context.Context, r Result) error {
	if err := r.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (`+resultColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Fingerprint, r.Reference, r.Rounds, r.WordsGuessed, r.Mistakes,
		boolInt(r.Completed), boolInt(r.Quit), r.StartedAt.UnixMilli(), r.FinishedAt.UnixMilli())
	if err != nil {
		return errors.Wrapf(err, "record result %s", r.ID)
	}
	return nil
}

// Recent returns up to limit results, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM results ORDER BY finished_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query recent results")
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats summarizes every result recorded for fingerprint.
func (s *Store) Stats(ctx context.Context, fingerprint string) (Stats, error) {
	st := Stats{Fingerprint: fingerprint, BestMistakes: -1}

	var best sql.NullInt64
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(completed), 0),
			MIN(CASE WHEN completed = 1 THEN mistakes END), MAX(finished_at)
		FROM results WHERE fingerprint = ?`, fingerprint).
		Scan(&st.Sessions, &st.Completed, &best, &last)
	if err != nil {
		return Stats{}, errors.Wrapf(err, "stats for %s", fingerprint)
	}

	if best.Valid {
		st.BestMistakes = int(best.Int64)
	}
	if last.Valid {
		st.LastPracticed = time.UnixMilli(last.Int64)
	}
	return st, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (Result, error) {
	var r Result
	var completed, quit int
	var started, finished int64
	if err := row.Scan(&r.ID, &r.Fingerprint, &r.Reference, &r.Rounds, &r.WordsGuessed, &r.Mistakes,
		&completed, &quit, &started, &finished); err != nil {
		return Result{}, errors.Wrap(err, "scan result")
	}
	r.Completed = completed != 0
	r.Quit = quit != 0
	r.StartedAt = time.UnixMilli(started)
	r.FinishedAt = time.UnixMilli(finished)
	return r, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// WriteHistory prints results one per line with times relative to now.
func WriteHistory(w io.Writer, results []Result, now time.Time) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No practice sessions recorded.")
		return err
	}

	for _, r := range results {
		status := "stopped"
		if r.Completed {
			status = "completed"
		}
		_, err := fmt.Fprintf(w, "%-16s %-24s rounds=%d guessed=%d mistakes=%d %s (%s)\n",
			humanize.RelTime(r.FinishedAt, now, "ago", "from now"),
			r.Reference, r.Rounds, r.WordsGuessed, r.Mistakes, status,
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteStats prints one line summarizing the history of the passage ref.
func WriteStats(w io.Writer, ref string, st Stats, now time.Time) error {
	if st.Sessions == 0 {
		_, err := fmt.Fprintf(w, "%s: not practiced yet.\n", ref)
		return err
	}

	best := "none completed"
	if st.BestMistakes >= 0 {
		best = fmt.Sprintf("best %d %s", st.BestMistakes, plural(st.BestMistakes, "mistake"))
	}
	_, err := fmt.Fprintf(w, "%s: practiced %d %s, completed %d, %s, last %s\n",
		ref, st.Sessions, plural(st.Sessions, "time"), st.Completed, best,
		humanize.RelTime(st.LastPracticed, now, "ago", "from now"))
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
