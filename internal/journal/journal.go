// Package journal implements the prompt-driven journal program.
package journal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperPractice/core/errors"
	"github.com/FocuswithJustin/JuniperPractice/internal/console"
	"github.com/FocuswithJustin/JuniperPractice/internal/logging"
	"github.com/FocuswithJustin/JuniperPractice/internal/validation"
)

// DateLayout is the timestamp format of entries.
const DateLayout = "2006-01-02 15:04:05"

// Field prefixes of the text format.
const (
	prefixDate     = "Date: "
	prefixCategory = "Category: "
	prefixPrompt   = "Prompt: "
	prefixEntry    = "Entry: "
)

// Entry is one journal entry.
type Entry struct {
	Date     string
	Category string
	Prompt   string
	Content  string
}

// String renders the entry in the text format, ending with a newline.
func (e Entry) String() string {
	return fmt.Sprintf("%s%s\n%s%s\n%s%s\n%s%s\n",
		prefixDate, e.Date, prefixCategory, e.Category, prefixPrompt, e.Prompt, prefixEntry, e.Content)
}

// Journal holds entries in the order they were written or loaded.
type Journal struct {
	Entries []Entry

	prompts []string
	intN    func(int) int
	now     func() time.Time
}

// Option configures a Journal.
type Option func(*Journal)

// WithRand picks prompts with intN.
func WithRand(intN func(int) int) Option {
	return func(j *Journal) { j.intN = intN }
}

// WithClock stamps entries with now.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// New returns an empty journal drawing prompts from prompts.
func New(prompts []string, opts ...Option) *Journal {
	j := &Journal{prompts: prompts, intN: rand.IntN, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Add appends an entry dated now and returns it.
func (j *Journal) Add(content, prompt, category string) Entry {
	e := Entry{
		Date:     j.now().Format(DateLayout),
		Category: category,
		Prompt:   prompt,
		Content:  content,
	}
	j.Entries = append(j.Entries, e)
	return e
}

// GeneratePrompt returns a random prompt.
func (j *Journal) GeneratePrompt() string {
	if len(j.prompts) == 0 {
		return ""
	}
	return j.prompts[j.intN(len(j.prompts))]
}

// Display writes every entry followed by a blank line.
func (j *Journal) Display(w io.Writer) error {
	if len(j.Entries) == 0 {
		_, err := fmt.Fprintln(w, "No entries available.")
		return err
	}
	return j.Encode(w)
}

// Encode writes every entry in the text format.
func (j *Journal) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range j.Entries {
		if _, err := fmt.Fprintln(bw, e.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes the journal to path, replacing the file.
func (j *Journal) Save(path string) error {
	if err := validation.ValidatePath(path); err != nil {
		return &errors.ValidationError{Field: "filename", Value: path, Message: err.Error(), Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	if err := j.Encode(f); err != nil {
		f.Close()
		return errors.NewIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("close", path, err)
	}
	return nil
}

// Load appends the entries stored at path and returns how many were read.
func (j *Journal) Load(path string) (int, error) {
	if err := validation.ValidatePath(path); err != nil {
		return 0, &errors.ValidationError{Field: "filename", Value: path, Message: err.Error(), Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NewNotFound("journal", path)
		}
		return 0, errors.NewIO("open", path, err)
	}
	defer f.Close()

	entries, err := Decode(f)
	if err != nil {
		return 0, errors.NewIO("read", path, err)
	}
	j.Entries = append(j.Entries, entries...)
	return len(entries), nil
}

// Decode reads entries in the text format. Entries are separated by blank
// lines; an entry is kept once all four field lines have been seen, even
// when a field is empty. Lines that match no field are ignored.
func Decode(r io.Reader) ([]Entry, error) {
	var out []Entry
	var cur Entry
	var seen int

	flush := func() {
		if seen == fieldDate|fieldCategory|fieldPrompt|fieldEntry {
			out = append(out, cur)
		}
		cur, seen = Entry{}, 0
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if v, ok := field(line, prefixDate); ok {
			if seen&fieldDate != 0 {
				flush()
			}
			cur.Date, seen = v, seen|fieldDate
		} else if v, ok := field(line, prefixCategory); ok {
			cur.Category, seen = v, seen|fieldCategory
		} else if v, ok := field(line, prefixPrompt); ok {
			cur.Prompt, seen = v, seen|fieldPrompt
		} else if v, ok := field(line, prefixEntry); ok {
			cur.Content, seen = v, seen|fieldEntry
		}
	}
	flush()
	return out, scanner.Err()
}

const (
	fieldDate = 1 << iota
	fieldCategory
	fieldPrompt
	fieldEntry
)

// field returns the value of line when it starts with prefix. The space
// after the colon is optional, since editors strip trailing blanks.
func field(line, prefix string) (string, bool) {
	name := strings.TrimSpace(prefix)
	if !strings.HasPrefix(line, name) {
		return "", false
	}
	return strings.TrimSpace(line[len(name):]), true
}

// Run shows the journal menu until the user exits or input ends.
func Run(ctx context.Context, j *Journal, c *console.Console) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.Println()
		c.Println("Journal Menu:")
		c.Println("1. Write a new entry")
		c.Println("2. Display all entries")
		c.Println("3. Save journal to text file")
		c.Println("4. Load journal from text file")
		c.Println("5. Exit")
		choice, err := c.Ask("Choose an option: ")
		if err != nil {
			return closed(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			prompt := j.GeneratePrompt()
			c.Printf("\nPrompt: %s\n", prompt)
			content, err := c.Ask("Write your journal entry: ")
			if err != nil {
				return closed(err)
			}
			category, err := c.Ask("Enter a category for this entry (e.g., Personal, Work, Reflection): ")
			if err != nil {
				return closed(err)
			}
			j.Add(content, prompt, category)

		case "2":
			if err := j.Display(c.Out()); err != nil {
				return err
			}

		case "3":
			name, err := c.Ask("Enter the filename to save the journal (with .txt extension): ")
			if err != nil {
				return closed(err)
			}
			name = strings.TrimSpace(name)
			if err := j.Save(name); err != nil {
				c.Printf("An error occurred while saving the journal: %v\n", err)
				continue
			}
			logging.FileSaved(ctx, "journal", name, len(j.Entries))
			c.Printf("Journal saved to %s in text format.\n", name)

		case "4":
			name, err := c.Ask("Enter the filename to load the journal (with .txt extension): ")
			if err != nil {
				return closed(err)
			}
			name = strings.TrimSpace(name)
			if _, err := j.Load(name); err != nil {
				if errors.Is(err, errors.ErrNotFound) {
					c.Println("File not found.")
				} else {
					c.Printf("An error occurred while loading the journal: %v\n", err)
				}
				continue
			}
			c.Printf("Journal loaded from %s in text format.\n", name)

		case "5":
			return nil

		default:
			c.Println("Invalid option. Please try again.")
		}
	}
}

// closed ends the menu quietly when input runs out.
func closed(err error) error {
	if errors.Is(err, console.ErrClosed) {
		return nil
	}
	return err
}
