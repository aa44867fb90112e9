// Package console provides the line-oriented input and output shared by the
// interactive programs.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrClosed is returned by the read methods once input is exhausted.
var ErrClosed = errors.New("console input closed")

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\033[H\033[2J"

// NotANumber is printed when ReadInt gets input that is not a whole number.
const NotANumber = "Please enter a whole number."

// Console reads lines from an input and writes text to an output.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// New returns a Console reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Console{scanner: scanner, out: out}
}

// Stdio returns a Console on the process's standard input and output.
func Stdio() *Console {
	return New(os.Stdin, os.Stdout)
}

// Out returns the output writer.
func (c *Console) Out() io.Writer {
	return c.out
}

// Print writes its arguments like fmt.Print.
func (c *Console) Print(a ...any) {
	fmt.Fprint(c.out, a...)
}

// Println writes its arguments like fmt.Println.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes its arguments like fmt.Printf.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Clear erases the terminal.
func (c *Console) Clear() {
	fmt.Fprint(c.out, clearScreen)
}

// ReadLine returns the next input line without its line ending.
func (c *Console) ReadLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrClosed
	}
	return strings.TrimRight(c.scanner.Text(), "\r"), nil
}

// Prompt prints msg on its own line and reads the answer.
func (c *Console) Prompt(msg string) (string, error) {
	c.Println(msg)
	return c.ReadLine()
}

// Ask prints msg without a newline and reads the answer.
func (c *Console) Ask(msg string) (string, error) {
	c.Print(msg)
	return c.ReadLine()
}

// ReadInt asks msg until the answer is a whole number.
func (c *Console) ReadInt(msg string) (int, error) {
	for {
		line, err := c.Ask(msg)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return n, nil
		}
		c.Println(NotANumber)
	}
}
