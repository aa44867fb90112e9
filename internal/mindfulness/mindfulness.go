// Package mindfulness implements timed breathing, reflection, listing and
// meditation activities with console animations.
package mindfulness

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperPractice/core/errors"
	"github.com/FocuswithJustin/JuniperPractice/internal/console"
	"github.com/FocuswithJustin/JuniperPractice/internal/logging"
)

// Animation timing.
const (
	spinnerFrame  = 200 * time.Millisecond
	spinnerCycles = 8
	countdownTick = time.Second
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// Seconds each activity cycle is assumed to take.
const (
	breathingCycle  = 8
	reflectionCycle = 10
	listingCycle    = 5
	meditationCycle = 5
)

// Kind identifies an activity.
type Kind int

const (
	Breathing Kind = iota + 1
	Reflection
	Listing
	Meditation
)

// Activity names and descriptions shown when an activity starts.
var activities = map[Kind]struct{ name, description string }{
	Breathing: {"Breathing Activity",
		"This activity will help you relax by walking you through breathing in and out slowly. Clear your mind and focus on your breathing."},
	Reflection: {"Reflecting Activity",
		"This activity will help you reflect on times in your life when you have shown strength and resilience. This will help you recognize the power you have and how you can use it in other aspects of your life."},
	Listing: {"Listing Activity",
		"This activity will help you reflect on the good things in your life by having you list as many things as you can in a certain area."},
	Meditation: {"Meditation Activity",
		"This activity will help you calm your mind and focus on the present moment."},
}

// Name returns the activity's display name.
func (k Kind) Name() string {
	return activities[k].name
}

// Prompts supplies the text the activities draw from.
type Prompts struct {
	Reflection []string
	Questions  []string
	Listing    []string
}

// Runner runs activities on a console.
type Runner struct {
	console *console.Console
	prompts Prompts
	sleep   func(ctx context.Context, d time.Duration) error
	intN    func(int) int
}

// Option configures a Runner.
type Option func(*Runner)

// WithSleep replaces the wait used by animations.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Runner) { r.sleep = sleep }
}

// WithRand picks prompts and questions with intN.
func WithRand(intN func(int) int) Option {
	return func(r *Runner) { r.intN = intN }
}

// New returns a Runner.
func New(c *console.Console, prompts Prompts, opts ...Option) *Runner {
	r := &Runner{console: c, prompts: prompts, sleep: Sleep, intN: rand.IntN}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Perform runs one activity from its start message to its end message.
func (r *Runner) Perform(ctx context.Context, kind Kind) error {
	act, ok := activities[kind]
	if !ok {
		return errors.NewValidation("activity", "unknown activity")
	}

	duration, err := r.start(ctx, act.name, act.description)
	if err != nil {
		return err
	}

	switch kind {
	case Breathing:
		err = r.breathing(ctx, duration)
	case Reflection:
		err = r.reflection(ctx, duration)
	case Listing:
		err = r.listing(ctx, duration)
	case Meditation:
		err = r.meditation(ctx, duration)
	}
	if err != nil {
		return err
	}

	logging.DebugContext(ctx, "activity completed", "activity", act.name, "seconds", duration)
	return r.end(ctx, act.name, duration)
}

func (r *Runner) start(ctx context.Context, name, description string) (int, error) {
	r.console.Printf("\nWelcome to the %s.\n", name)
	r.console.Println(description)

	duration, err := r.console.ReadInt("\nHow long, in seconds, would you like for your session? ")
	if err != nil {
		return 0, err
	}

	r.console.Println("\nGet ready...")
	return duration, r.spinner(ctx)
}

func (r *Runner) end(ctx context.Context, name string, duration int) error {
	r.console.Println("\nWell done!!")
	if err := r.spinner(ctx); err != nil {
		return err
	}
	r.console.Printf("You have completed another %d seconds of the %s.\n", duration, name)
	if err := r.spinner(ctx); err != nil {
		return err
	}
	r.console.Println()
	return nil
}

// countdown prints seconds down to 1, each erased after a second.
func (r *Runner) countdown(ctx context.Context, seconds int) error {
	for i := seconds; i > 0; i-- {
		r.console.Print(i)
		if err := r.sleep(ctx, countdownTick); err != nil {
			return err
		}
		r.console.Print("\b \b")
	}
	return nil
}

// spinner animates the spinner frames in place.
func (r *Runner) spinner(ctx context.Context) error {
	for i := 0; i < spinnerCycles; i++ {
		for _, frame := range spinnerFrames {
			r.console.Print(frame)
			if err := r.sleep(ctx, spinnerFrame); err != nil {
				return err
			}
			r.console.Print("\b")
		}
	}
	return nil
}

func (r *Runner) pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[r.intN(len(list))]
}

func (r *Runner) breathing(ctx context.Context, duration int) error {
	for left := duration; left > 0; left -= breathingCycle {
		r.console.Println("\nBreathe in...")
		if err := r.countdown(ctx, 4); err != nil {
			return err
		}
		r.console.Println("Now breathe out...")
		if err := r.countdown(ctx, 4); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) reflection(ctx context.Context, duration int) error {
	r.console.Printf("\nConsider the following prompt:\n%s\n\n", r.pick(r.prompts.Reflection))
	if _, err := r.console.Prompt("When you have something in mind, press enter to continue."); err != nil {
		return err
	}

	r.console.Println("Now ponder on each of the following questions as they relate to this experience.")
	r.console.Println("You may begin in: ")
	if err := r.countdown(ctx, 3); err != nil {
		return err
	}

	for left := duration; left > 0; left -= reflectionCycle {
		r.console.Printf("\n>%s\n", r.pick(r.prompts.Questions))
		if err := r.spinner(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) listing(ctx context.Context, duration int) error {
	r.console.Printf("\nConsider the following prompt:\n%s\n\n", r.pick(r.prompts.Listing))
	r.console.Println("You may begin listing in: ")
	if err := r.countdown(ctx, 3); err != nil {
		return err
	}

	items := 0
	for left := duration; left > 0; left -= listingCycle {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.console.Ask("> "); err != nil {
			return err
		}
		items++
	}

	r.console.Printf("\nYou listed %d items.\n", items)
	return nil
}

func (r *Runner) meditation(ctx context.Context, duration int) error {
	r.console.Println("Find a comfortable position and close your eyes.")
	r.console.Println("Focus on your breath. Inhale deeply and exhale slowly.")
	r.console.Println("You may begin in: ")
	if err := r.countdown(ctx, 5); err != nil {
		return err
	}

	for left := duration; left > 0; left -= meditationCycle {
		r.console.Println("\nMeditate...")
		if err := r.spinner(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Run shows the activity menu until the user quits or input ends.
func Run(ctx context.Context, r *Runner) error {
	c := r.console
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.Println("Menu Options:")
		c.Println("    1. Start Breathing Activity")
		c.Println("    2. Start Reflecting Activity")
		c.Println("    3. Start Listing Activity")
		c.Println("    4. Start Meditation Activity")
		c.Println("    5. Quit")
		choice, err := c.Ask("Select a choice from the menu: ")
		if err != nil {
			return closed(err)
		}

		var kind Kind
		switch strings.TrimSpace(choice) {
		case "1":
			kind = Breathing
		case "2":
			kind = Reflection
		case "3":
			kind = Listing
		case "4":
			kind = Meditation
		case "5":
			return nil
		default:
			c.Println("Invalid option, please select a valid option.")
			continue
		}

		if err := r.Perform(ctx, kind); err != nil {
			return closed(err)
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
