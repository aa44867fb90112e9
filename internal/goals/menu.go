package goals

import (
	"context"
	"strings"

	"github.com/FocuswithJustin/JuniperPractice/core/errors"
	"github.com/FocuswithJustin/JuniperPractice/internal/console"
	"github.com/FocuswithJustin/JuniperPractice/internal/logging"
)

// AskPlayer reads the player's name.
func AskPlayer(c *console.Console) (string, error) {
	name, err := c.Ask("Enter your name: ")
	return strings.TrimSpace(name), err
}

// Run shows the goal menu until the user exits or input ends.
func Run(ctx context.Context, m *Manager, c *console.Console) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.Println("\n1. Display Player Info\n2. List Goals\n3. Create Goal\n4. Record Event\n5. Save Goals\n6. Load Goals\n7. Exit")
		choice, err := c.Ask("Choose an option: ")
		if err != nil {
			return closed(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			c.Printf("\n%s\n", m.PlayerInfo())
		case "2":
			listGoals(m, c)
		case "3":
			err = createGoal(m, c)
		case "4":
			err = recordEvent(ctx, m, c)
		case "5":
			err = saveGoals(ctx, m, c)
		case "6":
			err = loadGoals(m, c)
		case "7":
			return nil
		default:
			c.Println("Invalid option. Please try again.")
		}
		if err != nil {
			return closed(err)
		}
	}
}

func listGoals(m *Manager, c *console.Console) {
	if len(m.Goals) == 0 {
		c.Println("\nNo goals available.")
		return
	}
	c.Println("\nGoals:")
	for i, g := range m.Goals {
		c.Printf("%d. %s\n", i+1, g.Details())
	}
}

func createGoal(m *Manager, c *console.Console) error {
	c.Println("\n1. Simple Goal\n2. Eternal Goal\n3. Checklist Goal\n4. Negative Goal")
	choice, err := c.Ask("Choose a goal type: ")
	if err != nil {
		return err
	}
	kind := map[string]Kind{"1": Simple, "2": Eternal, "3": Checklist, "4": Negative}[strings.TrimSpace(choice)]
	if kind == 0 {
		c.Println("Invalid goal type.")
		return nil
	}

	name, err := c.Ask("Enter goal name: ")
	if err != nil {
		return err
	}
	description, err := c.Ask("Enter goal description: ")
	if err != nil {
		return err
	}
	points, err := c.ReadInt("Enter goal points: ")
	if err != nil {
		return err
	}

	g := Goal{Kind: kind, Name: strings.TrimSpace(name), Description: strings.TrimSpace(description), Points: points}
	if kind == Checklist {
		if g.Target, err = c.ReadInt("Enter target completions: "); err != nil {
			return err
		}
		if g.Bonus, err = c.ReadInt("Enter bonus points: "); err != nil {
			return err
		}
	}

	if err := m.Add(g); err != nil {
		c.Printf("Goal not created: %v\n", err)
		return nil
	}
	c.Println("Goal created successfully.")
	return nil
}

func recordEvent(ctx context.Context, m *Manager, c *console.Console) error {
	if len(m.Goals) == 0 {
		c.Println("No goals available to record.")
		return nil
	}

	c.Println("\nWhich goal did you accomplish?")
	listGoals(m, c)
	n, err := c.ReadInt("")
	if err != nil {
		return err
	}

	g, earned, err := m.RecordEvent(n - 1)
	if err != nil {
		c.Println("Invalid goal selection.")
		return nil
	}
	logging.DebugContext(ctx, "goal recorded", "goal", g.Name, "kind", g.Kind.String(), "earned", earned, "score", m.Player.Score)
	c.Printf("Recorded accomplishment for goal '%s'. Points earned: %d.\n", g.Name, earned)
	return nil
}

func saveGoals(ctx context.Context, m *Manager, c *console.Console) error {
	name, err := c.Ask("Enter filename to save goals: ")
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if err := m.Save(name); err != nil {
		c.Printf("An error occurred while saving goals: %v\n", err)
		return nil
	}
	logging.FileSaved(ctx, "goals", name, len(m.Goals))
	c.Printf("Goals saved to %s.\n", name)
	return nil
}

func loadGoals(m *Manager, c *console.Console) error {
	name, err := c.Ask("Enter filename to load goals: ")
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if _, err := m.Load(name); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			c.Println("File not found.")
		} else {
			c.Printf("An error occurred while loading goals: %v\n", err)
		}
		return nil
	}
	c.Printf("Goals loaded from %s.\n", name)
	return nil
}

// closed ends the menu quietly when input runs out.
func closed(err error) error {
	if errors.Is(err, console.ErrClosed) {
		return nil
	}
	return err
}
