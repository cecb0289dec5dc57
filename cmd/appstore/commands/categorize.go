package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type CategorizeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	clone  bool
	format string
}

// NewCategorizeCommand returns the categorize command.
func NewCategorizeCommand(rootCmd *RootCommand, app *kingpin.Application) *CategorizeCommand {
	c := &CategorizeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("categorize", "Discover and categorize the repository apps.")
	c.Cmd.Flag("clone", "Organize the apps into their category folders after categorizing.").BoolVar(&c.clone)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c CategorizeCommand) Name() string { return c.Cmd.FullCommand() }

func (c CategorizeCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	orch, err := c.rootCmd.newOrchestrator(ctx, repo, c.rootCmd.stderrNotifier())
	if err != nil {
		return err
	}

	if err := orch.Categorize(ctx); err != nil {
		return err
	}

	if c.clone {
		if err := orch.Clone(ctx); err != nil {
			return err
		}
	}

	p, err := c.rootCmd.newPrinter(c.format, true)
	if err != nil {
		return err
	}

	items, err := repo.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("could not list apps: %w", err)
	}

	if err := p.PrintSummary(items.Summary()); err != nil {
		return fmt.Errorf("could not print summary: %w", err)
	}

	return nil
}
