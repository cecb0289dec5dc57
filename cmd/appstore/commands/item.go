package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/orchestrator"
	"github.com/slok/appstore/internal/storage"
)

// itemIntent is an orchestrator operation over the selected app.
type itemIntent func(o *orchestrator.Orchestrator, ctx context.Context) error

// ItemCommand runs an app operation and prints its output.
type ItemCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
	intent  itemIntent

	name   string
	raw    bool
	format string
}

func newItemCommand(rootCmd *RootCommand, app *kingpin.Application, name, help string, intent itemIntent) *ItemCommand {
	c := &ItemCommand{rootCmd: rootCmd, intent: intent}

	c.Cmd = app.Command(name, help)
	c.Cmd.Arg("app", "App name.").Required().StringVar(&c.name)
	c.Cmd.Flag("raw", "Print the raw Markdown output.").BoolVar(&c.raw)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

// NewInstallCommand returns the install command.
func NewInstallCommand(rootCmd *RootCommand, app *kingpin.Application) *ItemCommand {
	return newItemCommand(rootCmd, app, "install", "Install the app dependencies.", (*orchestrator.Orchestrator).InstallDependencies)
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *ItemCommand {
	return newItemCommand(rootCmd, app, "run", "Show the instructions to run the app.", (*orchestrator.Orchestrator).Run)
}

// NewReadmeCommand returns the readme command.
func NewReadmeCommand(rootCmd *RootCommand, app *kingpin.Application) *ItemCommand {
	return newItemCommand(rootCmd, app, "readme", "Show the app README.", (*orchestrator.Orchestrator).ViewReadme)
}

func (c ItemCommand) Name() string { return c.Cmd.FullCommand() }

func (c ItemCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	if _, err := lookupItem(ctx, repo, c.name); err != nil {
		return err
	}

	orch, err := c.rootCmd.newOrchestrator(ctx, repo, c.rootCmd.stderrNotifier())
	if err != nil {
		return err
	}

	orch.SelectItem(c.name)
	if orch.Selected() == nil {
		return fmt.Errorf("app %q not in catalog, categorize first: %w", c.name, model.ErrNotFound)
	}

	if err := c.intent(orch, ctx); err != nil {
		return err
	}

	p, err := c.rootCmd.newPrinter(c.format, c.raw)
	if err != nil {
		return err
	}

	if err := p.PrintOutput(orch.Output()); err != nil {
		return fmt.Errorf("could not print output: %w", err)
	}

	return nil
}

// lookupItem gets the app from the persisted catalog.
func lookupItem(ctx context.Context, repo storage.CatalogRepository, name string) (*model.Item, error) {
	it, err := repo.GetItem(ctx, name)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("app %q not in catalog, categorize first: %w", name, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get app %q: %w", name, err)
	}
	return it, nil
}
