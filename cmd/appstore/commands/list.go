package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/appstore/internal/app/list"
	"github.com/slok/appstore/internal/model"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	search     string
	categories []string
	kinds      []string
	summary    bool
	format     string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List the categorized apps.")
	c.Cmd.Flag("search", "Filter by app name substring.").Short('s').StringVar(&c.search)
	c.Cmd.Flag("category", "Filter by category number or name (repeatable).").Short('c').StringsVar(&c.categories)
	c.Cmd.Flag("type", "Filter by app type (repeatable).").Short('t').StringsVar(&c.kinds)
	c.Cmd.Flag("summary", "Print the per category summary instead of the apps.").BoolVar(&c.summary)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	cats, err := parseCategories(c.categories)
	if err != nil {
		return fmt.Errorf("invalid category filter: %w", err)
	}

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := list.NewService(list.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, list.Request{
		Criteria: model.NewFilterCriteria(c.search, cats, c.kinds),
	})
	if err != nil {
		return fmt.Errorf("could not list apps: %w", err)
	}

	p, err := c.rootCmd.newPrinter(c.format, true)
	if err != nil {
		return err
	}

	if c.summary {
		if err := p.PrintSummary(resp.Summary); err != nil {
			return fmt.Errorf("could not print summary: %w", err)
		}
		return nil
	}

	if err := p.PrintCatalog(resp.Items); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
