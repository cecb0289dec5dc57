package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/appstore/internal/app/history"
	"github.com/slok/appstore/internal/model"
)

type HistoryCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	limit     int
	operation string
	app       string
	format    string
}

// NewHistoryCommand returns the history command.
func NewHistoryCommand(rootCmd *RootCommand, app *kingpin.Application) *HistoryCommand {
	c := &HistoryCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("history", "List the finished operations, latest first.")
	c.Cmd.Flag("limit", "Max number of operations (0 for all).").Short('n').Default("20").IntVar(&c.limit)
	c.Cmd.Flag("operation", "Filter by operation.").EnumVar(&c.operation,
		string(model.OperationCategorize),
		string(model.OperationClone),
		string(model.OperationInstall),
		string(model.OperationRun),
		string(model.OperationReadme),
	)
	c.Cmd.Flag("app", "Filter by app name.").StringVar(&c.app)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c HistoryCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := history.NewService(history.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	ops, err := svc.Run(ctx, history.Request{
		Limit:     c.limit,
		Operation: model.Operation(c.operation),
		ItemName:  c.app,
	})
	if err != nil {
		return fmt.Errorf("could not get history: %w", err)
	}

	p, err := c.rootCmd.newPrinter(c.format, true)
	if err != nil {
		return err
	}

	if err := p.PrintOperations(ops); err != nil {
		return fmt.Errorf("could not print history: %w", err)
	}

	return nil
}
