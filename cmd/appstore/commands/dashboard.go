package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/appstore/internal/hostenv"
	"github.com/slok/appstore/internal/tui"
)

const dashboardEventBuffer = 64

type DashboardCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewDashboardCommand returns the dashboard command, the default one.
func NewDashboardCommand(rootCmd *RootCommand, app *kingpin.Application) *DashboardCommand {
	c := &DashboardCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("dashboard", "Open the interactive app store dashboard.").Default()

	return c
}

func (c DashboardCommand) Name() string { return c.Cmd.FullCommand() }

func (c DashboardCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	bridge := tui.NewEventBridge(dashboardEventBuffer, logger)
	orch, err := c.rootCmd.newOrchestrator(ctx, repo, bridge)
	if err != nil {
		return err
	}

	hosted := hostenv.IsHostedNotebook()
	if hosted {
		logger.Infof("Hosted notebook detected, alternate screen disabled")
	}

	return tui.Run(ctx, tui.Config{
		Orchestrator: orch,
		Events:       bridge.Events(),
		Color:        !c.rootCmd.NoColor,
		Hosted:       hosted,
		Logger:       logger,
	})
}
