package commands

import (
	"context"
	"io"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/appstore/internal/log"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	LogFile    string
	DBPath     string
	RepoPath   string
	AppsPath   string
	RulesPath  string
	PipCommand string
	Fake       bool
	Ephemeral  bool

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable colors.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	baseDir := filepath.Join(homedir.HomeDir(), ".appstore")
	app.Flag("log-file", "Log file used by the dashboard, the terminal is used by the UI.").Default(filepath.Join(baseDir, "appstore.log")).StringVar(&c.LogFile)
	app.Flag("db-path", "Path to the SQLite database file.").Default(filepath.Join(baseDir, "appstore.db")).StringVar(&c.DBPath)
	app.Flag("repo-path", "Path to the repository where the apps are discovered.").Default(".").StringVar(&c.RepoPath)
	app.Flag("apps-path", "Path where the apps are organized by category.").Default("categorized-apps").StringVar(&c.AppsPath)
	app.Flag("rules", "Optional classification rules YAML file.").StringVar(&c.RulesPath)
	app.Flag("pip-command", "Command used to install the python requirements.").Default("python3 -m pip").StringVar(&c.PipCommand)
	app.Flag("fake", "Use a fake demo engine instead of the local filesystem.").BoolVar(&c.Fake)
	app.Flag("ephemeral", "Keep the catalog and history in memory, nothing is persisted.").BoolVar(&c.Ephemeral)

	return c
}
