package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/slok/appstore/internal/app/history"
	"github.com/slok/appstore/internal/app/list"
	"github.com/slok/appstore/internal/engine"
	"github.com/slok/appstore/internal/engine/fake"
	"github.com/slok/appstore/internal/engine/local"
	"github.com/slok/appstore/internal/log"
	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/orchestrator"
	"github.com/slok/appstore/internal/storage/sqlite"
)

const (
	defaultDataDir  = ".appstore"
	defaultDBFile   = "appstore.db"
	defaultAppsPath = "categorized-apps"
)

// Config configures the SDK client.
//
// All fields are optional, an empty Config{} will categorize the current
// directory and use ~/.appstore/appstore.db for storage.
type Config struct {
	// DBPath is the SQLite database path.
	// Default: ~/.appstore/appstore.db.
	DBPath string

	// RepoPath is the repository where the apps are discovered.
	// Default: current directory.
	RepoPath string

	// AppsPath is where the apps are organized by category on clone.
	// Default: categorized-apps.
	AppsPath string

	// PipCommand is the command used to install the app requirements.
	// Default: python3 -m pip.
	PipCommand []string

	// Engine selects the engine implementation.
	// Default: [EngineLocal].
	Engine EngineType

	// FakeApps are the apps discovered by [EngineFake].
	FakeApps []App
	// FakeDocs are the README contents by app name used by [EngineFake].
	FakeDocs map[string]string

	// OnEvent receives the status and error events of the operations, optional.
	// It must not block.
	OnEvent func(Event)

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DBPath = filepath.Join(home, defaultDataDir, defaultDBFile)
	}

	if c.RepoPath == "" {
		c.RepoPath = "."
	}

	if c.AppsPath == "" {
		c.AppsPath = defaultAppsPath
	}

	if c.Engine == "" {
		c.Engine = EngineLocal
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point.
//
// Create a Client with [New] and release its resources with [Client.Close].
type Client struct {
	repo   *sqlite.Repository
	orch   *orchestrator.Orchestrator
	logger log.Logger

	// itemMu serializes the app selection with the app operation that uses it.
	itemMu sync.Mutex
}

// New creates a new SDK client backed by a SQLite database. The previously
// categorized catalog is loaded so app operations work without categorizing again.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return nil, mapError(fmt.Errorf("could not create engine: %w", err))
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	var notifier orchestrator.Notifier
	if cfg.OnEvent != nil {
		notifier = orchestrator.NotifierFunc(func(ev model.Event) { cfg.OnEvent(fromInternalEvent(ev)) })
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Engine:     eng,
		Repository: repo,
		Notifier:   notifier,
		Logger:     cfg.Logger,
	})
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("could not create orchestrator: %w", err)
	}

	items, err := repo.ListItems(ctx)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("could not load catalog: %w", err)
	}
	if err := orch.LoadCatalog(items); err != nil {
		_ = repo.Close()
		return nil, mapError(err)
	}

	return &Client{
		repo:   repo,
		orch:   orch,
		logger: cfg.Logger,
	}, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	return c.repo.Close()
}

func newEngine(cfg Config) (engine.Engine, error) {
	switch cfg.Engine {
	case EngineLocal:
		return local.NewEngine(local.EngineConfig{
			RepoPath:   cfg.RepoPath,
			AppsPath:   cfg.AppsPath,
			PipCommand: cfg.PipCommand,
			Logger:     cfg.Logger,
		})
	case EngineFake:
		return fake.NewEngine(fake.EngineConfig{
			Catalog: toInternalCatalog(cfg.FakeApps),
			Docs:    cfg.FakeDocs,
			Logger:  cfg.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported engine type: %s: %w", cfg.Engine, ErrNotValid)
	}
}

// Categorize discovers and categorizes the repository apps, the catalog is persisted.
//
// Returns [ErrBusy] if another operation is in flight or [ErrTaskFailed] if the discovery failed.
func (c *Client) Categorize(ctx context.Context) (*Summary, error) {
	if err := c.orch.Categorize(ctx); err != nil {
		return nil, mapError(err)
	}

	items, err := c.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list apps: %w", err)
	}

	s := fromInternalSummary(items.Summary())
	return &s, nil
}

// Clone organizes the categorized apps into their category folders.
//
// Returns [ErrPrecondition] if the apps have not been categorized.
func (c *Client) Clone(ctx context.Context) error {
	return mapError(c.orch.Clone(ctx))
}

// ListApps returns the persisted catalog apps, optionally filtered.
func (c *Client) ListApps(ctx context.Context, opts *ListAppsOpts) ([]App, error) {
	svc, err := list.NewService(list.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, list.Request{Criteria: toInternalCriteria(opts)})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalApps(resp.Items), nil
}

// InstallDependencies installs the app requirements and returns the installer output.
//
// Returns [ErrNotFound] if the app is not in the catalog.
func (c *Client) InstallDependencies(ctx context.Context, name string) (*Output, error) {
	return c.runItem(ctx, name, (*orchestrator.Orchestrator).InstallDependencies)
}

// RunInstructions returns the instructions to run the app.
//
// Returns [ErrNotFound] if the app is not in the catalog.
func (c *Client) RunInstructions(ctx context.Context, name string) (*Output, error) {
	return c.runItem(ctx, name, (*orchestrator.Orchestrator).Run)
}

// Readme returns the app README.
//
// Returns [ErrNotFound] if the app is not in the catalog or it doesn't have a README.
func (c *Client) Readme(ctx context.Context, name string) (*Output, error) {
	return c.runItem(ctx, name, (*orchestrator.Orchestrator).ViewReadme)
}

func (c *Client) runItem(ctx context.Context, name string, intent func(*orchestrator.Orchestrator, context.Context) error) (*Output, error) {
	c.itemMu.Lock()
	defer c.itemMu.Unlock()

	c.orch.ClearFilters()
	c.orch.SelectItem(name)
	if c.orch.Selected() == nil {
		return nil, mapError(fmt.Errorf("app %q: %w", name, model.ErrNotFound))
	}

	if err := intent(c.orch, ctx); err != nil {
		return nil, mapError(err)
	}

	out := fromInternalOutput(c.orch.Output())
	return &out, nil
}

// History returns the finished operations, latest first.
func (c *Client) History(ctx context.Context, opts *HistoryOpts) ([]OperationRecord, error) {
	svc, err := history.NewService(history.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	req := history.Request{}
	if opts != nil {
		req = history.Request{
			Limit:     opts.Limit,
			Operation: model.Operation(opts.Operation),
			ItemName:  opts.App,
		}
	}

	ops, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalOperations(ops), nil
}
