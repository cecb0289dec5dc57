package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/slok/appstore/internal/catalog"
	"github.com/slok/appstore/internal/engine"
	"github.com/slok/appstore/internal/engine/fake"
	"github.com/slok/appstore/internal/engine/local"
	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/orchestrator"
	"github.com/slok/appstore/internal/printer"
	"github.com/slok/appstore/internal/storage"
	storageio "github.com/slok/appstore/internal/storage/io"
	"github.com/slok/appstore/internal/storage/memory"
	"github.com/slok/appstore/internal/storage/sqlite"
)

const markdownWidth = 100

// repository is a storage repository that needs to be closed.
type repository interface {
	storage.Repository
	Close() error
}

type memoryRepository struct{ *memory.Repository }

func (memoryRepository) Close() error { return nil }

// newRepository creates the SQLite repository, or an in-memory one when ephemeral.
func (r RootCommand) newRepository(ctx context.Context) (repository, error) {
	if r.Ephemeral {
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: r.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		return memoryRepository{repo}, nil
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: r.DBPath,
		Logger: r.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}
	return repo, nil
}

// newEngine creates the local engine, or the fake demo one.
func (r RootCommand) newEngine(ctx context.Context) (engine.Engine, error) {
	if r.Fake {
		return fake.NewEngine(fake.EngineConfig{
			Catalog: demoCatalog(),
			Docs:    demoDocs(),
			Delay:   time.Second,
			Logger:  r.Logger,
		})
	}

	rules, err := r.loadRules(ctx)
	if err != nil {
		return nil, err
	}

	classifier, err := catalog.NewClassifier(rules)
	if err != nil {
		return nil, fmt.Errorf("could not create classifier: %w", err)
	}

	pipCmd, err := parseCommand(r.PipCommand)
	if err != nil {
		return nil, fmt.Errorf("invalid pip command: %w", err)
	}

	return local.NewEngine(local.EngineConfig{
		RepoPath:   r.RepoPath,
		AppsPath:   r.AppsPath,
		Classifier: classifier,
		PipCommand: pipCmd,
		Logger:     r.Logger,
	})
}

func (r RootCommand) loadRules(ctx context.Context) (catalog.Rules, error) {
	if r.RulesPath == "" {
		return catalog.DefaultRules(), nil
	}

	abs, err := filepath.Abs(r.RulesPath)
	if err != nil {
		return catalog.Rules{}, fmt.Errorf("invalid rules path: %w", err)
	}

	repo := storageio.NewRulesYAMLRepository(os.DirFS(filepath.Dir(abs)))
	rules, err := repo.GetRules(ctx, filepath.Base(abs))
	if err != nil {
		return catalog.Rules{}, fmt.Errorf("could not load rules %s: %w", r.RulesPath, err)
	}

	r.Logger.Debugf("Loaded classification rules from %s", abs)
	return rules, nil
}

// newOrchestrator creates an orchestrator with the persisted catalog loaded.
func (r RootCommand) newOrchestrator(ctx context.Context, repo storage.Repository, notifier orchestrator.Notifier) (*orchestrator.Orchestrator, error) {
	eng, err := r.newEngine(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create engine: %w", err)
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Engine:     eng,
		Repository: repo,
		Notifier:   notifier,
		Logger:     r.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create orchestrator: %w", err)
	}

	items, err := repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load persisted catalog: %w", err)
	}
	if err := orch.LoadCatalog(items); err != nil {
		return nil, err
	}

	return orch, nil
}

// stderrNotifier prints the informational events, errors are returned by the intents.
func (r RootCommand) stderrNotifier() orchestrator.Notifier {
	return orchestrator.NotifierFunc(func(ev model.Event) {
		if ev.Level == model.EventLevelInfo {
			fmt.Fprintln(r.Stderr, ev.Message)
		}
	})
}

// parseCommand splits a command line by spaces.
func parseCommand(s string) ([]string, error) {
	args := strings.Fields(s)
	if len(args) == 0 {
		return nil, fmt.Errorf("command can't be empty")
	}
	return args, nil
}

// parseCategories parses category names, numbers or full names.
func parseCategories(ss []string) ([]model.Category, error) {
	cats := make([]model.Category, 0, len(ss))
	for _, s := range ss {
		c, err := model.ParseCategory(s)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// newPrinter creates the printer for the selected format.
func (r RootCommand) newPrinter(format string, raw bool) (printer.Printer, error) {
	if format == formatJSON {
		return printer.NewJSONPrinter(r.Stdout), nil
	}

	if raw {
		return printer.NewTablePrinter(r.Stdout, nil), nil
	}

	md, err := printer.NewMarkdownRenderer(markdownWidth, !r.NoColor)
	if err != nil {
		return nil, fmt.Errorf("could not create markdown renderer: %w", err)
	}
	return printer.NewTablePrinter(r.Stdout, md), nil
}
