package local

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/slok/appstore/internal/catalog"
	"github.com/slok/appstore/internal/log"
	"github.com/slok/appstore/internal/model"
)

var (
	appFilesPattern  = "**/*.{py,ipynb}"
	requirementFiles = []string{"requirements.txt", "environment.yml", "pyproject.toml", "setup.py"}
	readmeFiles      = []string{"README.md", "README.rst", "README.txt", "readme.md"}
	ignoredDirs      = []string{"__pycache__", ".ipynb_checkpoints", "node_modules", "venv"}
)

// EngineConfig is the configuration for the local engine.
type EngineConfig struct {
	// RepoPath is the cloned repository where the apps are discovered.
	RepoPath string
	// AppsPath is where the categorized apps are organized.
	AppsPath string
	// Classifier tags the discovered apps.
	Classifier *catalog.Classifier
	// PipCommand is the command used to install python requirements.
	PipCommand []string
	// InstallTimeout is the max time a dependency installation can take.
	InstallTimeout time.Duration
	Logger         log.Logger
}

func (c *EngineConfig) defaults() error {
	if c.RepoPath == "" {
		return fmt.Errorf("repo path is required")
	}

	if c.AppsPath == "" {
		return fmt.Errorf("apps path is required")
	}

	if c.Classifier == nil {
		cl, err := catalog.NewClassifier(catalog.DefaultRules())
		if err != nil {
			return fmt.Errorf("could not create default classifier: %w", err)
		}
		c.Classifier = cl
	}

	if len(c.PipCommand) == 0 {
		c.PipCommand = []string{"python3", "-m", "pip"}
	}

	if c.InstallTimeout == 0 {
		c.InstallTimeout = 5 * time.Minute
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "engine.Local"})

	return nil
}

// Engine is the engine.Engine implementation that works on the local filesystem and processes.
type Engine struct {
	repoPath       string
	appsPath       string
	classifier     *catalog.Classifier
	pipCmd         []string
	installTimeout time.Duration
	logger         log.Logger
}

// NewEngine creates a new local engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		repoPath:       cfg.RepoPath,
		appsPath:       cfg.AppsPath,
		classifier:     cfg.Classifier,
		pipCmd:         cfg.PipCommand,
		installTimeout: cfg.InstallTimeout,
		logger:         cfg.Logger,
	}, nil
}

// EnumerateAndTagCatalog scans the repository for python apps and notebooks. Every folder
// with app files is a single app, files at the repository root are apps on their own.
func (e *Engine) EnumerateAndTagCatalog(ctx context.Context) (model.Catalog, error) {
	info, err := os.Stat(e.repoPath)
	if err != nil {
		return nil, fmt.Errorf("could not stat repository %s: %w", e.repoPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository %s is not a directory: %w", e.repoPath, model.ErrNotValid)
	}

	files, err := doublestar.Glob(os.DirFS(e.repoPath), appFilesPattern, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("could not scan repository: %w", err)
	}
	appsPrefix := e.appsPathInRepo()

	// Group files by app folder, keeping the discovery order.
	type appFiles struct {
		name  string
		dir   string
		files []string
	}
	apps := []*appFiles{}
	byDir := map[string]*appFiles{}
	for _, f := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if ignored(f) {
			continue
		}
		// Already categorized apps are links to the repository apps.
		if appsPrefix != "" && strings.HasPrefix(f, appsPrefix+"/") {
			continue
		}

		dir := path.Dir(f)
		if dir == "." {
			// Root level files are apps on their own.
			apps = append(apps, &appFiles{name: strings.TrimSuffix(path.Base(f), path.Ext(f)), dir: dir, files: []string{f}})
			continue
		}

		a, ok := byDir[dir]
		if !ok {
			a = &appFiles{name: path.Base(dir), dir: dir}
			byDir[dir] = a
			apps = append(apps, a)
		}
		a.files = append(a.files, f)
	}

	baseNames := map[string]bool{}
	for _, a := range apps {
		baseNames[a.name] = true
	}

	items := make([]model.Item, 0, len(apps))
	usedNames := map[string]bool{}
	for _, a := range apps {
		mainFile, kind := e.mainFile(a.files)

		name := uniqueName(a.name, baseNames, usedNames)
		usedNames[name] = true

		appDir := filepath.Join(e.repoPath, filepath.FromSlash(a.dir))
		var size int64
		if a.dir == "." {
			size = fileSize(filepath.Join(e.repoPath, filepath.FromSlash(mainFile)))
		} else {
			size = dirSize(appDir)
		}

		items = append(items, model.Item{
			Name:            name,
			Category:        e.classifier.Categorize(name, kind),
			Kind:            kind,
			Path:            appDir,
			MainFile:        path.Base(mainFile),
			SizeBytes:       size,
			HasRequirements: anyExists(appDir, requirementFiles),
			HasReadme:       anyExists(appDir, readmeFiles),
		})
	}

	slices.SortStableFunc(items, func(a, b model.Item) int { return strings.Compare(a.Name, b.Name) })

	c, err := model.NewCatalog(items)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	e.logger.Infof("Found %d apps in %s", len(c), e.repoPath)
	return c, nil
}

// uniqueName returns name or the first free "name-N". A suffixed name can't be taken or
// be the base name of another app.
func uniqueName(name string, baseNames, used map[string]bool) string {
	if !used[name] {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", name, n)
		if !used[candidate] && !baseNames[candidate] {
			return candidate
		}
	}
}

// appsPathInRepo returns the slash separated apps path relative to the repository when
// it's inside of it, empty otherwise.
func (e *Engine) appsPathInRepo() string {
	repo, err := filepath.Abs(e.repoPath)
	if err != nil {
		return ""
	}
	apps, err := filepath.Abs(e.appsPath)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(repo, apps)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}

// mainFile selects the file that better represents an app, the first one with a known kind.
func (e *Engine) mainFile(files []string) (file, kind string) {
	for _, f := range files {
		k := e.classifier.DetectKind(f)
		if k != catalog.KindUnknown {
			return f, k
		}
	}
	return files[0], catalog.KindUnknown
}

func ignored(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
		if slices.Contains(ignoredDirs, part) {
			return true
		}
	}
	return false
}

func anyExists(dir string, names []string) bool {
	return firstExisting(dir, names) != ""
}

func firstExisting(dir string, names []string) string {
	for _, n := range names {
		p := filepath.Join(dir, n)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func fileSize(p string) int64 {
	info, err := os.Stat(p)
	if err != nil {
		return 0
	}
	return info.Size()
}

func dirSize(dir string) int64 {
	var size int64
	_ = filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return size
}
