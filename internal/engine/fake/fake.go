package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/slok/appstore/internal/log"
	"github.com/slok/appstore/internal/model"
)

// EngineConfig is the configuration for the fake engine.
type EngineConfig struct {
	// Catalog is the catalog returned on enumeration.
	Catalog model.Catalog
	// Docs are the item docs by item name, missing ones return not found.
	Docs map[string]string
	// Delay is added to every operation, used to simulate slow work.
	Delay  time.Duration
	Logger log.Logger
}

func (c *EngineConfig) defaults() error {
	if c.Docs == nil {
		c.Docs = map[string]string{}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "engine.Fake"})
	return nil
}

// Engine is a fake implementation of the engine.Engine interface.
// It's deterministic, errors can be injected per operation, and operations can be
// blocked until released to simulate in flight work.
type Engine struct {
	catalog model.Catalog
	docs    map[string]string
	delay   time.Duration
	logger  log.Logger

	mu     sync.Mutex
	errs   map[model.Operation]error
	blocks map[model.Operation]chan struct{}
	calls  map[model.Operation]int
	// started is signaled every time an operation starts.
	started chan model.Operation
}

// NewEngine creates a new fake engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		catalog: cfg.Catalog,
		docs:    cfg.Docs,
		delay:   cfg.Delay,
		logger:  cfg.Logger,
		errs:    map[model.Operation]error{},
		blocks:  map[model.Operation]chan struct{}{},
		calls:   map[model.Operation]int{},
		started: make(chan model.Operation, 64),
	}, nil
}

// SetError makes the operation fail with err, nil removes it.
func (e *Engine) SetError(op model.Operation, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs[op] = err
}

// Block makes the operation wait until the returned release func is called.
func (e *Engine) Block(op model.Operation) (release func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan struct{})
	e.blocks[op] = ch
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.blocks, op)
			e.mu.Unlock()
			close(ch)
		})
	}
}

// Started returns a channel that receives the operations as they start.
func (e *Engine) Started() <-chan model.Operation { return e.started }

// Calls returns the number of times an operation has been called.
func (e *Engine) Calls(op model.Operation) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[op]
}

func (e *Engine) enter(ctx context.Context, op model.Operation) error {
	e.mu.Lock()
	e.calls[op]++
	block := e.blocks[op]
	e.mu.Unlock()

	select {
	case e.started <- op:
	default:
	}

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errs[op]
}

// EnumerateAndTagCatalog returns the configured catalog.
func (e *Engine) EnumerateAndTagCatalog(ctx context.Context) (model.Catalog, error) {
	if err := e.enter(ctx, model.OperationCategorize); err != nil {
		return nil, err
	}

	e.logger.Infof("Enumerated fake catalog with %d items", len(e.catalog))
	return e.catalog, nil
}

// MaterializeCategorized does nothing.
func (e *Engine) MaterializeCategorized(ctx context.Context, c model.Catalog) error {
	if err := e.enter(ctx, model.OperationClone); err != nil {
		return err
	}

	e.logger.Infof("Materialized %d fake items", len(c))
	return nil
}

// InstallDependencies returns a fake installer output.
func (e *Engine) InstallDependencies(ctx context.Context, it model.Item) (string, error) {
	if err := e.enter(ctx, model.OperationInstall); err != nil {
		return "", err
	}

	return fmt.Sprintf("Successfully installed dependencies of %s", it.Name), nil
}

// BuildRunInstructions returns fake instructions.
func (e *Engine) BuildRunInstructions(ctx context.Context, it model.Item) (string, error) {
	if err := e.enter(ctx, model.OperationRun); err != nil {
		return "", err
	}

	return fmt.Sprintf("```bash\ncd %s\npython %s\n```\n", it.Path, it.MainFile), nil
}

// FetchDocumentation returns the configured docs of the item.
func (e *Engine) FetchDocumentation(ctx context.Context, it model.Item) (string, error) {
	if err := e.enter(ctx, model.OperationReadme); err != nil {
		return "", err
	}

	doc, ok := e.docs[it.Name]
	if !ok {
		return "", fmt.Errorf("readme of %s: %w", it.Name, model.ErrNotFound)
	}
	return doc, nil
}
