package orchestrator

import (
	"crypto/rand"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/appstore/internal/catalog"
	"github.com/slok/appstore/internal/engine"
	"github.com/slok/appstore/internal/gate"
	"github.com/slok/appstore/internal/log"
	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/progress"
	"github.com/slok/appstore/internal/storage"
)

// Notifier receives the user facing events of the orchestrator.
// Notify must not block.
type Notifier interface {
	Notify(ev model.Event)
}

// NotifierFunc is a helper to use funcs as Notifier.
type NotifierFunc func(ev model.Event)

// Notify satisfies Notifier.
func (f NotifierFunc) Notify(ev model.Event) { f(ev) }

var noopNotifier = NotifierFunc(func(model.Event) {})

// Config is the configuration for the orchestrator.
type Config struct {
	Engine     engine.Engine
	Repository storage.Repository
	// Notifier receives every emitted event, optional.
	Notifier Notifier
	// ProgressSink receives every progress write, optional. It's called with the
	// orchestrator state locked so it must not call back into the orchestrator.
	ProgressSink progress.Sink
	// IDGenerator returns the IDs of the recorded operations, ULIDs by default.
	IDGenerator func() string
	Logger      log.Logger
}

func (c *Config) defaults() error {
	if c.Engine == nil {
		return fmt.Errorf("engine is required")
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Notifier == nil {
		c.Notifier = noopNotifier
	}

	if c.IDGenerator == nil {
		c.IDGenerator = func() string {
			return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String()
		}
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "orchestrator.Orchestrator"})

	return nil
}

// Orchestrator owns the app store UI state and dispatches the user intents.
//
// The state is only mutated through the intent methods. Long running tasks are
// awaited without holding the state lock, so selection and filtering stay
// responsive while an operation is in flight. Only one operation can be in flight,
// intents arriving meanwhile are rejected with model.ErrBusy.
type Orchestrator struct {
	engine   engine.Engine
	repo     storage.Repository
	notifier Notifier
	newID    func() string
	logger   log.Logger

	mu          sync.Mutex
	state       model.OperationState
	inFlight    model.Operation
	categorized bool
	filter      *catalog.Filter
	selected    *model.Item
	progress    *progress.Reporter
	output      model.Output
	status      model.Event
}

// New returns a new idle orchestrator with an empty catalog.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Orchestrator{
		engine:   cfg.Engine,
		repo:     cfg.Repository,
		notifier: cfg.Notifier,
		newID:    cfg.IDGenerator,
		logger:   cfg.Logger,
		state:    model.OperationStateIdle,
		filter:   catalog.NewFilter(),
		progress: progress.NewReporter(cfg.ProgressSink),
	}, nil
}

// Snapshot is a consistent view of the orchestrator state for rendering.
type Snapshot struct {
	State    model.OperationState
	InFlight model.Operation
	Progress int
	// Items is the filtered catalog view.
	Items []model.Item
	// Total is the number of items of the complete catalog.
	Total    int
	Kinds    []string
	Selected *model.Item
	Criteria model.FilterCriteria
	Controls gate.Controls
	Output   model.Output
	// Status is the last emitted event.
	Status model.Event
}

// Snapshot returns the complete state read atomically.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Snapshot{
		State:    o.state,
		InFlight: o.inFlight,
		Progress: o.progress.Value(),
		Items:    slices.Collect(o.filter.View()),
		Total:    len(o.filter.Catalog()),
		Kinds:    o.filter.Kinds(),
		Selected: copyItem(o.selected),
		Criteria: cloneCriteria(o.filter.Criteria()),
		Controls: gate.Compute(o.gateInput()),
		Output:   o.output,
		Status:   o.status,
	}
}

// State returns the categorize/clone pipeline state.
func (o *Orchestrator) State() model.OperationState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Progress returns the progress of the current or last operation.
func (o *Orchestrator) Progress() int { return o.progress.Value() }

// Items returns the filtered catalog view.
func (o *Orchestrator) Items() []model.Item {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Collect(o.filter.View())
}

// Selected returns the selected item, nil if there is no selection.
func (o *Orchestrator) Selected() *model.Item {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copyItem(o.selected)
}

// Criteria returns the current filter criteria.
func (o *Orchestrator) Criteria() model.FilterCriteria {
	o.mu.Lock()
	defer o.mu.Unlock()
	return cloneCriteria(o.filter.Criteria())
}

// Controls returns the enabled state of every control.
func (o *Orchestrator) Controls() gate.Controls {
	o.mu.Lock()
	defer o.mu.Unlock()
	return gate.Compute(o.gateInput())
}

// Output returns the output panel content.
func (o *Orchestrator) Output() model.Output {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.output
}

// Status returns the last emitted event.
func (o *Orchestrator) Status() model.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// LoadCatalog replaces the catalog, normally with the one persisted by a previous session.
// The operation state is not changed.
func (o *Orchestrator) LoadCatalog(c model.Catalog) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.inFlight != model.OperationNone {
		return fmt.Errorf("could not load catalog while %s is in flight: %w", o.inFlight, model.ErrBusy)
	}

	o.filter.Load(c)
	o.revalidateSelection()
	o.logger.Debugf("Loaded catalog with %d items", len(c))

	return nil
}

// SelectItem selects an item of the filtered view by name, an unknown name clears
// the selection.
func (o *Orchestrator) SelectItem(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	it, ok := o.filter.Lookup(name)
	if !ok {
		o.selected = nil
		return
	}
	o.selected = &it
}

// ApplyFilter replaces the filter criteria. A selection hidden by the new
// criteria is cleared.
func (o *Orchestrator) ApplyFilter(criteria model.FilterCriteria) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.filter.SetCriteria(cloneCriteria(criteria))
	o.revalidateSelection()
}

// ClearFilters resets the filter criteria to the default ones.
func (o *Orchestrator) ClearFilters() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.filter.Clear()
	o.revalidateSelection()
}

// revalidateSelection must be called with the lock held.
func (o *Orchestrator) revalidateSelection() {
	if o.selected == nil {
		return
	}

	it, ok := o.filter.Lookup(o.selected.Name)
	if !ok {
		o.selected = nil
		return
	}
	o.selected = &it
}

// gateInput must be called with the lock held.
func (o *Orchestrator) gateInput() gate.Input {
	return gate.Input{
		State:        o.state,
		InFlight:     o.inFlight,
		Categorized:  o.categorized,
		HasItems:     len(o.filter.Catalog()) > 0,
		HasSelection: o.selected != nil,
	}
}

func copyItem(it *model.Item) *model.Item {
	if it == nil {
		return nil
	}
	c := *it
	return &c
}

func cloneCriteria(c model.FilterCriteria) model.FilterCriteria {
	return model.FilterCriteria{
		SearchTerm: c.SearchTerm,
		Categories: maps.Clone(c.Categories),
		Kinds:      maps.Clone(c.Kinds),
	}
}
