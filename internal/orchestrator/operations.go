package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slok/appstore/internal/model"
)

// Categorize discovers and tags the catalog apps, and persists the resulting catalog.
func (o *Orchestrator) Categorize(ctx context.Context) error {
	const op = model.OperationCategorize

	o.mu.Lock()
	if err := o.begin(op); err != nil {
		o.mu.Unlock()
		return err
	}
	o.state = model.OperationStateCategorizing
	o.categorized = false
	o.mu.Unlock()

	o.info(op, "Categorizing apps...")
	started := time.Now().UTC()
	ctx = context.WithoutCancel(ctx)

	c, err := o.engine.EnumerateAndTagCatalog(ctx)
	if err == nil {
		if serr := o.repo.SaveCatalog(ctx, c); serr != nil {
			err = fmt.Errorf("could not persist catalog: %w", serr)
		}
	}
	if err != nil {
		err = taskError(err)
		o.mu.Lock()
		o.state = model.OperationStateFailed
		o.end()
		o.mu.Unlock()

		o.record(ctx, op, "", started, err)
		o.fail(op, "Categorization failed", err)
		return err
	}

	o.mu.Lock()
	o.filter.Load(c)
	o.revalidateSelection()
	o.state = model.OperationStateCategorized
	o.categorized = true
	_ = o.progress.Set(100)
	o.output = model.Output{Title: "Categorization results", Body: summaryMarkdown(c.Summary())}
	o.end()
	o.mu.Unlock()

	o.record(ctx, op, "", started, nil)
	o.info(op, fmt.Sprintf("Categorized %d apps", len(c)))
	return nil
}

// Clone organizes the categorized catalog apps into their category folders.
// It requires a successful categorize, a failed clone can be retried.
func (o *Orchestrator) Clone(ctx context.Context) error {
	const op = model.OperationClone

	o.mu.Lock()
	if o.inFlight != model.OperationNone {
		err := o.busy(op)
		o.mu.Unlock()
		return err
	}
	if !o.cloneable() {
		o.mu.Unlock()
		err := fmt.Errorf("clone requires a categorized catalog: %w", model.ErrPrecondition)
		o.fail(op, "Categorize the apps before cloning them", err)
		return err
	}
	if len(o.filter.Catalog()) == 0 {
		o.mu.Unlock()
		err := fmt.Errorf("clone requires at least one app: %w", model.ErrPrecondition)
		o.fail(op, "There are no apps to clone", err)
		return err
	}
	_ = o.begin(op)
	o.state = model.OperationStateCloning
	c := o.filter.Catalog()
	o.mu.Unlock()

	o.info(op, "Cloning apps into category folders...")
	started := time.Now().UTC()
	ctx = context.WithoutCancel(ctx)

	if err := o.engine.MaterializeCategorized(ctx, c); err != nil {
		err = taskError(err)
		o.mu.Lock()
		o.state = model.OperationStateFailed
		o.end()
		o.mu.Unlock()

		o.record(ctx, op, "", started, err)
		o.fail(op, "Cloning failed", err)
		return err
	}

	o.mu.Lock()
	o.state = model.OperationStateCloned
	_ = o.progress.Set(100)
	o.output = model.Output{Title: "Cloned apps", Body: summaryMarkdown(c.Summary())}
	o.end()
	o.mu.Unlock()

	o.record(ctx, op, "", started, nil)
	o.info(op, fmt.Sprintf("Cloned %d apps into category folders", len(c)))
	return nil
}

// ViewDashboard shows the per category summary of a categorized or cloned catalog.
func (o *Orchestrator) ViewDashboard() error {
	o.mu.Lock()
	if o.inFlight != model.OperationNone {
		err := o.busy(model.OperationNone)
		o.mu.Unlock()
		return err
	}
	if o.state != model.OperationStateCategorized && o.state != model.OperationStateCloned {
		o.mu.Unlock()
		err := fmt.Errorf("dashboard requires a categorized catalog: %w", model.ErrPrecondition)
		o.fail(model.OperationNone, "Categorize the apps before viewing the dashboard", err)
		return err
	}
	o.output = model.Output{Title: "Dashboard", Body: summaryMarkdown(o.filter.Catalog().Summary())}
	o.mu.Unlock()

	o.info(model.OperationNone, "Dashboard ready")
	return nil
}

// InstallDependencies installs the dependencies of the selected item.
func (o *Orchestrator) InstallDependencies(ctx context.Context) error {
	return o.runItemOperation(ctx, model.OperationInstall, itemTask{
		startMsg: "Installing dependencies of %s...",
		doneMsg:  "Installed dependencies of %s",
		failMsg:  "Could not install dependencies of %s",
		title:    "Install dependencies: %s",
		do:       o.engine.InstallDependencies,
	})
}

// Run shows the instructions to run the selected item.
func (o *Orchestrator) Run(ctx context.Context) error {
	return o.runItemOperation(ctx, model.OperationRun, itemTask{
		startMsg: "Preparing %s run instructions...",
		doneMsg:  "Run instructions of %s ready",
		failMsg:  "Could not prepare %s run instructions",
		title:    "Run %s",
		do:       o.engine.BuildRunInstructions,
	})
}

// ViewReadme shows the documentation of the selected item.
func (o *Orchestrator) ViewReadme(ctx context.Context) error {
	return o.runItemOperation(ctx, model.OperationReadme, itemTask{
		startMsg: "Loading %s README...",
		doneMsg:  "Loaded %s README",
		failMsg:  "Could not load %s README",
		title:    "README: %s",
		do:       o.engine.FetchDocumentation,
	})
}

// itemTask describes an operation on the selected item, messages are formatted
// with the item name.
type itemTask struct {
	startMsg string
	doneMsg  string
	failMsg  string
	title    string
	do       func(ctx context.Context, it model.Item) (string, error)
}

// runItemOperation runs a task on the selected item, these operations don't change
// the operation state.
func (o *Orchestrator) runItemOperation(ctx context.Context, op model.Operation, t itemTask) error {
	o.mu.Lock()
	if o.inFlight != model.OperationNone {
		err := o.busy(op)
		o.mu.Unlock()
		return err
	}
	if o.selected == nil {
		o.mu.Unlock()
		err := fmt.Errorf("%s requires a selected app: %w", op, model.ErrPrecondition)
		o.fail(op, "Select an app first", err)
		return err
	}
	_ = o.begin(op)
	it := *o.selected
	o.mu.Unlock()

	o.info(op, fmt.Sprintf(t.startMsg, it.Name))
	started := time.Now().UTC()
	ctx = context.WithoutCancel(ctx)

	out, err := t.do(ctx, it)
	if err != nil {
		err = taskError(err)
		o.mu.Lock()
		o.end()
		o.mu.Unlock()

		o.record(ctx, op, it.Name, started, err)
		o.fail(op, fmt.Sprintf(t.failMsg, it.Name), err)
		return err
	}

	o.mu.Lock()
	_ = o.progress.Set(100)
	o.output = model.Output{Title: fmt.Sprintf(t.title, it.Name), Body: out}
	o.end()
	o.mu.Unlock()

	o.record(ctx, op, it.Name, started, nil)
	o.info(op, fmt.Sprintf(t.doneMsg, it.Name))
	return nil
}

// begin marks the operation in flight and resets the progress, it must be called with the lock held.
func (o *Orchestrator) begin(op model.Operation) error {
	if o.inFlight != model.OperationNone {
		return o.busy(op)
	}
	o.inFlight = op
	o.progress.Reset()
	return nil
}

// end must be called with the lock held.
func (o *Orchestrator) end() { o.inFlight = model.OperationNone }

// cloneable must be called with the lock held.
func (o *Orchestrator) cloneable() bool {
	switch o.state {
	case model.OperationStateCategorized:
		return true
	case model.OperationStateFailed:
		return o.categorized
	}
	return false
}

// busy doesn't emit anything, the control that triggered the intent was disabled.
// It must be called with the lock held.
func (o *Orchestrator) busy(op model.Operation) error {
	o.logger.Debugf("Ignoring %q intent, %q is in flight", op, o.inFlight)
	return fmt.Errorf("could not start %q: %w", op, model.ErrBusy)
}

func (o *Orchestrator) record(ctx context.Context, op model.Operation, itemName string, started time.Time, taskErr error) {
	rec := model.OperationRecord{
		ID:         o.newID(),
		Operation:  op,
		ItemName:   itemName,
		Status:     model.OperationStatusDone,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if taskErr != nil {
		rec.Status = model.OperationStatusFailed
		rec.Error = taskErr.Error()
	}

	if err := o.repo.CreateOperation(ctx, rec); err != nil {
		o.logger.Warningf("Could not record %s operation: %s", op, err)
	}
}

func (o *Orchestrator) info(op model.Operation, msg string) {
	o.emit(model.Event{Operation: op, Level: model.EventLevelInfo, Message: msg})
}

func (o *Orchestrator) fail(op model.Operation, msg string, err error) {
	o.emit(model.Event{
		Operation: op,
		Level:     model.EventLevelError,
		Message:   fmt.Sprintf("%s: %s", msg, err),
		Err:       err,
	})
}

func (o *Orchestrator) emit(ev model.Event) {
	ev.Time = time.Now().UTC()

	o.mu.Lock()
	o.status = ev
	o.mu.Unlock()

	if ev.Level == model.EventLevelError {
		o.logger.Errorf("%s", ev.Message)
	} else {
		o.logger.Infof("%s", ev.Message)
	}
	o.notifier.Notify(ev)
}

// taskError classifies a task error, not found errors keep their classification.
func taskError(err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", model.ErrTaskFailed, err)
}
