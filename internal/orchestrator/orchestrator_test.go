package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/appstore/internal/engine/fake"
	"github.com/slok/appstore/internal/gate"
	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/orchestrator"
	"github.com/slok/appstore/internal/storage"
	"github.com/slok/appstore/internal/storage/memory"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *eventRecorder) Notify(ev model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) Events() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Event{}, r.events...)
}

func (r *eventRecorder) Errors() []model.Event {
	errs := []model.Event{}
	for _, ev := range r.Events() {
		if ev.Level == model.EventLevelError {
			errs = append(errs, ev)
		}
	}
	return errs
}

type failingSaveRepo struct {
	storage.Repository
	err error
}

func (r failingSaveRepo) SaveCatalog(context.Context, model.Catalog) error { return r.err }

func alphaBetaCatalog() model.Catalog {
	return model.Catalog{
		{Name: "alpha", Category: model.CategoryDataScience, Kind: "x", Path: "/repo/alpha", MainFile: "main.py"},
		{Name: "beta", Category: model.CategoryComputerVision, Kind: "y", Path: "/repo/beta", MainFile: "app.py"},
	}
}

type testEnv struct {
	orch   *orchestrator.Orchestrator
	engine *fake.Engine
	repo   *memory.Repository
	events *eventRecorder
}

func newTestEnv(t *testing.T, repoWrapper func(storage.Repository) storage.Repository) testEnv {
	t.Helper()

	eng, err := fake.NewEngine(fake.EngineConfig{
		Catalog: alphaBetaCatalog(),
		Docs:    map[string]string{"alpha": "# Alpha"},
	})
	require.NoError(t, err)

	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	var r storage.Repository = repo
	if repoWrapper != nil {
		r = repoWrapper(repo)
	}

	events := &eventRecorder{}
	ids := 0
	orch, err := orchestrator.New(orchestrator.Config{
		Engine:     eng,
		Repository: r,
		Notifier:   events,
		IDGenerator: func() string {
			ids++
			return fmt.Sprintf("op-%03d", ids)
		},
	})
	require.NoError(t, err)

	return testEnv{orch: orch, engine: eng, repo: repo, events: events}
}

func waitStarted(t *testing.T, eng *fake.Engine, exp model.Operation) {
	t.Helper()
	select {
	case op := <-eng.Started():
		require.Equal(t, exp, op)
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for %s to start", exp)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	tests := map[string]struct {
		cfg orchestrator.Config
	}{
		"Missing engine should fail.": {
			cfg: orchestrator.Config{Repository: &memory.Repository{}},
		},
		"Missing repository should fail.": {
			cfg: orchestrator.Config{Engine: &fake.Engine{}},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := orchestrator.New(test.cfg)
			assert.Error(t, err)
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := map[string]struct {
		engineErr    error
		repoWrapper  func(storage.Repository) storage.Repository
		expErr       error
		expState     model.OperationState
		expProgress  int
		expItems     int
		expStatus    model.OperationStatus
		expErrSubstr string
	}{
		"A successful categorize should tag the catalog and enable clone.": {
			expState:    model.OperationStateCategorized,
			expProgress: 100,
			expItems:    2,
			expStatus:   model.OperationStatusDone,
		},

		"A failing task should end in failed state.": {
			engineErr:    errors.New("permission denied"),
			expErr:       model.ErrTaskFailed,
			expState:     model.OperationStateFailed,
			expProgress:  0,
			expItems:     0,
			expStatus:    model.OperationStatusFailed,
			expErrSubstr: "permission denied",
		},

		"A failure persisting the catalog should end in failed state.": {
			repoWrapper: func(r storage.Repository) storage.Repository {
				return failingSaveRepo{Repository: r, err: errors.New("database is locked")}
			},
			expErr:       model.ErrTaskFailed,
			expState:     model.OperationStateFailed,
			expProgress:  0,
			expItems:     0,
			expStatus:    model.OperationStatusFailed,
			expErrSubstr: "database is locked",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()

			env := newTestEnv(t, test.repoWrapper)
			env.engine.SetError(model.OperationCategorize, test.engineErr)

			err := env.orch.Categorize(ctx)
			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				require.NoError(err)
			}

			snap := env.orch.Snapshot()
			assert.Equal(test.expState, snap.State)
			assert.Equal(model.OperationNone, snap.InFlight)
			assert.Equal(test.expProgress, snap.Progress)
			assert.Len(snap.Items, test.expItems)
			assert.True(snap.Controls.Enabled(gate.ControlCategorize))
			assert.Equal(test.expErr == nil, snap.Controls.Enabled(gate.ControlClone))
			assert.Equal(test.expErr == nil, snap.Controls.Enabled(gate.ControlViewDashboard))

			if test.expErrSubstr != "" {
				errEvents := env.events.Errors()
				require.Len(errEvents, 1)
				assert.Contains(errEvents[0].Message, test.expErrSubstr)
				assert.Equal(errEvents[0], snap.Status)
			} else {
				assert.Empty(env.events.Errors())
				assert.Contains(snap.Output.Body, "**Total:** 2 apps")
			}

			ops, err := env.repo.ListOperations(ctx, 0)
			require.NoError(err)
			require.Len(ops, 1)
			assert.Equal(model.OperationCategorize, ops[0].Operation)
			assert.Equal(test.expStatus, ops[0].Status)
		})
	}
}

func TestCategorizePersistsCatalog(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	env := newTestEnv(t, nil)

	require.NoError(env.orch.Categorize(ctx))

	items, err := env.repo.ListItems(ctx)
	require.NoError(err)
	require.Equal(alphaBetaCatalog(), items)
}

func TestCategorizeReentryIsRejected(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	env := newTestEnv(t, nil)

	release := env.engine.Block(model.OperationCategorize)
	defer release()

	errCh := make(chan error, 1)
	go func() { errCh <- env.orch.Categorize(ctx) }()
	waitStarted(t, env.engine, model.OperationCategorize)

	assert.Equal(model.OperationStateCategorizing, env.orch.State())
	assert.False(env.orch.Controls().Enabled(gate.ControlCategorize))

	// Every other operation is rejected while in flight, without events.
	before := len(env.events.Events())
	assert.ErrorIs(env.orch.Categorize(ctx), model.ErrBusy)
	assert.ErrorIs(env.orch.Clone(ctx), model.ErrBusy)
	assert.ErrorIs(env.orch.ViewDashboard(), model.ErrBusy)
	assert.ErrorIs(env.orch.InstallDependencies(ctx), model.ErrBusy)
	assert.Equal(before, len(env.events.Events()))
	assert.Equal(1, env.engine.Calls(model.OperationCategorize))

	release()
	require.NoError(<-errCh)
	assert.Equal(1, env.engine.Calls(model.OperationCategorize))
	assert.Equal(model.OperationStateCategorized, env.orch.State())
}

func TestCategorizeIsNotCancellable(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	release := env.engine.Block(model.OperationCategorize)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- env.orch.Categorize(ctx) }()
	waitStarted(t, env.engine, model.OperationCategorize)

	cancel()
	release()
	require.NoError(<-errCh)
	require.Equal(model.OperationStateCategorized, env.orch.State())
}

func TestFailedCategorizeIsRetryable(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	env := newTestEnv(t, nil)

	env.engine.SetError(model.OperationCategorize, errors.New("io error"))
	require.Error(env.orch.Categorize(ctx))
	assert.Equal(model.OperationStateFailed, env.orch.State())
	assert.True(env.orch.Controls().Enabled(gate.ControlCategorize))
	assert.False(env.orch.Controls().Enabled(gate.ControlClone))

	env.engine.SetError(model.OperationCategorize, nil)
	require.NoError(env.orch.Categorize(ctx))
	assert.Equal(model.OperationStateCategorized, env.orch.State())
}

func TestClone(t *testing.T) {
	tests := map[string]struct {
		categorize  bool
		cloneErr    error
		expErr      error
		expState    model.OperationState
		expCalls    int
		expCanClone bool
	}{
		"Cloning without categorizing should fail with a precondition error.": {
			expErr:   model.ErrPrecondition,
			expState: model.OperationStateIdle,
			expCalls: 0,
		},

		"Cloning after categorizing should clone.": {
			categorize: true,
			expState:   model.OperationStateCloned,
			expCalls:   1,
		},

		"A failing clone should end failed and be retryable.": {
			categorize:  true,
			cloneErr:    errors.New("no space left"),
			expErr:      model.ErrTaskFailed,
			expState:    model.OperationStateFailed,
			expCalls:    1,
			expCanClone: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()
			env := newTestEnv(t, nil)

			if test.categorize {
				require.NoError(env.orch.Categorize(ctx))
			}
			env.engine.SetError(model.OperationClone, test.cloneErr)

			err := env.orch.Clone(ctx)
			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				require.NotEmpty(env.events.Errors())
			} else {
				require.NoError(err)
			}

			assert.Equal(test.expState, env.orch.State())
			assert.Equal(test.expCalls, env.engine.Calls(model.OperationClone))
			assert.Equal(test.expCanClone, env.orch.Controls().Enabled(gate.ControlClone))
		})
	}
}

func TestRetryFailedClone(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	env := newTestEnv(t, nil)

	require.NoError(env.orch.Categorize(ctx))
	env.engine.SetError(model.OperationClone, errors.New("no space left"))
	require.Error(env.orch.Clone(ctx))

	env.engine.SetError(model.OperationClone, nil)
	require.NoError(env.orch.Clone(ctx))
	require.Equal(model.OperationStateCloned, env.orch.State())
	require.True(env.orch.Controls().Enabled(gate.ControlViewDashboard))
}

func TestCloneEmptyCatalog(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	eng, err := fake.NewEngine(fake.EngineConfig{})
	require.NoError(err)
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(err)
	events := &eventRecorder{}
	orch, err := orchestrator.New(orchestrator.Config{Engine: eng, Repository: repo, Notifier: events})
	require.NoError(err)

	require.NoError(orch.Categorize(ctx))
	assert.False(orch.Controls().Enabled(gate.ControlClone))

	err = orch.Clone(ctx)
	assert.ErrorIs(err, model.ErrPrecondition)
	assert.Equal(0, eng.Calls(model.OperationClone))
	assert.Equal(model.OperationStateCategorized, orch.State())
	require.Len(events.Errors(), 1)
	assert.Contains(events.Errors()[0].Message, "There are no apps to clone")
}

func TestCloneWhileIdleDoesNotChangeProgress(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	env := newTestEnv(t, nil)

	require.NoError(env.orch.LoadCatalog(alphaBetaCatalog()))
	env.orch.SelectItem("alpha")
	require.NoError(env.orch.Run(ctx))
	require.Equal(100, env.orch.Progress())

	err := env.orch.Clone(ctx)
	assert.ErrorIs(err, model.ErrPrecondition)
	assert.Equal(100, env.orch.Progress())
	assert.Equal(model.OperationStateIdle, env.orch.State())
}

func TestViewDashboard(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	env := newTestEnv(t, nil)

	err := env.orch.ViewDashboard()
	assert.ErrorIs(err, model.ErrPrecondition)
	assert.Len(env.events.Errors(), 1)

	require.NoError(env.orch.Categorize(ctx))
	require.NoError(env.orch.ViewDashboard())

	out := env.orch.Output()
	assert.Equal("Dashboard", out.Title)
	assert.Contains(out.Body, "| 2-Data-Science | 1 |")
	assert.Contains(out.Body, "| 4-Computer-Vision | 1 |")
	assert.Contains(out.Body, "| 1-Web-Development | 0 |")
}

func TestAlphaBetaScenario(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(env.orch.LoadCatalog(alphaBetaCatalog()))

	env.orch.ApplyFilter(model.FilterCriteria{SearchTerm: "al"})
	items := env.orch.Items()
	require.Len(items, 1)
	assert.Equal("alpha", items[0].Name)

	env.orch.ClearFilters()
	env.orch.SelectItem("beta")
	sel := env.orch.Selected()
	require.NotNil(sel)
	assert.Equal("beta", sel.Name)
	controls := env.orch.Controls()
	assert.True(controls.Enabled(gate.ControlInstallDeps))
	assert.True(controls.Enabled(gate.ControlRun))
	assert.True(controls.Enabled(gate.ControlViewReadme))

	env.engine.SetError(model.OperationInstall, errors.New("disk full"))
	err := env.orch.InstallDependencies(ctx)
	assert.ErrorIs(err, model.ErrTaskFailed)

	status := env.orch.Status()
	assert.Equal(model.EventLevelError, status.Level)
	assert.Contains(status.Message, "disk full")
	assert.True(env.orch.Controls().Enabled(gate.ControlInstallDeps))
	assert.Equal(model.OperationStateIdle, env.orch.State())

	ops, err := env.repo.ListOperations(ctx, 0)
	require.NoError(err)
	require.Len(ops, 1)
	assert.Equal("beta", ops[0].ItemName)
	assert.Equal(model.OperationStatusFailed, ops[0].Status)
	assert.Contains(ops[0].Error, "disk full")
}

func TestItemOperations(t *testing.T) {
	tests := map[string]struct {
		selection  string
		op         model.Operation
		opErr      error
		expErr     error
		expTitle   string
		expBody    string
		expRecords int
	}{
		"Installing without selection should fail with a precondition error.": {
			op:     model.OperationInstall,
			expErr: model.ErrPrecondition,
		},

		"Running without selection should fail with a precondition error.": {
			op:     model.OperationRun,
			expErr: model.ErrPrecondition,
		},

		"Viewing the readme without selection should fail with a precondition error.": {
			op:     model.OperationReadme,
			expErr: model.ErrPrecondition,
		},

		"Installing the selected item should show the installer output.": {
			selection:  "alpha",
			op:         model.OperationInstall,
			expTitle:   "Install dependencies: alpha",
			expBody:    "Successfully installed dependencies of alpha",
			expRecords: 1,
		},

		"Running the selected item should show the run instructions.": {
			selection:  "beta",
			op:         model.OperationRun,
			expTitle:   "Run beta",
			expBody:    "python app.py",
			expRecords: 1,
		},

		"Viewing the selected item readme should show the readme.": {
			selection:  "alpha",
			op:         model.OperationReadme,
			expTitle:   "README: alpha",
			expBody:    "# Alpha",
			expRecords: 1,
		},

		"Viewing a missing readme should fail with not found.": {
			selection:  "beta",
			op:         model.OperationReadme,
			expErr:     model.ErrNotFound,
			expRecords: 1,
		},

		"A failing run should fail with a task error.": {
			selection:  "beta",
			op:         model.OperationRun,
			opErr:      errors.New("boom"),
			expErr:     model.ErrTaskFailed,
			expRecords: 1,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()
			env := newTestEnv(t, nil)
			require.NoError(env.orch.LoadCatalog(alphaBetaCatalog()))
			if test.selection != "" {
				env.orch.SelectItem(test.selection)
			}
			env.engine.SetError(test.op, test.opErr)

			var err error
			switch test.op {
			case model.OperationInstall:
				err = env.orch.InstallDependencies(ctx)
			case model.OperationRun:
				err = env.orch.Run(ctx)
			case model.OperationReadme:
				err = env.orch.ViewReadme(ctx)
			}

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				errEvents := env.events.Errors()
				require.Len(errEvents, 1)
				assert.ErrorIs(errEvents[0].Err, test.expErr)
			} else {
				require.NoError(err)
				out := env.orch.Output()
				assert.Equal(test.expTitle, out.Title)
				assert.Contains(out.Body, test.expBody)
				assert.Equal(100, env.orch.Progress())
			}

			// Item operations never change the pipeline state.
			assert.Equal(model.OperationStateIdle, env.orch.State())

			ops, err := env.repo.ListOperations(ctx, 0)
			require.NoError(err)
			assert.Len(ops, test.expRecords)
		})
	}
}

func TestSelectionAndFilteringWhileInFlight(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(env.orch.LoadCatalog(alphaBetaCatalog()))
	env.orch.SelectItem("alpha")

	release := env.engine.Block(model.OperationInstall)
	defer release()

	errCh := make(chan error, 1)
	go func() { errCh <- env.orch.InstallDependencies(ctx) }()
	waitStarted(t, env.engine, model.OperationInstall)

	controls := env.orch.Controls()
	for _, c := range gate.AllControls() {
		exp := c == gate.ControlSelect || c == gate.ControlFilter || c == gate.ControlClearFilters
		assert.Equal(exp, controls.Enabled(c), "control %s", c)
	}

	env.orch.ApplyFilter(model.FilterCriteria{SearchTerm: "BET"})
	assert.Nil(env.orch.Selected(), "hidden selection should be cleared")
	env.orch.SelectItem("beta")
	require.NotNil(env.orch.Selected())
	assert.Equal("beta", env.orch.Selected().Name)

	release()
	require.NoError(<-errCh)

	// The output refers to the item selected when the operation was dispatched.
	assert.Equal("Install dependencies: alpha", env.orch.Output().Title)
	assert.Equal("beta", env.orch.Selected().Name)
}

func TestSelectItem(t *testing.T) {
	tests := map[string]struct {
		criteria    model.FilterCriteria
		selection   string
		expSelected string
	}{
		"Selecting a visible item should select it.": {
			selection:   "alpha",
			expSelected: "alpha",
		},

		"Selecting an unknown item should clear the selection.": {
			selection: "gamma",
		},

		"Selecting an item hidden by the filter should clear the selection.": {
			criteria:  model.NewFilterCriteria("", []model.Category{model.CategoryComputerVision}, nil),
			selection: "alpha",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			env := newTestEnv(t, nil)
			require.NoError(env.orch.LoadCatalog(alphaBetaCatalog()))

			// Start with a selection to check it's replaced or cleared.
			env.orch.SelectItem("beta")
			env.orch.ApplyFilter(test.criteria)
			env.orch.SelectItem(test.selection)

			sel := env.orch.Selected()
			if test.expSelected == "" {
				assert.Nil(sel)
				assert.False(env.orch.Controls().Enabled(gate.ControlRun))
				return
			}
			require.NotNil(sel)
			assert.Equal(test.expSelected, sel.Name)
			assert.True(env.orch.Controls().Enabled(gate.ControlRun))
		})
	}
}

func TestFilterRoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	env := newTestEnv(t, nil)
	require.NoError(env.orch.LoadCatalog(alphaBetaCatalog()))

	unfiltered := env.orch.Items()
	assert.Equal([]model.Item(alphaBetaCatalog()), unfiltered)

	env.orch.ApplyFilter(model.NewFilterCriteria("zzz", nil, []string{"x"}))
	assert.Empty(env.orch.Items())

	env.orch.ClearFilters()
	env.orch.ApplyFilter(model.FilterCriteria{})
	assert.Equal(unfiltered, env.orch.Items())
	assert.True(env.orch.Criteria().IsEmpty())
}

func TestLoadCatalogWhileCategorizing(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	env := newTestEnv(t, nil)

	release := env.engine.Block(model.OperationCategorize)
	defer release()

	errCh := make(chan error, 1)
	go func() { errCh <- env.orch.Categorize(ctx) }()
	waitStarted(t, env.engine, model.OperationCategorize)

	require.ErrorIs(env.orch.LoadCatalog(alphaBetaCatalog()), model.ErrBusy)

	release()
	require.NoError(<-errCh)
}
