package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/appstore/internal/engine/fake"
	"github.com/slok/appstore/internal/gate"
	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/orchestrator"
	"github.com/slok/appstore/internal/storage/memory"
)

type testDashboard struct {
	m       Model
	engine  *fake.Engine
	copied  []string
	copyErr error
}

func newTestDashboard(t *testing.T) *testDashboard {
	t.Helper()

	eng, err := fake.NewEngine(fake.EngineConfig{
		Catalog: model.Catalog{
			{Name: "alpha", Category: model.CategoryDataScience, Kind: "x", Path: "/repo/alpha", MainFile: "main.py"},
			{Name: "beta", Category: model.CategoryComputerVision, Kind: "y", Path: "/repo/beta", MainFile: "app.py"},
		},
	})
	require.NoError(t, err)

	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	bridge := NewEventBridge(64, nil)
	orch, err := orchestrator.New(orchestrator.Config{
		Engine:     eng,
		Repository: repo,
		Notifier:   bridge,
	})
	require.NoError(t, err)

	d := &testDashboard{engine: eng}
	m, err := NewModel(context.Background(), Config{
		Orchestrator: orch,
		Events:       bridge.Events(),
		Clipboard: func(text string) error {
			if d.copyErr != nil {
				return d.copyErr
			}
			d.copied = append(d.copied, text)
			return nil
		},
	})
	require.NoError(t, err)
	d.m = m

	return d
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press applies the keys without running the returned commands.
func (d *testDashboard) press(t *testing.T, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		next, c := d.m.Update(keyMsg(k))
		got, ok := next.(Model)
		require.True(t, ok, "Update returned %T, want Model", next)
		d.m = got
		cmd = c
	}
	return cmd
}

// dispatch presses an intent key and waits for the intent to finish.
func (d *testDashboard) dispatch(t *testing.T, k string) {
	t.Helper()
	cmd := d.press(t, k)
	require.NotNil(t, cmd, "intent %q was not dispatched", k)

	msg := cmd()
	_, ok := msg.(intentDoneMsg)
	require.True(t, ok, "got %T, want intentDoneMsg", msg)

	next, _ := d.m.Update(msg)
	d.m = next.(Model)
}

func itemNames(items []model.Item) []string {
	names := []string{}
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func TestDashboardCategorize(t *testing.T) {
	assert := assert.New(t)
	d := newTestDashboard(t)

	assert.Contains(d.m.View(), "No apps, press c to categorize")

	d.dispatch(t, "c")

	assert.Equal(model.OperationStateCategorized, d.m.snap.State)
	assert.Equal([]string{"alpha", "beta"}, itemNames(d.m.snap.Items))
	view := d.m.View()
	assert.Contains(view, "alpha")
	assert.Contains(view, "Categorized 2 apps")
	assert.Contains(view, "100%")
}

func TestDashboardDisabledControlsAreNotDispatched(t *testing.T) {
	d := newTestDashboard(t)

	for _, k := range []string{"o", "v", "i", "r", "d"} {
		assert.Nil(t, d.press(t, k), "key %q", k)
	}
	assert.Equal(t, 0, d.engine.Calls(model.OperationClone))
}

func TestDashboardSelectAndInstallFailure(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	d := newTestDashboard(t)
	d.dispatch(t, "c")

	d.press(t, "j", "enter")
	require.NotNil(d.m.snap.Selected)
	assert.Equal("beta", d.m.snap.Selected.Name)

	d.engine.SetError(model.OperationInstall, errors.New("disk full"))
	d.dispatch(t, "i")

	assert.Contains(d.m.View(), "disk full")
	assert.True(d.m.snap.Controls.Enabled(gate.ControlInstallDeps))
	assert.Equal(model.OperationStateCategorized, d.m.snap.State)
}

func TestDashboardFilters(t *testing.T) {
	tests := map[string]struct {
		keys     []string
		expItems []string
	}{
		"Searching should filter by name.": {
			keys:     []string{"/", "a", "l", "enter"},
			expItems: []string{"alpha"},
		},

		"Toggling a category should filter by category.": {
			keys:     []string{"4"},
			expItems: []string{"beta"},
		},

		"Toggling a category twice should remove the filter.": {
			keys:     []string{"4", "4"},
			expItems: []string{"alpha", "beta"},
		},

		"Toggling a kind should filter by kind.": {
			keys:     []string{"tab", "x"},
			expItems: []string{"beta"},
		},

		"Filters should be conjunctive.": {
			keys:     []string{"2", "tab", "x"},
			expItems: []string{},
		},

		"Escape should clear the filters.": {
			keys:     []string{"/", "z", "enter", "2", "esc"},
			expItems: []string{"alpha", "beta"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			d := newTestDashboard(t)
			d.dispatch(t, "c")

			d.press(t, test.keys...)
			assert.Equal(t, test.expItems, itemNames(d.m.snap.Items))
		})
	}
}

func TestDashboardSearchCapturesKeys(t *testing.T) {
	d := newTestDashboard(t)

	// While searching, intent keys are text.
	d.press(t, "/", "c")
	assert.Equal(t, "c", d.m.search.Value())
	assert.True(t, d.m.searchActive)
	assert.Equal(t, 0, d.engine.Calls(model.OperationCategorize))

	d.press(t, "esc")
	assert.False(t, d.m.searchActive)
	assert.Equal(t, "c", d.m.search.Value())
}

func TestDashboardCopyOutput(t *testing.T) {
	tests := map[string]struct {
		run       bool
		copyErr   error
		expCopied int
		expNotice string
	}{
		"Copying without output should do nothing.": {
			expNotice: "Nothing to copy",
		},

		"Copying the run instructions should copy them to the clipboard.": {
			run:       true,
			expCopied: 1,
			expNotice: `Copied "Run alpha" to clipboard`,
		},

		"A clipboard error should be shown.": {
			run:       true,
			copyErr:   errors.New("no clipboard utility"),
			expNotice: "Could not copy to clipboard: no clipboard utility",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			d := newTestDashboard(t)
			d.copyErr = test.copyErr

			if test.run {
				d.dispatch(t, "c")
				d.press(t, "enter")
				d.dispatch(t, "r")
			}
			d.press(t, "y")

			assert.Len(d.copied, test.expCopied)
			if test.expCopied > 0 {
				assert.Contains(d.copied[0], "python main.py")
			}
			assert.Contains(d.m.View(), test.expNotice)
		})
	}
}

func TestDashboardQuit(t *testing.T) {
	d := newTestDashboard(t)

	cmd := d.press(t, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestEventBridge(t *testing.T) {
	assert := assert.New(t)
	b := NewEventBridge(1, nil)

	b.Notify(model.Event{Message: "first"})
	b.Notify(model.Event{Message: "dropped"})

	msg := waitForEvent(b.Events())()
	ev, ok := msg.(eventMsg)
	assert.True(ok)
	assert.Equal("first", ev.ev.Message)
	assert.Empty(b.Events())
}
