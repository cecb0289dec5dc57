// Package gate maps the orchestrator state to the enabled state of each dashboard control.
package gate

import "github.com/slok/appstore/internal/model"

// Control is a named dashboard control.
type Control string

const (
	ControlCategorize    Control = "categorize"
	ControlClone         Control = "clone"
	ControlViewDashboard Control = "view-dashboard"
	ControlInstallDeps   Control = "install-deps"
	ControlRun           Control = "run"
	ControlViewReadme    Control = "view-readme"
	ControlSelect        Control = "select"
	ControlFilter        Control = "filter"
	ControlClearFilters  Control = "clear-filters"
)

// AllControls returns every control in display order.
func AllControls() []Control {
	return []Control{
		ControlCategorize,
		ControlClone,
		ControlViewDashboard,
		ControlInstallDeps,
		ControlRun,
		ControlViewReadme,
		ControlSelect,
		ControlFilter,
		ControlClearFilters,
	}
}

// Input is the orchestrator state the gate depends on.
type Input struct {
	State model.OperationState
	// InFlight is the operation being executed, if any.
	InFlight model.Operation
	// Categorized is true when the current catalog comes from a successful categorize.
	Categorized bool
	// HasItems is true when the catalog has at least one item.
	HasItems     bool
	HasSelection bool
}

// Controls is the enabled state of each control.
type Controls map[Control]bool

// Enabled returns if the control is enabled, unknown controls are disabled.
func (c Controls) Enabled(ctrl Control) bool { return c[ctrl] }

// Compute returns the enabled state of the controls. Nothing is enabled while an operation
// is in flight, except selection and filtering that are always interactive.
func Compute(in Input) Controls {
	idle := in.InFlight == model.OperationNone

	canClone := in.HasItems && (in.State == model.OperationStateCategorized ||
		(in.State == model.OperationStateFailed && in.Categorized))

	canViewDashboard := in.State == model.OperationStateCategorized ||
		in.State == model.OperationStateCloned

	return Controls{
		ControlCategorize:    idle,
		ControlClone:         idle && canClone,
		ControlViewDashboard: idle && canViewDashboard,
		ControlInstallDeps:   idle && in.HasSelection,
		ControlRun:           idle && in.HasSelection,
		ControlViewReadme:    idle && in.HasSelection,
		ControlSelect:        true,
		ControlFilter:        true,
		ControlClearFilters:  true,
	}
}
