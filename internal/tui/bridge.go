package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slok/appstore/internal/log"
	"github.com/slok/appstore/internal/model"
)

// EventBridge is an orchestrator notifier that feeds the events into the dashboard.
// Notify never blocks, when the dashboard is not keeping up events are dropped,
// the dashboard always renders the latest state anyway.
type EventBridge struct {
	events chan model.Event
	logger log.Logger
}

// NewEventBridge returns a bridge that buffers up to size events.
func NewEventBridge(size int, logger log.Logger) *EventBridge {
	if logger == nil {
		logger = log.Noop
	}
	return &EventBridge{
		events: make(chan model.Event, max(size, 1)),
		logger: logger.WithValues(log.Kv{"svc": "tui.EventBridge"}),
	}
}

// Notify satisfies orchestrator.Notifier.
func (b *EventBridge) Notify(ev model.Event) {
	select {
	case b.events <- ev:
	default:
		b.logger.Warningf("Dropped dashboard event: %s", ev.Message)
	}
}

// Events returns the bridged events.
func (b *EventBridge) Events() <-chan model.Event { return b.events }

type eventMsg struct {
	ev model.Event
}

func waitForEvent(events <-chan model.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg{ev: ev}
	}
}
