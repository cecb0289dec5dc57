package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/slok/appstore/internal/gate"
	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/progress"
)

var buttons = []struct {
	ctrl  gate.Control
	label string
}{
	{gate.ControlCategorize, "c Categorize"},
	{gate.ControlClone, "o Clone"},
	{gate.ControlViewDashboard, "v Dashboard"},
	{gate.ControlInstallDeps, "i Install deps"},
	{gate.ControlRun, "r Run"},
	{gate.ControlViewReadme, "d README"},
}

// View satisfies tea.Model.
func (m Model) View() string {
	sections := []string{
		m.viewHeader(),
		m.viewButtons(),
		m.viewFilters(),
		m.viewProgress(),
		m.viewBody(),
		m.viewStatus(),
		m.help.View(m.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("App Store")
	state := m.styles.State.Render(string(m.snap.State))
	info := m.styles.Muted.Render(fmt.Sprintf("%d/%d apps", len(m.snap.Items), m.snap.Total))
	return fmt.Sprintf("%s  %s  %s", title, state, info)
}

func (m Model) viewButtons() string {
	rendered := make([]string, 0, len(buttons))
	for _, b := range buttons {
		style := m.styles.ButtonDisabled
		if m.snap.Controls.Enabled(b.ctrl) {
			style = m.styles.ButtonEnabled
		}
		rendered = append(rendered, style.Render(b.label))
	}
	return strings.Join(rendered, " ")
}

func (m Model) viewFilters() string {
	var b strings.Builder

	if m.searchActive || m.search.Value() != "" {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(m.styles.Muted.Render("/ search"))
	}
	b.WriteString("\n")

	for i, cat := range model.Categories() {
		style := m.styles.ToggleOff
		if _, ok := m.categories[cat]; ok {
			style = m.styles.ToggleOn
		}
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(style.Render(string(cat)))
	}
	b.WriteString("\n")

	if len(m.snap.Kinds) == 0 {
		b.WriteString(m.styles.Muted.Render("no kinds"))
		return b.String()
	}
	for i, kind := range m.snap.Kinds {
		style := m.styles.ToggleOff
		if _, ok := m.kinds[kind]; ok {
			style = m.styles.ToggleOn
		}
		label := kind
		if i == m.kindCursor {
			label = "›" + label
		}
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(style.Render(label))
	}

	return b.String()
}

func (m Model) viewProgress() string {
	var bar string
	if m.color {
		bar = fmt.Sprintf("%s %3d%%", m.bar.ViewAs(float64(m.snap.Progress)/float64(progress.Max)), m.snap.Progress)
	} else {
		r := progress.NewReporter(nil)
		_ = r.Set(m.snap.Progress)
		bar = r.Bar(m.bar.Width)
	}

	if m.snap.InFlight != model.OperationNone {
		return fmt.Sprintf("%s %s %s", m.spinner.View(), m.snap.InFlight, bar)
	}
	return bar
}

func (m Model) viewBody() string {
	list := m.viewList()
	out := m.styles.Panel.Width(m.output.Width).Render(m.output.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, list, out)
}

func (m Model) viewList() string {
	width := max(m.width*2/5, listMinWidth)
	height := m.output.Height

	if len(m.snap.Items) == 0 {
		msg := "No apps, press c to categorize"
		if m.snap.Total > 0 {
			msg = "No apps match the filters"
		}
		return m.styles.Panel.Width(width).Height(height).Render(m.styles.Muted.Render(msg))
	}

	// Keep the cursor visible.
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(m.snap.Items))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		it := m.snap.Items[i]
		line := fmt.Sprintf("%s %s", it.Name, m.styles.Muted.Render("("+it.Kind+")"))

		marker := "  "
		if m.snap.Selected != nil && m.snap.Selected.Name == it.Name {
			marker = "● "
			line = m.styles.Selected.Render(it.Name) + " " + m.styles.Muted.Render("("+it.Kind+")")
		}
		if i == m.cursor {
			marker = m.styles.Cursor.Render("›") + " "
			if m.snap.Selected != nil && m.snap.Selected.Name == it.Name {
				marker = m.styles.Cursor.Render("›") + "●"
			}
		}
		lines = append(lines, marker+line)
	}

	return m.styles.Panel.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) viewStatus() string {
	if m.notice != "" {
		return m.styles.StatusInfo.Render(m.notice)
	}

	ev := m.snap.Status
	if ev.Message == "" {
		return m.styles.Muted.Render("Ready")
	}
	if ev.Level == model.EventLevelError {
		return m.styles.StatusError.Render(ev.Message)
	}
	return m.styles.StatusInfo.Render(ev.Message)
}
