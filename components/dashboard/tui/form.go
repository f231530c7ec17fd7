package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
)

const (
	fieldName = iota
	fieldProject
	fieldAddress
	fieldStatus
	fieldCount
)

// orderForm collects a candidate order. Status is picked from the fixed list.
type orderForm struct {
	inputs   []textinput.Model
	statuses []dashboard.OrderStatus
	status   int
	focus    int
	err      string
}

func newOrderForm() *orderForm {
	placeholders := []string{"Customer name", "Project", "Address"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, placeholder := range placeholders {
		input := textinput.New()
		input.Placeholder = placeholder
		input.CharLimit = 80
		inputs[i] = input
	}
	inputs[fieldName].Focus()
	return &orderForm{
		inputs:   inputs,
		statuses: dashboard.OrderStatuses(),
		status:   2,
	}
}

func (f *orderForm) candidate() dashboard.OrderCandidate {
	return dashboard.OrderCandidate{
		User:    dashboard.OrderUser{Name: f.inputs[fieldName].Value()},
		Project: f.inputs[fieldProject].Value(),
		Address: f.inputs[fieldAddress].Value(),
		Status:  f.statuses[f.status],
	}.Normalized()
}

func (f *orderForm) move(delta int) {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *orderForm) cycleStatus(delta int) {
	f.status = (f.status + delta + len(f.statuses)) % len(f.statuses)
}

// update routes keys to the focused field. submit is true when the user
// confirmed the form.
func (f *orderForm) update(msg tea.KeyMsg) (cmd tea.Cmd, submit bool) {
	switch msg.String() {
	case "tab", "down":
		f.move(1)
		return nil, false
	case "shift+tab", "up":
		f.move(-1)
		return nil, false
	case "enter":
		return nil, true
	}
	if f.focus == fieldStatus {
		switch msg.String() {
		case "left", "h":
			f.cycleStatus(-1)
		case "right", "l", " ":
			f.cycleStatus(1)
		}
		return nil, false
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, false
}

func (f *orderForm) view() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Add order"))
	b.WriteString("\n\n")
	for _, input := range f.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	status := string(f.statuses[f.status])
	label := "Status: ‹ " + status + " ›"
	if f.focus == fieldStatus {
		label = sortedStyle.Render(label)
	}
	b.WriteString(label)
	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(f.err))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab: next field • ←/→: status • enter: save • esc: cancel"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
