package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// SubmitFunc receives the form text on submit.
type SubmitFunc func(text string) tea.Cmd

// Form is a single-line text input. Every key press updates its text;
// Enter emits the text to the submit handler without validating it.
type Form struct {
	value         string
	placeholder   string
	clearOnSubmit bool
	onSubmit      SubmitFunc
}

// NewForm returns an empty form.
func NewForm(onSubmit SubmitFunc, clearOnSubmit bool) *Form {
	return &Form{
		placeholder:   "enter task name...",
		clearOnSubmit: clearOnSubmit,
		onSubmit:      onSubmit,
	}
}

// Value returns the current text.
func (f *Form) Value() string {
	return f.value
}

// SetValue replaces the current text.
func (f *Form) SetValue(v string) {
	f.value = v
}

// Update applies a key press.
func (f *Form) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return f.Submit()
	case tea.KeyBackspace:
		if r := []rune(f.value); len(r) > 0 {
			f.value = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		f.value = ""
	case tea.KeySpace:
		f.value += " "
	case tea.KeyRunes:
		f.value += string(msg.Runes)
	}
	return nil
}

// Submit emits the current text to the handler.
func (f *Form) Submit() tea.Cmd {
	text := f.value
	if f.clearOnSubmit {
		f.value = ""
	}
	if f.onSubmit == nil {
		return nil
	}
	return f.onSubmit(text)
}

// View renders the input line.
func (f *Form) View(focused bool) string {
	prompt := "  + "
	if focused {
		prompt = "> + "
	}
	if f.value == "" {
		return prompt + faintStyle.Render(f.placeholder) + cursor(focused)
	}
	return prompt + f.value + cursor(focused)
}

func cursor(focused bool) string {
	if focused {
		return "_"
	}
	return ""
}
