package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/portal/pkg/forms"
)

type formField struct {
	key   string
	label string
	input textinput.Model
}

// form is a vertical stack of labelled text inputs. Keys match the json
// names used by pkg/forms so validation messages land on their field.
type form struct {
	title  string
	fields []formField
	focus  int
	errs   map[string]string
	status string
}

type fieldSpec struct {
	key         string
	label       string
	placeholder string
	secret      bool
}

func newForm(title string, specs ...fieldSpec) *form {
	f := &form{title: title}
	for _, s := range specs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = s.placeholder
		ti.CharLimit = 256
		if s.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.fields = append(f.fields, formField{key: s.key, label: s.label, input: ti})
	}
	return f
}

func (f *form) Focus() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
	return f.fields[f.focus].input.Focus()
}

func (f *form) move(delta int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.Focus()
}

// Update handles field navigation and forwards the rest to the focused
// input. submit reports enter on the last field.
func (f *form) Update(msg tea.Msg) (submit bool, cmd tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			return false, f.move(1)
		case "shift+tab", "up":
			return false, f.move(-1)
		case "enter":
			if f.focus == len(f.fields)-1 {
				return true, nil
			}
			return false, f.move(1)
		}
	}
	if len(f.fields) == 0 {
		return false, nil
	}
	in, cmd := f.fields[f.focus].input.Update(msg)
	f.fields[f.focus].input = in
	return false, cmd
}

func (f *form) Value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return strings.TrimSpace(fld.input.Value())
		}
	}
	return ""
}

func (f *form) SetValue(key, v string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(v)
		}
	}
}

func (f *form) Reset() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
	f.focus = 0
	f.errs = nil
	f.status = ""
}

// SetError shows err inline: field messages for validation failures, the
// status line otherwise.
func (f *form) SetError(err error, status func(error) string) {
	f.errs = nil
	f.status = ""
	if err == nil {
		return
	}
	if fields := forms.Fields(err); len(fields) > 0 {
		f.errs = make(map[string]string, len(fields))
		for _, fe := range fields {
			f.errs[fe.Field] = fe.Message
		}
		return
	}
	f.status = status(err)
}

func (f *form) View(st styles) string {
	lines := []string{st.title.Render(f.title), ""}
	for i, fld := range f.fields {
		label := st.label
		if i == f.focus {
			label = st.focused
		}
		lines = append(lines, label.Render(fld.label), fld.input.View())
		if msg := f.errs[fld.key]; msg != "" {
			lines = append(lines, st.err.Render(msg))
		}
	}
	if f.status != "" {
		lines = append(lines, "", st.err.Render(f.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
