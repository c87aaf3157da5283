// Package printers renders portal data on the command line.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"

	"tableflip.dev/portal/pkg/profile"
	"tableflip.dev/portal/pkg/router"
	"tableflip.dev/portal/pkg/session"
	"tableflip.dev/portal/pkg/task"
)

// PrettyPrint writes colored, human oriented output.
type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
	Now    func() time.Time
}

const stampLayout = "Mon Jan 2 15:04"

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now == nil {
		return time.Now()
	}
	return pp.Now()
}

// JSON writes v as indented JSON.
func (pp *PrettyPrint) JSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(pp.out(), string(b))
	return err
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.out(), "s")
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Tasks prints the list in display order, flagging overdue tasks.
func (pp *PrettyPrint) Tasks(tasks ...task.Task) {
	if len(tasks) == 0 {
		pp.none()
		return
	}
	now := pp.now()
	plain := color.New()
	done := color.New(color.Faint, color.CrossedOut)
	late := color.New(color.FgRed, color.Bold)
	id := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, t := range tasks {
		box := "[ ]"
		text := plain.Sprint(t.Text)
		if t.Completed {
			box = "[x]"
			text = done.Sprint(t.Text)
		}
		due := ""
		if t.Deadline != nil {
			due = t.Deadline.Local().Format(stampLayout)
			if t.Overdue(now) {
				due = late.Sprint(due + " overdue")
			}
		}
		row := []interface{}{box, priorityMark(t.Priority), text, due}
		if pp.ShowID {
			row = append([]interface{}{id.Sprint(t.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func priorityMark(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return color.New(color.FgRed).Sprint("!!!")
	case task.PriorityLow:
		return color.New(color.Faint).Sprint("!  ")
	default:
		return color.New(color.FgYellow).Sprint("!! ")
	}
}

// Stats prints the completed/pending summary line.
func (pp *PrettyPrint) Stats(s task.Stats) {
	c := color.New(color.Faint)
	_, _ = c.Fprintf(pp.out(), "%d total, %d completed, %d pending\n", s.Total, s.Completed, s.Pending)
}

// Reminders prints reminders with their time and notified state.
func (pp *PrettyPrint) Reminders(reminders ...session.Reminder) {
	if len(reminders) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	for _, r := range reminders {
		mark := "•"
		if r.Notified {
			mark = faint.Sprint("✓")
		}
		row := []interface{}{mark, r.Datetime.Local().Format(stampLayout), r.Title, faint.Sprint(r.Description)}
		if pp.ShowID {
			row = append([]interface{}{faint.Sprint(r.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Notifications prints notifications newest first; unread ones are bold.
func (pp *PrettyPrint) Notifications(list ...session.Notification) {
	if len(list) == 0 {
		pp.none()
		return
	}
	unread := color.New(color.Bold)
	read := color.New(color.Faint)
	for _, n := range list {
		c := read
		if !n.Read {
			c = unread
		}
		_, _ = c.Fprintf(pp.out(), "%s  %s\n", n.Time.Local().Format(stampLayout), n.Message)
	}
	pp.NewLine()
}

// Requests prints pending sign-up requests.
func (pp *PrettyPrint) Requests(users ...profile.User) {
	if len(users) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Email"), bold.Sprint("Name"), bold.Sprint("GAP ID"), bold.Sprint("Clubs"), bold.Sprint("Requested"))
	for _, u := range users {
		tbl.AddRow(u.Email, u.Name, u.GapID, strings.Join(u.Clubs, ", "), u.CreatedAt.Local().Format("2006-01-02"))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Screens prints the router's screens with their back targets.
func (pp *PrettyPrint) Screens(screens ...router.Screen) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Screen"), bold.Sprint("Title"), bold.Sprint("Back"))
	for _, s := range screens {
		back := string(router.BackFor(s))
		if back == "" {
			back = faint.Sprint("-")
		}
		tbl.AddRow(string(s), s.Title(), back)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
