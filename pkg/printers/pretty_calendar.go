package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/session"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Month prints the calendar of then with days carrying reminders in bold.
func (pp *PrettyPrint) Month(then time.Time, s session.UserSession) {
	marked := s.ReminderDays(then)
	d := StartDay(then)
	out := pp.out()

	tf := color.New(color.FgWhite, color.Italic)
	m := fmt.Sprintf("%s %d", then.Month(), then.Year())
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(out, "%s%s\n", strings.Repeat(" ", mid), m)
	_, _ = color.New(color.Faint).Fprintln(out, "Su Mo Tu We Th Fr Sa")

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(out, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite, color.Underline)

	for i := 1; i <= DaysIn(then); i++ {
		if marked[i] {
			_, _ = l2.Fprintf(out, "%2d", i)
		} else {
			_, _ = l1.Fprintf(out, "%2d", i)
		}
		_, _ = fmt.Fprint(out, " ")
		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(out, "\n")
		}
	}
	_, _ = fmt.Fprint(out, "\n\n")
}

// Agenda prints reminders and deadlines of an agenda window.
func (pp *PrettyPrint) Agenda(a app.Agenda) {
	pp.Title(fmt.Sprintf("Agenda until %s", a.Until.Local().Format(stampLayout)))
	pp.NewLine()
	pp.TitleWithCount("Reminders", len(a.Reminders), "reminder")
	pp.Reminders(a.Reminders...)
	if len(a.Overdue) > 0 {
		pp.TitleWithCount("Overdue", len(a.Overdue), "task")
		pp.Tasks(a.Overdue...)
	}
	pp.TitleWithCount("Due", len(a.Due), "task")
	pp.Tasks(a.Due...)
	pp.Stats(a.Stats)
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 1, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
