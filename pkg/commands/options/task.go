package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/portal/pkg/task"
	"tableflip.dev/portal/pkg/timeutil"
)

// TaskOptions
type TaskOptions struct {
	Priority string
	Deadline string
	ShowID   bool
}

func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", string(task.DefaultPriority),
		`Task priority, one of low, medium or high.`)
	cmd.Flags().StringVar(&o.Deadline, "deadline", "",
		`Deadline, example: --deadline="2026-02-28 17:00", --deadline="2/28" or --deadline=tomorrow.`)
}

func AddShowIDArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().BoolVar(&o.ShowID, "id", false,
		"Show ids.")
}

func (o *TaskOptions) GetPriority() (task.Priority, error) {
	return task.ParsePriority(o.Priority)
}

// GetDeadline parses the deadline flag. A date without a time means the end
// of that day.
func (o *TaskOptions) GetDeadline(now time.Time) (*time.Time, error) {
	return timeutil.ParseDeadline(o.Deadline, now)
}
