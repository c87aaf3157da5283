package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/commands/options"
	"tableflip.dev/portal/pkg/runner/tasks"
	"tableflip.dev/portal/pkg/task"
)

func addTasks(topLevel *cobra.Command) {
	uo := &options.UserOptions{}

	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Work with a task list",
		Example: `
portal tasks
portal tasks add --priority=high --deadline=tomorrow read chapter 3
portal tasks done 1760864400000
portal tasks --user=ada@school.edu list
`,
	}
	options.AddUserArg(cmd, uo)

	addTasksList(cmd, uo)
	addTasksAdd(cmd, uo)
	addTasksDone(cmd, uo)
	addTasksEdit(cmd, uo)
	addTasksRemove(cmd, uo)

	// Bare "portal tasks" lists.
	cmd.RunE = func(c *cobra.Command, args []string) error {
		list, _, err := c.Find([]string{"list"})
		if err != nil {
			return err
		}
		return list.RunE(list, args)
	}

	topLevel.AddCommand(cmd)
}

// taskBase resolves --user into a task slot and prepares the runner base.
// The returned func closes the runtime.
func taskBase(uo *options.UserOptions, to *options.TaskOptions) (tasks.Base, func(), error) {
	rt, err := loadRuntime()
	if err != nil {
		return tasks.Base{}, nil, err
	}
	uid, err := rt.ResolveUser(context.Background(), uo.User)
	if err != nil {
		_ = rt.Close()
		return tasks.Base{}, nil, err
	}
	return tasks.Base{
		Persistence: rt.TaskPersistence(uid),
		ShowID:      to.ShowID,
		JSON:        output.JSON,
		Logger:      log.New(os.Stderr, "", 0),
	}, func() { _ = rt.Close() }, nil
}

func withRuntime(uo *options.UserOptions, to *options.TaskOptions, fn func(b tasks.Base) error) error {
	b, done, err := taskBase(uo, to)
	if err != nil {
		return output.HandleError(err)
	}
	defer done()
	return output.HandleError(fn(b))
}

func addTasksList(topLevel *cobra.Command, uo *options.UserOptions) {
	to := &options.TaskOptions{}
	pending := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Example: `
portal tasks list --pending --id
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withRuntime(uo, to, func(b tasks.Base) error {
				l := tasks.List{Base: b, Pending: pending}
				return l.Do(context.Background())
			})
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Only show tasks not yet completed.")
	options.AddShowIDArgs(cmd, to)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTasksAdd(topLevel *cobra.Command, uo *options.UserOptions) {
	to := &options.TaskOptions{}
	text := ""

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Example: `
portal tasks add do this task
portal tasks add --priority=low --deadline="2/28 17:00" hand in the essay
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a task")
			}
			text = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			priority, err := to.GetPriority()
			if err != nil {
				return output.HandleError(err)
			}
			deadline, err := to.GetDeadline(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			return withRuntime(uo, to, func(b tasks.Base) error {
				a := tasks.Add{Base: b, Text: text, Priority: priority, Deadline: deadline}
				return a.Do(context.Background())
			})
		},
	}

	options.AddTaskArgs(cmd, to)
	options.AddShowIDArgs(cmd, to)
	options.AddOutputArg(cmd, output)
	_ = cmd.RegisterFlagCompletionFunc("priority", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return priorityCompletions(), cobra.ShellCompDirectiveNoFileComp
	})
	topLevel.AddCommand(cmd)
}

func addTasksDone(topLevel *cobra.Command, uo *options.UserOptions) {
	to := &options.TaskOptions{ShowID: true}

	cmd := &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"complete", "x"},
		Short:   "Toggle the completion of a task",
		Example: `
portal tasks done 1760864400000
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskCompletions(uo),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withRuntime(uo, to, func(b tasks.Base) error {
				d := tasks.Done{Base: b, ID: args[0]}
				return d.Do(context.Background())
			})
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTasksEdit(topLevel *cobra.Command, uo *options.UserOptions) {
	to := &options.TaskOptions{ShowID: true}

	cmd := &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace the text of a task",
		Example: `
portal tasks edit 1760864400000 read chapter 4
`,
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: taskCompletions(uo),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withRuntime(uo, to, func(b tasks.Base) error {
				e := tasks.Edit{Base: b, ID: args[0], Text: strings.Join(args[1:], " ")}
				return e.Do(context.Background())
			})
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTasksRemove(topLevel *cobra.Command, uo *options.UserOptions) {
	to := &options.TaskOptions{ShowID: true}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Example: `
portal tasks rm 1760864400000
portal tasks rm --yes 1760864400000
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskCompletions(uo),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withRuntime(uo, to, func(b tasks.Base) error {
				r := tasks.Remove{
					Base: b,
					ID:   args[0],
					Confirm: func(t task.Task) (bool, error) {
						return co.Confirm(fmt.Sprintf("Delete %q", t.Text))
					},
				}
				return r.Do(context.Background())
			})
		},
	}

	options.AddConfirmArgs(cmd, co)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func priorityCompletions() []string {
	all := task.AllPriorities()
	out := make([]string, 0, len(all))
	for _, p := range all {
		out = append(out, string(p))
	}
	return out
}

func taskCompletions(uo *options.UserOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		rt, err := loadRuntime()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		defer rt.Close()
		return idCompletions(rt, uo.User, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func idCompletions(rt *app.Runtime, user, prefix string) []string {
	ctx := context.Background()
	uid, err := rt.ResolveUser(ctx, user)
	if err != nil {
		return nil
	}
	list, err := rt.TaskPersistence(uid).Load(ctx)
	if err != nil {
		return nil
	}
	var out []string
	for _, t := range list {
		if strings.HasPrefix(t.ID, prefix) {
			out = append(out, t.ID+"\t"+t.Text)
		}
	}
	return out
}
