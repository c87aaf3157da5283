package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/auth"
	"tableflip.dev/portal/pkg/profile"
	"tableflip.dev/portal/pkg/task"
)

// Demo account credentials created by Seed.
const (
	DemoEmail    = "demo@school.edu"
	DemoPassword = "demo"
)

// Demo seeds an account and a task list to explore the UI with.
type Demo struct {
	Runtime *app.Runtime
	Out     io.Writer
	Now     func() time.Time
}

func (d *Demo) Do(ctx context.Context) error {
	if d.Runtime == nil {
		return errors.New("demo: no runtime")
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	rt := d.Runtime

	acct, err := rt.Accounts.CreateAccount(ctx, DemoEmail, "Demo Student", DemoPassword)
	if errors.Is(err, auth.ErrAccountExists) {
		acct, err = rt.Accounts.Lookup(ctx, DemoEmail)
	}
	if err != nil {
		return fmt.Errorf("demo: account: %w", err)
	}

	if _, err := rt.Profiles.GetOrCreate(ctx, acct.UID, acct.Email, acct.Name); err != nil {
		return fmt.Errorf("demo: profile: %w", err)
	}
	phone, year, trimester := "555-0100", "2025", "3"
	if _, err := rt.Profiles.Update(ctx, acct.UID, profile.Patch{
		Phone:            &phone,
		EnrolledYear:     &year,
		CurrentTrimester: &trimester,
		Clubs:            []string{"Coding Club", "Debate Club"},
	}); err != nil {
		return fmt.Errorf("demo: profile: %w", err)
	}

	list := task.Open(ctx, rt.TaskPersistence(acct.UID), task.WithClock(now))
	if len(list.Tasks()) == 0 {
		t := now()
		tomorrow := t.Add(24 * time.Hour)
		yesterday := t.Add(-24 * time.Hour)
		list.Add(ctx, "Hand in the essay draft", task.PriorityHigh, &yesterday)
		list.Add(ctx, "Read chapter 3", task.PriorityMedium, &tomorrow)
		list.Add(ctx, "Sign up for the debate tournament", task.PriorityLow, nil)
		if done, ok := list.Add(ctx, "Buy notebooks", task.PriorityLow, nil); ok {
			_, _ = list.Toggle(ctx, done.ID)
		}
	}

	out := d.Out
	if out == nil {
		out = color.Output
	}
	_, _ = color.New(color.FgGreen).Fprintf(out, "demo account ready: %s / %s\n", DemoEmail, DemoPassword)
	return nil
}
