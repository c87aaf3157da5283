package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"tableflip.dev/portal/pkg/auth"
	"tableflip.dev/portal/pkg/config"
	"tableflip.dev/portal/pkg/docstore"
	"tableflip.dev/portal/pkg/profile"
	"tableflip.dev/portal/pkg/reminder"
	"tableflip.dev/portal/pkg/store"
	"tableflip.dev/portal/pkg/task"
)

// Runtime holds the opened local backends described by a Config.
type Runtime struct {
	Config   *config.Config
	Slots    store.Slots
	DB       *docstore.DB
	Accounts *auth.Local
	Profiles *profile.Bolt
}

// OpenRuntime opens the slot directory and the portal database.
func OpenRuntime(cfg *config.Config) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("app: config required")
	}
	slots, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	db, err := docstore.Open(cfg.Profiles,
		auth.AccountsBucket, profile.UsersBucket, profile.UIDsBucket, profile.EmailsBucket)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Config:   cfg,
		Slots:    slots,
		DB:       db,
		Accounts: auth.NewLocal(db, auth.NewFederatedVerifier(cfg.AuthSecret, cfg.AuthIssuer)),
		Profiles: profile.NewBolt(db),
	}, nil
}

// Close releases the database.
func (r *Runtime) Close() error {
	return r.DB.Close()
}

// TaskSlot returns the slot key of uid's task list.
func (r *Runtime) TaskSlot(uid string) string {
	return task.SlotFor(uid, r.Config.SharedTasks)
}

// TaskPersistence returns the persistence of uid's task list.
func (r *Runtime) TaskPersistence(uid string) task.Persistence {
	return task.NewSlotPersistence(r.Slots, r.TaskSlot(uid))
}

// ResolveUser maps an account email or uid to a uid. Empty stays empty.
func (r *Runtime) ResolveUser(ctx context.Context, who string) (string, error) {
	who = strings.TrimSpace(who)
	if who == "" || !strings.Contains(who, "@") {
		return who, nil
	}
	acct, err := r.Accounts.Lookup(ctx, who)
	if err != nil {
		return "", fmt.Errorf("app: resolve %s: %w", who, err)
	}
	return acct.UID, nil
}

// Portal builds a Portal over the runtime's backends.
func (r *Runtime) Portal(logger *log.Logger) *Portal {
	c := r.Config
	return New(Options{
		Auth:        r.Accounts,
		Profiles:    r.Profiles,
		Tasks:       r.TaskPersistence,
		SplashDwell: c.SplashDwell,
		Background:  c.RemindersBackground,
		Reminders: []reminder.Option{
			reminder.WithInterval(c.ReminderInterval),
			reminder.WithRetention(c.MaxNotifications, c.NotificationAge),
		},
		Logger: logger,
	})
}
