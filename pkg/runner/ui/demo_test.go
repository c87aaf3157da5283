package ui

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/config"
)

func TestDemoSeedsOnce(t *testing.T) {
	dir := t.TempDir()
	rt, err := app.OpenRuntime(&config.Config{
		Path:     filepath.Join(dir, "slots"),
		Profiles: filepath.Join(dir, "portal.db"),
	})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	defer rt.Close()

	ctx := context.Background()
	d := &Demo{Runtime: rt, Out: &bytes.Buffer{}, Now: func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }}
	for i := 0; i < 2; i++ {
		if err := d.Do(ctx); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	id, err := rt.Accounts.SignInWithPassword(ctx, DemoEmail, DemoPassword)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	tasks, err := rt.TaskPersistence(id.UID).Load(ctx)
	if err != nil || len(tasks) != 4 {
		t.Fatalf("expected 4 seeded tasks, got %d %v", len(tasks), err)
	}
	u, err := rt.Profiles.Get(ctx, id.UID, id.Email)
	if err != nil || len(u.Clubs) != 2 || u.Phone != "555-0100" {
		t.Fatalf("unexpected profile %+v %v", u, err)
	}
}
