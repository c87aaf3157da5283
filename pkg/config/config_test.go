package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

func init() {
	homedir.DisableCache = true
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	t.Setenv("PORTAL_CONFIG_PATH", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Path != filepath.Join(dir, ".portal.db") {
		t.Fatalf("unexpected path %q", c.Path)
	}
	if c.SplashDwell != 2400*time.Millisecond {
		t.Fatalf("unexpected dwell %v", c.SplashDwell)
	}
	if c.ReminderInterval != time.Minute || c.MaxNotifications != 100 || c.NotificationAge != 0 {
		t.Fatalf("unexpected reminder settings %+v", c)
	}
	if c.SharedTasks || c.RemindersBackground || c.AuthSecret != "" {
		t.Fatalf("unexpected flags %+v", c)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	yaml := []byte("path: ./data\nreminders:\n  interval: 30s\nnotifications:\n  maxAge: 2w\ntasks:\n  shared: true\n")
	if err := os.WriteFile(filepath.Join(dir, ".portal.yaml"), yaml, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORTAL_AUTH_SECRET=fromdotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("PORTAL_AUTH_SECRET") })

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Path != "./data" || c.ReminderInterval != 30*time.Second || !c.SharedTasks {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.NotificationAge != 14*24*time.Hour {
		t.Fatalf("unexpected max age %v", c.NotificationAge)
	}
	if c.AuthSecret != "fromdotenv" {
		t.Fatalf("expected secret from .env, got %q", c.AuthSecret)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	if err := os.WriteFile(filepath.Join(dir, ".portal.yaml"), []byte("splash:\n  dwell: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}
