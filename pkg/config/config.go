// Package config loads portal settings from .portal.yaml, the environment
// and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/portal/pkg/reminder"
	"tableflip.dev/portal/pkg/router"
	"tableflip.dev/portal/pkg/timeutil"
)

// Config is the resolved portal configuration.
type Config struct {
	Path     string
	Profiles string

	SplashDwell time.Duration

	ReminderInterval    time.Duration
	RemindersBackground bool

	MaxNotifications int
	NotificationAge  time.Duration

	SharedTasks bool

	AuthSecret string
	AuthIssuer string

	LogFile string
}

// BasePath implements store.Config.
func (c *Config) BasePath() string {
	return c.Path
}

// Load reads configuration. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v.SetDefault("path", "~/.portal.db")
	v.SetDefault("profiles", "~/.portal/profiles.db")
	v.SetDefault("splash.dwell", router.DefaultSplashDwell.String())
	v.SetDefault("reminders.interval", reminder.DefaultInterval.String())
	v.SetDefault("reminders.background", false)
	v.SetDefault("notifications.max", reminder.DefaultMaxNotifications)
	v.SetDefault("notifications.maxAge", "")
	v.SetDefault("tasks.shared", false)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("log.file", "")

	v.SetConfigName(".portal") // .yaml is implicit
	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("PORTAL_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return fromViper(v)
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("config: load .env: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("config: stat .env: %w", err)
	}
	return nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	c := &Config{
		RemindersBackground: v.GetBool("reminders.background"),
		MaxNotifications:    v.GetInt("notifications.max"),
		SharedTasks:         v.GetBool("tasks.shared"),
		AuthSecret:          v.GetString("auth.secret"),
		AuthIssuer:          v.GetString("auth.issuer"),
	}
	var err error
	if c.Path, err = homedir.Expand(v.GetString("path")); err != nil {
		return nil, fmt.Errorf("config: path: %w", err)
	}
	if c.Profiles, err = homedir.Expand(v.GetString("profiles")); err != nil {
		return nil, fmt.Errorf("config: profiles: %w", err)
	}
	if c.LogFile, err = homedir.Expand(v.GetString("log.file")); err != nil {
		return nil, fmt.Errorf("config: log.file: %w", err)
	}
	if c.SplashDwell, err = duration(v, "splash.dwell"); err != nil {
		return nil, err
	}
	if c.ReminderInterval, err = duration(v, "reminders.interval"); err != nil {
		return nil, err
	}
	if c.ReminderInterval <= 0 {
		c.ReminderInterval = reminder.DefaultInterval
	}
	if c.NotificationAge, err = duration(v, "notifications.maxAge"); err != nil {
		return nil, err
	}
	if c.MaxNotifications < 0 {
		return nil, fmt.Errorf("config: notifications.max must not be negative")
	}
	return c, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, _, err := timeutil.ParseWindow(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
