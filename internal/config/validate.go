package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWCIF(); err != nil {
		return err
	}
	if err := c.validatePasscodes(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWCIF() error {
	parsed, err := url.Parse(c.WCIF.BaseURL)
	if err != nil {
		return fmt.Errorf("wcif.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("wcif.base_url must use http or https, got %q", c.WCIF.BaseURL)
	}
	return nil
}

func (c *Config) validatePasscodes() error {
	if _, err := language.Parse(c.Passcodes.Locale); err != nil {
		return fmt.Errorf("passcodes.locale %q: %w", c.Passcodes.Locale, err)
	}
	tz := c.Passcodes.Timezone
	if tz == "" || strings.EqualFold(tz, "local") {
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("passcodes.timezone %q: %w", tz, err)
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, err := cron.ParseStandard(c.Server.SweepSchedule); err != nil {
		return fmt.Errorf("server.sweep_schedule %q: %w", c.Server.SweepSchedule, err)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be an http(s) topic URL, got %q", c.Notifications.NtfyTopic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return errors.New("logging.format must be console or json")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
