package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWCIF()
	c.normalizePasscodes()
	c.normalizeServer()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeWCIF() {
	c.WCIF.BaseURL = strings.TrimRight(strings.TrimSpace(c.WCIF.BaseURL), "/")
	if c.WCIF.BaseURL == "" {
		c.WCIF.BaseURL = defaultWCIFBaseURL
	}
	if c.WCIF.TimeoutSeconds <= 0 {
		c.WCIF.TimeoutSeconds = defaultWCIFTimeout
	}
	c.WCIF.UserAgent = strings.TrimSpace(c.WCIF.UserAgent)
	if c.WCIF.UserAgent == "" {
		c.WCIF.UserAgent = defaultWCIFUserAgent
	}
}

func (c *Config) normalizePasscodes() {
	c.Passcodes.Locale = strings.TrimSpace(c.Passcodes.Locale)
	if c.Passcodes.Locale == "" {
		c.Passcodes.Locale = defaultPasscodeLocale
	}
	c.Passcodes.Timezone = strings.TrimSpace(c.Passcodes.Timezone)
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	c.Server.Token = strings.TrimSpace(c.Server.Token)
	if c.Server.Token == "" {
		if value, ok := os.LookupEnv(apiTokenEnv); ok {
			c.Server.Token = strings.TrimSpace(value)
		}
	}
	if c.Server.MaxUploadMiB <= 0 {
		c.Server.MaxUploadMiB = defaultMaxUploadMiB
	}
	if c.Server.StaleUploadHours < 0 {
		c.Server.StaleUploadHours = 0
	}
	c.Server.SweepSchedule = strings.TrimSpace(c.Server.SweepSchedule)
	if c.Server.SweepSchedule == "" {
		c.Server.SweepSchedule = defaultSweepSchedule
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
