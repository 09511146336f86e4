package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"scrambleorg/internal/config"
	"scrambleorg/internal/history"
	"scrambleorg/internal/logging"
	"scrambleorg/internal/wcif"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	return store, nil
}

// loadCompetition reads WCIF from a file, or fetches the public WCIF for a
// competition ID when no file is given.
func (c *commandContext) loadCompetition(ctx context.Context, wcifPath, competitionID string) (*wcif.Competition, error) {
	wcifPath = strings.TrimSpace(wcifPath)
	competitionID = strings.TrimSpace(competitionID)
	switch {
	case wcifPath != "" && competitionID != "":
		return nil, fmt.Errorf("use either --wcif or --competition, not both")
	case wcifPath != "":
		expanded, err := config.ExpandPath(wcifPath)
		if err != nil {
			return nil, fmt.Errorf("resolve wcif path: %w", err)
		}
		return wcif.Load(expanded)
	case competitionID != "":
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		client, err := wcif.NewClient(cfg.WCIF.BaseURL, cfg.FetchTimeout(), wcif.WithUserAgent(cfg.WCIF.UserAgent))
		if err != nil {
			return nil, err
		}
		return client.FetchPublic(ctx, competitionID)
	default:
		return nil, fmt.Errorf("a schedule is required: pass --wcif <file> or --competition <id>")
	}
}

func addCompetitionFlags(cmd *cobra.Command, wcifPath, competitionID *string) {
	cmd.Flags().StringVar(wcifPath, "wcif", "", "Path to a WCIF JSON file")
	cmd.Flags().StringVar(competitionID, "competition", "", "WCA competition ID to fetch the public WCIF for")
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
