package testsupport

import (
	"path/filepath"
	"testing"

	"scrambleorg/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Passcode dates render in UTC so assertions do not depend on the host zone.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "logs", "history.db")
	cfgVal.Passcodes.Timezone = "UTC"
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithAPIToken sets the bearer token required by the upload API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.Token = token
	}
}

// WithLocale overrides the passcode date locale and timezone.
func WithLocale(locale, timezone string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Passcodes.Locale = locale
		b.cfg.Passcodes.Timezone = timezone
	}
}

// WithWCIFBaseURL points the WCIF client at a test server.
func WithWCIFBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.WCIF.BaseURL = url
	}
}

// WithMaxUploadMiB overrides the upload size limit.
func WithMaxUploadMiB(mib int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.MaxUploadMiB = mib
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
