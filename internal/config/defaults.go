package config

const (
	defaultStagingDir     = "~/.local/share/scrambleorg/staging"
	defaultLogDir         = "~/.local/share/scrambleorg/logs"
	defaultHistoryDB      = "~/.local/share/scrambleorg/history.db"
	defaultWCIFBaseURL    = "https://www.worldcubeassociation.org/api/v0"
	defaultWCIFTimeout    = 15
	defaultWCIFUserAgent  = "scrambleorg/dev"
	defaultPasscodeLocale = "en-US"
	defaultServerBind     = "127.0.0.1:7488"
	defaultMaxUploadMiB   = 256
	defaultStaleUploadHrs = 24
	defaultSweepSchedule  = "@hourly"
	defaultNtfyTimeout    = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	apiTokenEnv           = "SCRAMBLEORG_API_TOKEN"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			HistoryDB:  defaultHistoryDB,
		},
		WCIF: WCIF{
			BaseURL:        defaultWCIFBaseURL,
			TimeoutSeconds: defaultWCIFTimeout,
			UserAgent:      defaultWCIFUserAgent,
		},
		Passcodes: Passcodes{
			Locale: defaultPasscodeLocale,
		},
		Server: Server{
			Bind:             defaultServerBind,
			MaxUploadMiB:     defaultMaxUploadMiB,
			StaleUploadHours: defaultStaleUploadHrs,
			SweepSchedule:    defaultSweepSchedule,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
