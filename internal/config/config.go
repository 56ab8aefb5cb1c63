package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
	LogConfig
	FormConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
}

type APIConfig interface {
	GetBaseURL() string
	GetTimeout() time.Duration
}

type StorageConfig interface {
	GetTokenFile() string
}

type LogConfig interface {
	GetLogFile() string
	GetLogLevel() string
	GetLogPretty() bool
	GetLogMaxSizeMB() int
	GetLogMaxBackups() int
}

type FormConfig interface {
	GetAdvisorStep() bool
}

// New loads the configuration from defaults, an optional dailymood.yaml and
// DAILYMOOD_* environment variables, in that order of precedence.
func New() (Config, error) {
	s, err := Load(SearchPaths()...)
	if err != nil {
		return nil, err
	}
	return s, nil
}
