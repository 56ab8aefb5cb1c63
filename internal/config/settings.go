package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	appDirName       = "dailymood"
	defaultAppName   = "Daily Mood"
	defaultBaseURL   = "http://localhost:5000"
	defaultTokenFile = "storage.json"
	defaultLogFile   = "dailymood.log"
)

// Settings is the concrete configuration tree. Tags double as yaml keys and,
// case-insensitively, as DAILYMOOD_SECTION_KEY environment names.
type Settings struct {
	App struct {
		Name string `koanf:"name" validate:"required"`
		Env  string `koanf:"env"`
	} `koanf:"app"`

	API struct {
		BaseURL string        `koanf:"baseURL" validate:"required,url"`
		Timeout time.Duration `koanf:"timeout" validate:"min=0"`
	} `koanf:"api"`

	Storage struct {
		TokenFile string `koanf:"tokenFile"`
	} `koanf:"storage"`

	Log struct {
		File       string `koanf:"file"`
		Level      string `koanf:"level" validate:"omitempty,oneof=debug info warn error disabled off"`
		Pretty     bool   `koanf:"pretty"`
		MaxSizeMB  int    `koanf:"maxSizeMB" validate:"min=1"`
		MaxBackups int    `koanf:"maxBackups" validate:"min=0"`
	} `koanf:"log"`

	Form struct {
		AdvisorStep bool `koanf:"advisorStep"`
	} `koanf:"form"`
}

var _ Config = (*Settings)(nil)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports the first settings value that cannot be used.
func (s *Settings) Validate() error {
	s.Log.Level = strings.ToLower(strings.TrimSpace(s.Log.Level))
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(err, "[Settings.Validate]")
	}
	return nil
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() *Settings {
	s := &Settings{}
	s.App.Name = defaultAppName
	s.App.Env = "DEV"
	s.API.BaseURL = defaultBaseURL
	s.Log.Level = "info"
	s.Log.MaxSizeMB = 5
	s.Log.MaxBackups = 3
	s.Form.AdvisorStep = true
	return s
}

func (s *Settings) GetAppName() string {
	return s.App.Name
}

func (s *Settings) GetEnv() string {
	return s.App.Env
}

func (s *Settings) GetBaseURL() string {
	return s.API.BaseURL
}

func (s *Settings) GetTimeout() time.Duration {
	return s.API.Timeout
}

func (s *Settings) GetTokenFile() string {
	return s.Storage.TokenFile
}

func (s *Settings) GetLogFile() string {
	return s.Log.File
}

func (s *Settings) GetLogLevel() string {
	return s.Log.Level
}

func (s *Settings) GetLogPretty() bool {
	return s.Log.Pretty
}

func (s *Settings) GetLogMaxSizeMB() int {
	return s.Log.MaxSizeMB
}

func (s *Settings) GetLogMaxBackups() int {
	return s.Log.MaxBackups
}

func (s *Settings) GetAdvisorStep() bool {
	return s.Form.AdvisorStep
}

// AppDir is the per-user directory holding the token file and the log.
func AppDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".", "."+appDirName)
	}
	return filepath.Join(dir, appDirName)
}

func (s *Settings) fillPaths() {
	if s.Storage.TokenFile == "" {
		s.Storage.TokenFile = filepath.Join(AppDir(), defaultTokenFile)
	}
	if s.Log.File == "" {
		s.Log.File = filepath.Join(AppDir(), defaultLogFile)
	}
}
