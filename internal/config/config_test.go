package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/dailymood/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "http://localhost:5000", s.GetBaseURL())
	require.Equal(t, time.Duration(0), s.GetTimeout())
	require.Equal(t, "info", s.GetLogLevel())
	require.True(t, s.GetAdvisorStep())
	require.NotEmpty(t, s.GetTokenFile())
	require.Equal(t, "storage.json", filepath.Base(s.GetTokenFile()))
	require.Equal(t, "dailymood.log", filepath.Base(s.GetLogFile()))
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yamlBody := `
api:
  baseURL: http://api.example.test
  timeout: 15s
form:
  advisorStep: false
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dailymood.yaml"), []byte(yamlBody), 0o600))

	t.Run("file values", func(t *testing.T) {
		s, err := config.Load(dir)
		require.NoError(t, err)
		require.Equal(t, "http://api.example.test", s.GetBaseURL())
		require.Equal(t, 15*time.Second, s.GetTimeout())
		require.False(t, s.GetAdvisorStep())
		require.Equal(t, "debug", s.GetLogLevel())
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("DAILYMOOD_API_BASEURL", "http://env.example.test")
		t.Setenv("DAILYMOOD_FORM_ADVISORSTEP", "true")
		t.Setenv("DAILYMOOD_STORAGE_TOKENFILE", filepath.Join(dir, "tok.json"))

		s, err := config.Load(dir)
		require.NoError(t, err)
		require.Equal(t, "http://env.example.test", s.GetBaseURL())
		require.True(t, s.GetAdvisorStep())
		require.Equal(t, filepath.Join(dir, "tok.json"), s.GetTokenFile())
		require.Equal(t, 15*time.Second, s.GetTimeout())
	})
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: Journal\n"), 0o600))
	t.Setenv("DAILYMOOD_CONFIG", path)

	s, err := config.Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "Journal", s.GetAppName())
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{name: "relative base url", key: "DAILYMOOD_API_BASEURL", value: "localhost", field: "BaseURL"},
		{name: "unknown log level", key: "DAILYMOOD_LOG_LEVEL", value: "verbose", field: "Level"},
		{name: "negative timeout", key: "DAILYMOOD_API_TIMEOUT", value: "-5s", field: "Timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.Load(t.TempDir())
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSettings_ValidateRequiresBaseURL(t *testing.T) {
	s := config.Defaults()
	s.API.BaseURL = ""
	err := s.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "BaseURL")
}

func TestSettings_ValidateNormalisesLevel(t *testing.T) {
	s := config.Defaults()
	s.Log.Level = " DEBUG "
	require.NoError(t, s.Validate())
	require.Equal(t, "debug", s.GetLogLevel())
}
