package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileName = "dailymood.yaml"
	envPrefix      = "DAILYMOOD_"
	configPathVar  = envPrefix + "CONFIG"
)

// SearchPaths lists the directories probed for dailymood.yaml. An explicit
// DAILYMOOD_CONFIG file wins over all of them.
func SearchPaths() []string {
	return []string{".", AppDir()}
}

// Load builds Settings from defaults, the first config file found in
// searchPaths (optional) and the environment, then validates the result.
func Load(searchPaths ...string) (*Settings, error) {
	k := koanf.New(".")

	if configFile := findConfigFile(searchPaths); configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "[config.Load] read %s", configFile)
		}
	}

	// Align env keys with the casing already loaded from yaml so an override
	// replaces the file value instead of sitting next to it.
	known := make(map[string]string)
	for _, key := range k.Keys() {
		known[strings.ToLower(key)] = key
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			if key == configPathVar {
				return "", nil
			}
			// DAILYMOOD_API_BASEURL -> api.baseurl
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			key = strings.ReplaceAll(key, "_", ".")
			if canonical, ok := known[key]; ok {
				key = canonical
			}
			return key, value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "[config.Load] load env variables")
	}

	s := Defaults()
	if err := k.UnmarshalWithConf("", s, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           s,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "[config.Load] unmarshal settings")
	}

	s.fillPaths()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func findConfigFile(searchPaths []string) string {
	if explicit := os.Getenv(configPathVar); explicit != "" {
		return explicit
	}
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
