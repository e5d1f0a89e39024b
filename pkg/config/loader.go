package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"sort"
	"strings"

	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix of configuration environment variables
const EnvPrefix = "GANTRY_"

// sections are the top-level keys environment variables may set
var sections = map[string]bool{
	"bins":        true,
	"dirs":        true,
	"urls":        true,
	"environment": true,
	"output":      true,
	"watch":       true,
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadOptions selects the files merged over the defaults
type LoadOptions struct {
	// UserConfigPath is optional; a missing file is skipped
	UserConfigPath string
	// ProjectConfigPath is optional; a missing file is skipped
	ProjectConfigPath string
	// Overrides are applied last, keyed by dotted path ("bins.php")
	Overrides map[string]interface{}
	// SkipEnv disables the GANTRY_* variable layer
	SkipEnv bool
}

// Load builds the configuration from all layers
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2-3. User and project files
	for _, layer := range []struct{ name, path string }{
		{"user", opts.UserConfigPath},
		{"project", opts.ProjectConfigPath},
	} {
		if layer.path == "" {
			continue
		}
		if _, err := os.Stat(layer.path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat %s config", layer.name).
				WithDetail("path", layer.path)
		}
		if err := k.Load(file.Provider(layer.path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load %s config from %s", layer.name, layer.path).
				WithDetail("path", layer.path)
		}
		logger.Debug().Str("layer", layer.name).Str("path", layer.path).Msg("Config layer loaded")
	}

	// 4. Environment variables
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
		}
	}

	// 5. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults alone
func Default() *Config {
	cfg, err := Load(LoadOptions{SkipEnv: true})
	if err != nil {
		// The embedded file is part of the binary; failing here is a build defect
		panic(err)
	}
	return cfg
}

// envKey maps GANTRY_DIRS_ASSETS_SRC to dirs.assets_src. Variables outside
// the known sections (GANTRY_ENV, GANTRY_PROJECT, ...) are skipped.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || rest == "" || !sections[section] {
		return ""
	}
	return section + "." + rest
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.postProcess()
	return &cfg, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
