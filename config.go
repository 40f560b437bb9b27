package queryengine

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config controls Engine behavior: a plain struct of engine-wide knobs,
// zero value usable.
type Config struct {
	// MaxRows caps the number of rows Query returns; zero or negative
	// means unlimited. This is a façade-level limit, not part of the
	// executor's contract, so it is enforced after Execute returns rather
	// than threaded through the pull protocol.
	MaxRows int `yaml:"max_rows"`

	// LogLevel names a logrus level ("debug", "info", "warn", "error");
	// empty defaults to "info".
	LogLevel string `yaml:"log_level"`

	// DeterministicOrder, when true, is a no-op placeholder acknowledging
	// that ordering is already deterministic by construction (child-index
	// order and storage iteration order); it exists so a config file can
	// document the expectation explicitly rather than relying on
	// undocumented default behavior.
	DeterministicOrder bool `yaml:"deterministic_order"`
}

// withDefaults returns a copy of cfg with zero-value fields replaced by
// their defaults.
func (c Config) withDefaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

func (c Config) logLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// LoadConfig reads a YAML config file from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}
