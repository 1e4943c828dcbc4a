// Package config loads bach's layered configuration: embedded defaults,
// then a project config file, then BACH_* environment variables.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/karussell/bach/pkg/errors"
)

//go:embed defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix for configuration environment variables
const EnvPrefix = "BACH_"

// Candidate project config files, tried in order
var configFiles = []struct {
	name   string
	parser koanf.Parser
}{
	{".bach.toml", toml.Parser()},
	{"bach.toml", toml.Parser()},
	{".bach.yaml", yaml.Parser()},
	{"bach.yaml", yaml.Parser()},
}

// Config is the unmarshalled session configuration
type Config struct {
	// Verbosity is the default log verbosity (overridable by -v)
	Verbosity int `koanf:"verbosity" toml:"verbosity"`

	// Folders maps symbolic folder names to replacement path segments
	Folders map[string]string `koanf:"folders" toml:"folders"`

	Tools ToolsConfig `koanf:"tools" toml:"tools"`
}

// ToolsConfig groups per-tool settings
type ToolsConfig struct {
	Format  FormatConfig  `koanf:"format" toml:"format"`
	Compile CompileConfig `koanf:"compile" toml:"compile"`
}

// FormatConfig configures the source formatter tool
type FormatConfig struct {
	// URI locates the formatter artifact to download
	URI string `koanf:"uri" toml:"uri"`

	// Replace rewrites files in place instead of validating them
	Replace bool `koanf:"replace" toml:"replace"`
}

// CompileConfig holds the compiler defaults
type CompileConfig struct {
	Deprecation bool     `koanf:"deprecation" toml:"deprecation"`
	Encoding    string   `koanf:"encoding" toml:"encoding"`
	Werror      bool     `koanf:"werror" toml:"werror"`
	Parameters  bool     `koanf:"parameters" toml:"parameters"`
	Verbose     bool     `koanf:"verbose" toml:"verbose"`
	Args        []string `koanf:"args" toml:"args"`
	ModulePaths []string `koanf:"modulepaths" toml:"modulepaths"`
}

// Load builds the configuration for a project root
func Load(root string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. First project config file that exists
	for _, candidate := range configFiles {
		path := filepath.Join(root, candidate.name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), candidate.parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load %s", path)
		}
		break
	}

	// 3. Environment: BACH_TOOLS_FORMAT_REPLACE=true -> tools.format.replace
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

// rawBytesProvider implements koanf.Provider for in-memory bytes
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "rawBytesProvider does not support Read")
}
