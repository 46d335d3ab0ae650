// Package config loads the domtemplate CLI configuration from defaults, a
// domtemplate.yaml file, DOMTEMPLATE_ environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// EnvPrefix prefixes environment overrides: DOMTEMPLATE_OUTPUT -> output.
	EnvPrefix = "DOMTEMPLATE_"
	// StdStream selects stdin for inputs and stdout for output.
	StdStream = "-"
)

var (
	defaultFiles = []string{"domtemplate.yaml", "domtemplate.yml"}
	// pathKeys are resolved against the config file directory when the file
	// sets them.
	pathKeys = []string{"input", "data", "output"}
)

// Config holds every CLI setting.
type Config struct {
	// Input is the HTML document to bind.
	Input string `koanf:"input"`
	// Data is the JSON or YAML file holding the data.
	Data string `koanf:"data"`
	// Output is where the bound document is written; "-" is stdout.
	Output string `koanf:"output"`
	// Template names the list template for the list command.
	Template string `koanf:"template"`
	// Target is an element id scoping list and table binds.
	Target string `koanf:"target"`

	Sanitize         bool `koanf:"sanitize"`
	TextPlaceholders bool `koanf:"text_placeholders"`
	// Strict fails the run when required directives stay unbound.
	Strict bool `koanf:"strict"`
	// Clean removes leftover data-bind attributes before writing.
	Clean   bool `koanf:"clean"`
	Verbose bool `koanf:"verbose"`

	// File is the configuration file that was read, if any.
	File string `koanf:"-"`
}

// Defaults returns the values used when nothing else sets a key.
func Defaults() map[string]any {
	return map[string]any{
		"input":             StdStream,
		"output":            StdStream,
		"sanitize":          false,
		"text_placeholders": true,
		"strict":            false,
		"clean":             false,
		"verbose":           false,
	}
}

// Load merges configuration. Precedence, highest first: flags, environment,
// config file, defaults. An empty cfgFile looks for domtemplate.yaml in the
// working directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	fromFile := make(map[string]string)
	if used != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", used, err)
		}
		for _, key := range pathKeys {
			if fk.Exists(key) {
				fromFile[key] = fk.String(key)
			}
		}
		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("config: merge %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.File = used
	base := filepath.Dir(used)
	for key, target := range map[string]*string{"input": &cfg.Input, "data": &cfg.Data, "output": &cfg.Output} {
		if value, ok := fromFile[key]; ok && value == *target {
			*target = resolveRelative(*target, base)
		}
	}
	return &cfg, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range defaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// resolveRelative anchors a path on base. Stream markers and absolute paths
// pass through.
func resolveRelative(path, base string) string {
	if path == "" || path == StdStream || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("config: input is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("config: output is required"))
	}
	if c.Input == StdStream && c.Data == StdStream {
		errs = append(errs, errors.New("config: input and data cannot both read stdin"))
	}
	return errors.Join(errs...)
}

// RequireData reports a missing data source for commands that bind data.
func (c *Config) RequireData() error {
	if c.Data == "" {
		return errors.New("config: data is required (use --data or DOMTEMPLATE_DATA)")
	}
	return nil
}
