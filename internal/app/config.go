package app

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/store-inventory/internal/domain/store"
	"github.com/xenking/store-inventory/internal/menu"
)

// Config holds the complete application configuration, loadable from
// environment variables (STORE_ prefix), flags, or YAML config files.
type Config struct {
	CatalogFiles   []string `env:"CATALOG_FILES" yaml:"catalog_files" usage:"Catalog files to load instead of the embedded seed catalog (.json or .json.gz)" flag:"catalog"`
	Output         string   `env:"OUTPUT" yaml:"output" default:"text" usage:"Menu output format: text or json"`
	UnknownLines   string   `env:"UNKNOWN_LINES" yaml:"unknown_lines" default:"skip" usage:"Order lines for products the store does not hold: skip or reject" flag:"unknown-lines"`
	KeepNonStocked bool     `env:"KEEP_NON_STOCKED" yaml:"keep_non_stocked" default:"false" usage:"Keep non-stocked products listed after they are ordered" flag:"keep-non-stocked"`
}

// Format returns the validated menu output format.
func (c *Config) Format() (menu.Format, error) {
	return menu.ParseFormat(c.Output)
}

// UnknownLinePolicy returns the validated unknown line policy.
func (c *Config) UnknownLinePolicy() (store.UnknownLines, error) {
	return store.ParseUnknownLines(c.UnknownLines)
}

// LoadConfig loads configuration from environment variables, flags and YAML
// config files.
func LoadConfig() (*Config, error) {
	return loadConfig(aconfig.Config{
		EnvPrefix: "STORE",
		Files:     []string{"config.yaml", "/etc/store/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

func loadConfig(ac aconfig.Config) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, ac)
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if _, err := cfg.Format(); err != nil {
		return nil, errors.Wrap(err, "output")
	}
	if _, err := cfg.UnknownLinePolicy(); err != nil {
		return nil, errors.Wrap(err, "unknown lines")
	}
	return &cfg, nil
}
