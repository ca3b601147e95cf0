package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	domainservices "github.com/vsinha/orderdash/pkg/domain/services"
)

// DefaultDealerShortlist is the dealer picker's first page, in display order
var DefaultDealerShortlist = []string{
	"一中商業有限公司", "世淯企業有限公司", "升鑫交通器材有限公司", "嘉晨企業社", "嘉航車業",
	"安都實業股份有限公司", "明杰輪業", "明陽實業股份有限公司", "聯有企業行", "雷士國際企業社",
}

// ValidFormats lists the report output formats
var ValidFormats = []string{"text", "json", "csv", "xlsx", "html"}

// Config holds the dashboard settings that vary per deployment
type Config struct {
	Input   InputSection   `yaml:"input"`
	Dealers DealersSection `yaml:"dealers"`
	Output  OutputSection  `yaml:"output"`
}

// InputSection describes the uploaded order book
type InputSection struct {
	// Sheet to read from workbooks; empty selects the first sheet
	Sheet string `yaml:"sheet"`
	// Aliases maps canonical column names to extra accepted headers
	Aliases map[string][]string `yaml:"aliases"`
}

type DealersSection struct {
	Shortlist []string `yaml:"shortlist"`
}

type OutputSection struct {
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	shortlist := make([]string, len(DefaultDealerShortlist))
	copy(shortlist, DefaultDealerShortlist)
	return &Config{
		Dealers: DealersSection{Shortlist: shortlist},
		Output:  OutputSection{Format: "text"},
	}
}

// Load reads and validates a YAML config file. Omitted settings keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML config data
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks aliases target known columns and the output format exists
func (c *Config) Validate() error {
	known := make(map[string]bool, len(domainservices.RequiredColumns))
	for _, col := range domainservices.RequiredColumns {
		known[col] = true
	}

	for column, aliases := range c.Input.Aliases {
		if !known[column] {
			return fmt.Errorf("aliases: unknown column %q (%s)", column, strings.Join(domainservices.RequiredColumns, "/"))
		}
		for i, alias := range aliases {
			if strings.TrimSpace(alias) == "" {
				return fmt.Errorf("aliases %q: alias[%d] is empty", column, i)
			}
		}
	}

	seen := make(map[string]bool, len(c.Dealers.Shortlist))
	for i, dealer := range c.Dealers.Shortlist {
		if strings.TrimSpace(dealer) == "" {
			return fmt.Errorf("dealers: shortlist[%d] is empty", i)
		}
		if seen[dealer] {
			return fmt.Errorf("dealers: %q listed twice", dealer)
		}
		seen[dealer] = true
	}

	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if !IsValidFormat(c.Output.Format) {
		return fmt.Errorf("output: unknown format %q (%s)", c.Output.Format, strings.Join(ValidFormats, "/"))
	}

	return nil
}

// IsValidFormat reports whether format names a supported output writer
func IsValidFormat(format string) bool {
	return lo.Contains(ValidFormats, format)
}
