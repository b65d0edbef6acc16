// Package aim annotates JPEG photographs with model-generated metadata.
package aim

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"k8s.io/klog/v2"
)

// DefaultConfigFile is where aim looks for persisted configuration.
var DefaultConfigFile = "aim_config.json"

// Config controls captioning for a whole run. It is loaded once at startup
// and never mutated afterwards.
type Config struct {
	KeywordCount int     `json:"keyword_count"`
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	Tone         string  `json:"tone"`
}

func defaultConfig() Config {
	return Config{
		KeywordCount: 5,
		Model:        "llava",
		Temperature:  0.5,
		Tone:         "concise,professional",
	}
}

// LoadConfig merges the persisted configuration at path over built-in
// defaults: keys absent from the file keep their default values. A missing
// file is not an error; the defaults are persisted for the next run.
func LoadConfig(path string) (*Config, error) {
	c := defaultConfig()

	bs, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		klog.Infof("no config at %s, writing defaults", path)
		if err := SaveConfig(path, &c); err != nil {
			return nil, fmt.Errorf("save defaults: %w", err)
		}
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(bs, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return &c, nil
}

// SaveConfig persists a configuration as indented JSON.
func SaveConfig(path string, c *Config) error {
	bs, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	return os.WriteFile(path, bs, 0o644)
}

// validate rejects configurations the pipeline cannot run with. The tone
// check matters: prompt construction uses the first two adjectives
// unconditionally.
func (c *Config) validate() error {
	if c.KeywordCount < 0 {
		return fmt.Errorf("keyword_count must be >= 0, got %d", c.KeywordCount)
	}

	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be within [0,1], got %v", c.Temperature)
	}

	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}

	if len(c.toneWords()) < 2 {
		return fmt.Errorf("tone needs at least two comma-separated adjectives, got %q", c.Tone)
	}

	return nil
}

// toneWords splits the tone setting into its non-empty adjectives.
func (c *Config) toneWords() []string {
	words := []string{}
	for _, w := range strings.Split(c.Tone, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
