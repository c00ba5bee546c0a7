package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultSettingsPath = "settings.yaml"

// Embedded defaults, used as the base every settings file is layered on
//
//go:embed config/settings.yaml
var defaultSettings string

// Address identifies the single household the schedule is fetched for
type Address struct {
	City   string `yaml:"city"`
	Street string `yaml:"street"`
	House  string `yaml:"house"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	URL     string  `yaml:"url"`
	Address Address `yaml:"address"`
	Output  struct {
		Directory  string `yaml:"directory"`
		TextFile   string `yaml:"text_file"`
		StatusFile string `yaml:"status_file"`
		TableDump  string `yaml:"table_dump"`
	} `yaml:"output"`
	Browser struct {
		Headless bool `yaml:"headless"`
		Width    int  `yaml:"width"`
		Height   int  `yaml:"height"`
	} `yaml:"browser"`
	Timeouts struct {
		PageLoad time.Duration `yaml:"page_load"`
		Step     time.Duration `yaml:"step"`
		Total    time.Duration `yaml:"total"`
	} `yaml:"timeouts"`
}

// Environment variables that override settings values
var envOverrides = []struct {
	name  string
	apply func(s *Settings, v string)
}{
	{"OUTAGE_URL", func(s *Settings, v string) { s.URL = v }},
	{"OUTAGE_CITY", func(s *Settings, v string) { s.Address.City = v }},
	{"OUTAGE_STREET", func(s *Settings, v string) { s.Address.Street = v }},
	{"OUTAGE_HOUSE", func(s *Settings, v string) { s.Address.House = v }},
	{"OUTAGE_OUTPUT_DIR", func(s *Settings, v string) { s.Output.Directory = v }},
}

// LoadSettings layers the settings file at path over the embedded defaults.
// A missing file is only an error when required is true.
func LoadSettings(path string, required bool) (*Settings, error) {
	settings, err := parseSettings([]byte(defaultSettings), nil)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded settings: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if settings, err = parseSettings(data, settings); err != nil {
			return nil, fmt.Errorf("parsing settings file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
		debugLog("settings file %s not found, using embedded defaults", path)
	default:
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	applyEnvOverrides(settings)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func parseSettings(data []byte, base *Settings) (*Settings, error) {
	settings := &Settings{}
	if base != nil {
		*settings = *base
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func applyEnvOverrides(s *Settings) {
	for _, o := range envOverrides {
		if v := os.Getenv(o.name); v != "" {
			o.apply(s, v)
		}
	}
}

// Validate checks that the settings describe a runnable extraction
func (s *Settings) Validate() error {
	if s.URL == "" {
		return fmt.Errorf("settings: url is required")
	}
	if s.Address.City == "" || s.Address.Street == "" || s.Address.House == "" {
		return fmt.Errorf("settings: address city, street and house are required")
	}
	if s.Output.TextFile == "" || s.Output.StatusFile == "" {
		return fmt.Errorf("settings: output text_file and status_file are required")
	}
	if s.Output.Directory == "" {
		s.Output.Directory = "."
	}
	if s.Timeouts.Step <= 0 {
		log.Printf("Warning: timeouts.step is %v, defaulting to 10s", s.Timeouts.Step)
		s.Timeouts.Step = 10 * time.Second
	}
	return nil
}
