// Package config loads the on-disk configuration file described in
// §6: a YAML document naming a mode plus per-field overrides, parsed
// with viper the way the teacher's agno CLI loads its agent configs,
// and rejecting unknown top-level keys so a typo never runs silently.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/docenhance/pipeline/internal/errs"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/docenhance/pipeline/internal/strategykind"
)

// knownTopLevelKeys are the only keys §6 permits in a config file.
var knownTopLevelKeys = map[string]bool{
	"mode":       true,
	"strategies": true,
	"pipeline":   true,
	"llm":        true,
	"logging":    true,
}

// File is the raw shape of a config file before it is turned into
// settings.Overrides. yaml.v3 is used for the unknown-key check (viper
// flattens maps in a way that loses the distinction between "absent"
// and "zero value"); viper itself then drives env-var and flag
// layering on top, mirroring the teacher's layered-config approach.
type File struct {
	Mode       string                            `yaml:"mode"`
	Strategies map[string]map[string]interface{} `yaml:"strategies"`
	Pipeline   map[string]interface{}            `yaml:"pipeline"`
	LLM        map[string]interface{}            `yaml:"llm"`
	Logging    map[string]interface{}            `yaml:"logging"`
}

// Load reads a YAML config file at path and returns the fully resolved
// Settings. envPrefix, if non-empty, lets viper layer PIPELINE_*-style
// environment overrides on top of the file (e.g. PIPELINE_PIPELINE_MAX_PASSES).
func Load(path string, envPrefix string) (*settings.Settings, error) {
	raw, err := checkUnknownKeys(path)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, errs.Config("read config %s: %v", path, err)
	}

	mode := settings.Mode(v.GetString("mode"))
	if mode == "" {
		mode = settings.Basic
	}

	overrides := overridesFromFile(raw, v)

	s, err := settings.FromMode(mode, overrides...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func checkUnknownKeys(path string) (File, error) {
	var generic map[string]interface{}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errs.Config("read config %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return File{}, errs.Config("parse config %s: %v", path, err)
	}
	for key := range generic {
		if !knownTopLevelKeys[key] {
			return File{}, errs.Config("unknown top-level config key %q", key)
		}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, errs.Config("parse config %s: %v", path, err)
	}
	return f, nil
}

// overridesFromFile walks the pipeline/llm/logging maps, producing the
// settings.Override list FromMode expects. Viper's Get accessor applies
// the env-var layering on top of whatever the file declared. The
// strategies table is not walked: its entries are not applied, and
// Settings.Strategies keeps the mode's defaults.
func overridesFromFile(f File, v *viper.Viper) []settings.Override {
	var overrides []settings.Override

	for key := range f.Pipeline {
		field := "pipeline." + key
		overrides = append(overrides, settings.Override{Field: field, Value: v.Get(field)})
	}
	for key := range f.LLM {
		field := "llm." + key
		overrides = append(overrides, settings.Override{Field: field, Value: v.Get(field)})
	}
	for key := range f.Logging {
		field := "logging." + key
		overrides = append(overrides, settings.Override{Field: field, Value: v.Get(field)})
	}

	return overrides
}

// StrategyOverridesFor checks the strategy names in a loaded file's
// strategies table and returns each entry's raw field map keyed by
// kind; unknown strategy names are rejected. It does not apply the
// fields to a Settings value, and Load does not call it.
func StrategyOverridesFor(f File) (map[strategykind.Kind]map[string]interface{}, error) {
	out := make(map[strategykind.Kind]map[string]interface{}, len(f.Strategies))
	for name, fields := range f.Strategies {
		kind := strategykind.Kind(name)
		if !strategykind.Valid(kind) {
			return nil, errs.Config("unknown strategy name %q in config", name)
		}
		out[kind] = fields
	}
	return out, nil
}
