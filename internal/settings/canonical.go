package settings

import (
	"encoding/json"
	"sort"

	"github.com/docenhance/pipeline/internal/strategykind"
)

// CanonicalForm is the stable, field-ordered representation used both
// to derive cache keys (§3 "canonical config") and to round-trip
// Settings losslessly to/from a textual form.
type CanonicalForm struct {
	Mode       Mode                            `json:"mode"`
	Strategies []canonicalStrategyEntry        `json:"strategies"`
	Pipeline   PipelineConfig                  `json:"pipeline"`
	LLM        LLMSettings                     `json:"llm"`
	Logging    LoggingSettings                 `json:"logging"`
}

type canonicalStrategyEntry struct {
	Kind   strategykind.Kind `json:"kind"`
	Config StrategyConfig    `json:"config"`
}

// ToCanonical serializes Settings into its canonical textual form.
// Strategy map entries are sorted by kind so that two Settings values
// with identical content serialize byte-identically regardless of Go
// map iteration order.
func (s *Settings) ToCanonical() (string, error) {
	entries := make([]canonicalStrategyEntry, 0, len(s.Strategies))
	for k, cfg := range s.Strategies {
		entries = append(entries, canonicalStrategyEntry{Kind: k, Config: cfg})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Kind < entries[j].Kind })

	cf := CanonicalForm{
		Mode:       s.Mode,
		Strategies: entries,
		Pipeline:   s.Pipeline,
		LLM:        s.LLM,
		Logging:    s.Logging,
	}
	b, err := json.Marshal(cf)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FromCanonical parses a canonical textual form back into Settings,
// completing the round-trip law:
// Settings.FromMode(m).ToCanonical().FromCanonical() == original.
func FromCanonical(text string) (*Settings, error) {
	var cf CanonicalForm
	if err := json.Unmarshal([]byte(text), &cf); err != nil {
		return nil, err
	}
	s := &Settings{
		Mode:       cf.Mode,
		Strategies: make(map[strategykind.Kind]StrategyConfig, len(cf.Strategies)),
		Pipeline:   cf.Pipeline,
		LLM:        cf.LLM,
		Logging:    cf.Logging,
	}
	for _, e := range cf.Strategies {
		s.Strategies[e.Kind] = e.Config
	}
	return s, nil
}
