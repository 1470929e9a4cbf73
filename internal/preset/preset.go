// Package preset implements the supplemented named-pipeline feature
// from §6 (--preset quick|thorough|technical): a fixed set of
// override bundles layered on top of whatever mode/config the caller
// picked, grounded on the strategy-tiering table in
// internal/cost.Recommend.
package preset

import (
	"github.com/docenhance/pipeline/internal/errs"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/docenhance/pipeline/internal/strategykind"
)

// Name identifies a preset.
type Name string

const (
	Quick     Name = "quick"
	Thorough  Name = "thorough"
	Technical Name = "technical"
)

// Apply layers preset overrides onto s in place, disabling/enabling
// strategies and adjusting pass/threshold knobs. An unknown name is a
// ConfigError.
func Apply(s *settings.Settings, name Name) error {
	switch name {
	case "":
		return nil
	case Quick:
		s.Pipeline.MaxPasses = 1
		s.Pipeline.QualityThreshold = 0.6
		disableAllBut(s, strategykind.Clarity, strategykind.Readability)
		return nil
	case Thorough:
		s.Pipeline.MaxPasses = 5
		s.Pipeline.QualityThreshold = 0.9
		enableAll(s)
		return nil
	case Technical:
		s.Pipeline.MaxPasses = 3
		s.Pipeline.QualityThreshold = 0.85
		disableAllBut(s, strategykind.Accuracy, strategykind.Consistency, strategykind.Completeness)
		return nil
	default:
		return errs.Config("unknown preset %q", name)
	}
}

func enableAll(s *settings.Settings) {
	for kind, cfg := range s.Strategies {
		cfg.Enabled = true
		s.Strategies[kind] = cfg
	}
}

func disableAllBut(s *settings.Settings, keep ...strategykind.Kind) {
	allowed := make(map[strategykind.Kind]bool, len(keep))
	for _, k := range keep {
		allowed[k] = true
	}
	for kind, cfg := range s.Strategies {
		cfg.Enabled = allowed[kind]
		s.Strategies[kind] = cfg
	}
}
