package strategy

import (
	"context"
	"regexp"
	"strings"

	"github.com/docenhance/pipeline/internal/document"
	"github.com/docenhance/pipeline/internal/llm"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/docenhance/pipeline/internal/strategykind"
)

// Consistency standardizes terminology against a configured acronym
// list, normalizes emphasis markers and list markers. It never needs
// an LLM call: its transforms are purely mechanical.
type Consistency struct{}

func NewConsistency() *Consistency { return &Consistency{} }

func (c *Consistency) Kind() strategykind.Kind { return strategykind.Consistency }

var (
	underscoreEmphasis = regexp.MustCompile(`__([^_]+)__`)
	italicUnderscore   = regexp.MustCompile(`_([^_]+)_`)
	dashListMarker     = regexp.MustCompile(`(?m)^(\s*)-\s+`)
	starListMarker     = regexp.MustCompile(`(?m)^(\s*)\*\s+`)
)

func (c *Consistency) Analyze(content string) Analysis {
	return Analysis{
		"underscore_emphasis_count": len(underscoreEmphasis.FindAllString(content, -1)),
		"star_list_markers":         len(starListMarker.FindAllString(content, -1)),
		"dash_list_markers":         len(dashListMarker.FindAllString(content, -1)),
	}
}

func (c *Consistency) Enhance(_ context.Context, content string, _ *document.Document, _ llm.Capability, cfg settings.StrategyConfig) (string, error) {
	out := content

	out = underscoreEmphasis.ReplaceAllString(out, "**$1**")
	out = italicUnderscore.ReplaceAllString(out, "*$1*")

	if acronyms := paramAcronyms(cfg.Parameters); len(acronyms) > 0 {
		out = standardizeAcronyms(out, acronyms)
	}

	out = starListMarker.ReplaceAllString(out, "$1- ")

	return out, nil
}

func paramAcronyms(params map[string]interface{}) []string {
	v, ok := params["acronyms"]
	if !ok {
		return defaultAcronyms
	}
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return defaultAcronyms
	}
}

var defaultAcronyms = []string{"API", "URL", "HTTP", "JSON", "XML", "CLI", "SDK"}

// standardizeAcronyms replaces any case-insensitive match of each
// acronym (word-bounded) with its canonical all-caps form.
func standardizeAcronyms(content string, acronyms []string) string {
	out := content
	for _, a := range acronyms {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(a) + `\b`)
		out = re.ReplaceAllStringFunc(out, func(match string) string {
			if match == strings.ToUpper(match) {
				return match
			}
			return strings.ToUpper(a)
		})
	}
	return out
}
