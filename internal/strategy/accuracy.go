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

// Accuracy annotates unsourced claims and absolutist phrasing with a
// "[citation needed]" marker, and flags fenced code blocks containing
// known-dangerous primitives (supplemented from the original
// enhancement_strategies.py Accuracy pass).
type Accuracy struct{}

func NewAccuracy() *Accuracy { return &Accuracy{} }

func (a *Accuracy) Kind() strategykind.Kind { return strategykind.Accuracy }

var (
	absolutistPhrases          = []string{"always", "never", "everyone knows", "obviously", "undeniably", "all experts agree"}
	unsourcedPhrases           = []string{"studies show", "research indicates", "experts say", "it is well known", "it has been proven"}
	fencedCodeBlock            = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\n(.*?)```")
	defaultDangerousPrimitives = []string{"eval(", "exec(", "os.system(", "subprocess."}
)

func (a *Accuracy) Analyze(content string) Analysis {
	lower := strings.ToLower(content)
	absolutistHits := 0
	for _, p := range absolutistPhrases {
		absolutistHits += strings.Count(lower, p)
	}
	unsourcedHits := 0
	for _, p := range unsourcedPhrases {
		unsourcedHits += strings.Count(lower, p)
	}
	dangerous := findDangerousPrimitives(content, defaultDangerousPrimitives)
	return Analysis{
		"absolutist_phrase_hits": absolutistHits,
		"unsourced_phrase_hits":  unsourcedHits,
		"dangerous_primitives":   dangerous,
	}
}

func (a *Accuracy) Enhance(_ context.Context, content string, _ *document.Document, _ llm.Capability, cfg settings.StrategyConfig) (string, error) {
	out := content

	for _, phrase := range unsourcedPhrases {
		out = annotatePhrase(out, phrase)
	}
	for _, phrase := range absolutistPhrases {
		out = annotatePhrase(out, phrase)
	}

	primitives := paramStringList(cfg.Parameters, "dangerous_primitives", defaultDangerousPrimitives)
	out = flagDangerousCode(out, primitives)

	return out, nil
}

// annotatePhrase appends "[citation needed]" at the end of each
// sentence containing phrase (case-insensitively), just before the
// sentence's closing punctuation, unless already annotated.
func annotatePhrase(content, phrase string) string {
	re := regexp.MustCompile(`(?i)(` + regexp.QuoteMeta(phrase) + `)([^.!?\n]*[.!?])`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		if strings.Contains(match, "[citation needed]") {
			return match
		}
		return strings.TrimRight(match, ".!?") + " [citation needed]" + match[len(strings.TrimRight(match, ".!?")):]
	})
}

// findDangerousPrimitives returns, for each fenced code block
// containing a configured dangerous primitive, the matched primitive.
func findDangerousPrimitives(content string, primitives []string) []string {
	var hits []string
	for _, block := range fencedCodeBlock.FindAllStringSubmatch(content, -1) {
		body := block[1]
		for _, p := range primitives {
			if strings.Contains(body, p) {
				hits = append(hits, p)
			}
		}
	}
	return hits
}

// flagDangerousCode inserts a warning comment line immediately before
// any fenced code block containing a dangerous primitive.
func flagDangerousCode(content string, primitives []string) string {
	return fencedCodeBlock.ReplaceAllStringFunc(content, func(block string) string {
		for _, p := range primitives {
			if strings.Contains(block, p) {
				return "> **Warning:** this code block contains a potentially dangerous primitive (`" + strings.TrimSuffix(p, "(") + "`).\n\n" + block
			}
		}
		return block
	})
}

func paramStringList(params map[string]interface{}, key string, def []string) []string {
	v, ok := params[key]
	if !ok {
		return def
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
		return def
	}
}
