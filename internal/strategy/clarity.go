package strategy

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/docenhance/pipeline/internal/document"
	"github.com/docenhance/pipeline/internal/llm"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/docenhance/pipeline/internal/strategykind"
)

// Clarity simplifies long sentences, reduces jargon via a static
// replacement table (used as the no-LLM fallback), and inserts
// transitions between paragraphs that lack one.
type Clarity struct {
	jargonTable map[string]string
}

// NewClarity builds the Clarity strategy with its default jargon↔plain table.
func NewClarity() *Clarity {
	return &Clarity{jargonTable: defaultJargonTable()}
}

func defaultJargonTable() map[string]string {
	return map[string]string{
		"utilize":        "use",
		"leverage":       "use",
		"facilitate":     "help",
		"aforementioned": "mentioned",
		"commence":       "start",
		"terminate":      "end",
		"methodology":    "method",
		"endeavor":       "try",
	}
}

func (c *Clarity) Kind() strategykind.Kind { return strategykind.Clarity }

func (c *Clarity) Analyze(content string) Analysis {
	sentences := splitSentences(content)
	longest := 0
	for _, s := range sentences {
		if n := len(strings.Fields(s)); n > longest {
			longest = n
		}
	}
	jargonHits := 0
	lower := strings.ToLower(content)
	for term := range c.jargonTable {
		jargonHits += strings.Count(lower, term)
	}
	return Analysis{
		"sentence_count":   len(sentences),
		"longest_sentence": longest,
		"jargon_term_hits": jargonHits,
	}
}

func (c *Clarity) Enhance(ctx context.Context, content string, doc *document.Document, llmCap llm.Capability, cfg settings.StrategyConfig) (string, error) {
	maxLen := paramInt(cfg.Parameters, "max_sentence_length", 25)

	if llmCap != nil {
		prompt := fmt.Sprintf(
			"Rewrite the following document to simplify sentences longer than %d words, reduce jargon, and add clear transitions between paragraphs. Preserve all factual content and structure.\n\n%s",
			maxLen, content,
		)
		resp, err := llmCap.Generate(ctx, llm.Request{Prompt: prompt, Temperature: 0.3, MaxTokens: estimateMaxTokens(content)})
		if err == nil && strings.TrimSpace(resp.Content) != "" {
			return resp.Content, nil
		}
	}

	return c.fallback(content), nil
}

// fallback applies the static jargon table and inserts default
// transitions when no LLM is available.
func (c *Clarity) fallback(content string) string {
	out := content
	for term, plain := range c.jargonTable {
		out = replaceCaseInsensitive(out, term, plain)
	}
	return insertTransitions(out)
}

var paragraphBoundary = regexp.MustCompile(`\n\n+`)

func insertTransitions(content string) string {
	paragraphs := paragraphBoundary.Split(content, -1)
	if len(paragraphs) < 2 {
		return content
	}
	transitions := []string{"Additionally, ", "Furthermore, ", "Next, ", "Building on this, "}
	out := make([]string, len(paragraphs))
	out[0] = paragraphs[0]
	for i := 1; i < len(paragraphs); i++ {
		p := paragraphs[i]
		if strings.HasPrefix(p, "#") || hasLeadingTransition(p) {
			out[i] = p
			continue
		}
		out[i] = transitions[(i-1)%len(transitions)] + lowerFirst(p)
	}
	return strings.Join(out, "\n\n")
}

var leadingTransitionWords = []string{"additionally", "furthermore", "however", "therefore", "moreover", "next", "finally"}

func hasLeadingTransition(p string) bool {
	lower := strings.ToLower(strings.TrimSpace(p))
	for _, w := range leadingTransitionWords {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func replaceCaseInsensitive(content, term, replacement string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	return re.ReplaceAllString(content, replacement)
}

func splitSentences(content string) []string {
	re := regexp.MustCompile(`[.!?]+(\s+|$)`)
	parts := re.Split(content, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func paramInt(params map[string]interface{}, key string, def int) int {
	if params == nil {
		return def
	}
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

func paramString(params map[string]interface{}, key, def string) string {
	if params == nil {
		return def
	}
	v, ok := params[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func estimateMaxTokens(content string) int {
	n := len(content) / 3
	if n < 512 {
		n = 512
	}
	if n > 4096 {
		n = 4096
	}
	return n
}
