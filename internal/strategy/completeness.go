package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/docenhance/pipeline/internal/document"
	"github.com/docenhance/pipeline/internal/llm"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/docenhance/pipeline/internal/strategykind"
)

// Completeness fills structural gaps: missing introduction/conclusion
// sections, short sections that need expanding, and a lack of examples.
type Completeness struct{}

func NewCompleteness() *Completeness { return &Completeness{} }

func (c *Completeness) Kind() strategykind.Kind { return strategykind.Completeness }

func (c *Completeness) Analyze(content string) Analysis {
	sections := splitSections(content)
	short := 0
	for _, s := range sections {
		if len(strings.Fields(s.body)) < 50 {
			short++
		}
	}
	return Analysis{
		"section_count":    len(sections),
		"short_sections":   short,
		"has_introduction": hasSectionTitled(sections, "introduction", "overview"),
		"has_conclusion":   hasSectionTitled(sections, "conclusion", "summary"),
	}
}

func (c *Completeness) Enhance(ctx context.Context, content string, doc *document.Document, llmCap llm.Capability, cfg settings.StrategyConfig) (string, error) {
	minSectionLen := paramInt(cfg.Parameters, "min_section_length", 50)
	sections := splitSections(content)

	if llmCap != nil {
		prompt := fmt.Sprintf(
			"Improve completeness of the following document: add a short introduction section if one is missing, add a conclusion/summary section if one is missing, expand any section under %d words with a concrete example, and add illustrative examples where useful. Preserve existing structure and facts.\n\n%s",
			minSectionLen, content,
		)
		resp, err := llmCap.Generate(ctx, llm.Request{Prompt: prompt, Temperature: 0.4, MaxTokens: estimateMaxTokens(content)})
		if err == nil && strings.TrimSpace(resp.Content) != "" {
			return resp.Content, nil
		}
	}

	out := content
	if !hasSectionTitled(sections, "introduction", "overview") {
		out = "## Introduction\n\nThis document covers the following topics.\n\n" + out
	}
	if !hasSectionTitled(sections, "conclusion", "summary") {
		out = strings.TrimRight(out, "\n") + "\n\n## Conclusion\n\nThis concludes the document.\n"
	}
	return out, nil
}

type section struct {
	title string
	body  string
}

func splitSections(content string) []section {
	lines := strings.Split(content, "\n")
	var out []section
	var cur section
	started := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			if started {
				out = append(out, cur)
			}
			cur = section{title: strings.TrimLeft(strings.TrimSpace(line), "# ")}
			started = true
			continue
		}
		cur.body += line + "\n"
	}
	if started {
		out = append(out, cur)
	}
	if len(out) == 0 {
		out = append(out, section{title: "", body: content})
	}
	return out
}

func hasSectionTitled(sections []section, names ...string) bool {
	for _, s := range sections {
		lower := strings.ToLower(s.title)
		for _, n := range names {
			if strings.Contains(lower, n) {
				return true
			}
		}
	}
	return false
}
