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

// Readability optimizes structure: inserts a table-of-contents block
// once length/section thresholds are exceeded, splits overly long
// paragraphs, and optionally synthesizes an executive summary.
type Readability struct{}

func NewReadability() *Readability { return &Readability{} }

func (r *Readability) Kind() strategykind.Kind { return strategykind.Readability }

func (r *Readability) Analyze(content string) Analysis {
	sections := splitSections(content)
	paragraphs := paragraphBoundary.Split(content, -1)
	longParagraphs := 0
	for _, p := range paragraphs {
		if len(strings.Fields(p)) > 150 {
			longParagraphs++
		}
	}
	return Analysis{
		"word_count":      len(strings.Fields(content)),
		"section_count":   len(sections),
		"long_paragraphs": longParagraphs,
		"has_toc":         strings.Contains(strings.ToLower(content), "table of contents"),
	}
}

func (r *Readability) Enhance(ctx context.Context, content string, doc *document.Document, llmCap llm.Capability, cfg settings.StrategyConfig) (string, error) {
	tocWordThreshold := paramInt(cfg.Parameters, "toc_word_threshold", 1000)
	tocSectionThreshold := paramInt(cfg.Parameters, "toc_section_threshold", 4)
	maxParagraphWords := paramInt(cfg.Parameters, "max_paragraph_words", 150)
	synthesizeSummary := paramBool(cfg.Parameters, "synthesize_summary", false)

	out := splitLongParagraphs(content, maxParagraphWords)

	sections := splitSections(out)
	wordCount := len(strings.Fields(out))
	if wordCount >= tocWordThreshold && len(sections) >= tocSectionThreshold && !strings.Contains(strings.ToLower(out), "table of contents") {
		out = insertTableOfContents(out, sections)
	}

	if synthesizeSummary && llmCap != nil {
		prompt := fmt.Sprintf("Write a 2-3 sentence executive summary for the following document. Return only the summary text.\n\n%s", content)
		resp, err := llmCap.Generate(ctx, llm.Request{Prompt: prompt, Temperature: 0.3, MaxTokens: 256})
		if err == nil && strings.TrimSpace(resp.Content) != "" {
			out = "## Executive Summary\n\n" + strings.TrimSpace(resp.Content) + "\n\n" + out
		}
	}

	return out, nil
}

func insertTableOfContents(content string, sections []section) string {
	var toc strings.Builder
	toc.WriteString("## Table of Contents\n\n")
	for _, s := range sections {
		if s.title == "" {
			continue
		}
		toc.WriteString(fmt.Sprintf("- %s\n", s.title))
	}
	toc.WriteString("\n")
	return toc.String() + content
}

func splitLongParagraphs(content string, maxWords int) string {
	paragraphs := paragraphBoundary.Split(content, -1)
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) <= maxWords || strings.HasPrefix(strings.TrimSpace(p), "#") {
			out = append(out, p)
			continue
		}
		sentences := splitSentences(p)
		mid := len(sentences) / 2
		if mid == 0 {
			out = append(out, p)
			continue
		}
		out = append(out, strings.Join(sentences[:mid], ". ")+".")
		out = append(out, strings.Join(sentences[mid:], ". ")+".")
	}
	return strings.Join(out, "\n\n")
}

func paramBool(params map[string]interface{}, key string, def bool) bool {
	if params == nil {
		return def
	}
	v, ok := params[key]
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}
