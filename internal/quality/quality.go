// Package quality implements C2: a pure, deterministic function from
// document content to a QualityMetrics value, driving both loop
// termination (internal/pipeline) and reporting (internal/report).
package quality

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Metrics is the full quality assessment of a piece of content.
//
// Invariant: Overall = 0.25*Clarity + 0.20*Completeness +
// 0.15*Consistency + 0.20*Accuracy + 0.20*Readability, clamped to [0,1].
type Metrics struct {
	Overall      float64 `json:"overall"`
	Clarity      float64 `json:"clarity"`
	Completeness float64 `json:"completeness"`
	Consistency  float64 `json:"consistency"`
	Accuracy     float64 `json:"accuracy"`
	Readability  float64 `json:"readability"`

	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	ParagraphCount    int     `json:"paragraph_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	ReadingGradeLevel float64 `json:"reading_grade_level"`

	HasIntroduction       bool `json:"has_introduction"`
	HasConclusion         bool `json:"has_conclusion"`
	HasTableOfContents    bool `json:"has_table_of_contents"`
	SectionCount          int  `json:"section_count"`

	JargonRatio       float64 `json:"jargon_ratio"`
	PassiveVoiceRatio float64 `json:"passive_voice_ratio"`
	ComplexityScore   float64 `json:"complexity_score"`

	MeasuredAt    time.Time `json:"measured_at"`
	MeasurementID string    `json:"measurement_id"`
}

const (
	weightClarity      = 0.25
	weightCompleteness = 0.20
	weightConsistency  = 0.15
	weightAccuracy     = 0.20
	weightReadability  = 0.20
)

var (
	sentenceSplit  = regexp.MustCompile(`[.!?]+(\s+|$)`)
	headingPattern = regexp.MustCompile(`(?m)^#{1,6}\s+.+$`)
	wordPattern    = regexp.MustCompile(`\S+`)
	longParenSpan  = regexp.MustCompile(`\([^)]{40,}\)`)

	introWords      = []string{"introduction", "overview", "getting started"}
	conclusionWords = []string{"conclusion", "summary", "wrapping up", "final thoughts"}
	exampleMarkers  = []string{"for example", "e.g.", "for instance", "```"}
	discourseWords  = []string{"however", "therefore", "furthermore", "moreover", "consequently"}

	mixedCaseAcronyms = []string{"Api", "Url", "Http", "Json", "Xml", "API ", "Api ", "api "}
	acronyms          = []string{"API", "URL", "HTTP", "JSON", "XML"}

	uncertaintyHedges = []string{"might", "maybe", "perhaps", "possibly", "could be", "it seems"}
	unsourcedMarkers  = []string{"studies show", "experts say", "it is well known", "research indicates"}

	passiveVoicePattern = regexp.MustCompile(`(?i)\b(is|are|was|were|be|been|being)\s+\w+ed\b`)
)

// Score computes a deterministic QualityMetrics for content. It is a
// pure function: identical content always yields an identical result
// (up to MeasuredAt/MeasurementID, which are observational metadata
// and do not feed into the score).
func Score(content string) Metrics {
	if strings.TrimSpace(content) == "" {
		return emptyMetrics()
	}

	words := wordPattern.FindAllString(content, -1)
	sentences := splitSentences(content)
	paragraphs := splitParagraphs(content)

	wordCount := len(words)
	sentenceCount := len(sentences)
	avgSentenceLen := 0.0
	if sentenceCount > 0 {
		avgSentenceLen = float64(wordCount) / float64(sentenceCount)
	}

	gradeLevel := readingGradeLevel(wordCount, sentenceCount, countSyllablesTotal(words))
	sectionCount := len(headingPattern.FindAllString(content, -1))
	hasIntro := containsAny(strings.ToLower(content), introWords)
	hasConclusion := containsAny(strings.ToLower(content), conclusionWords)
	hasToC := strings.Contains(strings.ToLower(content), "table of contents")
	jargonRatio := jargonRatio(words)
	passiveRatio := passiveVoiceRatio(sentences)
	complexity := complexityScore(sentences)

	m := Metrics{
		WordCount:          wordCount,
		SentenceCount:      sentenceCount,
		ParagraphCount:     len(paragraphs),
		AvgSentenceLength:  avgSentenceLen,
		ReadingGradeLevel:  gradeLevel,
		HasIntroduction:    hasIntro,
		HasConclusion:      hasConclusion,
		HasTableOfContents: hasToC,
		SectionCount:       sectionCount,
		JargonRatio:        jargonRatio,
		PassiveVoiceRatio:  passiveRatio,
		ComplexityScore:    complexity,
		MeasuredAt:         time.Now(),
		MeasurementID:      uuid.NewString(),
	}

	m.Clarity = clarity(avgSentenceLen, complexity)
	m.Completeness = completeness(hasIntro, hasConclusion, sectionCount, wordCount, content)
	m.Consistency = consistency(content)
	m.Accuracy = accuracy(content)
	m.Readability = readability(gradeLevel, avgSentenceLen)

	m.Overall = clamp01(
		weightClarity*m.Clarity +
			weightCompleteness*m.Completeness +
			weightConsistency*m.Consistency +
			weightAccuracy*m.Accuracy +
			weightReadability*m.Readability,
	)

	return m
}

// emptyMetrics is the fixed score for blank (or whitespace-only)
// content: there is nothing to be clear, complete, consistent,
// accurate, or readable about, so every sub-score and the overall
// land at a uniform 0.4, inside the documented [0.3, 0.5] band rather
// than at the default-high values the individual heuristics would
// otherwise produce for an empty string.
func emptyMetrics() Metrics {
	const baseline = 0.4
	return Metrics{
		Overall:       baseline,
		Clarity:       baseline,
		Completeness:  baseline,
		Consistency:   baseline,
		Accuracy:      baseline,
		Readability:   baseline,
		MeasuredAt:    time.Now(),
		MeasurementID: uuid.NewString(),
	}
}

func clarity(avgSentenceLen, complexity float64) float64 {
	score := 1.0
	if avgSentenceLen > 25 {
		score -= 0.2
	} else if avgSentenceLen > 20 {
		score -= 0.1
	}
	if complexity > 0.3 {
		score -= 0.15
	}
	return clampFloor(score, 0.3)
}

func completeness(hasIntro, hasConclusion bool, sectionCount, wordCount int, content string) float64 {
	score := 0.5
	if hasIntro {
		score += 0.15
	}
	if hasConclusion {
		score += 0.15
	}
	expectedSections := float64(wordCount) / 500.0
	switch {
	case float64(sectionCount) >= expectedSections && expectedSections > 0:
		score += 0.2
	case float64(sectionCount) >= expectedSections/2:
		score += 0.1
	}
	if containsAny(strings.ToLower(content), exampleMarkers) {
		score += 0.1
	}
	return clampCeil(score, 1.0)
}

func consistency(content string) float64 {
	score := 1.0
	for _, a := range acronyms {
		if hasMixedCase(content, a) {
			score -= 0.05
		}
	}
	hasDouble := strings.Contains(content, "**")
	hasUnderscoreEmphasis := strings.Contains(content, "__")
	if hasDouble && hasUnderscoreEmphasis {
		score -= 0.1
	}
	return clampFloor(score, 0.4)
}

func accuracy(content string) float64 {
	score := 0.8
	lower := strings.ToLower(content)

	hedgeCount := 0
	for _, h := range uncertaintyHedges {
		hedgeCount += strings.Count(lower, h)
	}
	if hedgeCount > 2 {
		penalty := 0.05 * float64(hedgeCount-2)
		if penalty > 0.15 {
			penalty = 0.15
		}
		score -= penalty
	}

	unsourcedCount := 0
	for _, u := range unsourcedMarkers {
		unsourcedCount += strings.Count(lower, u)
	}
	if unsourcedCount > 0 {
		penalty := 0.05 * float64(unsourcedCount)
		if penalty > 0.2 {
			penalty = 0.2
		}
		score -= penalty
	}

	return clampFloor(score, 0.3)
}

func readability(gradeLevel, avgSentenceLen float64) float64 {
	score := 1.0

	var gradeFactor float64
	switch {
	case gradeLevel >= 8 && gradeLevel <= 12:
		gradeFactor = 1.0
	case gradeLevel < 6:
		gradeFactor = 0.7
	case gradeLevel > 15:
		gradeFactor = 0.6
	default:
		gradeFactor = 0.85
	}

	var lengthFactor float64
	if avgSentenceLen >= 15 && avgSentenceLen <= 20 {
		lengthFactor = 1.0
	} else {
		lengthFactor = 0.85
	}

	return clamp01(score * gradeFactor * lengthFactor)
}

// readingGradeLevel approximates the Flesch-Kincaid grade level.
func readingGradeLevel(words, sentences, syllables int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	wordsPerSentence := float64(words) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(words)
	grade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59
	if grade < 0 {
		grade = 0
	}
	return grade
}

func countSyllablesTotal(words []string) int {
	total := 0
	for _, w := range words {
		total += countSyllables(w)
	}
	return total
}

var vowelRun = regexp.MustCompile(`[aeiouyAEIOUY]+`)

func countSyllables(word string) int {
	word = strings.Trim(word, ".,;:!?\"'()[]{}")
	if word == "" {
		return 0
	}
	matches := vowelRun.FindAllString(word, -1)
	count := len(matches)
	if strings.HasSuffix(strings.ToLower(word), "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func jargonRatio(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	long := 0
	for _, w := range words {
		if len(w) > 12 {
			long++
		}
	}
	return float64(long) / float64(len(words))
}

func passiveVoiceRatio(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0
	}
	passive := 0
	for _, s := range sentences {
		if passiveVoicePattern.MatchString(s) {
			passive++
		}
	}
	return float64(passive) / float64(len(sentences))
}

// complexityScore is the ratio of "complex-marker" sentences
// (semicolons, long parenthesised spans, discourse connectives) to
// total sentences, per §4.2.
func complexityScore(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0
	}
	complex := 0
	for _, s := range sentences {
		lower := strings.ToLower(s)
		if strings.Contains(s, ";") || longParenSpan.MatchString(s) || containsAny(lower, discourseWords) {
			complex++
		}
	}
	return float64(complex) / float64(len(sentences))
}

func splitSentences(content string) []string {
	parts := sentenceSplit.Split(content, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitParagraphs(content string) []string {
	parts := strings.Split(content, "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func hasMixedCase(content, acronym string) bool {
	upper := acronym
	lower := strings.ToLower(acronym)
	title := strings.ToUpper(acronym[:1]) + strings.ToLower(acronym[1:])
	return strings.Contains(content, lower) || (strings.Contains(content, title) && strings.Contains(content, upper))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampFloor(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	return clamp01(v)
}

func clampCeil(v, ceil float64) float64 {
	if v > ceil {
		return ceil
	}
	if v < 0 {
		return 0
	}
	return v
}
