package chunking

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mpetrun5/rag-docs/internal/config"
)

// section is one strategy-delimited slice of a document. Code sections are
// kept verbatim and never split or seeded with prose overlap.
type section struct {
	text string
	code bool
}

// Line-start patterns marking structural boundaries in reference-style docs:
// "Word:" field lines, "1." enumerations, and bare single-word lines.
var structureBoundaryRes = []*regexp.Regexp{
	regexp.MustCompile(`^\w+:`),
	regexp.MustCompile(`^\d+\.`),
	regexp.MustCompile(`^\w+\s*$`),
}

// Line-start patterns introducing a tutorial step or heading.
var stepBoundaryRes = []*regexp.Regexp{
	regexp.MustCompile(`^Step\s+\d+`),
	regexp.MustCompile(`^\d+\.\s`),
	regexp.MustCompile(`^\w+\s+\d+:`),
	regexp.MustCompile(`^#{1,2}\s`),
}

// ChunkText splits normalized text into overlapping passages using the
// strategy named by the policy. Passages below the minimum length are NOT
// filtered here; the caller applies that filter before assigning ordinals.
func ChunkText(text string, policy config.ChunkPolicy, codeBlocks []string) []string {
	switch policy.Strategy {
	case config.StrategyPreserveStructure:
		return assemble(splitBefore(text, structureBoundaryRes), policy.ChunkSize, policy.Overlap)
	case config.StrategySequentialSteps:
		// Double the overlap so procedural context carries across passages.
		return assemble(splitBefore(text, stepBoundaryRes), policy.ChunkSize, policy.Overlap*2)
	case config.StrategyPreserveCodeBlocks:
		return assemble(codeSections(text, codeBlocks), policy.ChunkSize, policy.Overlap)
	default:
		return assemble(topicSections(text), policy.ChunkSize, policy.Overlap)
	}
}

// assemble accumulates sections into passages bounded by chunkSize. When the
// buffer would overflow, it is emitted and the next buffer is seeded with an
// overlap tail of the emitted passage. A code section that would overflow
// starts its own buffer with no overlap seed.
func assemble(sections []section, chunkSize, overlapSize int) []string {
	var chunks []string
	current := ""

	for _, sec := range sections {
		text := strings.TrimSpace(sec.text)
		if text == "" {
			continue
		}

		overflow := len(current)+len(text) > chunkSize && current != ""
		switch {
		case overflow && sec.code:
			chunks = append(chunks, current)
			current = text
		case overflow:
			chunks = append(chunks, current)
			current = overlapTail(current, overlapSize) + "\n\n" + text
		case current == "":
			current = text
		default:
			current += "\n\n" + text
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

// overlapTail returns the trailing overlapSize characters of a completed
// passage. If a sentence terminator sits past the midpoint of that tail, the
// overlap starts at the terminator so it opens on a sentence boundary. A
// passage shorter than the overlap is returned whole.
func overlapTail(text string, overlapSize int) string {
	if len(text) <= overlapSize {
		return text
	}
	tail := text[len(text)-overlapSize:]
	if dot := strings.LastIndex(tail, "."); dot > overlapSize/2 {
		return text[len(text)-(overlapSize-dot):]
	}
	return tail
}

// topicSections splits on paragraph breaks. Default strategy.
func topicSections(text string) []section {
	paragraphs := strings.Split(text, "\n\n")
	sections := make([]section, 0, len(paragraphs))
	for _, p := range paragraphs {
		sections = append(sections, section{text: p})
	}
	return sections
}

// splitBefore cuts the text at every line that matches one of the boundary
// patterns, keeping the matching line at the head of the new section.
func splitBefore(text string, boundaries []*regexp.Regexp) []section {
	lines := strings.Split(text, "\n")
	var sections []section
	var current []string

	for _, line := range lines {
		if len(current) > 0 && matchesAny(strings.TrimSpace(line), boundaries) {
			sections = append(sections, section{text: strings.Join(current, "\n")})
			current = current[:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		sections = append(sections, section{text: strings.Join(current, "\n")})
	}
	return sections
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// codeSections alternates prose and verbatim code blocks. Code blocks are
// located in the (normalized) text; a block whose text no longer appears,
// for example because normalization rewrote its whitespace, is matched by
// its collapsed form instead, and dropped if still absent.
func codeSections(text string, codeBlocks []string) []section {
	type span struct {
		start, end int
		code       string
	}

	var spans []span
	for _, code := range codeBlocks {
		needle := code
		start := strings.Index(text, needle)
		if start < 0 {
			needle = strings.TrimSpace(whitespaceRe.ReplaceAllString(code, " "))
			start = strings.Index(text, needle)
		}
		if start < 0 || needle == "" {
			continue
		}
		spans = append(spans, span{start: start, end: start + len(needle), code: needle})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var sections []section
	lastEnd := 0
	for _, s := range spans {
		if s.start < lastEnd {
			continue // duplicate or overlapping block
		}
		if s.start > lastEnd {
			sections = append(sections, section{text: text[lastEnd:s.start]})
		}
		sections = append(sections, section{text: s.code, code: true})
		lastEnd = s.end
	}
	if lastEnd < len(text) {
		sections = append(sections, section{text: text[lastEnd:]})
	}
	return sections
}
