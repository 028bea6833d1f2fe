// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paper

import (
	"regexp"
	"strings"
)

// Section is one recognized region of a paper's text.
type Section struct {
	Name string
	Text string
}

// sectionSpec describes how to locate one section heading in extracted
// text and how much of it to keep. Caps keep prompt sizes bounded when
// extraction over-matches (references bleeding into conclusions and so
// on).
type sectionSpec struct {
	name    string
	pattern *regexp.Regexp
	maxLen  int
}

// Heading patterns accept optional numeric prefixes ("3. Methods") and
// terminate at the next recognizable heading. Terminators are part of
// the match but outside the capture group.
var sectionSpecs = []sectionSpec{
	{
		name:    "abstract",
		pattern: regexp.MustCompile(`(?is)abstract\s*\n(.*?)\n\s*(?:\d+\.?\s*)?(?:introduction|keywords|index terms)`),
		maxLen:  2000,
	},
	{
		name:    "introduction",
		pattern: regexp.MustCompile(`(?is)(?:\d+\.?\s*)?introduction\s*\n(.*?)\n\s*(?:\d+\.?\s*)?(?:related work|background|methodology|methods|approach|preliminaries)`),
		maxLen:  3000,
	},
	{
		name:    "methods",
		pattern: regexp.MustCompile(`(?is)(?:\d+\.?\s*)?(?:methodology|methods|approach|proposed method)\s*\n(.*?)\n\s*(?:\d+\.?\s*)?(?:results|experiments|evaluation|discussion)`),
		maxLen:  4000,
	},
	{
		name:    "results",
		pattern: regexp.MustCompile(`(?is)(?:\d+\.?\s*)?(?:results|experiments|evaluation)\s*\n(.*?)\n\s*(?:\d+\.?\s*)?(?:discussion|conclusion|conclusions|limitations|related work)`),
		maxLen:  3000,
	},
	{
		name:    "conclusion",
		pattern: regexp.MustCompile(`(?is)(?:\d+\.?\s*)?(?:conclusion|conclusions|concluding remarks)\s*\n(.*?)(?:\n\s*(?:references?|acknowledge?ments?|bibliography)\b|\z)`),
		maxLen:  2000,
	},
}

// fallbackContentLen bounds the "content" pseudo-section used when no
// headings match at all.
const fallbackContentLen = 5000

// extractSections scans the full text for the known section headings and
// returns the sections found, in table order. When nothing matches, it
// returns a single "content" section holding the head of the document so
// downstream prompts always have material to work with.
func extractSections(fullText string) []Section {
	var sections []Section
	for _, spec := range sectionSpecs {
		m := spec.pattern.FindStringSubmatch(fullText)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[1])
		if text == "" {
			continue
		}
		if len(text) > spec.maxLen {
			text = text[:spec.maxLen]
		}
		sections = append(sections, Section{Name: spec.name, Text: text})
	}

	if len(sections) == 0 {
		head := strings.TrimSpace(fullText)
		if len(head) > fallbackContentLen {
			head = head[:fallbackContentLen]
		}
		if head != "" {
			sections = append(sections, Section{Name: "content", Text: head})
		}
	}

	return sections
}
