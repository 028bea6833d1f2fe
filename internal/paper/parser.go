// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paper extracts text and named sections from research paper PDFs.
// Extraction is lazy: nothing touches the PDF until the first call that
// needs text, and the result is cached for the life of the Parser.
package paper

import (
	"fmt"
	"strings"
)

// Parser holds one paper's extracted text and sections.
type Parser struct {
	pdfPath   string
	converter Converter

	extracted bool
	fullText  string
	sections  []Section
}

// Match is one search hit with surrounding context.
type Match struct {
	// Offset is the byte position of the hit in the full text.
	Offset int
	// Context is the text around the hit.
	Context string
}

// NewParser creates a parser for the PDF at pdfPath using the given
// converter. The PDF is not read until text is first requested.
func NewParser(pdfPath string, converter Converter) *Parser {
	return &Parser{pdfPath: pdfPath, converter: converter}
}

// ensureExtracted runs text extraction once. Subsequent calls are no-ops.
func (p *Parser) ensureExtracted() error {
	if p.extracted {
		return nil
	}

	text, err := p.converter.Convert(p.pdfPath)
	if err != nil {
		return err
	}

	p.fullText = text
	p.sections = extractSections(text)
	p.extracted = true
	return nil
}

// FullText returns the paper's complete extracted text.
func (p *Parser) FullText() (string, error) {
	if err := p.ensureExtracted(); err != nil {
		return "", err
	}
	return p.fullText, nil
}

// Sections returns the recognized sections in document order.
func (p *Parser) Sections() ([]Section, error) {
	if err := p.ensureExtracted(); err != nil {
		return nil, err
	}
	return p.sections, nil
}

// Section returns the text of the named section. Names are matched
// case-insensitively.
func (p *Parser) Section(name string) (string, error) {
	if err := p.ensureExtracted(); err != nil {
		return "", err
	}
	for _, s := range p.sections {
		if strings.EqualFold(s.Name, name) {
			return s.Text, nil
		}
	}
	return "", fmt.Errorf("section %q not found in %s", name, p.pdfPath)
}

// Search finds case-insensitive occurrences of query in the full text and
// returns each with contextChars of surrounding text.
func (p *Parser) Search(query string, contextChars int) ([]Match, error) {
	if err := p.ensureExtracted(); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, nil
	}

	lowerText := strings.ToLower(p.fullText)
	lowerQuery := strings.ToLower(query)

	var matches []Match
	offset := 0
	for {
		i := strings.Index(lowerText[offset:], lowerQuery)
		if i < 0 {
			break
		}
		pos := offset + i

		start := pos - contextChars
		if start < 0 {
			start = 0
		}
		end := pos + len(query) + contextChars
		if end > len(p.fullText) {
			end = len(p.fullText)
		}

		matches = append(matches, Match{
			Offset:  pos,
			Context: p.fullText[start:end],
		})
		offset = pos + len(lowerQuery)
	}

	return matches, nil
}
