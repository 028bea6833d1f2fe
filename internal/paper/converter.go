// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paper

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

const pdftotextBinary = "pdftotext"

// Converter extracts plain text from a PDF file. Different backends
// (pdftotext, OCR pipelines) implement this interface.
type Converter interface {
	// Convert reads a PDF at pdfPath and returns its plain text.
	Convert(pdfPath string) (string, error)
}

// PdftotextConverter extracts text by invoking the poppler pdftotext
// binary, writing to stdout. It requires pdftotext on PATH.
type PdftotextConverter struct {
	binary string
}

// NewPdftotextConverter verifies that pdftotext is installed and returns
// a converter that uses it.
func NewPdftotextConverter() (*PdftotextConverter, error) {
	path, err := exec.LookPath(pdftotextBinary)
	if err != nil {
		return nil, fmt.Errorf("pdftotext not found on PATH (install poppler-utils): %w", err)
	}
	return &PdftotextConverter{binary: path}, nil
}

// Convert runs pdftotext on pdfPath and returns the extracted text.
func (p *PdftotextConverter) Convert(pdfPath string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := exec.Command(p.binary, "-enc", "UTF-8", pdfPath, "-")
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("extracting text from %s: %w (%s)", pdfPath, err, strings.TrimSpace(errOut.String()))
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("pdftotext produced empty output for %s", pdfPath)
	}

	return out.String(), nil
}
