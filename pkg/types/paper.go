// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper holds metadata and file paths for a research paper under discussion.
type Paper struct {
	// ID is a slug identifying the paper (e.g. "1706.03762" or "attention").
	ID string `json:"id" yaml:"id"`

	// SourceURL is the URL from which the paper was downloaded, if any.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// PDFPath is the local filesystem path to the PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Date is the publication or preprint date.
	Date time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	// Abstract is the paper abstract as reported by the source API.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// SamplePaper is one entry in the sample-papers manifest used by the
// offline cache generator.
type SamplePaper struct {
	// ID is the paper slug, which names the cache file (<id>.json).
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable paper title.
	Title string `json:"title" yaml:"title"`

	// File is the PDF path, relative to the papers directory.
	File string `json:"file" yaml:"file"`
}

// SamplePapersFile is the on-disk manifest listing papers to pre-generate
// demo-mode caches for.
type SamplePapersFile struct {
	Papers []SamplePaper `json:"papers" yaml:"papers"`
}
