// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads paper PDFs from arXiv and records their
// metadata so the rest of the tool can work offline from local files.
package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperchat/internal/httputil"
	"github.com/pdiddy/paperchat/pkg/types"
)

const (
	rawDir      = "raw"
	metadataDir = "metadata"
)

// Base URLs declared as vars so tests can substitute httptest servers.
var (
	arxivPDFBase = "https://arxiv.org/pdf/"
	arxivAPIBase = "https://export.arxiv.org/api/query"
)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// ParseID normalizes an arXiv identifier, stripping the optional
// "arXiv:" prefix. It returns an error for anything that is not an
// arXiv ID.
func ParseID(identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	m := arxivPattern.FindStringSubmatch(identifier)
	if m == nil {
		return "", fmt.Errorf("unrecognized arXiv identifier: %q", identifier)
	}
	return m[1], nil
}

// Fetch downloads the PDF for an arXiv identifier into
// <papersDir>/raw/<id>.pdf and writes a YAML metadata record next to it.
// If the PDF already exists the download is skipped. The skipped return
// reports whether that happened.
func Fetch(ctx context.Context, client *http.Client, identifier string, cfg types.FetchConfig, w io.Writer) (paper *types.Paper, skipped bool, err error) {
	id, err := ParseID(identifier)
	if err != nil {
		return nil, false, err
	}

	pdfPath := filepath.Join(cfg.PapersDir, rawDir, id+".pdf")
	metaPath := filepath.Join(cfg.PapersDir, metadataDir, id+".yaml")

	if _, err := os.Stat(pdfPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", id)
		p, readErr := readMetadata(metaPath)
		if readErr != nil {
			p = &types.Paper{ID: id, PDFPath: pdfPath}
		}
		return p, true, nil
	}

	for _, dir := range []string{
		filepath.Join(cfg.PapersDir, rawDir),
		filepath.Join(cfg.PapersDir, metadataDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	pdfURL := arxivPDFBase + id
	fmt.Fprintf(w, "downloading: %s\n", id)

	if err := downloadFile(ctx, client, pdfURL, pdfPath, cfg); err != nil {
		return nil, false, fmt.Errorf("downloading %s: %w", id, err)
	}

	p := &types.Paper{
		ID:        id,
		SourceURL: pdfURL,
		PDFPath:   pdfPath,
	}

	if err := fetchMetadata(ctx, client, id, p, cfg); err != nil {
		fmt.Fprintf(w, "  warning: arXiv metadata fetch failed: %v\n", err)
	}

	if err := writeMetadata(p, metaPath); err != nil {
		return nil, false, fmt.Errorf("writing metadata for %s: %w", id, err)
	}

	return p, false, nil
}

// downloadFile fetches url to destPath using a temporary file so a
// partial download never leaves a truncated PDF behind.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// fetchMetadata retrieves title, authors, abstract, and date from the
// arXiv API. Failures are reported to the caller but are not fatal; a
// paper with no metadata still works.
func fetchMetadata(ctx context.Context, client *http.Client, arxivID string, paper *types.Paper, cfg types.FetchConfig) error {
	apiURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, arxivID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return fmt.Errorf("parsing arXiv response: %w", err)
	}

	if len(feed.Entries) == 0 {
		return fmt.Errorf("no entries found for arXiv ID %s", arxivID)
	}

	entry := feed.Entries[0]
	paper.Title = strings.TrimSpace(entry.Title)
	paper.Abstract = strings.TrimSpace(entry.Summary)

	for _, a := range entry.Authors {
		paper.Authors = append(paper.Authors, strings.TrimSpace(a.Name))
	}

	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		paper.Date = t
	}
	return nil
}

func writeMetadata(paper *types.Paper, path string) error {
	data, err := yaml.Marshal(paper)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func readMetadata(path string) (*types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var paper types.Paper
	if err := yaml.Unmarshal(data, &paper); err != nil {
		return nil, err
	}
	return &paper, nil
}
