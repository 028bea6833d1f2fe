package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperchat/internal/cache"
	"github.com/pdiddy/paperchat/internal/cachegen"
	"github.com/pdiddy/paperchat/internal/gemini"
	"github.com/pdiddy/paperchat/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the demo-mode response cache",
}

var cacheGenerateCmd = &cobra.Command{
	Use:   "generate [pdf]",
	Short: "Pre-compute demo responses for a paper",
	Long: `Generate runs every responder over each recognized section of the paper,
answers the common chat questions, and writes the results to one JSON file
per paper in the cache directory. This requires a configured API key; once
generated, the cache serves demo mode with no credentials.

With --samples, papers are read from a YAML manifest instead of the command
line and the pdf argument is omitted.`,
	RunE: runCacheGenerate,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached papers and their response keys",
	RunE:  runCacheList,
}

func init() {
	cacheGenerateCmd.Flags().String("paper-id", "", "paper ID naming the cache file (default: PDF filename)")
	cacheGenerateCmd.Flags().String("title", "", "paper title used in the general chat response")
	cacheGenerateCmd.Flags().String("samples", "", "YAML manifest of papers to generate caches for")
	cacheGenerateCmd.Flags().String("papers-dir", "data/papers", "base directory resolved against manifest file entries")
	cacheGenerateCmd.Flags().String("cache-dir", "", "directory of cached responses")
	cacheGenerateCmd.Flags().String("model", "", "AI model name")
	cacheGenerateCmd.Flags().String("api-key", "", "Google API key (overrides config and secrets)")

	cacheListCmd.Flags().String("cache-dir", "", "directory of cached responses")

	cacheCmd.AddCommand(cacheGenerateCmd)
	cacheCmd.AddCommand(cacheListCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheGenerate(cmd *cobra.Command, args []string) error {
	samplesPath, _ := cmd.Flags().GetString("samples")

	var papers []types.SamplePaper
	switch {
	case samplesPath != "":
		manifest, err := readSamples(samplesPath)
		if err != nil {
			return err
		}
		papersDir, _ := cmd.Flags().GetString("papers-dir")
		for _, p := range manifest.Papers {
			if !filepath.IsAbs(p.File) {
				p.File = filepath.Join(papersDir, p.File)
			}
			papers = append(papers, p)
		}
	case len(args) == 1:
		paperID, _ := cmd.Flags().GetString("paper-id")
		if paperID == "" {
			paperID = paperIDFromPath(args[0])
		}
		title, _ := cmd.Flags().GetString("title")
		papers = []types.SamplePaper{{ID: paperID, Title: title, File: args[0]}}
	default:
		return fmt.Errorf("provide a PDF path or --samples manifest")
	}

	backend, err := gemini.NewClient(aiConfig(cmd))
	if err != nil {
		return err
	}

	store, err := cache.Load(cacheDir(cmd))
	if err != nil {
		return err
	}

	var failed int
	for _, p := range papers {
		fmt.Printf("Generating cache for %s\n", p.ID)

		parser, err := newParser(p.File)
		if err != nil {
			return err
		}
		sections, err := parser.Sections()
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", p.ID, err)
			failed++
			continue
		}
		fullText, err := parser.FullText()
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", p.ID, err)
			failed++
			continue
		}

		responses, summary := cachegen.Generate(cmd.Context(), backend, sections, fullText, p.Title, os.Stdout)
		if err := store.Save(p.ID, responses); err != nil {
			return err
		}
		if summary.HasFailures() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d paper(s) had generation failures", failed)
	}
	return nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	store, err := cache.Load(cacheDir(cmd))
	if err != nil {
		return err
	}

	papers := store.Papers()
	if len(papers) == 0 {
		fmt.Println("No cached papers.")
		return nil
	}

	for _, id := range papers {
		keys := store.Keys(id)
		fmt.Printf("%s (%d responses)\n", id, len(keys))
		for _, k := range keys {
			fmt.Printf("  %s\n", k)
		}
	}
	return nil
}

func readSamples(path string) (*types.SamplePapersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading samples manifest: %w", err)
	}
	var manifest types.SamplePapersFile
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing samples manifest %s: %w", path, err)
	}
	return &manifest, nil
}
