package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperchat/internal/paper"
	"github.com/pdiddy/paperchat/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [pdf] [question]",
	Short: "Ask a single question about a paper",
	Long: `Ask answers one question about a paper. In live mode the question is
routed to a specialized responder (math, code, concept, or quiz) and answered
by the AI backend using text extracted from the PDF. In demo mode the answer
comes from the pre-computed cache; the PDF is not read.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("mode", "demo", "serving mode: demo or live")
	askCmd.Flags().String("type", types.QueryTypeExplain, "query type: explain (auto-route), math, code, concept, or quiz")
	askCmd.Flags().String("section", "", "paper section to focus on (abstract, introduction, methods, results, conclusion)")
	askCmd.Flags().String("paper-id", "", "paper ID for cache lookup (default: PDF filename)")
	askCmd.Flags().String("cache-dir", "", "directory of cached responses")
	askCmd.Flags().String("model", "", "AI model name")
	askCmd.Flags().String("api-key", "", "Google API key (overrides config and secrets)")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	pdfPath, question := args[0], args[1]

	mode, _ := cmd.Flags().GetString("mode")
	queryType, _ := cmd.Flags().GetString("type")
	section, _ := cmd.Flags().GetString("section")
	paperID, _ := cmd.Flags().GetString("paper-id")
	if paperID == "" {
		paperID = paperIDFromPath(pdfPath)
	}

	b, err := newBroker(cmd, types.Mode(mode))
	if err != nil {
		return err
	}

	// Demo mode answers from the cache alone; only live mode needs the
	// extracted text.
	var content string
	if types.Mode(mode) == types.ModeLive {
		p, err := newParser(pdfPath)
		if err != nil {
			return err
		}
		content, err = paperContent(p, section)
		if err != nil {
			return err
		}
	}

	result, err := b.ProcessQuery(cmd.Context(), paperID, queryType, section, question, content)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

// paperContent returns the section text when a section is named, the full
// text otherwise.
func paperContent(p *paper.Parser, section string) (string, error) {
	if section != "" {
		return p.Section(section)
	}
	return p.FullText()
}

func printResult(result types.Result) {
	if result.Agent != "" {
		fmt.Fprintf(os.Stderr, "[%s mode, %s agent: %s]\n", result.Mode, result.Agent, result.Reasoning)
	} else {
		fmt.Fprintf(os.Stderr, "[%s mode]\n", result.Mode)
	}
	fmt.Println(result.Response)
}
